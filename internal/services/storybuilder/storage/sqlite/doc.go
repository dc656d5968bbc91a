// Package sqlite implements story builder card persistence on SQLite.
//
// Every cycle card reorder runs inside one immediate write transaction so
// concurrent inserts and moves on a story serialize at the database.
package sqlite
