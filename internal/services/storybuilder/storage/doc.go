// Package storage declares persistence contracts for story builder cards.
//
// Structural (MICE) cards carry a caller-supplied nesting level. Cycle
// (Try/Fail) cards carry a dense 1-based order maintained by the store on
// every insert and move.
package storage
