// Package timeouts defines shared timeout constants used by the story builder
// server and its background workers.
package timeouts

import "time"

// ReadHeader limits how long an HTTP server waits for request headers.
const ReadHeader = 5 * time.Second

// Shutdown limits how long an HTTP server waits for in-flight requests
// during graceful shutdown.
const Shutdown = 5 * time.Second

// IconDrain limits how long shutdown waits for in-flight icon jobs.
const IconDrain = 30 * time.Second

// ImageGeneration caps a single call to an image generation backend.
const ImageGeneration = 2 * time.Minute

// IconPoll is the client refresh cadence for icon slots that are still
// generating.
const IconPoll = 2 * time.Second
