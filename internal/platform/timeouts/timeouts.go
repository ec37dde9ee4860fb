// Package timeouts defines the durations shared by jgram commands.
package timeouts

import "time"

// Batch caps one run of a task over a document directory when no timeout
// is configured.
const Batch = 10 * time.Minute

// TelemetryShutdown limits how long pending spans are flushed on exit.
const TelemetryShutdown = 5 * time.Second
