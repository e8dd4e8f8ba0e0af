// Package progress publishes solve-job progress updates. The service
// publishes to a Redis stream per job so API consumers can follow long
// solves live; the CLI logs stages instead, and library callers that do
// not care pass the no-op publisher.
package progress

import (
	"context"

	"github.com/charmbracelet/log"
)

// Stage fractions reported over the lifetime of a solve job.
const (
	StageValidated = 0.1
	StageModeled   = 0.2
	StageSeeded    = 0.3
	StageSolved    = 0.5
	StageRefined   = 0.8
	StageDone      = 1.0
)

// Publisher receives progress updates for one job.
type Publisher interface {
	// Publish reports the current completion fraction in [0, 1] with a
	// short human-readable stage message. Failures to publish are
	// swallowed by implementations: progress is advisory and must never
	// fail a solve.
	Publish(ctx context.Context, fraction float64, message string)
}

// Nop discards all updates.
type Nop struct{}

// Publish implements Publisher.
func (Nop) Publish(context.Context, float64, string) {}

// Log writes updates to a logger, for CLI runs.
type Log struct {
	Logger *log.Logger
}

// NewLog creates a logging publisher.
func NewLog(logger *log.Logger) *Log {
	if logger == nil {
		logger = log.Default()
	}
	return &Log{Logger: logger}
}

// Publish implements Publisher.
func (l *Log) Publish(ctx context.Context, fraction float64, message string) {
	l.Logger.Info(message, "progress", fraction)
}
