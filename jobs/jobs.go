package jobs

import (
	"context"
	"time"
)

// Report bir iş çalışmasının özeti.
type Report struct {
	Job       string
	StartedAt time.Time
	Duration  time.Duration
	Scanned   int
	Created   int
	Skipped   int
	Deleted   int64
	Failed    int
}

// Job zamanlayıcının çalıştırabildiği periyodik iş.
type Job interface {
	Name() string
	Run(ctx context.Context) (Report, error)
}
