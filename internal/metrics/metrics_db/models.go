package metricsdb

import (
	"time"
)

type PlanGenerationMetric struct {
	ID                  int64
	UserID              string
	Outcome             string
	LatencyMs           int64
	TemplatesConsidered int64
	Warnings            int64
	Timestamp           time.Time
}
