package domain

import "time"

// OfferSnapshot is the materialized offer feed for one product as captured by the upstream fetcher.
type OfferSnapshot struct {
	ProductID  string
	Offers     []Offer
	CapturedAt time.Time
}

// DecisionAudit is the persisted record of one engine invocation for one product.
type DecisionAudit struct {
	ID         string
	RunID      string
	ProductID  string
	SlowRun    bool
	Decisions  []Decision
	Failure    string
	RecordedAt time.Time
}

// ProductRunStatus summarises the outcome of one product in a run.
type ProductRunStatus string

const (
	ProductRunSucceeded ProductRunStatus = "succeeded"
	ProductRunFailed    ProductRunStatus = "failed"
)

// ProductRunResult is one product's entry in a batch run.
type ProductRunResult struct {
	ProductID string
	Status    ProductRunStatus
	Decisions []Decision
	Published int
	Error     string
}

// BatchRun summarises a scheduled or operator-triggered run over many products.
type BatchRun struct {
	RunID      string
	SlowRun    bool
	StartedAt  time.Time
	FinishedAt time.Time
	Products   []ProductRunResult
}

// Failed counts products whose computation was aborted.
func (r BatchRun) Failed() int {
	count := 0
	for _, product := range r.Products {
		if product.Status == ProductRunFailed {
			count++
		}
	}
	return count
}
