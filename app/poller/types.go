package poller

import (
	"time"

	"github.com/lysyi3m/mention-comb/app/twitter"
)

const (
	StatusOK    = "ok"
	StatusError = "error"
)

// Outcome is the structured result of one pass. Skipped marks passes that
// stopped early because of throttling or low remaining quota; Remaining and
// Reset carry the quota diagnostics reported by the feed API.
type Outcome struct {
	Status    string    `json:"status"`
	Replied   int       `json:"replied"`
	Skipped   bool      `json:"skipped,omitempty"`
	Remaining int       `json:"remaining,omitempty"`
	Reset     time.Time `json:"reset,omitzero"`
	Message   string    `json:"message,omitempty"`
}

func skippedOutcome(rateLimit twitter.RateLimit) Outcome {
	return Outcome{
		Status:    StatusOK,
		Skipped:   true,
		Remaining: rateLimit.Remaining,
		Reset:     rateLimit.Reset,
	}
}
