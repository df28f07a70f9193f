package main

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Receipt acknowledges a simulated form submission.
type Receipt struct {
	ID          string    `json:"id"`
	Notice      string    `json:"notice"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// submitter stands in for a downstream CRM: it waits a fixed delay and
// acknowledges. Nothing is stored.
type submitter struct {
	delay time.Duration
}

// Submit returns ctx.Err() if the caller gives up before the delay ends.
func (s *submitter) Submit(ctx context.Context, notice string) (Receipt, error) {
	t := time.NewTimer(s.delay)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return Receipt{}, ctx.Err()
	case <-t.C:
	}
	return Receipt{ID: uuid.NewString(), Notice: notice, SubmittedAt: time.Now().UTC()}, nil
}
