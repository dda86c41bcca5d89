package tasks

import (
	"context"
	"log/slog"

	"github.com/lysyi3m/mention-comb/app/poller"
)

// PassRunner runs one mention-processing pass to completion.
type PassRunner interface {
	Run(ctx context.Context) poller.Outcome
}

// PollMentionsTask executes one pass and records its outcome. The pass has
// its own backoff policy and reports throttling as a clean skipped outcome,
// so the task never retries.
type PollMentionsTask struct {
	Task
	runner PassRunner
	record func(poller.Outcome)
}

func NewPollMentionsTask(runner PassRunner, record func(poller.Outcome)) *PollMentionsTask {
	return &PollMentionsTask{
		Task:   NewTask(TaskTypePollMentions, 0),
		runner: runner,
		record: record,
	}
}

func (t *PollMentionsTask) Execute(ctx context.Context) error {

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	outcome := t.runner.Run(ctx)
	if t.record != nil {
		t.record(outcome)
	}

	slog.Info("Task completed",
		"type", "PollMentions",
		"duration", t.GetDuration(),
		"status", outcome.Status,
		"replied", outcome.Replied,
		"skipped", outcome.Skipped)

	return nil
}
