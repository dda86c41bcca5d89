package tasks

import (
	"github.com/lysyi3m/mention-comb/app/poller"
)

// TaskSchedulerInterface defines the interface for task scheduling
// operations. Used by the main application and the HTTP API to manage
// background polling.
// Example usage:
//
//	scheduler := NewScheduler(mentionPoller)
//	scheduler.Start()
//	defer scheduler.Stop()
//	scheduler.TriggerPoll()
type TaskSchedulerInterface interface {
	Start()
	Stop()
	EnqueueTask(task TaskInterface) error
	TriggerPoll() error
	LastOutcome() (poller.Outcome, bool)
}
