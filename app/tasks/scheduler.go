package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/lysyi3m/mention-comb/app/cfg"
	"github.com/lysyi3m/mention-comb/app/poller"
)

var _ TaskSchedulerInterface = (*Scheduler)(nil)

// Scheduler enqueues a poll pass at a fixed interval and runs tasks on a
// single worker. One worker is a correctness requirement, not a tuning
// default: the state store assumes passes never overlap.
type Scheduler struct {
	runner      PassRunner
	interval    time.Duration
	ctx         context.Context
	cancel      context.CancelFunc
	wg          sync.WaitGroup
	taskQueue   chan TaskInterface
	outcomeMu   sync.RWMutex
	lastOutcome *poller.Outcome
}

func NewScheduler(runner PassRunner) TaskSchedulerInterface {
	ctx, cancel := context.WithCancel(context.Background())
	c := cfg.Get()

	return &Scheduler{
		runner:    runner,
		interval:  time.Duration(c.PollInterval) * time.Second,
		ctx:       ctx,
		cancel:    cancel,
		taskQueue: make(chan TaskInterface, 10),
	}
}

func (s *Scheduler) Start() {
	s.wg.Add(1)
	go s.worker()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		if err := s.TriggerPoll(); err != nil {
			slog.Warn("Failed to enqueue startup poll", "error", err)
		}

		for {
			select {
			case <-s.ctx.Done():
				return
			case <-ticker.C:
				if err := s.TriggerPoll(); err != nil {
					slog.Warn("Failed to enqueue poll", "error", err)
				}
			}
		}
	}()
}

func (s *Scheduler) Stop() {
	s.cancel()
	s.wg.Wait()
	close(s.taskQueue)
}

func (s *Scheduler) EnqueueTask(task TaskInterface) error {
	select {
	case s.taskQueue <- task:
		return nil
	case <-s.ctx.Done():
		return s.ctx.Err()
	default:
		return fmt.Errorf("task queue is full")
	}
}

// TriggerPoll enqueues an immediate pass. A full queue is reported, not
// waited on; a pass is already pending in that case.
func (s *Scheduler) TriggerPoll() error {
	task := NewPollMentionsTask(s.runner, s.recordOutcome)
	return s.EnqueueTask(task)
}

// LastOutcome returns the most recent pass outcome, if any pass has run.
func (s *Scheduler) LastOutcome() (poller.Outcome, bool) {
	s.outcomeMu.RLock()
	defer s.outcomeMu.RUnlock()

	if s.lastOutcome == nil {
		return poller.Outcome{}, false
	}
	return *s.lastOutcome, true
}

func (s *Scheduler) recordOutcome(outcome poller.Outcome) {
	s.outcomeMu.Lock()
	defer s.outcomeMu.Unlock()
	s.lastOutcome = &outcome
}

func (s *Scheduler) worker() {
	defer s.wg.Done()

	for {
		select {
		case task, ok := <-s.taskQueue:
			if !ok {
				return
			}
			s.executeTask(task)

		case <-s.ctx.Done():
			return
		}
	}
}

func (s *Scheduler) executeTask(task TaskInterface) {
	task.Start()

	taskCtx, cancel := context.WithTimeout(s.ctx, 30*time.Minute)
	defer cancel()

	err := task.Execute(taskCtx)

	if err != nil {
		slog.Error("Task execution failed", "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "error", err)

		if task.CanRetry() {
			task.IncrementRetryCount()
			retryDelay := time.Duration(1<<uint(task.GetRetryCount()-1)) * time.Second
			if retryDelay > 30*time.Second {
				retryDelay = 30 * time.Second
			}

			slog.Warn("Task retry scheduled", "type", string(task.GetType()), "retry_count", task.GetRetryCount(), "max_retries", task.GetMaxRetries(), "delay", retryDelay.String())

			go func() {
				time.Sleep(retryDelay)
				select {
				case <-s.ctx.Done():
					slog.Debug("Scheduler stopped, skipping task retry", "type", string(task.GetType()), "id", task.GetID())
					return
				default:
					if retryErr := s.EnqueueTask(task); retryErr != nil {
						slog.Error("Failed to re-enqueue task for retry", "type", string(task.GetType()), "id", task.GetID(), "error", retryErr)
					}
				}
			}()
		} else {
			slog.Error("Task failed with no retries left", "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "max_retries", task.GetMaxRetries(), "last_error", err)
		}
	}
}
