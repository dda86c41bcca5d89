// Package poller drives one pipeline pass: fetch candidate mentions newer
// than the cursor, apply the rate-limit backoff policy, filter, match,
// compose and post replies, and persist progress. Passes never overlap; the
// scheduler runs them one at a time to completion.
package poller

import (
	"context"
	"log/slog"
	"time"

	"github.com/lysyi3m/mention-comb/app/cfg"
	"github.com/lysyi3m/mention-comb/app/composer"
	"github.com/lysyi3m/mention-comb/app/config"
	"github.com/lysyi3m/mention-comb/app/matcher"
	"github.com/lysyi3m/mention-comb/app/state"
	"github.com/lysyi3m/mention-comb/app/twitter"
)

type Searcher interface {
	SearchRecent(ctx context.Context, query, sinceID string, maxResults int) (*twitter.SearchResponse, twitter.RateLimit, error)
}

type Poster interface {
	PostReply(ctx context.Context, text, inReplyToID string) error
}

type StateStore interface {
	Cursor() string
	SetCursor(id string) error
	IsProcessed(id string) bool
	MarkProcessed(id string) error
}

type Options struct {
	Terms         []string
	Threshold     int
	Lang          string
	PageSize      int
	RateLimitWait time.Duration
	AutoWaitReset bool
	MaxAutoWait   time.Duration
	MinRemaining  int
}

type Poller struct {
	searcher Searcher
	poster   Poster
	gen      composer.Generator
	comp     *composer.Composer
	matcher  *matcher.Matcher
	store    StateStore
	opts     Options

	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration)
}

func NewPoller(searcher Searcher, poster Poster, gen composer.Generator, store StateStore, keywords *config.Keywords) *Poller {
	c := cfg.Get()

	return &Poller{
		searcher: searcher,
		poster:   poster,
		gen:      gen,
		comp:     composer.NewComposer(c.ReferralURL),
		matcher:  matcher.NewMatcher(),
		store:    store,
		opts: Options{
			Terms:         keywords.Terms,
			Threshold:     keywords.Threshold,
			Lang:          c.TargetLang,
			PageSize:      c.PageSize,
			RateLimitWait: time.Duration(c.RateLimitWait) * time.Second,
			AutoWaitReset: c.AutoWaitReset,
			MaxAutoWait:   time.Duration(c.MaxAutoWait) * time.Second,
			MinRemaining:  c.MinRemaining,
		},
		now:   time.Now,
		sleep: sleepCtx,
	}
}

// Run executes one pass. It never returns an error: throttling and quota
// exhaustion come back as skipped outcomes, fetch-level failures as error
// outcomes, and per-mention failures are logged and skipped so a single bad
// mention cannot abort the pass.
func (p *Poller) Run(ctx context.Context) Outcome {
	started := p.now()
	cursor := p.store.Cursor()
	query := twitter.BuildSearchQuery(p.opts.Terms, p.opts.Lang)

	resp, rateLimit, err := p.fetch(ctx, query, cursor)
	if err != nil {
		slog.Error("Pass failed", "stage", "fetch", "error", err)
		return Outcome{Status: StatusError, Message: err.Error()}
	}

	if resp == nil {
		slog.Warn("Rate limited, skipping pass", "remaining", rateLimit.Remaining, "reset", rateLimit.Reset)
		return skippedOutcome(rateLimit)
	}

	// Defensive throttling: stop before the quota runs out entirely
	if rateLimit.Remaining >= 0 && rateLimit.Remaining <= p.opts.MinRemaining {
		slog.Warn("Near rate limit, skipping pass", "remaining", rateLimit.Remaining, "reset", rateLimit.Reset)
		return skippedOutcome(rateLimit)
	}

	handles := resp.UserHandles()
	maxID := cursor
	replied := 0
	skippedLang := 0
	skippedProcessed := 0
	skippedNoMatch := 0

	for _, mention := range resp.Data {
		// The cursor tracks every fetched candidate, replied to or not
		if state.CompareIDs(mention.ID, maxID) > 0 {
			maxID = mention.ID
		}

		if mention.Lang != "" && mention.Lang != p.opts.Lang {
			skippedLang++
			continue
		}
		if p.store.IsProcessed(mention.ID) {
			skippedProcessed++
			continue
		}

		decision := p.matcher.Run(mention.Text, p.opts.Terms, p.opts.Threshold)
		if !decision.Matched {
			skippedNoMatch++
			continue
		}

		if p.replyTo(ctx, mention, handles, decision) {
			replied++
		}
	}

	if maxID != cursor {
		if err := p.store.SetCursor(maxID); err != nil {
			slog.Error("Failed to persist cursor", "cursor", maxID, "error", err)
		}
	}

	slog.Info("Pass completed",
		"duration", p.now().Sub(started),
		"fetched", len(resp.Data),
		"replied", replied,
		"skipped_lang", skippedLang,
		"skipped_processed", skippedProcessed,
		"skipped_no_match", skippedNoMatch,
		"cursor", maxID)

	return Outcome{Status: StatusOK, Replied: replied, Remaining: rateLimit.Remaining, Reset: rateLimit.Reset}
}

// fetch runs the search with the escalating throttle recovery: an optional
// fixed wait plus one retry, then an optional sleep-until-reset plus one
// retry when the reset is near enough. A still-throttled result comes back
// as a nil response with metadata, never as an error.
func (p *Poller) fetch(ctx context.Context, query, sinceID string) (*twitter.SearchResponse, twitter.RateLimit, error) {
	resp, rateLimit, err := p.searcher.SearchRecent(ctx, query, sinceID, p.opts.PageSize)
	if err != nil || !rateLimit.Limited {
		return resp, rateLimit, err
	}

	if p.opts.RateLimitWait > 0 {
		slog.Warn("Rate limited, waiting before retry", "wait", p.opts.RateLimitWait)
		p.sleep(ctx, p.opts.RateLimitWait)

		resp, rateLimit, err = p.searcher.SearchRecent(ctx, query, sinceID, p.opts.PageSize)
		if err != nil || !rateLimit.Limited {
			return resp, rateLimit, err
		}
	}

	if p.opts.AutoWaitReset && !rateLimit.Reset.IsZero() {
		wait := rateLimit.Reset.Sub(p.now())
		if wait > 0 && wait <= p.opts.MaxAutoWait {
			slog.Warn("Rate limited, waiting for reset", "wait", wait, "reset", rateLimit.Reset)
			p.sleep(ctx, wait)

			return p.searcher.SearchRecent(ctx, query, sinceID, p.opts.PageSize)
		}
	}

	return resp, rateLimit, err
}

// replyTo composes and posts a reply for one matched mention. The mention is
// marked processed only after the post is confirmed; any failure leaves it
// unmarked and eligible for a future pass.
func (p *Poller) replyTo(ctx context.Context, mention twitter.Tweet, handles map[string]string, decision matcher.Decision) bool {
	handle := handles[mention.AuthorID]
	if handle == "" {
		handle = mention.AuthorID
	}

	reply, err := p.comp.Run(ctx, p.gen, mention.Text, handle, decision.Keyword)
	if err != nil {
		slog.Error("Failed to compose reply", "mention", mention.ID, "keyword", decision.Keyword, "error", err)
		return false
	}

	if err := p.poster.PostReply(ctx, reply, mention.ID); err != nil {
		slog.Error("Failed to post reply", "mention", mention.ID, "error", err)
		return false
	}

	if err := p.store.MarkProcessed(mention.ID); err != nil {
		// The reply is out but the mark did not stick; surfacing this loudly
		// is all we can do, a future pass may reply again
		slog.Error("Failed to mark mention processed after posting", "mention", mention.ID, "error", err)
	}

	slog.Info("Replied to mention", "mention", mention.ID, "author", handle,
		"keyword", decision.Keyword, "confidence", decision.Confidence)

	return true
}

func sleepCtx(ctx context.Context, d time.Duration) {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
