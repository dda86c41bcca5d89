// Package composer turns a match decision into a postable reply draft: it
// decorates the referral link with tracking parameters, assembles the
// generation prompt and post-processes the generated text.
package composer

import (
	"context"
	"fmt"
	"strings"
)

// Replies longer than MaxReplyLength runes are truncated to exactly
// MaxReplyLength runes total, including the trailing ellipsis marker.
const (
	MaxReplyLength = 270
	ellipsis       = "..."
)

const systemPrompt = "You are a helpful coding assistant representing blackbox.ai. " +
	"Reply to a tweet mentioning a competing AI coding tool. Be concise, polite, and contextual. " +
	"Highlight blackbox.ai's value: fast code autocomplete, multi-IDE/browser support, explain & search code, and integrations. " +
	"Do not disparage competitors. Avoid spam. Include the provided link naturally. " +
	"Keep to one short paragraph."

// Generator produces a reply text from a system and user instruction pair.
type Generator interface {
	Chat(ctx context.Context, system, user string) (string, error)
}

type Composer struct {
	referralURL string
}

func NewComposer(referralURL string) *Composer {
	return &Composer{referralURL: referralURL}
}

// Run builds the prompt for a matched mention, calls the generator once and
// post-processes the result. Generator failures propagate to the caller.
func (c *Composer) Run(ctx context.Context, gen Generator, mentionText, authorHandle, keyword string) (string, error) {
	link, err := c.TrackedLink(keyword)
	if err != nil {
		return "", err
	}

	user := fmt.Sprintf("Tweet by @%s: %s\nDetected keyword: %s\nReferral link: %s",
		authorHandle, mentionText, keyword, link)

	reply, err := gen.Chat(ctx, systemPrompt, user)
	if err != nil {
		return "", fmt.Errorf("failed to generate reply: %w", err)
	}

	return Truncate(strings.TrimSpace(reply)), nil
}

// TrackedLink decorates the referral URL with the fixed attribution
// parameters, with utm_term carrying the matched keyword.
func (c *Composer) TrackedLink(keyword string) (string, error) {
	return AddParams(c.referralURL, map[string]string{
		"utm_source":   "twitter",
		"utm_medium":   "bot",
		"utm_campaign": "competitor_mentions",
		"utm_content":  "reply",
		"utm_term":     keyword,
	})
}

// Truncate enforces the reply length bound: text over 270 runes is cut to
// 267 runes plus "...". Rune-based so a multibyte reply is never split
// mid-character.
func Truncate(text string) string {
	runes := []rune(text)
	if len(runes) <= MaxReplyLength {
		return text
	}
	return string(runes[:MaxReplyLength-len(ellipsis)]) + ellipsis
}
