// Package domain holds the pure client notification rules, chiefly the
// duplicate-suppression predicate for milestone notifications.
package domain

import (
	"strings"
	"time"
)

// RecentMessage is the slice of a project message the deduplicator
// inspects.
type RecentMessage struct {
	Content      string
	IsFromClient bool
	CreatedDate  time.Time
}

// DedupWindow is how long after a milestone notification an identical one
// is suppressed.
const DedupWindow = 24 * time.Hour

// ShouldSuppress reports whether a milestone notification would duplicate
// a recent one. A prior system message counts when it mentions the
// milestone by name and was created strictly inside the trailing window;
// a message exactly DedupWindow old no longer blocks. Client-authored
// messages never suppress.
func ShouldSuppress(milestoneName string, now time.Time, recent []RecentMessage) bool {
	if milestoneName == "" {
		return false
	}
	cutoff := now.Add(-DedupWindow)
	for _, msg := range recent {
		if msg.IsFromClient {
			continue
		}
		if !msg.CreatedDate.After(cutoff) {
			continue
		}
		if strings.Contains(msg.Content, milestoneName) {
			return true
		}
	}
	return false
}
