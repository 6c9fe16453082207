package models

import (
	"fmt"
	"time"
)

// FetchResult describes the outcome of one members fetch.
type FetchResult struct {
	Organization string        `json:"organization"`
	Succeeded    bool          `json:"succeeded"`
	MemberCount  int           `json:"member_count"`
	Error        string        `json:"error,omitempty"`
	StartTime    time.Time     `json:"start_time"`
	EndTime      time.Time     `json:"end_time"`
	DurationMs   int64         `json:"duration_ms"`
	Warnings     []string      `json:"warnings,omitempty"`
	State        *MembersState `json:"state,omitempty"`
}

// String returns a one-line summary suitable for logs.
func (r FetchResult) String() string {
	if !r.Succeeded {
		return fmt.Sprintf("fetch failed for %s: %s", r.Organization, r.Error)
	}
	return fmt.Sprintf("fetched %d members of %s in %dms", r.MemberCount, r.Organization, r.DurationMs)
}
