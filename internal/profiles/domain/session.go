package domain

import (
	"strings"

	"github.com/google/uuid"
)

// DiscoverySession holds the per-request state of one linked-profile discovery
// call. It lives only for the duration of that call and is never persisted.
// A session is not safe for concurrent use; the discovery engine confirms
// candidates in batches and records results from a single goroutine.
type DiscoverySession struct {
	// ID correlates the session's log lines across scan passes.
	ID uuid.UUID
	// GuardianID is the caller whose dependents are being discovered.
	GuardianID string
	// GuardianLastName is used by surname-filtered candidate sources.
	GuardianLastName string

	seen    map[string]struct{}
	results []LinkedProfile
	skipped int
}

// NewDiscoverySession creates the ephemeral state for one discovery call.
func NewDiscoverySession(guardianID, guardianLastName string) *DiscoverySession {
	return &DiscoverySession{
		ID:               uuid.New(),
		GuardianID:       guardianID,
		GuardianLastName: guardianLastName,
		seen:             make(map[string]struct{}),
	}
}

// Seen reports whether a client id was already examined in this session.
func (s *DiscoverySession) Seen(clientID string) bool {
	_, ok := s.seen[clientID]
	return ok
}

// MarkSeen records that a client id has been examined, so later scan passes
// skip it without another detail fetch.
func (s *DiscoverySession) MarkSeen(clientID string) {
	s.seen[clientID] = struct{}{}
}

// Confirm adds a record to the results iff its guardian reference matches the
// session's guardian exactly, it is not the guardian itself, and it was not
// already confirmed. Returns true when the record was added.
func (s *DiscoverySession) Confirm(record ClientRecord) bool {
	if record.ID == "" || s.Seen(record.ID) {
		return false
	}
	s.MarkSeen(record.ID)

	// A record is never its own guardian; upstream data implies this but the
	// invariant is checked anyway.
	if record.GuardianID != s.GuardianID || record.ID == s.GuardianID {
		return false
	}

	s.results = append(s.results, NewLinkedProfile(record))
	return true
}

// Skip counts a candidate excluded because its upstream fetch failed.
func (s *DiscoverySession) Skip() {
	s.skipped++
}

// Results returns the profiles confirmed so far, in discovery order.
func (s *DiscoverySession) Results() []LinkedProfile {
	return s.results
}

// Found reports how many profiles have been confirmed.
func (s *DiscoverySession) Found() int {
	return len(s.results)
}

// Skipped reports how many candidates were dropped due to failed fetches.
func (s *DiscoverySession) Skipped() int {
	return s.skipped
}

// MatchesSurname reports whether a record shares the guardian's last name,
// compared case-insensitively. Used as a cheap pre-filter only; it is never
// sufficient to confirm a link.
func (s *DiscoverySession) MatchesSurname(record ClientRecord) bool {
	if s.GuardianLastName == "" {
		return false
	}
	return strings.EqualFold(record.LastName, s.GuardianLastName)
}
