// Package usecase defines the interfaces and implementations for linked-profile
// lookup business logic. Use cases orchestrate phone resolution, caller detail
// retrieval, and linked-profile discovery against the upstream directory.
package usecase

import (
	"context"

	"github.com/keepitcut/linked-profiles/internal/profiles/domain"
)

// PhoneResolver defines the interface for mapping a caller's phone number to a
// directory record.
type PhoneResolver interface {
	ResolveByPhone(ctx context.Context, phone, locationID string) (*domain.ClientRecord, error)
}

// ClientDetails defines the interface for fetching the authoritative record of
// a single client.
type ClientDetails interface {
	GetClientDetail(ctx context.Context, clientID, locationID string) (*domain.ClientRecord, error)
}

// ProfileDiscoverer defines the interface for finding every record linked to a
// guardian.
type ProfileDiscoverer interface {
	Discover(ctx context.Context, guardianID, guardianLastName, locationID string) ([]domain.LinkedProfile, int, error)
}

// LookupInput carries one lookup request. At least one of Phone and ClientID
// must be set; ClientID wins when both are present. An empty LocationID falls
// back to the configured default location.
type LookupInput struct {
	Phone      string
	ClientID   string
	LocationID string
}

// LookupResult is the outcome of one lookup.
type LookupResult struct {
	// Found reports whether a caller was identified. When false the phone
	// matched nothing and the remaining fields are zero.
	Found bool
	// Caller is the authoritative record of the identified caller.
	Caller *domain.ClientRecord
	// ResolvedPhone is the phone carried by the directory record that matched
	// the search. Presentation falls back to it when the caller detail has no
	// phone on file.
	ResolvedPhone string
	// Profiles holds the discovered linked profiles in first-discovered order.
	Profiles []domain.LinkedProfile
	// Skipped counts candidates dropped because an upstream fetch failed.
	Skipped int
	// LocationID is the location the lookup actually ran against.
	LocationID string
}

// LookupUseCase defines the interface for linked-profile lookup business logic.
type LookupUseCase interface {
	Lookup(ctx context.Context, input LookupInput) (*LookupResult, error)
}
