package dto

import (
	"fmt"
	"strings"

	"github.com/keepitcut/linked-profiles/internal/profiles/domain"
	"github.com/keepitcut/linked-profiles/internal/profiles/usecase"
)

// CallerResponse represents the identified caller in API responses.
type CallerResponse struct {
	ClientID  string `json:"client_id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Name      string `json:"name"`
	Phone     string `json:"phone"`
	Email     string `json:"email"`
}

// LinkedProfileResponse represents one linked profile in API responses.
type LinkedProfileResponse struct {
	ClientID  string `json:"client_id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Name      string `json:"name"`
	IsMinor   bool   `json:"is_minor"`
	Type      string `json:"type"`
}

// LookupResponse is the envelope returned for every successful lookup,
// including the found:false case. The booking agent reads the flat fields
// directly, so the shape is part of the agent contract.
type LookupResponse struct {
	Success        bool                    `json:"success"`
	Found          bool                    `json:"found"`
	Caller         *CallerResponse         `json:"caller"`
	LinkedProfiles []LinkedProfileResponse `json:"linked_profiles"`
	Minors         []LinkedProfileResponse `json:"minors"`
	Guests         []LinkedProfileResponse `json:"guests"`
	CanBookFor     []string                `json:"can_book_for"`
	TotalLinked    int                     `json:"total_linked"`
	Message        string                  `json:"message"`
}

// MapResultToResponse converts a lookup result into the agent-facing response.
// Arrays are always present (empty, never null) so the agent can index them
// without null checks.
func MapResultToResponse(result *usecase.LookupResult) LookupResponse {
	if !result.Found {
		return LookupResponse{
			Success:        true,
			Found:          false,
			Caller:         nil,
			LinkedProfiles: []LinkedProfileResponse{},
			Minors:         []LinkedProfileResponse{},
			Guests:         []LinkedProfileResponse{},
			CanBookFor:     []string{},
			TotalLinked:    0,
			Message:        "No account found for this phone number",
		}
	}

	caller := result.Caller

	// The detail record may have no phone on file even though the caller was
	// found by phone; fall back to the number that matched the search.
	phone := caller.PrimaryPhone
	if phone == "" {
		phone = result.ResolvedPhone
	}

	profiles := make([]LinkedProfileResponse, 0, len(result.Profiles))
	minors := make([]LinkedProfileResponse, 0)
	guests := make([]LinkedProfileResponse, 0)
	canBookFor := make([]string, 0, len(result.Profiles)+1)
	canBookFor = append(canBookFor, fmt.Sprintf("%s (yourself)", caller.FirstName))

	for _, profile := range result.Profiles {
		mapped := mapProfile(profile)
		profiles = append(profiles, mapped)
		if profile.IsMinor {
			minors = append(minors, mapped)
			canBookFor = append(canBookFor, fmt.Sprintf("%s (child)", profile.FirstName))
		} else {
			guests = append(guests, mapped)
			canBookFor = append(canBookFor, fmt.Sprintf("%s (guest)", profile.FirstName))
		}
	}

	return LookupResponse{
		Success: true,
		Found:   true,
		Caller: &CallerResponse{
			ClientID:  caller.ID,
			FirstName: caller.FirstName,
			LastName:  caller.LastName,
			Name:      caller.FullName(),
			Phone:     phone,
			Email:     caller.Email,
		},
		LinkedProfiles: profiles,
		Minors:         minors,
		Guests:         guests,
		CanBookFor:     canBookFor,
		TotalLinked:    len(profiles),
		Message:        lookupMessage(result.Profiles),
	}
}

func mapProfile(profile domain.LinkedProfile) LinkedProfileResponse {
	return LinkedProfileResponse{
		ClientID:  profile.ClientID,
		FirstName: profile.FirstName,
		LastName:  profile.LastName,
		Name:      profile.FullName(),
		IsMinor:   profile.IsMinor,
		Type:      string(profile.Type),
	}
}

func lookupMessage(profiles []domain.LinkedProfile) string {
	if len(profiles) == 0 {
		return "No linked profiles found"
	}

	names := make([]string, 0, len(profiles))
	for _, profile := range profiles {
		names = append(names, profile.FirstName)
	}
	return fmt.Sprintf("Found %d linked profile(s): %s", len(profiles), strings.Join(names, ", "))
}
