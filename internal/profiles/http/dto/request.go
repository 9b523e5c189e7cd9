// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	validation "github.com/jellydator/validation"
)

// LookupRequest contains the parameters for a linked-profile lookup. At least
// one of Phone and ClientID must be supplied; ClientID wins when both are
// present. LocationID overrides the configured default location.
type LookupRequest struct {
	Phone      string `json:"phone"`
	ClientID   string `json:"client_id"`
	LocationID string `json:"location_id"`
}

// Validate checks if the lookup request is valid. The phone-or-client_id
// requirement is enforced by the use case, which owns its exact error message.
func (r *LookupRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Phone, validation.Length(0, 32)),
		validation.Field(&r.ClientID, validation.Length(0, 64)),
		validation.Field(&r.LocationID, validation.Length(0, 64)),
	)
}
