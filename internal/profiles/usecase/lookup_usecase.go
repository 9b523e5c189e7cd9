package usecase

import (
	"context"
	"log/slog"

	apperrors "github.com/keepitcut/linked-profiles/internal/errors"
)

// lookupUseCase implements the LookupUseCase interface.
type lookupUseCase struct {
	resolver        PhoneResolver
	details         ClientDetails
	discoverer      ProfileDiscoverer
	defaultLocation string
	logger          *slog.Logger
}

// NewLookupUseCase creates a lookup use case over the given collaborators.
func NewLookupUseCase(
	resolver PhoneResolver,
	details ClientDetails,
	discoverer ProfileDiscoverer,
	defaultLocation string,
	logger *slog.Logger,
) LookupUseCase {
	return &lookupUseCase{
		resolver:        resolver,
		details:         details,
		discoverer:      discoverer,
		defaultLocation: defaultLocation,
		logger:          logger,
	}
}

// Lookup identifies the caller by phone or client id, fetches their
// authoritative record, and discovers the profiles linked to them.
func (u *lookupUseCase) Lookup(ctx context.Context, input LookupInput) (*LookupResult, error) {
	if input.Phone == "" && input.ClientID == "" {
		return nil, apperrors.ErrMissingInput
	}

	locationID := input.LocationID
	if locationID == "" {
		locationID = u.defaultLocation
	}

	callerID := input.ClientID
	var resolvedPhone string
	if callerID == "" {
		match, err := u.resolver.ResolveByPhone(ctx, input.Phone, locationID)
		if err != nil {
			return nil, err
		}
		if match == nil {
			u.logger.Info("no caller found for phone", slog.String("location_id", locationID))
			return &LookupResult{LocationID: locationID}, nil
		}
		callerID = match.ID
		resolvedPhone = match.PrimaryPhone
	}

	caller, err := u.details.GetClientDetail(ctx, callerID, locationID)
	if err != nil {
		// The id came from the request or a fresh directory match, so any
		// failure here reads as "caller details unavailable".
		u.logger.Warn("caller detail fetch failed",
			slog.String("client_id", callerID),
			slog.Any("error", err),
		)
		return nil, apperrors.Wrap(apperrors.ErrNotFound, "get caller detail")
	}

	profiles, skipped, err := u.discoverer.Discover(ctx, caller.ID, caller.LastName, locationID)
	if err != nil {
		return nil, err
	}

	return &LookupResult{
		Found:         true,
		Caller:        caller,
		ResolvedPhone: resolvedPhone,
		Profiles:      profiles,
		Skipped:       skipped,
		LocationID:    locationID,
	}, nil
}
