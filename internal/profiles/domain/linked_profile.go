package domain

// ProfileType classifies a linked profile for the booking agent.
type ProfileType string

const (
	// ProfileTypeMinor marks a dependent the upstream flags as a minor.
	ProfileTypeMinor ProfileType = "minor"
	// ProfileTypeGuest marks an adult dependent (guest) on the guardian's account.
	ProfileTypeGuest ProfileType = "guest"
)

// LinkedProfile is the derived view of a client record confirmed to reference
// a given guardian.
type LinkedProfile struct {
	ClientID  string
	FirstName string
	LastName  string
	IsMinor   bool
	Type      ProfileType
}

// NewLinkedProfile builds the linked-profile view of a confirmed dependent record.
func NewLinkedProfile(record ClientRecord) LinkedProfile {
	profileType := ProfileTypeGuest
	if record.IsMinor {
		profileType = ProfileTypeMinor
	}

	return LinkedProfile{
		ClientID:  record.ID,
		FirstName: record.FirstName,
		LastName:  record.LastName,
		IsMinor:   record.IsMinor,
		Type:      profileType,
	}
}

// FullName returns the profile's display name.
func (p LinkedProfile) FullName() string {
	return p.FirstName + " " + p.LastName
}
