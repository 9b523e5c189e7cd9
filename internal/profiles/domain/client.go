// Package domain defines the core domain models for caller lookup and
// linked-profile discovery. Records are immutable snapshots of upstream state;
// nothing in this package performs I/O.
package domain

// ClientRecord is a snapshot of a salon client as returned by the upstream
// directory. Identity is the client id, unique per location. The record is
// never mutated locally.
type ClientRecord struct {
	// ID is the upstream client identifier.
	ID string
	// FirstName is the client's first name.
	FirstName string
	// LastName is the client's last name.
	LastName string
	// PrimaryPhone is the client's primary phone number; empty for most
	// dependents, which makes its absence a useful candidate heuristic.
	PrimaryPhone string
	// GuardianID references the client responsible for this record; empty for
	// self-managed accounts.
	GuardianID string
	// IsMinor reports whether the upstream marks this client as a minor.
	IsMinor bool
	// Email is the client's email address, when present.
	Email string
}

// FullName returns the client's display name.
func (c ClientRecord) FullName() string {
	return c.FirstName + " " + c.LastName
}

// HasPhone reports whether the record carries a primary phone number.
func (c ClientRecord) HasPhone() bool {
	return c.PrimaryPhone != ""
}
