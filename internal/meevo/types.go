package meevo

import (
	"encoding/json"

	"github.com/keepitcut/linked-profiles/internal/profiles/domain"
)

// phoneNumberPayload is one entry of a client's phone number list.
type phoneNumberPayload struct {
	Number string `json:"number"`
}

// clientPayload is the wire shape of a client in directory listings, detail
// responses and change-feed snapshots.
type clientPayload struct {
	ClientID           string               `json:"clientId"`
	FirstName          string               `json:"firstName"`
	LastName           string               `json:"lastName"`
	PrimaryPhoneNumber string               `json:"primaryPhoneNumber"`
	GuardianID         string               `json:"guardianId"`
	IsMinor            bool                 `json:"isMinor"`
	EmailAddress       string               `json:"emailAddress"`
	PhoneNumbers       []phoneNumberPayload `json:"phoneNumbers"`
}

// listEnvelope wraps paginated listing and change-feed responses.
type listEnvelope struct {
	Data []clientPayload `json:"data"`
}

// detailEnvelope wraps detail responses, which arrive either as
// {"data": {...}} or as a bare client object.
type detailEnvelope struct {
	Data json.RawMessage `json:"data"`
}

// toRecord maps the wire payload to the domain snapshot. The detail endpoint
// reports numbers in phoneNumbers while listings use primaryPhoneNumber; the
// first populated one wins.
func (p clientPayload) toRecord() domain.ClientRecord {
	phone := p.PrimaryPhoneNumber
	if len(p.PhoneNumbers) > 0 && p.PhoneNumbers[0].Number != "" {
		phone = p.PhoneNumbers[0].Number
	}

	return domain.ClientRecord{
		ID:           p.ClientID,
		FirstName:    p.FirstName,
		LastName:     p.LastName,
		PrimaryPhone: phone,
		GuardianID:   p.GuardianID,
		IsMinor:      p.IsMinor,
		Email:        p.EmailAddress,
	}
}

// toRecords maps a page of payloads preserving upstream order.
func toRecords(payloads []clientPayload) []domain.ClientRecord {
	if len(payloads) == 0 {
		return nil
	}
	records := make([]domain.ClientRecord, 0, len(payloads))
	for _, p := range payloads {
		records = append(records, p.toRecord())
	}
	return records
}
