package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type SplitStatus string

const (
	SplitStatusPending SplitStatus = "pending"
	SplitStatusSettled SplitStatus = "settled"
)

// SplitParticipant is a snapshot of one person on a split, taken at
// creation time so later profile edits don't rewrite the split.
type SplitParticipant struct {
	UID      string `json:"uid"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	PhotoURL string `json:"photo_url"`
	Paid     bool   `json:"paid"`
}

// Split is a shared obligation created from an existing expense. The
// per-person share is frozen at creation; settlements happen one
// participant at a time through the ledger.
type Split struct {
	ID                string             `json:"id"`
	InitiatorID       string             `json:"initiator_id"`
	InitiatorEmail    string             `json:"initiator_email"`
	InitiatorName     string             `json:"initiator_name"`
	InitiatorPhotoURL string             `json:"initiator_photo_url"`
	Amount            decimal.Decimal    `json:"amount"`
	PerPerson         decimal.Decimal    `json:"per_person"`
	Note              string             `json:"note"`
	Status            SplitStatus        `json:"status"`
	SourceTxnID       string             `json:"source_txn_id,omitempty"`
	Participants      []SplitParticipant `json:"participants"`
	CreatedAt         time.Time          `json:"created_at"`
}

// Participant returns the participant entry for the given user id.
func (s *Split) Participant(uid string) *SplitParticipant {
	for i := range s.Participants {
		if s.Participants[i].UID == uid {
			return &s.Participants[i]
		}
	}
	return nil
}

// AllPaid reports whether every participant has settled their share.
func (s *Split) AllPaid() bool {
	for _, p := range s.Participants {
		if !p.Paid {
			return false
		}
	}
	return true
}
