package domain

import (
	"context"
	"time"
)

// Treatment kinds offered by the clinic.
const (
	TreatmentPhysiotherapy = "Physiotherapy"
	TreatmentSportsMassage = "Sports Massage"
)

// PhysioDurationMinutes is the fixed length of a physiotherapy session.
const PhysioDurationMinutes = 45

// MassageDurations are the lengths a sports-massage session may have.
var MassageDurations = []int{40, 45, 60}

// ValidTreatmentType reports whether t is a known treatment kind.
func ValidTreatmentType(t string) bool {
	return t == TreatmentPhysiotherapy || t == TreatmentSportsMassage
}

// ValidDuration reports whether minutes is allowed for the treatment kind.
func ValidDuration(treatmentType string, minutes int) bool {
	switch treatmentType {
	case TreatmentPhysiotherapy:
		return minutes == PhysioDurationMinutes
	case TreatmentSportsMassage:
		for _, d := range MassageDurations {
			if minutes == d {
				return true
			}
		}
	}
	return false
}

// TreatmentSession is an immutable record of one completed treatment,
// including the captured verification signature. Sessions are never updated
// or deleted after creation.
type TreatmentSession struct {
	ID          string `json:"id"`
	TherapistID string `json:"therapistId"`
	// TherapistName is denormalized at creation so records stay readable
	// even if account data changes later.
	TherapistName    string    `json:"therapistName"`
	PatientName      string    `json:"patientName"`
	TreatmentType    string    `json:"treatmentType"`
	DurationMinutes  int       `json:"durationMinutes"`
	Timestamp        time.Time `json:"timestamp"`
	SignatureDataURL string    `json:"signatureDataUrl"`
	Notes            string    `json:"notes,omitempty"`
}

// SessionRepository is the port for treatment-session persistence. List
// methods return sessions most-recent-first.
type SessionRepository interface {
	Add(ctx context.Context, s *TreatmentSession) error
	ListAll(ctx context.Context) ([]TreatmentSession, error)
	ListByTherapist(ctx context.Context, therapistID string) ([]TreatmentSession, error)
}
