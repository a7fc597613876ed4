package app

import (
	"context"
	"errors"
	"strings"
	"time"

	"physiosheet/internal/domain"
	"physiosheet/internal/signature"

	"github.com/google/uuid"
)

// TimesheetService encapsulates treatment-session use cases.
type TimesheetService struct {
	accounts domain.AccountRepository
	sessions domain.SessionRepository
}

// NewTimesheetService creates a TimesheetService backed by the given
// repositories.
func NewTimesheetService(accounts domain.AccountRepository, sessions domain.SessionRepository) *TimesheetService {
	return &TimesheetService{accounts: accounts, sessions: sessions}
}

// SessionInput carries the fields a therapist submits for one treatment.
type SessionInput struct {
	PatientName      string
	TreatmentType    string
	DurationMinutes  int
	SignatureDataURL string
	Notes            string
}

// ListTherapists returns all therapist accounts in storage order, with
// credentials stripped.
func (s *TimesheetService) ListTherapists(ctx context.Context) ([]domain.Account, error) {
	list, err := s.accounts.ListByRole(ctx, domain.RoleTherapist)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Account, 0, len(list))
	for _, a := range list {
		out = append(out, a.Sanitized())
	}
	return out, nil
}

// AppendSession validates and records a new treatment session for the given
// therapist. The session is persisted before the call returns and is
// immutable afterwards.
func (s *TimesheetService) AppendSession(ctx context.Context, therapist *domain.Account, in SessionInput) (*domain.TreatmentSession, error) {
	patient := strings.TrimSpace(in.PatientName)
	if patient == "" {
		return nil, errors.New("patient name is required")
	}
	if !domain.ValidTreatmentType(in.TreatmentType) {
		return nil, errors.New("unknown treatment type")
	}

	minutes := in.DurationMinutes
	if in.TreatmentType == domain.TreatmentPhysiotherapy {
		// Physiotherapy has a fixed length regardless of what was submitted.
		minutes = domain.PhysioDurationMinutes
	} else if !domain.ValidDuration(in.TreatmentType, minutes) {
		return nil, errors.New("duration must be 40, 45, or 60 minutes")
	}

	if strings.TrimSpace(in.SignatureDataURL) == "" {
		return nil, errors.New("signature is required")
	}
	if _, err := signature.DecodeArtifact(in.SignatureDataURL); err != nil {
		return nil, errors.New("invalid signature image")
	}

	session := &domain.TreatmentSession{
		ID:               uuid.NewString(),
		TherapistID:      therapist.ID,
		TherapistName:    therapist.Name,
		PatientName:      patient,
		TreatmentType:    in.TreatmentType,
		DurationMinutes:  minutes,
		Timestamp:        time.Now().UTC(),
		SignatureDataURL: in.SignatureDataURL,
		Notes:            strings.TrimSpace(in.Notes),
	}
	if err := s.sessions.Add(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// QuerySessions returns sessions visible to the given account: admins see
// every session, therapists only their own. Most-recent-first.
func (s *TimesheetService) QuerySessions(ctx context.Context, accountID, role string) ([]domain.TreatmentSession, error) {
	if role == domain.RoleAdmin {
		return s.sessions.ListAll(ctx)
	}
	return s.sessions.ListByTherapist(ctx, accountID)
}
