package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"physiosheet/internal/domain"
	"physiosheet/internal/summarize"
)

type mockSessionRepo struct {
	sessions []domain.TreatmentSession
	listErr  error
}

func (m *mockSessionRepo) Add(ctx context.Context, s *domain.TreatmentSession) error {
	m.sessions = append([]domain.TreatmentSession{*s}, m.sessions...)
	return nil
}

func (m *mockSessionRepo) ListAll(ctx context.Context) ([]domain.TreatmentSession, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.sessions, nil
}

func (m *mockSessionRepo) ListByTherapist(ctx context.Context, therapistID string) ([]domain.TreatmentSession, error) {
	var out []domain.TreatmentSession
	for _, s := range m.sessions {
		if s.TherapistID == therapistID {
			out = append(out, s)
		}
	}
	return out, nil
}

type mockSummarizer struct {
	text  string
	err   error
	label string
	lines []summarize.SessionLine
	calls int
}

func (m *mockSummarizer) Summarize(ctx context.Context, monthLabel string, lines []summarize.SessionLine) (string, error) {
	m.calls++
	m.label = monthLabel
	m.lines = lines
	return m.text, m.err
}

func august(day int) time.Time {
	return time.Date(2026, time.August, day, 10, 0, 0, 0, time.UTC)
}

func monthFixture() *mockSessionRepo {
	return &mockSessionRepo{sessions: []domain.TreatmentSession{
		{ID: "s4", TherapistID: "t2", TherapistName: "Mark Evans", PatientName: "P4", TreatmentType: domain.TreatmentSportsMassage, DurationMinutes: 60, Timestamp: august(20)},
		{ID: "s3", TherapistID: "t1", TherapistName: "Jane Miller", PatientName: "P3", TreatmentType: domain.TreatmentPhysiotherapy, DurationMinutes: 45, Timestamp: august(15)},
		{ID: "s2", TherapistID: "t1", TherapistName: "Jane Miller", PatientName: "P2", TreatmentType: domain.TreatmentSportsMassage, DurationMinutes: 40, Timestamp: august(3)},
		// Outside the month.
		{ID: "s1", TherapistID: "t1", TherapistName: "Jane Miller", PatientName: "P1", TreatmentType: domain.TreatmentPhysiotherapy, DurationMinutes: 45, Timestamp: time.Date(2026, time.July, 30, 10, 0, 0, 0, time.UTC)},
	}}
}

func TestMonthlyTotals(t *testing.T) {
	svc := NewSummaryService(monthFixture(), nil)

	summary, err := svc.MonthlyTotals(context.Background(), "2026-08")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.TotalSessions != 3 {
		t.Errorf("total sessions = %d, want 3", summary.TotalSessions)
	}
	if summary.TotalMinutes != 145 {
		t.Errorf("total minutes = %d, want 145", summary.TotalMinutes)
	}
	if len(summary.Therapists) != 2 {
		t.Fatalf("therapist rows = %d, want 2", len(summary.Therapists))
	}

	// Rows appear in order of first appearance in the session sequence.
	mark := summary.Therapists[0]
	if mark.TherapistName != "Mark Evans" || mark.Sessions != 1 || mark.Minutes != 60 || mark.SportsMassage != 1 {
		t.Errorf("unexpected first row: %+v", mark)
	}
	jane := summary.Therapists[1]
	if jane.Sessions != 2 || jane.Minutes != 85 || jane.Physiotherapy != 1 || jane.SportsMassage != 1 {
		t.Errorf("unexpected second row: %+v", jane)
	}
}

func TestMonthlyTotals_EmptyMonth(t *testing.T) {
	svc := NewSummaryService(monthFixture(), nil)

	summary, err := svc.MonthlyTotals(context.Background(), "2025-01")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.TotalSessions != 0 || len(summary.Therapists) != 0 {
		t.Errorf("expected an empty summary, got %+v", summary)
	}
}

func TestMonthlyTotals_BadMonth(t *testing.T) {
	svc := NewSummaryService(monthFixture(), nil)

	for _, month := range []string{"August", "2026-13", ""} {
		if _, err := svc.MonthlyTotals(context.Background(), month); err == nil {
			t.Errorf("month %q accepted", month)
		}
	}
}

func TestMonthlyText_Success(t *testing.T) {
	gen := &mockSummarizer{text: "Busy month."}
	svc := NewSummaryService(monthFixture(), gen)

	text, err := svc.MonthlyText(context.Background(), "2026-08")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "Busy month." {
		t.Errorf("text = %q", text)
	}
	if gen.label != "August 2026" {
		t.Errorf("month label = %q, want %q", gen.label, "August 2026")
	}
	if len(gen.lines) != 3 {
		t.Fatalf("generator got %d lines, want 3", len(gen.lines))
	}
	if gen.lines[0].Date != "2026-08-20" || gen.lines[0].DurationMinutes != 60 {
		t.Errorf("unexpected first line: %+v", gen.lines[0])
	}
}

func TestMonthlyText_FallsBackOnFailure(t *testing.T) {
	tests := []struct {
		name string
		gen  Summarizer
	}{
		{"no generator", nil},
		{"generator error", &mockSummarizer{err: errors.New("upstream down")}},
		{"blank text", &mockSummarizer{text: "   "}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc := NewSummaryService(monthFixture(), tc.gen)
			text, err := svc.MonthlyText(context.Background(), "2026-08")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if text != FallbackSummary {
				t.Errorf("text = %q, want fallback", text)
			}
		})
	}
}

func TestMonthlyText_BadMonth(t *testing.T) {
	gen := &mockSummarizer{text: "ignored"}
	svc := NewSummaryService(monthFixture(), gen)

	if _, err := svc.MonthlyText(context.Background(), "not-a-month"); err == nil {
		t.Fatal("expected error")
	}
	if gen.calls != 0 {
		t.Error("generator must not be called for a malformed month")
	}
}

func TestMonthlyTotals_RepoError(t *testing.T) {
	svc := NewSummaryService(&mockSessionRepo{listErr: errors.New("store gone")}, nil)
	if _, err := svc.MonthlyTotals(context.Background(), "2026-08"); err == nil {
		t.Fatal("expected error")
	}
}
