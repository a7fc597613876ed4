package app

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"physiosheet/internal/domain"
	"physiosheet/internal/summarize"
)

// FallbackSummary is shown whenever the text generator cannot produce a
// report. Generator failures never propagate past this service.
const FallbackSummary = "A text summary is not available right now."

// Summarizer produces free-form text for a month of sessions.
type Summarizer interface {
	Summarize(ctx context.Context, monthLabel string, lines []summarize.SessionLine) (string, error)
}

// SummaryService builds the admin's monthly payroll view.
type SummaryService struct {
	sessions domain.SessionRepository
	gen      Summarizer
}

// NewSummaryService creates a SummaryService. gen may be nil, in which case
// MonthlyText always yields the fallback.
func NewSummaryService(sessions domain.SessionRepository, gen Summarizer) *SummaryService {
	return &SummaryService{sessions: sessions, gen: gen}
}

// TherapistTotals aggregates one therapist's sessions within a month.
type TherapistTotals struct {
	TherapistID   string `json:"therapistId"`
	TherapistName string `json:"therapistName"`
	Sessions      int    `json:"sessions"`
	Minutes       int    `json:"minutes"`
	Physiotherapy int    `json:"physiotherapy"`
	SportsMassage int    `json:"sportsMassage"`
}

// MonthlySummary is the payroll summary for one month.
type MonthlySummary struct {
	Month         string            `json:"month"`
	Therapists    []TherapistTotals `json:"therapists"`
	TotalSessions int               `json:"totalSessions"`
	TotalMinutes  int               `json:"totalMinutes"`
}

var errBadMonth = errors.New("month must be formatted as YYYY-MM")

// MonthlyTotals aggregates all sessions whose timestamp falls in the given
// month ("2006-01"), grouped per therapist in order of first appearance.
func (s *SummaryService) MonthlyTotals(ctx context.Context, month string) (*MonthlySummary, error) {
	sessions, err := s.monthSessions(ctx, month)
	if err != nil {
		return nil, err
	}

	summary := &MonthlySummary{Month: month, Therapists: []TherapistTotals{}}
	index := map[string]int{}
	for _, sess := range sessions {
		i, ok := index[sess.TherapistID]
		if !ok {
			i = len(summary.Therapists)
			index[sess.TherapistID] = i
			summary.Therapists = append(summary.Therapists, TherapistTotals{
				TherapistID:   sess.TherapistID,
				TherapistName: sess.TherapistName,
			})
		}
		row := &summary.Therapists[i]
		row.Sessions++
		row.Minutes += sess.DurationMinutes
		switch sess.TreatmentType {
		case domain.TreatmentPhysiotherapy:
			row.Physiotherapy++
		case domain.TreatmentSportsMassage:
			row.SportsMassage++
		}
		summary.TotalSessions++
		summary.TotalMinutes += sess.DurationMinutes
	}
	return summary, nil
}

// MonthlyText asks the generator for a plain-language report covering the
// month. Any generator failure, including an empty month, yields the fixed
// fallback string; only a malformed month is an error.
func (s *SummaryService) MonthlyText(ctx context.Context, month string) (string, error) {
	sessions, err := s.monthSessions(ctx, month)
	if err != nil {
		return "", err
	}
	if s.gen == nil {
		return FallbackSummary, nil
	}

	lines := make([]summarize.SessionLine, 0, len(sessions))
	for _, sess := range sessions {
		lines = append(lines, summarize.SessionLine{
			Date:            sess.Timestamp.Format("2006-01-02"),
			Patient:         sess.PatientName,
			TreatmentType:   sess.TreatmentType,
			DurationMinutes: sess.DurationMinutes,
		})
	}

	start, _ := time.Parse("2006-01", month)
	text, err := s.gen.Summarize(ctx, start.Format("January 2006"), lines)
	if err != nil || strings.TrimSpace(text) == "" {
		log.Printf("monthly summary generation failed: %v", err)
		return FallbackSummary, nil
	}
	return text, nil
}

func (s *SummaryService) monthSessions(ctx context.Context, month string) ([]domain.TreatmentSession, error) {
	start, err := time.Parse("2006-01", month)
	if err != nil {
		return nil, errBadMonth
	}
	end := start.AddDate(0, 1, 0)

	all, err := s.sessions.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.TreatmentSession, 0, len(all))
	for _, sess := range all {
		ts := sess.Timestamp.UTC()
		if !ts.Before(start) && ts.Before(end) {
			out = append(out, sess)
		}
	}
	return out, nil
}
