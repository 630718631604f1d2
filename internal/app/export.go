package app

import (
	"context"

	"archetype-quiz-service/internal/content"
	"archetype-quiz-service/internal/domain"
	"archetype-quiz-service/internal/report"
)

// ExportService renders the printable report and certificates.
type ExportService struct {
	svc *Services
}

func NewExportService(svc *Services) *ExportService {
	return &ExportService{svc: svc}
}

// Report renders the full archetype report; it requires the report unlock.
func (e *ExportService) Report(ctx context.Context, profileID string) ([]byte, error) {
	if err := e.svc.Unlocks.Require(ctx, profileID, domain.ProductReport); err != nil {
		return nil, err
	}
	res, err := e.svc.Assessment.Result(ctx, profileID)
	if err != nil {
		return nil, err
	}

	data := report.Data{
		Archetype:        res.Archetype,
		VisualPreference: res.VisualPreference,
		Delivery:         e.svc.Unlocks.State(ctx, profileID).Delivery,
		GeneratedAt:      e.svc.Tracker.clock.Now(),
	}
	for _, suite := range domain.Suites {
		prog, _ := e.svc.Tracker.Progress(ctx, profileID, suite)
		if !prog.Enrolled {
			continue
		}
		data.Suites = append(data.Suites, report.SuiteSection{
			Progress: prog,
			Stats:    e.svc.Training.Stats(ctx, profileID, suite),
		})
	}
	return report.HTML(data), nil
}

// Certificate renders the completion certificate once day 21 is reached.
func (e *ExportService) Certificate(ctx context.Context, profileID string, suite domain.SuiteID) ([]byte, error) {
	if !suite.Valid() {
		return nil, domain.ErrUnknownSuite
	}
	rec, ok := e.svc.Tracker.Record(ctx, profileID, suite)
	if !ok || !rec.Milestones.Day21.Unlocked {
		return nil, domain.ErrCertificateUnavailable
	}

	name := ""
	if code, err := e.svc.Assessment.Archetype(ctx, profileID); err == nil {
		if a, ok := content.ArchetypeFor(code); ok {
			name = a.Name
		}
	}
	return report.Certificate(report.CertificateData{
		Suite:         suite,
		ArchetypeName: name,
		Completed:     rec.Milestones.Day21.Date,
		Days:          len(rec.DaysCompleted),
		Experience:    e.svc.Training.Stats(ctx, profileID, suite).Experience,
	}), nil
}
