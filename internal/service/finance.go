package service

import (
	"context"

	"fleetdesk-backend/internal/finance"
	"fleetdesk-backend/internal/repository"
	"fleetdesk-backend/internal/report"
)

type financeService struct {
	ws       *Workspace
	settings repository.SettingsRepository
}

func NewFinanceService(ws *Workspace, settings repository.SettingsRepository) FinanceService {
	return &financeService{ws: ws, settings: settings}
}

func (s *financeService) Summary(ctx context.Context, week int) (finance.Summary, error) {
	return finance.Summarize(s.ws.Registry().All(), week)
}

// ReportPDF renders the summary for week under the configured company name.
func (s *financeService) ReportPDF(ctx context.Context, week int) ([]byte, error) {
	summary, err := s.Summary(ctx, week)
	if err != nil {
		return nil, err
	}
	settings, err := s.settings.LoadSettings(ctx)
	if err != nil {
		return nil, err
	}
	return report.FinancePDF(settings.CompanyName, summary, s.ws.Now())
}
