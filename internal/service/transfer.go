package service

import (
	"context"
	"encoding/json"
	"fmt"

	"fleetdesk-backend/internal/domain"
	"fleetdesk-backend/internal/registry"
	"fleetdesk-backend/internal/report"
	"fleetdesk-backend/internal/schedule"
	"fleetdesk-backend/internal/textblock"
)

// ImportMode selects how imported records meet the current registry.
type ImportMode string

const (
	ImportReplace ImportMode = "replace"
	ImportMerge   ImportMode = "merge"
)

type transferService struct {
	ws *Workspace
}

func NewTransferService(ws *Workspace) TransferService {
	return &transferService{ws: ws}
}

// ExportJSON renders the registry as the indented JSON array used for
// interchange.
func (s *transferService) ExportJSON(ctx context.Context) ([]byte, error) {
	customers := s.ws.Registry().All()
	if len(customers) == 0 {
		return nil, fmt.Errorf("%w: no customers to export", domain.ErrValidation)
	}
	data, err := json.MarshalIndent(customers, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode customers: %w", err)
	}
	return data, nil
}

// ImportJSON accepts a JSON array of customers. Anything else is rejected.
func (s *transferService) ImportJSON(ctx context.Context, data []byte, mode ImportMode) (int, error) {
	var customers []domain.Customer
	if err := json.Unmarshal(data, &customers); err != nil {
		err = fmt.Errorf("%w: expected a JSON array of customers: %v", domain.ErrValidation, err)
		s.ws.record("transfer.import_json", err)
		return 0, err
	}
	// null decodes without error into a nil slice.
	if customers == nil {
		err := fmt.Errorf("%w: expected a JSON array of customers", domain.ErrValidation)
		s.ws.record("transfer.import_json", err)
		return 0, err
	}
	return s.load(ctx, "transfer.import_json", customers, mode)
}

func (s *transferService) ExportText(ctx context.Context) string {
	return textblock.Format(s.ws.Registry().All(), s.ws.Now())
}

func (s *transferService) ImportText(ctx context.Context, text string, mode ImportMode) (int, error) {
	customers, err := textblock.Parse(text)
	if err != nil {
		s.ws.record("transfer.import_text", err)
		return 0, err
	}
	return s.load(ctx, "transfer.import_text", customers, mode)
}

func (s *transferService) ExportCSV(ctx context.Context) ([]byte, error) {
	return report.CustomersCSV(s.ws.Registry().All())
}

func (s *transferService) load(ctx context.Context, operation string, customers []domain.Customer, mode ImportMode) (int, error) {
	if mode == "" {
		mode = ImportReplace
	}
	if mode != ImportReplace && mode != ImportMerge {
		err := fmt.Errorf("%w: unknown import mode %q", domain.ErrValidation, mode)
		s.ws.record(operation, err)
		return 0, err
	}
	for i := range customers {
		if len(customers[i].Payments) == 0 {
			customers[i].Payments = schedule.Initialize(customers[i].PickupDate, customers[i].WeeklyPrice)
		}
	}

	err := s.ws.apply(ctx, operation, func(reg registry.Registry) (registry.Registry, domain.Kind, error) {
		base := reg
		if mode == ImportReplace {
			base = registry.New(nil)
		}
		next, err := base.UpsertAll(customers)
		return next, domain.KindOK, err
	}, "mode", mode, "records", len(customers))
	if err != nil {
		return 0, err
	}
	return len(customers), nil
}
