package service

import (
	"context"

	"fleetdesk-backend/internal/domain"
	"fleetdesk-backend/internal/finance"
	"fleetdesk-backend/internal/referral"
	"fleetdesk-backend/internal/schedule"
	"fleetdesk-backend/internal/storage"
)

type CustomerService interface {
	Register(ctx context.Context, c domain.Customer) (domain.Customer, error)
	Update(ctx context.Context, c domain.Customer) (domain.Customer, error)
	Remove(ctx context.Context, loginID string) error
	Get(ctx context.Context, loginID string) (domain.Customer, error)
	List(ctx context.Context, filter ListFilter) []CustomerView
	SetStatus(ctx context.Context, loginID string, active bool, reason string) (domain.Customer, error)
}

type ReferralService interface {
	Refer(ctx context.Context, referrerID, referredID string) (referral.Outcome, error) // honours canRefer
	ApplyReferral(ctx context.Context, referrerID, referredID string) (referral.Outcome, error)
	SetReferrer(ctx context.Context, customerID, referrerID string) (referral.Outcome, error)
}

type PaymentService interface {
	UpdateSlot(ctx context.Context, loginID string, week int, upd schedule.SlotUpdate) (domain.Customer, error)
	NextSlot(ctx context.Context, loginID string) (week int, ok bool, err error)
}

type RenewalService interface {
	Renew(ctx context.Context, loginID, newReturnDate, cardBrand, cardSuffix string) (domain.Customer, string, error) // returns record and notice
	Due(ctx context.Context, withinDays int) []DueRenewal
}

type PendingProfileService interface {
	Add(ctx context.Context, p domain.PendingProfile) (domain.PendingProfile, error)
	Update(ctx context.Context, p domain.PendingProfile) error
	SetStatus(ctx context.Context, id string, status domain.PendingStatus) error
	Remove(ctx context.Context, id string) error
	List(ctx context.Context) ([]domain.PendingProfile, error)
	Convert(ctx context.Context, id string) (domain.Customer, error)
}

type SettingsService interface {
	Get(ctx context.Context) (domain.Settings, error)
	Update(ctx context.Context, s domain.Settings) error
}

type TransferService interface {
	ExportJSON(ctx context.Context) ([]byte, error)
	ImportJSON(ctx context.Context, data []byte, mode ImportMode) (int, error)
	ExportText(ctx context.Context) string
	ImportText(ctx context.Context, text string, mode ImportMode) (int, error)
	ExportCSV(ctx context.Context) ([]byte, error)
}

type FinanceService interface {
	Summary(ctx context.Context, week int) (finance.Summary, error)
	ReportPDF(ctx context.Context, week int) ([]byte, error)
}

type BackupService interface {
	Snapshot(ctx context.Context) (string, error) // returns the object key
	List(ctx context.Context) ([]storage.ObjectInfo, error)
	Restore(ctx context.Context, key string) error
}

type Notifier interface {
	SendRenewalDigest(ctx context.Context, due []DueRenewal) error
}
