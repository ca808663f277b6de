// Package bootstrap wires configuration into a store and the service graph
// shared by fleetctl and the cron runner.
package bootstrap

import (
	"context"
	"fmt"

	"fleetdesk-backend/internal/config"
	"fleetdesk-backend/internal/domain"
	"fleetdesk-backend/internal/logger"
	"fleetdesk-backend/internal/metrics"
	"fleetdesk-backend/internal/money"
	"fleetdesk-backend/internal/repository"
	"fleetdesk-backend/internal/repository/file"
	"fleetdesk-backend/internal/repository/postgres"
	"fleetdesk-backend/internal/repository/redis"
	"fleetdesk-backend/internal/service"
	"fleetdesk-backend/internal/storage"
)

// App bundles every service built from one configuration.
type App struct {
	Config    *config.Config
	Store     *repository.Store
	Metrics   *metrics.Metrics
	Workspace *service.Workspace

	Customers service.CustomerService
	Referrals service.ReferralService
	Payments  service.PaymentService
	Renewals  service.RenewalService
	Pending   service.PendingProfileService
	Settings  service.SettingsService
	Transfer  service.TransferService
	Finance   service.FinanceService
	Backup    service.BackupService
	Notifier  service.Notifier
}

// OpenStore connects the snapshot backend selected by cfg.Storage.Type.
// PostgreSQL migrations run before the store is returned.
func OpenStore(ctx context.Context, cfg *config.Config) (*repository.Store, error) {
	keys := repository.KeysWithPrefix(cfg.Redis.KeyPrefix)

	switch cfg.Storage.Type {
	case "", "file":
		logger.Info("Using file storage", "dir", cfg.Storage.Dir)
		return file.NewStore(cfg.Storage.Dir, keys)

	case "redis":
		logger.Info("Connecting to redis...", "addr", cfg.Redis.Addr, "db", cfg.Redis.DB)
		client, err := redis.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return nil, err
		}
		return redis.NewStore(client, keys), nil

	case "postgres":
		dsn := cfg.GetDatabaseConnectionString()
		logger.Info("Connecting to database...", "host", cfg.Database.Host, "port", cfg.Database.Port)
		if err := postgres.Migrate(ctx, dsn); err != nil {
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
		db, err := postgres.Open(ctx, dsn)
		if err != nil {
			return nil, err
		}
		logger.Info("Database connection established")
		return postgres.NewStore(db, keys), nil

	default:
		return nil, fmt.Errorf("unknown storage type: %s", cfg.Storage.Type)
	}
}

// BackupStorage builds the backup target selected by cfg.Backup.Type.
func BackupStorage(ctx context.Context, cfg *config.Config) (storage.BackupStorage, error) {
	return storage.New(ctx, storage.Config{
		Type:            cfg.Backup.Type,
		Dir:             cfg.Backup.Dir,
		Bucket:          cfg.Backup.Bucket,
		Region:          cfg.Backup.Region,
		Endpoint:        cfg.Backup.Endpoint,
		AccessKeyID:     cfg.Backup.AccessKeyID,
		SecretAccessKey: cfg.Backup.SecretAccessKey,
	})
}

// New opens the store and builds every service on one workspace.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	store, err := OpenStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	app, err := NewWithStore(ctx, cfg, store)
	if err != nil {
		store.Close()
		return nil, err
	}
	return app, nil
}

// NewWithStore builds the services on an already opened store.
func NewWithStore(ctx context.Context, cfg *config.Config, store *repository.Store) (*App, error) {
	currency, err := PinCurrency(ctx, cfg, store)
	if err != nil {
		return nil, err
	}
	money.Default = currency

	m := metrics.New()
	ws, err := service.NewWorkspace(ctx, store, m)
	if err != nil {
		return nil, err
	}
	backups, err := BackupStorage(ctx, cfg)
	if err != nil {
		return nil, err
	}

	keys := repository.KeysWithPrefix(cfg.Redis.KeyPrefix)
	return &App{
		Config:    cfg,
		Store:     store,
		Metrics:   m,
		Workspace: ws,
		Customers: service.NewCustomerService(ws),
		Referrals: service.NewReferralService(ws),
		Payments:  service.NewPaymentService(ws),
		Renewals:  service.NewRenewalService(ws),
		Pending:   service.NewPendingProfileService(store, ws),
		Settings:  service.NewSettingsService(store, ws),
		Transfer:  service.NewTransferService(ws),
		Finance:   service.NewFinanceService(ws, store),
		Backup:    service.NewBackupService(store.Backend(), keys, backups, cfg.Backup.Prefix, ws),
		Notifier:  service.NewNotifier(cfg.SendGrid),
	}, nil
}

// PinCurrency returns the layout the data set is stored in. A layout already
// recorded in the settings wins over the config. Without one, a store that
// already holds customers is pinned to BRL and an empty store adopts the
// configured layout.
func PinCurrency(ctx context.Context, cfg *config.Config, store *repository.Store) (money.Currency, error) {
	settings, err := store.LoadSettings(ctx)
	if err != nil {
		return money.Currency{}, fmt.Errorf("failed to load settings: %w", err)
	}
	configured := money.Currency{
		Symbol:    cfg.Currency.Symbol,
		Decimal:   cfg.Currency.Decimal,
		Thousands: cfg.Currency.Thousands,
	}

	if l := settings.Currency; l != nil {
		stored := money.Currency{Symbol: l.Symbol, Decimal: l.Decimal, Thousands: l.Thousands}
		if stored != configured {
			logger.Warn("Configured currency ignored, data set keeps its stored layout",
				"stored_decimal", stored.Decimal, "configured_decimal", configured.Decimal)
		}
		return stored, nil
	}

	customers, err := store.LoadCustomers(ctx)
	if err != nil {
		return money.Currency{}, fmt.Errorf("failed to load customers: %w", err)
	}
	pinned := configured
	if len(customers) > 0 {
		pinned = money.BRL
		if pinned != configured {
			logger.Warn("Existing customers are stored in BRL layout, configured currency ignored")
		}
	}
	settings.Currency = &domain.CurrencyLayout{Symbol: pinned.Symbol, Decimal: pinned.Decimal, Thousands: pinned.Thousands}
	if err := store.SaveSettings(ctx, settings); err != nil {
		return money.Currency{}, fmt.Errorf("failed to save currency layout: %w", err)
	}
	logger.Info("Currency layout pinned", "symbol", pinned.Symbol, "decimal", pinned.Decimal)
	return pinned, nil
}

// Close flushes metrics when configured and releases the store.
func (a *App) Close() error {
	if err := a.Metrics.WriteTextfile(a.Config.Metrics.TextfilePath); err != nil {
		logger.Warn("Failed to flush metrics", "error", err)
	}
	return a.Store.Close()
}
