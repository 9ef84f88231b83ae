package app

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/doeshing/notecalc/internal/application/currency"
	"github.com/doeshing/notecalc/internal/application/doctor"
	"github.com/doeshing/notecalc/internal/application/notebook"
	"github.com/doeshing/notecalc/internal/domain"
	"github.com/doeshing/notecalc/internal/infrastructure/cache"
	"github.com/doeshing/notecalc/internal/infrastructure/config"
	"github.com/doeshing/notecalc/internal/infrastructure/history"
	"github.com/doeshing/notecalc/internal/infrastructure/rates"
	"github.com/doeshing/notecalc/internal/pkg/logger"
	"github.com/doeshing/notecalc/internal/ports"
	"github.com/doeshing/notecalc/internal/units"
)

// Options controls how the container is built.
type Options struct {
	ConfigPath string
	Verbose    bool
}

// Container wires up application services with infrastructure adapters.
type Container struct {
	Config          domain.Config
	ConfigProvider  ports.ConfigProvider
	ConfigLoader    *config.FileLoader
	Logger          ports.Logger
	RateCache       *cache.FileRateCache
	RateStore       *currency.RateStore
	ProviderFactory *rates.Factory
	CurrencyService *currency.Service
	UnitResolver    *units.Resolver
	HistoryStore    *history.SQLiteStore
	DoctorService   *doctor.Service
	SessionID       string
	Prompter        ports.ConfirmationPrompter
}

// BuildContainer constructs the dependency graph.
func BuildContainer(ctx context.Context, opts Options) (*Container, error) {
	cfgLoader := config.NewFileLoader(opts.ConfigPath)
	cfg, err := cfgLoader.Load(ctx)
	if err != nil {
		return nil, err
	}

	log := logger.NewStd(opts.Verbose || cfg.Preferences.Verbose)
	rateCache := cache.NewFileRateCache()
	store := currency.NewRateStore(rateCache, log)
	factory := rates.NewFactory(time.Duration(cfg.GetTimeoutSeconds())*time.Second, log)

	providerName := cfg.Currency.GetProvider()
	provider, err := factory.ForProvider(providerName, cfg.Currency.ResolveAPIKey())
	if err != nil {
		log.Warn("rate provider unavailable", map[string]interface{}{"provider": providerName, "error": err.Error()})
	}
	cryptoPrimary, cryptoFallback := factory.CryptoSources(cfg.Currency.ResolveCryptoAPIKey())

	currencyService := &currency.Service{
		Store:          store,
		Provider:       provider,
		ProviderName:   providerName,
		CryptoPrimary:  cryptoPrimary,
		CryptoFallback: cryptoFallback,
		Logger:         log,
	}

	historyStore := history.NewSQLiteStore(cfg.GetHistoryRetentionDays())
	if historyStore.Degraded() {
		log.Warn("sqlite history unavailable, using jsonl", map[string]interface{}{"path": historyStore.Path()})
	}

	doctorService := &doctor.Service{
		ConfigProvider: cfgLoader,
		RateCache:      rateCache,
		Rates:          store,
		History:        historyStore,
		Providers:      rates.Providers(),
	}

	return &Container{
		Config:          cfg,
		ConfigProvider:  cfgLoader,
		ConfigLoader:    cfgLoader,
		Logger:          log,
		RateCache:       rateCache,
		RateStore:       store,
		ProviderFactory: factory,
		CurrencyService: currencyService,
		UnitResolver:    units.NewResolver(nil),
		HistoryStore:    historyStore,
		DoctorService:   doctorService,
		SessionID:       uuid.NewString(),
	}, nil
}

// NewNotebook returns a notebook session. Currency lines are only
// recognised when currency support is enabled, and history is only recorded
// when enabled in config.
func (c *Container) NewNotebook() *notebook.Service {
	var rateService *currency.Service
	if c.Config.Currency.Enabled {
		rateService = c.CurrencyService
	}
	nb := notebook.NewService(rateService, c.UnitResolver, c.Config.Currency.GetBaseCurrency())
	nb.Logger = c.Logger
	nb.SessionID = c.SessionID
	if c.Config.History.Enabled && c.HistoryStore != nil {
		nb.History = c.HistoryStore
	}
	return nb
}

// RefreshIfDue starts a background rate refresh when currency support is
// enabled and the refresh interval has elapsed. The returned wait function
// blocks until the refresh completes or ctx ends, then records it. wait is
// never nil.
func (c *Container) RefreshIfDue(ctx context.Context) (wait func()) {
	if !c.Config.Currency.RefreshDue(time.Now()) {
		return func() {}
	}
	c.Logger.Debug("starting background rate refresh", map[string]interface{}{"provider": c.CurrencyService.ProviderName})
	ch := c.CurrencyService.RefreshAsync(ctx)
	return func() {
		select {
		case report, ok := <-ch:
			if ok {
				c.RecordRefresh(report)
			}
		case <-ctx.Done():
		}
	}
}

// RecordRefresh stores last_refresh after a refresh that updated anything.
func (c *Container) RecordRefresh(report domain.RefreshReport) {
	if !report.Succeeded() {
		return
	}
	at := report.FinishedAt
	if at.IsZero() {
		at = time.Now()
	}
	c.Config.Currency.MarkRefreshed(at)
	if err := c.ConfigLoader.Save(c.Config); err != nil {
		c.Logger.Error("failed to record refresh time", err, map[string]interface{}{"path": c.ConfigLoader.Path()})
	}
}

// Close releases resources held by the container.
func (c *Container) Close() error {
	if c.HistoryStore == nil {
		return nil
	}
	return c.HistoryStore.Close()
}
