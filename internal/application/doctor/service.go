package doctor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"

	configapp "github.com/doeshing/notecalc/internal/application/config"
	"github.com/doeshing/notecalc/internal/application/currency"
	"github.com/doeshing/notecalc/internal/domain"
	"github.com/doeshing/notecalc/internal/ports"
)

// Service runs environment diagnostics.
type Service struct {
	ConfigProvider ports.ConfigProvider
	RateCache      ports.RateCache
	Rates          *currency.RateStore
	History        ports.HistoryRepository
	Providers      []domain.ProviderInfo
	Now            func() time.Time
}

// Run executes checks and returns a report. A config that cannot be loaded
// stops the run.
func (s *Service) Run(ctx context.Context) (domain.HealthReport, error) {
	var checks []domain.HealthCheck

	cfg, err := s.ConfigProvider.Load(ctx)
	if err != nil {
		checks = append(checks, fail("Config file", fmt.Sprintf("load failed: %v", err)))
		return domain.HealthReport{Checks: checks}, err
	}
	checks = append(checks, ok("Config file", fmt.Sprintf("loaded (format %s)", cfg.ConfigFormatVersion)))

	if err := configapp.Validate(cfg); err != nil {
		checks = append(checks, fail("Config values", err.Error()))
	} else {
		checks = append(checks, ok("Config values", "valid"))
	}

	if cfg.Currency.Enabled {
		checks = append(checks, s.cacheCheck(), s.tableCheck(), s.providerCheck(cfg.Currency))
	} else {
		checks = append(checks, ok("Currency", "disabled in config"))
	}

	checks = append(checks, s.historyCheck(cfg.History))

	return domain.HealthReport{Checks: checks}, nil
}

func (s *Service) cacheCheck() domain.HealthCheck {
	if s.RateCache == nil {
		return warn("Rate cache", "not configured")
	}
	info, err := os.Stat(s.RateCache.Path())
	if err != nil {
		if os.IsNotExist(err) {
			return warn("Rate cache", "not found, run `notecalc rates refresh`")
		}
		return fail("Rate cache", err.Error())
	}
	age := s.now().Sub(info.ModTime())
	details := fmt.Sprintf("%s, updated %s", humanize.Bytes(uint64(info.Size())), humanize.RelTime(info.ModTime(), s.now(), "ago", "from now"))
	if age > domain.StaleRateCacheAge {
		return warn("Rate cache", "stale: "+details)
	}
	return ok("Rate cache", details)
}

func (s *Service) tableCheck() domain.HealthCheck {
	if s.Rates == nil {
		return warn("Rate table", "not loaded")
	}
	details := fmt.Sprintf("%d currencies from %s", s.Rates.Len(), s.Rates.Source())
	if s.Rates.Source() == currency.SourceFallback {
		return warn("Rate table", details+" (built-in rates may be outdated)")
	}
	return ok("Rate table", details)
}

func (s *Service) providerCheck(settings domain.CurrencySettings) domain.HealthCheck {
	name := settings.GetProvider()
	for _, info := range s.Providers {
		if info.Name != name {
			continue
		}
		if info.RequiresKey && settings.ResolveAPIKey() == "" {
			return warn("Rate provider", fmt.Sprintf("%s requires an API key (set %s)", name, settings.APIKeyEnv))
		}
		if settings.ResolveCryptoAPIKey() == "" {
			return ok("Rate provider", name+" ready; crypto prices from CoinGecko")
		}
		return ok("Rate provider", name+" ready; crypto key detected")
	}
	return fail("Rate provider", fmt.Sprintf("unknown provider %q", name))
}

func (s *Service) historyCheck(settings domain.HistorySettings) domain.HealthCheck {
	if !settings.Enabled {
		return ok("History", "disabled in config")
	}
	if s.History == nil {
		return warn("History", "store not initialized")
	}
	dir := filepath.Dir(s.History.Path())
	if err := os.MkdirAll(dir, domain.DirectoryPermissions); err != nil {
		return fail("History", err.Error())
	}
	probe, err := os.CreateTemp(dir, ".doctor-*")
	if err != nil {
		return fail("History", fmt.Sprintf("%s not writable: %v", dir, err))
	}
	probe.Close()
	_ = os.Remove(probe.Name())
	return ok("History", s.History.Path())
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func ok(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthOK, Details: details}
}

func warn(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthWarn, Details: details}
}

func fail(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthError, Details: details}
}
