package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/doeshing/notecalc/internal/application/currency"
	"github.com/doeshing/notecalc/internal/infrastructure/rates"
)

func newRatesCommand(state *rootState) *cobra.Command {
	ratesCmd := &cobra.Command{
		Use:   "rates",
		Short: "Manage exchange rates",
	}

	ratesCmd.AddCommand(
		newRatesRefreshCommand(state),
		newRatesListCommand(state),
		newRatesStatusCommand(state),
		newRatesConvertCommand(state),
		newRatesProvidersCommand(state),
		newRatesClearCommand(state),
	)

	return ratesCmd
}

func newRatesRefreshCommand(state *rootState) *cobra.Command {
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "refresh",
		Short: "Fetch fiat and crypto rates now",
		RunE: func(cmd *cobra.Command, args []string) error {
			container := state.container
			ctx := cmd.Context()
			if timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, timeout)
				defer cancel()
			}

			spinner := NewSpinner(cmd.ErrOrStderr(), "Refreshing exchange rates...")
			spinner.Start()
			report := container.CurrencyService.RefreshRates(ctx)
			spinner.Stop()

			state.renderer(cmd.OutOrStdout()).RefreshReport(report)
			container.RecordRefresh(report)
			if !report.Succeeded() {
				return fmt.Errorf("no rates were updated")
			}
			return nil
		},
	}

	cmd.Flags().DurationVar(&timeout, "timeout", 60*time.Second, "Overall deadline for the refresh")
	return cmd
}

func newRatesListCommand(state *rootState) *cobra.Command {
	return &cobra.Command{
		Use:   "list [CODE...]",
		Short: "List known rates per 1 USD",
		RunE: func(cmd *cobra.Command, args []string) error {
			store := state.container.RateStore
			codes := store.Codes()
			if len(args) > 0 {
				codes = make([]string, 0, len(args))
				for _, arg := range args {
					code := strings.ToUpper(arg)
					if !store.Has(code) {
						return fmt.Errorf("unknown currency %s", code)
					}
					codes = append(codes, code)
				}
			}

			renderer := state.renderer(cmd.OutOrStdout())
			for _, code := range codes {
				rate, _ := store.Rate(code)
				renderer.Plain("%-6s %s", code, strconv.FormatFloat(rate, 'g', 10, 64))
			}
			return nil
		},
	}
}

func newRatesStatusCommand(state *rootState) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show where rates come from and when they were refreshed",
		RunE: func(cmd *cobra.Command, args []string) error {
			container := state.container
			settings := container.Config.Currency
			renderer := state.renderer(cmd.OutOrStdout())

			renderer.Plain("Enabled:   %t", settings.Enabled)
			renderer.Plain("Provider:  %s", settings.GetProvider())
			renderer.Plain("Base:      %s", settings.GetBaseCurrency())
			renderer.Plain("Rates:     %d (%s)", container.RateStore.Len(), container.RateStore.Source())
			renderer.Plain("Cache:     %s", container.RateCache.Path())

			if last := settings.LastRefreshTime(); last.IsZero() {
				renderer.Plain("Refreshed: never")
			} else {
				renderer.Plain("Refreshed: %s", humanize.Time(last))
			}
			switch {
			case !settings.Enabled:
			case settings.RefreshIntervalMinutes <= 0:
				renderer.Plain("Auto refresh: off")
			case settings.RefreshDue(time.Now()):
				renderer.Notice("Auto refresh: due")
			default:
				renderer.Plain("Auto refresh: every %s", time.Duration(settings.RefreshIntervalMinutes)*time.Minute)
			}
			if container.RateStore.Source() == currency.SourceFallback {
				renderer.Notice("Using built-in fallback rates; run 'notecalc rates refresh'.")
			}
			return nil
		},
	}
}

func newRatesConvertCommand(state *rootState) *cobra.Command {
	return &cobra.Command{
		Use:   "convert <amount> <from> [to]",
		Short: "Convert an amount between two currencies",
		Args:  cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			container := state.container
			amount, err := strconv.ParseFloat(strings.ReplaceAll(args[0], ",", ""), 64)
			if err != nil {
				return fmt.Errorf("invalid amount %q", args[0])
			}
			from := strings.ToUpper(args[1])
			to := container.Config.Currency.GetBaseCurrency()
			if len(args) == 3 {
				to = strings.ToUpper(args[2])
			}

			converted, err := container.CurrencyService.Convert(amount, from, to)
			if err != nil {
				return err
			}
			state.renderer(cmd.OutOrStdout()).Result(currency.FormatAmount(converted, to))
			return nil
		},
	}
}

func newRatesProvidersCommand(state *rootState) *cobra.Command {
	return &cobra.Command{
		Use:   "providers",
		Short: "List supported fiat rate providers",
		RunE: func(cmd *cobra.Command, args []string) error {
			current := state.container.Config.Currency.GetProvider()
			renderer := state.renderer(cmd.OutOrStdout())
			for _, p := range rates.Providers() {
				marker := " "
				if p.Name == current {
					marker = "*"
				}
				key := "no key"
				if p.RequiresKey {
					key = "api key"
				}
				renderer.Plain("%s %-18s %-8s %s", marker, p.Name, key, p.Website)
			}
			return nil
		},
	}
}

func newRatesClearCommand(state *rootState) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete the rate cache and fall back to built-in rates",
		RunE: func(cmd *cobra.Command, args []string) error {
			container := state.container
			if err := container.RateCache.Clear(); err != nil {
				return fmt.Errorf("failed to clear rate cache: %w", err)
			}
			state.renderer(cmd.OutOrStdout()).Plain("Removed %s", container.RateCache.Path())
			return nil
		},
	}
}
