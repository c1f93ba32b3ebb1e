package cli

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/iwvelando/refi-calculator/internal/config"
	"github.com/iwvelando/refi-calculator/internal/market"
	"github.com/iwvelando/refi-calculator/pkg/constants"
	"github.com/iwvelando/refi-calculator/pkg/datetime"
	"github.com/iwvelando/refi-calculator/pkg/output"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// newMarketService wires the FRED client to a cache: Redis when an address
// is configured and reachable, in-process memory otherwise. The returned
// function releases the cache.
func newMarketService(ctx context.Context, mc config.MarketConfig, logger *zap.Logger) (*market.Service, func()) {
	timeout := time.Duration(mc.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = constants.DefaultMarketTimeoutSeconds * time.Second
	}
	ttl := time.Duration(mc.CacheTTLSeconds) * time.Second

	client := market.NewFREDClient(mc.BaseURL, mc.APIKey, timeout, logger)

	var cache market.Cache = market.NewMemoryCache()
	release := func() {}
	if mc.RedisAddr != "" {
		redisCache, err := market.NewRedisCache(ctx, mc.RedisAddr, mc.RedisPassword, mc.RedisDB)
		if err != nil {
			logger.Warn("falling back to in-memory market cache",
				zap.String("op", "cli.newMarketService"),
				zap.Error(err),
			)
		} else {
			cache = redisCache
			release = func() { _ = redisCache.Close() }
		}
	}

	return market.NewService(client, cache, ttl, logger), release
}

func newMarketCmd(opts *rootOptions) *cobra.Command {
	var months int

	cmd := &cobra.Command{
		Use:   "market",
		Short: "Show historical 30- and 15-year mortgage rates",
		RunE: func(cmd *cobra.Command, args []string) error {
			if months < 0 {
				return fmt.Errorf("months must not be negative, got %d", months)
			}

			sess, err := opts.newSession(cmd)
			if err != nil {
				return err
			}
			defer sess.close()

			svc, release := newMarketService(cmd.Context(), sess.conf.Market, sess.logger)
			defer release()

			snapshot := svc.Snapshot(cmd.Context(), months, time.Now())

			w := cmd.OutOrStdout()
			switch sess.format {
			case constants.OutputFormatCSV:
				return writeMarketCSV(w, snapshot, svc.Series())
			case constants.OutputFormatJSON:
				return output.JSON(w, snapshot)
			}
			writeMarketPretty(w, snapshot, svc.Series())
			return nil
		},
	}
	cmd.Flags().IntVar(&months, "months", 12, "months of history to show (0 for all)")
	return cmd
}

func writeMarketPretty(w io.Writer, snapshot market.Snapshot, series []market.Series) {
	_, _ = fmt.Fprintf(w, "%-8s | %-10s | %-6s | %s\n", "Series", "Date", "Rate", "Points")
	for _, quote := range snapshot.Latest {
		_, _ = fmt.Fprintf(w, "%-8s | %-10s | %5.2f%% | %d\n",
			quote.Label, datetime.FormatDate(quote.Date), quote.Value, len(snapshot.Series[quote.Label]))
	}
	for _, s := range series {
		if len(snapshot.Series[s.Label]) == 0 {
			_, _ = fmt.Fprintf(w, "%-8s | no data\n", s.Label)
		}
	}
	for _, msg := range snapshot.Errors {
		_, _ = fmt.Fprintf(w, "Error: %s\n", msg)
	}
}

func writeMarketCSV(w io.Writer, snapshot market.Snapshot, series []market.Series) error {
	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"series", "date", "rate"}); err != nil {
		return err
	}
	for _, s := range series {
		for _, o := range snapshot.Series[s.Label] {
			record := []string{s.Label, datetime.FormatDate(o.Date), strconv.FormatFloat(o.Value, 'f', 2, 64)}
			if err := writer.Write(record); err != nil {
				return err
			}
		}
	}
	writer.Flush()
	return writer.Error()
}
