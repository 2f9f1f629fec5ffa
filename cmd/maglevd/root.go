package main

import (
	"context"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"maglevd.io/internal/backend"
	"maglevd.io/internal/config"
	"maglevd.io/internal/epoch"
	"maglevd.io/internal/table"
	"maglevd.io/internal/worker"
)

var (
	flagBackends     []string
	flagTableSize    uint32
	flagCacheEntries uint32
	flagBucketWidth  uint32
	flagHashSeed     uint32
	flagCores        int
	flagPollInterval time.Duration
)

var rootCmd = &cobra.Command{
	Use:   "maglevd",
	Short: "Maglev-style consistent-hashing load balancer core",
	Long: "maglevd builds a Maglev permutation table from a set of backend\n" +
		"addresses and runs one dispatcher per worker core against a\n" +
		"synthetic packet source, exercising the lookup table, flow cache,\n" +
		"and epoch publisher end to end.",
	RunE: run,
}

func init() {
	flags := rootCmd.Flags()
	flags.StringSliceVar(&flagBackends, "backend", nil, "backend IPv4 address (repeatable, order-significant)")
	flags.Uint32Var(&flagTableSize, "table-size", config.DefaultTableSize, "prime lookup table size M")
	flags.Uint32Var(&flagCacheEntries, "cache-entries", config.DefaultCacheTotalEntries, "total flow cache entries")
	flags.Uint32Var(&flagBucketWidth, "cache-bucket-width", config.DefaultCacheEntriesPerBucket, "flow cache entries per bucket (K)")
	flags.Uint32Var(&flagHashSeed, "hash-seed", config.DefaultHashSeed, "hash seed for the permutation and fingerprint hashes")
	flags.IntVar(&flagCores, "cores", 1, "number of simulated worker cores")
	flags.DurationVar(&flagPollInterval, "poll-interval", 10*time.Millisecond, "synthetic packet source poll interval")
}

func run(cmd *cobra.Command, args []string) error {
	if len(flagBackends) == 0 {
		return errors.New("at least one --backend is required")
	}

	ids, err := parseBackends(flagBackends)
	if err != nil {
		return errors.Wrap(err, "parsing --backend flags")
	}
	backends := backend.NewSet(ids...)

	opts := config.Options{
		TableSize:             flagTableSize,
		CacheTotalEntries:     flagCacheEntries,
		CacheEntriesPerBucket: flagBucketWidth,
		HashSeed:              flagHashSeed,
	}
	if err := opts.Validate(); err != nil {
		return errors.Wrap(err, "validating configuration")
	}

	lt, err := table.Build(backends, opts)
	if err != nil {
		return errors.Wrap(err, "building lookup table")
	}

	logrus.WithFields(logrus.Fields{
		"backends":   backends.Len(),
		"table_size": lt.Size(),
		"cores":      flagCores,
	}).Info("maglev lookup table built")

	publisher := epoch.NewPublisher(lt)

	configs := make([]worker.Config, flagCores)
	for i := range configs {
		configs[i] = worker.Config{
			CoreID:           i,
			PollInterval:     flagPollInterval,
			Source:           newSyntheticPacketSource(backends),
			Buckets:          opts.Buckets(),
			EntriesPerBucket: opts.CacheEntriesPerBucket,
			HashSeed:         opts.HashSeed,
		}
	}
	pool := worker.NewPool(publisher, backends, configs)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := pool.Run(ctx); err != nil && ctx.Err() == nil {
		return errors.Wrap(err, "worker pool")
	}
	return nil
}

func parseBackends(raw []string) ([]backend.ID, error) {
	ids := make([]backend.ID, 0, len(raw))
	for _, s := range raw {
		ip := net.ParseIP(s)
		if ip == nil {
			return nil, errors.Errorf("invalid backend address: %q", s)
		}
		ip4 := ip.To4()
		if ip4 == nil {
			return nil, errors.Errorf("backend address is not IPv4: %q", s)
		}
		var id backend.ID
		copy(id[:], ip4)
		ids = append(ids, id)
	}
	return ids, nil
}
