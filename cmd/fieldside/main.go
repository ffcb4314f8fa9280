package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/fieldside-ai/fieldside/pkg/advisor"
	"github.com/fieldside-ai/fieldside/pkg/cache"
	"github.com/fieldside-ai/fieldside/pkg/config"
	"github.com/fieldside-ai/fieldside/pkg/llm"
)

var version = "dev"

func main() {
	root := &cobra.Command{
		Use:     "fieldside",
		Short:   "AI coaching response cache for football academies",
		Version: version,
	}

	root.AddCommand(
		newWarmupCmd(),
		newCacheCmd(),
		newAdviseCmd(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// buildPolicy applies config TTL overrides to the built-in table.
func buildPolicy(cfg *config.Config) *cache.TTLPolicy {
	policy := cache.NewTTLPolicy()
	for op, ttl := range cfg.Cache.TTL {
		policy.Override(op, ttl)
	}
	return policy
}

// openStore opens the configured cache backend.
func openStore(cfg *config.Config) (cache.Store, error) {
	switch cfg.Store.Backend {
	case "", "sqlite":
		return cache.NewSQLiteStore(cfg.DBPath)
	case "redis":
		return cache.NewRedisStore(cache.RedisStoreConfig{
			Addr:      cfg.Store.Redis.Addr,
			Password:  cfg.Store.Redis.Password,
			DB:        cfg.Store.Redis.DB,
			KeyPrefix: cfg.Store.Redis.KeyPrefix,
		}), nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
}

// newAdvisor wires the LLM client and response cache for one CLI command.
// The returned cleanup closes the store.
func newAdvisor(cfg *config.Config) (*advisor.Advisor, func(), error) {
	store, err := openStore(cfg)
	if err != nil {
		return nil, nil, err
	}
	rc := cache.New(store, buildPolicy(cfg))
	adv := advisor.New(llm.NewClient(cfg.LLM), rc)
	return adv, func() { _ = store.Close() }, nil
}
