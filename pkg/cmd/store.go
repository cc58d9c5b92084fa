// Package cmd provides common initialization functions for command-line
// applications.
package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/crmflow/crmflow/pkg/store"
	"github.com/crmflow/crmflow/pkg/store/file"
	"github.com/crmflow/crmflow/pkg/store/memory"
	"github.com/crmflow/crmflow/pkg/store/postgres"
	"github.com/crmflow/crmflow/pkg/store/redis"
)

// NewEntityStore creates an entity store from a database URL. The scheme
// selects the backend: postgres://, redis://, file:// or memory://.
func NewEntityStore(ctx context.Context, logger *slog.Logger, databaseURL string) store.EntityStore {
	provider := parseStoreProvider(databaseURL)
	logger.Info("Initializing entity store", "provider", provider)

	switch provider {
	case "postgres", "postgresql":
		s, err := postgres.NewStore(ctx, databaseURL)
		if err != nil {
			panic(fmt.Errorf("failed to create postgres store: %w", err))
		}

		return s
	case "redis", "rediss":
		s, err := redis.NewStore(ctx, databaseURL)
		if err != nil {
			panic(fmt.Errorf("failed to create redis store: %w", err))
		}

		return s
	case "memory":
		return memory.NewStore()
	default:
		s, err := file.NewStore(databaseURL)
		if err != nil {
			panic(fmt.Errorf("failed to create file store: %w", err))
		}

		return s
	}
}

func parseStoreProvider(databaseURL string) string {
	provider, _, found := strings.Cut(databaseURL, "://")
	if !found {
		return "file"
	}

	return provider
}
