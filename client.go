// Package folio is an embeddable client for the portfolio catalog: it stores
// projects and blog posts in Redis or Valkey and ranks them with the same
// in-memory search the folio server uses.
package folio

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/folio/internal/db"
	dbRedis "github.com/kailas-cloud/folio/internal/db/redis"
	"github.com/kailas-cloud/folio/internal/domain/item"
	catalogrepo "github.com/kailas-cloud/folio/internal/repository/catalog"
	"github.com/kailas-cloud/folio/internal/seed"
	cataloguc "github.com/kailas-cloud/folio/internal/usecase/catalog"
	searchuc "github.com/kailas-cloud/folio/internal/usecase/search"
)

const defaultReadinessTimeout = 10 * time.Second

// Client is the folio SDK entry point.
type Client struct {
	store      db.Store
	catalogSvc *cataloguc.Service
	snapshot   *searchuc.Snapshot
	searchSvc  *searchuc.Service
	logger     *zap.Logger

	stop context.CancelFunc
	done chan struct{}
}

// New creates a folio Client, connects to the database and loads the search snapshot.
func New(opts ...Option) (*Client, error) {
	cfg := &clientConfig{}
	for _, o := range opts {
		o(cfg)
	}

	if len(cfg.addrs) == 0 {
		return nil, errors.New("folio: database address required (use WithValkey or WithRedis)")
	}

	store, err := createStore(cfg)
	if err != nil {
		return nil, err
	}

	ctx := context.Background()
	if err := store.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("folio: database not ready: %w", err)
	}

	c, err := wireClient(ctx, store, cfg)
	if err != nil {
		store.Close()
		return nil, err
	}
	return c, nil
}

func createStore(cfg *clientConfig) (db.Store, error) {
	switch cfg.driver {
	case "valkey", "redis":
		s, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.addrs,
			Password: cfg.password,
		})
		if err != nil {
			return nil, fmt.Errorf("folio: create %s store: %w", cfg.driver, err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("folio: unknown driver %q", cfg.driver)
	}
}

func wireClient(ctx context.Context, store db.Store, cfg *clientConfig) (*Client, error) {
	logger := cfg.logger
	if logger == nil {
		logger = zap.NewNop()
	}

	repo := catalogrepo.New(store)
	snapshot := searchuc.NewSnapshot(repo, logger)
	if err := snapshot.Load(ctx); err != nil {
		return nil, fmt.Errorf("folio: load snapshot: %w", err)
	}

	c := &Client{
		store:      store,
		catalogSvc: cataloguc.New(repo, repo, logger),
		snapshot:   snapshot,
		searchSvc:  searchuc.New(snapshot, logger),
		logger:     logger,
	}

	if cfg.liveUpdates {
		runCtx, cancel := context.WithCancel(context.Background())
		c.stop = cancel
		c.done = make(chan struct{})
		go func() {
			defer close(c.done)
			if err := snapshot.Run(runCtx, repo); err != nil {
				logger.Warn("folio: live updates stopped", zap.Error(err))
			}
		}()
	}
	return c, nil
}

// Close stops live updates and releases all resources.
func (c *Client) Close() {
	if c.stop != nil {
		c.stop()
		<-c.done
	}
	if c.store != nil {
		c.store.Close()
	}
}

// Ping checks database connectivity.
func (c *Client) Ping(ctx context.Context) error {
	if err := c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Refresh reloads the search snapshot from the database.
func (c *Client) Refresh(ctx context.Context) error {
	if err := c.snapshot.Load(ctx); err != nil {
		return fmt.Errorf("refresh: %w", err)
	}
	return nil
}

// Items returns the item service for a collection.
func (c *Client) Items(kind Kind) *ItemService {
	return &ItemService{kind: kind, client: c}
}

// Search returns the search service for a collection.
func (c *Client) Search(kind Kind) *SearchService {
	return &SearchService{kind: kind, svc: c.searchSvc}
}

// Seed upserts every entry of a YAML seed file. It keeps going after a
// failed entry and returns the joined errors.
func (c *Client) Seed(ctx context.Context, path string) (SeedStats, error) {
	f, err := seed.Load(path)
	if err != nil {
		return SeedStats{}, fmt.Errorf("seed: %w", err)
	}
	st, applyErr := seed.Apply(ctx, c.catalogSvc, f, c.logger)
	if err := c.Refresh(ctx); err != nil {
		c.logger.Warn("folio: snapshot refresh after seed failed", zap.Error(err))
	}
	out := SeedStats{Created: st.Created, Updated: st.Updated, Failed: st.Failed}
	if applyErr != nil {
		return out, fmt.Errorf("seed: %w", applyErr)
	}
	return out, nil
}

// reload makes the client's own writes visible to its searches immediately.
func (c *Client) reload(ctx context.Context, kind item.Kind) {
	if err := c.snapshot.Reload(ctx, kind); err != nil {
		c.logger.Warn("folio: snapshot reload failed", zap.String("kind", string(kind)), zap.Error(err))
	}
}
