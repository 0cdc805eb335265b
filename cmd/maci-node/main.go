package main

import (
	"context"
	"fmt"
	"math/big"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/vocdoni/maci-domainobjs/api"
	"github.com/vocdoni/maci-domainobjs/db"
	"github.com/vocdoni/maci-domainobjs/db/metadb"
	"github.com/vocdoni/maci-domainobjs/log"
	"github.com/vocdoni/maci-domainobjs/storage"
	"golang.org/x/sync/errgroup"
)

const compactInterval = time.Hour

func main() {
	cfg, err := loadConfig(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	log.Init(cfg.Log.Level, cfg.Log.Output)
	log.Infow("starting maci-node", "version", Version)

	emptyRoot, err := validateConfig(cfg)
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, emptyRoot); err != nil {
		log.Fatalf("maci-node failed: %v", err)
	}
}

// run opens the storage and serves the API until ctx is cancelled.
func run(ctx context.Context, cfg *Config, emptyRoot *big.Int) error {
	dbPath := filepath.Join(cfg.Datadir, "db")
	log.Infow("initializing storage", "datadir", dbPath, "type", cfg.DB.Type)
	database, err := metadb.New(cfg.DB.Type, dbPath)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	stg := storage.New(database)
	defer func() {
		if err := stg.Close(); err != nil {
			log.Warnw("failed to close storage", "error", err)
		}
	}()

	count, err := stg.MessageCount()
	if err != nil {
		return err
	}
	log.Infow("storage ready", "messages", count, "emptyVoteOptionRoot", emptyRoot.String())

	srv, err := api.New(&api.APIConfig{
		Host:                    cfg.API.Host,
		Port:                    cfg.API.Port,
		Storage:                 stg,
		EmptyVoteOptionTreeRoot: emptyRoot,
	})
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.Serve(gctx)
	})
	g.Go(func() error {
		compactLoop(gctx, database)
		return nil
	})
	return g.Wait()
}

// compactLoop compacts the database every compactInterval until ctx is
// done.
func compactLoop(ctx context.Context, database db.Database) {
	ticker := time.NewTicker(compactInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			start := time.Now()
			if err := database.Compact(); err != nil {
				log.Warnw("database compaction failed", "error", err)
				continue
			}
			log.Debugw("database compacted", "took", time.Since(start).String())
		}
	}
}
