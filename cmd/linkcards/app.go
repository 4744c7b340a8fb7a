package main

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"linkcards/internal/browser"
	"linkcards/internal/cards"
	"linkcards/internal/config"
	"linkcards/internal/db"
	"linkcards/internal/logging"
	"linkcards/internal/syncstore"
)

// app holds the wired dependencies shared by every command.
type app struct {
	cfg   *config.Config
	log   *zap.Logger
	board *cards.Board
	close func()
}

func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, err
	}

	// Context for startup
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	kv, closeKV, err := openKV(ctx, cfg.Store, logger)
	if err != nil {
		return nil, err
	}

	board := cards.NewBoard(cards.NewStore(kv))
	if err := board.Load(ctx); err != nil {
		closeKV()
		return nil, fmt.Errorf("load cards: %w", err)
	}

	return &app{
		cfg:   cfg,
		log:   logger,
		board: board,
		close: func() {
			closeKV()
			_ = logger.Sync()
		},
	}, nil
}

func openKV(ctx context.Context, cfg config.StoreConfig, log *zap.Logger) (syncstore.KV, func(), error) {
	switch cfg.Backend {
	case config.BackendMongo:
		log.Info("connecting to MongoDB", zap.String("uri", cfg.MongoURI))
		database, err := db.ConnectMongo(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return nil, nil, err
		}
		log.Info("connected to MongoDB")
		return syncstore.NewMongo(database), func() {
			_ = database.Client().Disconnect(context.Background())
		}, nil

	case config.BackendMemory:
		log.Warn("using in-memory store, links are lost on exit")
		return syncstore.NewMemory(), func() {}, nil

	default:
		log.Info("opening sqlite store", zap.String("path", cfg.SQLitePath))
		conn, err := db.OpenSQLite(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		kv := syncstore.NewSQLite(conn)
		if err := kv.EnsureSchema(ctx); err != nil {
			conn.Close()
			return nil, nil, err
		}
		return kv, func() { conn.Close() }, nil
	}
}

func (a *app) attachBrowser(selfURL string) browser.Browser {
	if a.cfg.Browser.RemoteURL == "" {
		return browser.None{}
	}
	a.log.Info("attaching to chrome", zap.String("remote_url", a.cfg.Browser.RemoteURL))
	return browser.NewChrome(a.cfg.Browser.RemoteURL, selfURL, a.cfg.Browser.Timeout)
}
