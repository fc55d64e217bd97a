package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/linkstash/linkstash/internal/config"
	"github.com/linkstash/linkstash/internal/httpserver"
	"github.com/linkstash/linkstash/internal/httpserver/deps"
	"github.com/linkstash/linkstash/internal/logger"
	"github.com/linkstash/linkstash/internal/redis"
	"github.com/linkstash/linkstash/internal/scheduler"
	"github.com/linkstash/linkstash/internal/sources/seedfile"
	"github.com/linkstash/linkstash/internal/store"
	redisstore "github.com/linkstash/linkstash/internal/store/redis"
	"github.com/linkstash/linkstash/internal/version"
)

type App struct {
	cfg         *config.Config
	logger      logger.Logger
	server      *httpserver.Server
	redisClient *goredis.Client
	memory      *store.Memory
	suggester   *scheduler.SuggestionWorker
	syncer      *scheduler.SnapshotSyncer
}

func New() *App {
	cfg := config.Load()

	loggerClient := logger.New(cfg.LogLevel, cfg.PrettyLog)

	memory := store.NewMemory()

	// Optional Redis snapshot persistence. The memory store stays
	// authoritative; Redis only carries data across restarts.
	var redisClient *goredis.Client
	var syncer *scheduler.SnapshotSyncer
	if cfg.RedisEnabled() {
		client, err := redis.New(redis.ConnectOptions{
			Addr:           cfg.RedisAddr,
			Password:       cfg.RedisPassword,
			DB:             cfg.RedisDB,
			DialTimeout:    cfg.RedisDialTimeout,
			ConnectTimeout: cfg.RedisConnectTimeout,
			RetryInterval:  cfg.RedisRetryInterval,
			MaxWait:        cfg.RedisMaxWait,
			PingTimeout:    cfg.RedisPingTimeout,
		}, loggerClient)
		if err != nil {
			loggerClient.Errorf("Failed to connect to Redis: %v", err)
			os.Exit(1)
		}
		redisClient = client
		syncer = scheduler.NewSnapshotSyncer(
			redisstore.NewStore(redisClient),
			memory,
			loggerClient,
			cfg.SnapshotInterval,
		)

		restored, err := syncer.RestoreOnce(context.Background())
		if err != nil {
			loggerClient.Warn("failed to restore snapshot from redis, starting empty",
				logger.Error(err))
		} else if !restored {
			loggerClient.Info("no redis snapshot yet, starting empty")
		}
	} else {
		loggerClient.Info("redis not configured, data is memory only")
	}

	// Seed only when the store is still empty, so a restored snapshot is
	// never seeded on top of.
	if cfg.SeedFile != "" {
		if bookmarks, _, _ := memory.Counts(); bookmarks == 0 {
			seed(cfg.SeedFile, memory, loggerClient)
		}
	}

	suggester := scheduler.NewSuggestionWorker(
		memory,
		loggerClient,
		cfg.SuggestionDelay,
		cfg.SuggestionInterval,
	)

	d := deps.Deps{
		Logger:    loggerClient,
		Store:     memory,
		StartTime: time.Now(),
		Version:   version.Version,
		Commit:    version.Commit,
		BuildDate: version.BuildDate,
		GoVersion: version.GoVersion,
	}

	server := httpserver.New(cfg.ListenPort, loggerClient, d)

	return &App{
		cfg:         cfg,
		logger:      loggerClient,
		server:      server,
		redisClient: redisClient,
		memory:      memory,
		suggester:   suggester,
		syncer:      syncer,
	}
}

func seed(path string, memory *store.Memory, log logger.Logger) {
	config, err := seedfile.NewLoader(path).Load()
	if err != nil {
		log.Warn("failed to load seed file", logger.String("file", path), logger.Error(err))
		return
	}
	created, err := seedfile.NewMapper().Apply(memory, config)
	if err != nil {
		log.Warn("seed applied partially", logger.Int("bookmarks", created), logger.Error(err))
		return
	}
	log.Info("seeded store", logger.String("file", path), logger.Int("bookmarks", created))
}

func (a *App) Run() error {
	a.logger.Infof("🚀 Starting linkstash-dev v%s on %s", version.Version, a.cfg.ListenPort)
	a.logger.Infof("linkstash-dev %s (commit=%s, built=%s, go=%s)",
		version.Version, version.Commit, version.BuildDate, version.GoVersion)
	a.logger.Info("persistence", logger.Bool("redis", a.syncer != nil))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Start suggestion worker
	if err := a.suggester.Start(ctx); err != nil {
		return fmt.Errorf("failed to start suggestion worker: %w", err)
	}
	a.logger.Info("suggestion worker started",
		logger.Duration("delay", a.cfg.SuggestionDelay),
		logger.Duration("interval", a.cfg.SuggestionInterval))

	// Start snapshot syncer (if redis is configured)
	if a.syncer != nil {
		if err := a.syncer.Start(ctx); err != nil {
			return fmt.Errorf("failed to start snapshot syncer: %w", err)
		}
		a.logger.Info("snapshot syncer started",
			logger.Duration("interval", a.cfg.SnapshotInterval))
	}

	errCh := make(chan error, 1)
	go func() {
		if err := a.server.Start(); err != nil {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("⏳ Shutting down gracefully...")
	case err := <-errCh:
		return err
	}

	a.suggester.Stop()

	// Stop writes a final snapshot.
	if a.syncer != nil {
		a.syncer.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.server.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}

	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.logger.Warnf("failed to close redis: %v", err)
		} else {
			a.logger.Info("✅ Redis closed cleanly")
		}
	}

	a.logger.Info("✅ linkstash-dev stopped cleanly")
	return nil
}
