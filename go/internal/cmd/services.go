package main

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jonboulle/clockwork"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/mcdev12/partyvote/go/internal/admin"
	"github.com/mcdev12/partyvote/go/internal/events"
	"github.com/mcdev12/partyvote/go/internal/gameconfig"
	"github.com/mcdev12/partyvote/go/internal/migrations"
	"github.com/mcdev12/partyvote/go/internal/player"
	"github.com/mcdev12/partyvote/go/internal/question"
	"github.com/mcdev12/partyvote/go/internal/results"
	"github.com/mcdev12/partyvote/go/internal/session"
	"github.com/mcdev12/partyvote/go/internal/store/memory"
	"github.com/mcdev12/partyvote/go/internal/vote"
)

// Resources are the external connections the stores and the event bus use
type Resources struct {
	pool      *pgxpool.Pool
	redis     redis.UniversalClient
	publisher events.Publisher
}

func openResources(ctx context.Context, cfg *Config) (*Resources, error) {
	res := &Resources{}

	if cfg.needsDatabase() {
		pool, err := setupDatabase(ctx)
		if err != nil {
			return nil, err
		}
		res.pool = pool
		if cfg.migrate {
			if err := migrations.Apply(ctx, pool); err != nil {
				res.Close()
				return nil, err
			}
		}
	}

	if cfg.sessionBackend() == backendRedis {
		client := redis.NewUniversalClient(&redis.UniversalOptions{
			Addrs:    []string{cfg.redisAddr},
			Password: cfg.redisPassword,
			DB:       cfg.redisDB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			res.Close()
			return nil, fmt.Errorf("failed to ping redis: %w", err)
		}
		log.Info().Str("addr", cfg.redisAddr).Msg("connected to redis")
		res.redis = client
	}

	if cfg.natsURL != "" {
		jsConfig := events.DefaultJetStreamConfig()
		jsConfig.URL = cfg.natsURL
		publisher, err := events.NewJetStreamPublisher(ctx, jsConfig)
		if err != nil {
			res.Close()
			return nil, err
		}
		res.publisher = publisher
	} else {
		res.publisher = events.NewLogPublisher()
	}

	return res, nil
}

// Close releases every open connection
func (r *Resources) Close() {
	if r.publisher != nil {
		if err := r.publisher.Close(); err != nil {
			log.Warn().Err(err).Msg("failed to close event publisher")
		}
	}
	if r.redis != nil {
		if err := r.redis.Close(); err != nil {
			log.Warn().Err(err).Msg("failed to close redis client")
		}
	}
	if r.pool != nil {
		r.pool.Close()
	}
}

// Ping checks the connections the server depends on
func (r *Resources) Ping(ctx context.Context) error {
	if r.pool != nil {
		if err := r.pool.Ping(ctx); err != nil {
			return fmt.Errorf("database: %w", err)
		}
	}
	if r.redis != nil {
		if err := r.redis.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("redis: %w", err)
		}
	}
	return nil
}

type Stores struct {
	Players   player.PlayerRepository
	Questions question.QuestionRepository
	Votes     vote.VoteRepository
	Session   session.SessionRepository
	Config    gameconfig.ConfigRepository
}

func setupStores(cfg *Config, res *Resources) *Stores {
	var stores Stores

	if cfg.storeBackend == backendPostgres {
		stores.Players = player.NewRepository(res.pool)
		stores.Questions = question.NewRepository(res.pool)
		stores.Votes = vote.NewRepository(res.pool)
		stores.Config = gameconfig.NewRepository(res.pool)
	} else {
		stores.Players = memory.NewPlayerStore()
		stores.Questions = memory.NewQuestionStore()
		stores.Votes = memory.NewVoteStore()
		stores.Config = memory.NewConfigStore()
	}

	switch cfg.sessionBackend() {
	case backendPostgres:
		stores.Session = session.NewRepository(res.pool)
	case backendRedis:
		stores.Session = session.NewRedisRepository(res.redis)
	default:
		stores.Session = memory.NewSessionStore()
	}

	log.Info().
		Str("store_backend", cfg.storeBackend).
		Str("session_store", cfg.sessionBackend()).
		Msg("stores configured")
	return &stores
}

type Apps struct {
	Players   *player.App
	Questions *question.App
	Votes     *vote.App
	Session   *session.App
	Results   *results.App
	Config    *gameconfig.App
	Admin     *admin.App
}

func setupApps(cfg *Config, stores *Stores, publisher events.Publisher, clock clockwork.Clock) (*Apps, error) {
	verifier, err := admin.NewSecretVerifier(cfg.adminSecret, cfg.secretHashes())
	if err != nil {
		return nil, err
	}

	seed, err := admin.LoadSeed(cfg.seedFile)
	if err != nil {
		return nil, err
	}

	bus := events.NewBus(publisher, clock)

	// Store layer → App layer
	var apps Apps
	apps.Players = player.NewApp(stores.Players, clock)
	apps.Questions = question.NewApp(stores.Questions, clock)
	apps.Votes = vote.NewApp(stores.Votes, apps.Players, bus, clock, vote.Options{AllowSelfVote: cfg.allowSelfVote})
	apps.Session = session.NewApp(stores.Session, apps.Questions, bus, clock)
	apps.Results = results.NewApp(apps.Players, apps.Questions, apps.Votes, apps.Session)
	apps.Config = gameconfig.NewApp(stores.Config, apps.Players, verifier, clock)
	apps.Admin = admin.NewApp(verifier, apps.Players, apps.Questions, apps.Votes, apps.Session, apps.Config, seed)

	return &apps, nil
}

type Services struct {
	Players   *player.Service
	Questions *question.Service
	Votes     *vote.Service
	Session   *session.Service
	Results   *results.Service
	Config    *gameconfig.Service
	Admin     *admin.Service
}

func setupServices(apps *Apps) *Services {
	return &Services{
		Players:   player.NewService(apps.Players),
		Questions: question.NewService(apps.Questions),
		Votes:     vote.NewService(apps.Votes),
		Session:   session.NewService(apps.Session),
		Results:   results.NewService(apps.Results),
		Config:    gameconfig.NewService(apps.Config),
		Admin:     admin.NewService(apps.Admin),
	}
}

func seed(ctx context.Context, cfg *Config, target admin.SeedTarget) error {
	if cfg.adminSecret == "" {
		return fmt.Errorf("seeding requires --admin-secret")
	}

	res, err := openResources(ctx, cfg)
	if err != nil {
		return err
	}
	defer res.Close()

	apps, err := setupApps(cfg, setupStores(cfg, res), res.publisher, clockwork.NewRealClock())
	if err != nil {
		return err
	}

	result, err := apps.Admin.Reseed(ctx, cfg.adminSecret, target)
	if err != nil {
		return err
	}
	for collection, n := range result.Seeded {
		log.Info().Str("collection", string(collection)).Int64("records", n).Msg("seeded")
	}
	return nil
}
