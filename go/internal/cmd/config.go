package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/mcdev12/partyvote/go/internal/admin"
)

const (
	backendPostgres = "postgres"
	backendRedis    = "redis"
	backendMemory   = "memory"
)

type Config struct {
	port            int
	storeBackend    string
	sessionStore    string
	redisAddr       string
	redisPassword   string
	redisDB         int
	natsURL         string
	adminSecret     string
	adminHashes     string
	allowSelfVote   bool
	seedFile        string
	logLevel        string
	logFormat       string
	shutdownTimeout time.Duration
	migrate         bool
}

func (c *Config) validate() error {
	if c.port < 1 || c.port > 65535 {
		return fmt.Errorf("invalid port (must be between 1-65535 inclusive): %d", c.port)
	}
	switch c.storeBackend {
	case backendPostgres, backendMemory:
	default:
		return fmt.Errorf("invalid store backend %q (must be postgres or memory)", c.storeBackend)
	}
	switch c.sessionStore {
	case "", backendPostgres, backendMemory:
	case backendRedis:
		if c.redisAddr == "" {
			return errors.New("--redis-addr is required when the session store is redis")
		}
	default:
		return fmt.Errorf("invalid session store %q (must be postgres, redis or memory)", c.sessionStore)
	}
	if _, err := zerolog.ParseLevel(c.logLevel); err != nil {
		return fmt.Errorf("invalid log level %q: %w", c.logLevel, err)
	}
	switch c.logFormat {
	case "json", "console":
	default:
		return fmt.Errorf("invalid log format %q (must be json or console)", c.logFormat)
	}
	if c.shutdownTimeout <= 0 {
		return fmt.Errorf("invalid shutdown timeout: %s", c.shutdownTimeout)
	}
	return nil
}

// sessionBackend is the store holding the game session. It follows the
// catalog store unless set explicitly.
func (c *Config) sessionBackend() string {
	if c.sessionStore == "" {
		return c.storeBackend
	}
	return c.sessionStore
}

func (c *Config) needsDatabase() bool {
	return c.storeBackend == backendPostgres || c.sessionBackend() == backendPostgres
}

func (c *Config) secretHashes() []string {
	var hashes []string
	for _, h := range strings.Split(c.adminHashes, ",") {
		if h = strings.TrimSpace(h); h != "" {
			hashes = append(hashes, h)
		}
	}
	return hashes
}

func newRootCmd(cfg *Config) *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("PARTYVOTE")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cmd := &cobra.Command{
		Use:           "partyvote",
		Short:         "Real-time party voting game server.",
		Args:          cobra.NoArgs,
		SilenceErrors: true,
		Version:       releaseVersion,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.validate(); err != nil {
				return err
			}
			return setupLogging(cfg.logLevel, cfg.logFormat)
		},
	}

	fs := cmd.PersistentFlags()

	fs.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})

	fs.IntVarP(&cfg.port, "port", "p", 8080, "port to listen on (env: PORT)")
	fs.StringVar(&cfg.storeBackend, "store-backend", backendPostgres, "catalog, vote and config store: postgres or memory (env: STORE_BACKEND)")
	fs.StringVar(&cfg.sessionStore, "session-store", "", "session store: postgres, redis or memory; defaults to the store backend (env: SESSION_STORE)")
	fs.StringVar(&cfg.redisAddr, "redis-addr", "", "redis address for the redis session store (env: REDIS_ADDR)")
	fs.StringVar(&cfg.redisPassword, "redis-password", "", "redis password (env: REDIS_PASSWORD)")
	fs.IntVar(&cfg.redisDB, "redis-db", 0, "redis database number (env: REDIS_DB)")
	fs.StringVar(&cfg.natsURL, "nats-url", "", "NATS server for the event stream; events are logged when empty (env: NATS_URL)")
	fs.StringVar(&cfg.adminSecret, "admin-secret", "", "plain admin secret (env: ADMIN_SECRET)")
	fs.StringVar(&cfg.adminHashes, "admin-secret-hashes", "", "comma separated bcrypt hashes of accepted admin secrets (env: ADMIN_SECRET_HASHES)")
	fs.BoolVar(&cfg.allowSelfVote, "vote-allow-self", false, "accept votes for oneself (env: VOTE_ALLOW_SELF)")
	fs.StringVar(&cfg.seedFile, "seed-file", "", "yaml seed file replacing the built-in seed (env: SEED_FILE)")
	fs.StringVar(&cfg.logLevel, "log-level", "info", "log level (env: LOG_LEVEL)")
	fs.StringVar(&cfg.logFormat, "log-format", "json", "log format: json or console (env: LOG_FORMAT)")
	fs.DurationVar(&cfg.shutdownTimeout, "shutdown-timeout", 10*time.Second, "time allowed for in-flight requests on shutdown (env: SHUTDOWN_TIMEOUT)")

	fs.VisitAll(func(f *pflag.Flag) {
		env := strings.ToUpper(strings.ReplaceAll(f.Name, "-", "_"))
		_ = v.BindPFlag(f.Name, f)
		_ = v.BindEnv(f.Name, "PARTYVOTE_"+env, env)
		if !f.Changed && v.IsSet(f.Name) {
			_ = fs.Set(f.Name, fmt.Sprintf("%v", v.Get(f.Name)))
		}
	})

	cmd.AddCommand(
		newServeCmd(cfg),
		newMigrateCmd(cfg),
		newSeedCmd(cfg),
		newHashSecretCmd(),
	)

	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.SetHelpCommand(&cobra.Command{Hidden: true})
	cmd.SetVersionTemplate("partyvote v{{.Version}}\n")

	cmd.SilenceErrors = true
	cmd.SilenceUsage = true

	return cmd
}

func newServeCmd(cfg *Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the game API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context(), cfg)
		},
	}
	cmd.Flags().BoolVar(&cfg.migrate, "migrate", false, "apply the database schema before serving")
	return cmd
}

func newMigrateCmd(cfg *Config) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the Postgres schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return migrate(cmd.Context())
		},
	}
}

func newSeedCmd(cfg *Config) *cobra.Command {
	var target string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load seed data into the configured stores",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return seed(cmd.Context(), cfg, admin.SeedTarget(target))
		},
	}
	cmd.Flags().StringVar(&target, "target", string(admin.SeedAll), "what to seed: players, questions, config, session, fresh_start or all")
	return cmd
}

func newHashSecretCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-secret SECRET",
		Short: "Print the bcrypt hash of an admin secret for ADMIN_SECRET_HASHES",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hash, err := admin.HashSecret(args[0])
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), hash)
			return err
		},
	}
}
