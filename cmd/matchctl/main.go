// cmd/matchctl/main.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"compliance-workers/internal/app"
	"compliance-workers/internal/common/config"
	"compliance-workers/internal/common/database"
	"compliance-workers/internal/common/logger"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:           "matchctl",
	Short:         "Operator commands for grant matching, compliance scores and alerts",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file (defaults to configs/config.yaml)")

	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(matchAllCmd)
	rootCmd.AddCommand(matchCompanyCmd)
	rootCmd.AddCommand(syncAlertsCmd)
	rootCmd.AddCommand(recalculateScoreCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// env holds the connections a command runs against.
type env struct {
	cfg      *config.Config
	zap      *zap.Logger
	pg       *database.PostgresClient
	redis    *database.RedisClient
	services *app.Services
}

func loadConfig() (*config.Config, error) {
	if configPath != "" {
		return config.LoadFromFile(configPath)
	}
	return config.Load()
}

// openEnv connects to Postgres and Redis and builds the domain services.
// withServices=false skips Redis and the service graph.
func openEnv(ctx context.Context, withServices bool) (*env, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	e := &env{cfg: cfg}
	e.zap = logger.NewWithOptions(logger.Options{
		Level:   cfg.Logging.Level,
		Format:  "console",
		Output:  "stderr",
		Service: "matchctl",
	})

	e.pg, err = database.NewPostgres(cfg.Database.Postgres)
	if err != nil {
		return nil, err
	}
	if err := e.pg.Ping(ctx); err != nil {
		e.close()
		return nil, err
	}

	if !withServices {
		return e, nil
	}

	e.redis = database.NewRedis(cfg.Database.Redis)
	if err := e.redis.Ping(ctx); err != nil {
		e.close()
		return nil, err
	}

	e.services, err = app.NewServices(ctx, cfg, e.pg.DB, e.redis.Client, nil, logger.NewZapAdapter(e.zap))
	if err != nil {
		e.close()
		return nil, fmt.Errorf("build services: %w", err)
	}
	return e, nil
}

func (e *env) close() {
	if e.redis != nil {
		e.redis.Close()
	}
	if e.pg != nil {
		e.pg.Close()
	}
	if e.zap != nil {
		_ = e.zap.Sync()
	}
}

func printJSON(w io.Writer, v interface{}) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(out))
	return err
}
