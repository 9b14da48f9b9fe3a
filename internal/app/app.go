// Package app builds the domain services shared by the worker manager and matchctl.
package app

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"compliance-workers/internal/alerts"
	"compliance-workers/internal/batch"
	awsclients "compliance-workers/internal/common/aws"
	"compliance-workers/internal/common/config"
	"compliance-workers/internal/common/logger"
	"compliance-workers/internal/common/observability"
	"compliance-workers/internal/compliance"
	"compliance-workers/internal/lock"
	"compliance-workers/internal/notify"
	"compliance-workers/internal/repository"
	"compliance-workers/internal/textgen"

	"github.com/redis/go-redis/v9"
)

type Services struct {
	Store      *repository.Store
	Rules      *repository.CachedRules
	Locker     *lock.CompanyLocker
	Syncer     *alerts.Syncer
	Aggregator *compliance.Aggregator
	Notifier   *notify.Notifier
	Explainer  *textgen.Fallback
	Runner     *batch.Runner
}

// NewServices wires the repository, cache, lock, notification and text
// generation layers into the batch runner. AWS clients are only created when a
// notification channel is enabled.
func NewServices(ctx context.Context, cfg *config.Config, db *sql.DB, rdb *redis.Client, obs *observability.Observability, log logger.Logger) (*Services, error) {
	store := repository.NewStore(db)
	rules := repository.NewCachedRules(store, rdb, time.Duration(cfg.Matching.RulesCacheTTL)*time.Second, log)
	locker := lock.NewCompanyLocker(rdb, time.Duration(cfg.Alerts.LockTTL)*time.Second)
	syncer := alerts.NewSyncer(store, store, locker, cfg.Matching.Currency, log)
	aggregator := compliance.NewAggregator(store, log)

	notifier, err := newNotifier(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	deps := batch.Deps{
		Rules:     rules,
		Catalog:   store,
		Companies: store,
		Writer:    store,
		Scores:    aggregator,
		Alerts:    syncer,
		Notifier:  notifier,
	}
	if cfg.Notifications.Email.Enabled {
		deps.Digester = notifier
		deps.AlertReader = store
	}

	runner := batch.NewRunner(batch.Config{
		BatchStrategy:    cfg.Matching.BatchStrategy,
		SingleStrategy:   cfg.Matching.SingleStrategy,
		PersistThreshold: cfg.Matching.PersistThreshold,
		Concurrency:      cfg.Matching.BatchConcurrency,
		Currency:         cfg.Matching.Currency,
	}, deps, log).WithObservability(obs)

	return &Services{
		Store:      store,
		Rules:      rules,
		Locker:     locker,
		Syncer:     syncer,
		Aggregator: aggregator,
		Notifier:   notifier,
		Explainer:  NewExplainer(cfg.AI, log),
		Runner:     runner,
	}, nil
}

func newNotifier(ctx context.Context, cfg *config.Config, log logger.Logger) (*notify.Notifier, error) {
	ncfg := notify.Config{
		EmailEnabled: cfg.Notifications.Email.Enabled,
		FromEmail:    cfg.Notifications.Email.FromEmail,
		Bcc:          cfg.Notifications.Email.To,
		SMSEnabled:   cfg.Notifications.SMS.Enabled,
		TopicARN:     cfg.Notifications.SMS.TopicARN,
		Currency:     cfg.Matching.Currency,
	}

	var (
		sesClient notify.SESService
		snsClient notify.SNSService
	)
	if ncfg.EmailEnabled || ncfg.SMSEnabled {
		clients, err := awsclients.NewClients(ctx, cfg.Notifications.AWS.Region)
		if err != nil {
			return nil, err
		}
		if ncfg.EmailEnabled {
			sesClient = clients.SES
		}
		if ncfg.SMSEnabled {
			snsClient = clients.SNS
		}
	}

	return notify.NewNotifier(ncfg, sesClient, snsClient, log), nil
}

// NewExplainer chains the configured providers, OpenAI first, each behind a retry.
func NewExplainer(cfg config.AIConfig, log logger.Logger) *textgen.Fallback {
	var providers []textgen.Provider

	if cfg.OpenAI.APIKey != "" {
		providers = append(providers, textgen.Provider{
			Name:      textgen.ProviderOpenAI,
			Generator: textgen.NewRetry(textgen.NewOpenAIProvider(cfg.OpenAI.APIKey, cfg.OpenAI.Model, cfg.OpenAI.BaseURL), cfg.MaxRetries, time.Second),
		})
	}
	if cfg.GenAI.BaseURL != "" {
		genai := textgen.NewGenAIProvider(cfg.GenAI.BaseURL, cfg.GenAI.APIKey, &http.Client{})
		providers = append(providers, textgen.Provider{
			Name:      textgen.ProviderGenAI,
			Generator: textgen.NewRetry(genai, cfg.MaxRetries, time.Second),
		})
	}

	if len(providers) == 0 {
		log.Warn("no text generation provider configured", nil)
	}
	return textgen.NewFallback(log, providers...)
}
