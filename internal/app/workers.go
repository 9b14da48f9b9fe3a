package app

import (
	"compliance-workers/internal/common/camunda"
	"compliance-workers/internal/common/config"
	"compliance-workers/internal/common/logger"
	"compliance-workers/internal/common/observability"
	"compliance-workers/internal/common/validation"

	em "compliance-workers/internal/workers/ai/explain-match"
	paa "compliance-workers/internal/workers/alerts/process-all-alerts"
	sa "compliance-workers/internal/workers/alerts/sync-alerts"
	rs "compliance-workers/internal/workers/compliance/recalculate-score"
	mac "compliance-workers/internal/workers/matching/match-all-companies"
	mc "compliance-workers/internal/workers/matching/match-company"
)

// TaskTypes lists every job type this service can serve.
var TaskTypes = []string{
	mc.TaskType,
	mac.TaskType,
	rs.TaskType,
	sa.TaskType,
	paa.TaskType,
	em.TaskType,
}

// RegisterWorkers opens a job worker per enabled task type.
func (s *Services) RegisterWorkers(reg *camunda.Registry, cfg *config.Config, validator *validation.Validator, obs *observability.Observability, log logger.Logger) {
	wc := func(taskType string) config.WorkerConfig {
		return config.GetWorkerConfig(cfg, taskType)
	}

	reg.Start(mc.TaskType, wc(mc.TaskType),
		mc.NewHandler(mc.LoadConfig(wc(mc.TaskType)), s.Runner, validator, obs, log).Handle)

	reg.Start(mac.TaskType, wc(mac.TaskType),
		mac.NewHandler(mac.LoadConfig(wc(mac.TaskType)), s.Runner, validator, obs, log).Handle)

	reg.Start(rs.TaskType, wc(rs.TaskType),
		rs.NewHandler(rs.LoadConfig(wc(rs.TaskType)), s.Aggregator, validator, obs, log).Handle)

	reg.Start(sa.TaskType, wc(sa.TaskType),
		sa.NewHandler(sa.LoadConfig(wc(sa.TaskType)), s.Syncer, validator, obs, log).Handle)

	reg.Start(paa.TaskType, wc(paa.TaskType),
		paa.NewHandler(paa.LoadConfig(wc(paa.TaskType)), s.Runner, validator, obs, log).Handle)

	reg.Start(em.TaskType, wc(em.TaskType),
		em.NewHandler(em.LoadConfig(wc(em.TaskType), cfg.AI, cfg.Matching.Currency), s.Store, s.Explainer, validator, obs, log).Handle)
}
