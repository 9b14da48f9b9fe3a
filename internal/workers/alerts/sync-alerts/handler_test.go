// internal/workers/alerts/sync-alerts/handler_test.go
package syncalerts

import (
	"context"
	"errors"
	"testing"
	"time"

	"compliance-workers/internal/alerts"
	apperrors "compliance-workers/internal/common/errors"
	"compliance-workers/internal/common/logger"
	"compliance-workers/internal/lock"
	"compliance-workers/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

var testNow = time.Date(2025, 9, 1, 10, 0, 0, 0, time.UTC)

type fakeSource struct {
	items []models.ComplianceItem
	err   error
}

func (f *fakeSource) ListOpenComplianceItems(ctx context.Context, companyID string) ([]models.ComplianceItem, error) {
	return f.items, f.err
}

func (f *fakeSource) ListGrantOpportunities(ctx context.Context, companyID string) ([]models.GrantOpportunity, error) {
	return nil, nil
}

type fakeStore struct {
	replaced map[string][]models.Alert
}

func (f *fakeStore) ReplaceAlerts(ctx context.Context, companyID string, set []models.Alert) error {
	if f.replaced == nil {
		f.replaced = map[string][]models.Alert{}
	}
	f.replaced[companyID] = set
	return nil
}

func createTestConfig() *Config {
	return &Config{Timeout: 5 * time.Second}
}

func setupRedis(t *testing.T) *redis.Client {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	return redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

func openItem(id, severity string) models.ComplianceItem {
	due := testNow.AddDate(0, 0, 10)
	return models.ComplianceItem{
		CompanyCompliance: models.CompanyCompliance{
			ID:        id,
			CompanyID: "company-1",
			Status:    models.ComplianceStatusPending,
			DueDate:   &due,
		},
		Requirement: models.ComplianceRequirement{
			ID:       "req-" + id,
			Title:    "Registro de jornada",
			Severity: severity,
		},
	}
}

// ==========================
// Execute
// ==========================

func TestExecute_SyncsUnderLock(t *testing.T) {
	rdb := setupRedis(t)
	locker := lock.NewCompanyLocker(rdb, time.Minute)
	store := &fakeStore{}
	source := &fakeSource{items: []models.ComplianceItem{
		openItem("cc-1", models.SeverityHigh),
		openItem("cc-2", models.SeverityLow),
	}}

	log := logger.NewTestLogger(t)
	syncer := alerts.NewSyncer(source, store, locker, "EUR", log).WithClock(func() time.Time { return testNow })
	h := NewHandler(createTestConfig(), syncer, nil, nil, log)

	output, err := h.Execute(context.Background(), &Input{CompanyID: "company-1"})
	require.NoError(t, err)

	assert.Equal(t, 2, output.AlertsActive)
	assert.Len(t, store.replaced["company-1"], 2)

	exists, err := rdb.Exists(context.Background(), "alerts:sync:lock:company-1").Result()
	require.NoError(t, err)
	assert.Zero(t, exists, "lock must be released after the sync")
}

func TestExecute_LockHeld(t *testing.T) {
	rdb := setupRedis(t)
	locker := lock.NewCompanyLocker(rdb, time.Minute)

	release, err := locker.Lock(context.Background(), "company-1")
	require.NoError(t, err)
	defer release(context.Background())

	store := &fakeStore{}
	syncer := alerts.NewSyncer(&fakeSource{}, store, locker, "EUR", logger.NewNoOpLogger())
	h := NewHandler(createTestConfig(), syncer, nil, nil, logger.NewNoOpLogger())

	_, err = h.Execute(context.Background(), &Input{CompanyID: "company-1"})

	stdErr, ok := apperrors.AsStandardError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrCodeAlertSyncInProgress, stdErr.Code)
	assert.Equal(t, 2, apperrors.GetRetryCount(stdErr.Code))
	assert.Empty(t, store.replaced)
}

func TestExecute_ReadFailure(t *testing.T) {
	store := &fakeStore{}
	syncer := alerts.NewSyncer(&fakeSource{err: errors.New("relation does not exist")}, store, nil, "EUR", logger.NewNoOpLogger())
	h := NewHandler(createTestConfig(), syncer, nil, nil, logger.NewNoOpLogger())

	_, err := h.Execute(context.Background(), &Input{CompanyID: "company-1"})

	stdErr, ok := apperrors.AsStandardError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrCodeAlertSyncFailed, stdErr.Code)
	assert.Contains(t, stdErr.Details, "relation does not exist")
	assert.Empty(t, store.replaced)
}
