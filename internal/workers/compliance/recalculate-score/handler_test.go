// internal/workers/compliance/recalculate-score/handler_test.go
package recalculatescore

import (
	"context"
	"database/sql"
	"testing"
	"time"

	apperrors "compliance-workers/internal/common/errors"
	"compliance-workers/internal/common/logger"
	"compliance-workers/internal/compliance"
	"compliance-workers/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

var testNow = time.Date(2025, 6, 2, 8, 30, 0, 0, time.UTC)

var statusCols = []string{"id", "company_id", "requirement_id", "status", "priority", "due_date", "completed_at"}

func createTestConfig() *Config {
	return &Config{Timeout: 5 * time.Second}
}

func setupMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create mock db: %v", err)
	}
	return db, mock
}

func newTestHandler(t *testing.T, db *sql.DB) *Handler {
	log := logger.NewTestLogger(t)
	aggregator := compliance.NewAggregator(repository.NewStore(db), log).
		WithClock(func() time.Time { return testNow })
	return NewHandler(createTestConfig(), aggregator, nil, nil, log)
}

// ==========================
// Execute
// ==========================

func TestExecute_RecalculatesScore(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT .+ FROM company_compliance WHERE company_id = \$1`).
		WithArgs("company-1").
		WillReturnRows(sqlmock.NewRows(statusCols).
			AddRow("cc-1", "company-1", "req-1", "completed", 5, nil, testNow).
			AddRow("cc-2", "company-1", "req-2", "not_applicable", 4, nil, nil).
			AddRow("cc-3", "company-1", "req-3", "pending", 3, nil, nil))

	mock.ExpectExec(`UPDATE companies SET compliance_score = \$2, last_score_update = \$3 WHERE id = \$1`).
		WithArgs("company-1", 67, testNow).
		WillReturnResult(sqlmock.NewResult(0, 1))

	output, err := newTestHandler(t, db).Execute(context.Background(), &Input{CompanyID: "company-1"})
	require.NoError(t, err)
	assert.Equal(t, 67, output.ComplianceScore)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExecute_CompanyNotFound(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT .+ FROM company_compliance`).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(statusCols))
	mock.ExpectExec(`UPDATE companies`).
		WithArgs("missing", 100, testNow).
		WillReturnResult(sqlmock.NewResult(0, 0))

	_, err := newTestHandler(t, db).Execute(context.Background(), &Input{CompanyID: "missing"})

	stdErr, ok := apperrors.AsStandardError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrCodeCompanyNotFound, stdErr.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExecute_ReadFailure(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT .+ FROM company_compliance`).
		WithArgs("company-1").
		WillReturnError(sql.ErrConnDone)

	_, err := newTestHandler(t, db).Execute(context.Background(), &Input{CompanyID: "company-1"})

	stdErr, ok := apperrors.AsStandardError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrCodeScoreUpdateFailed, stdErr.Code)
	assert.True(t, stdErr.Retryable)
}
