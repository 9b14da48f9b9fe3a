package repository

import (
	"context"
	"database/sql"
	"fmt"

	"compliance-workers/internal/common/database"
	"compliance-workers/internal/models"

	"github.com/google/uuid"
)

// UpsertComplianceMatches inserts new pending rows and refreshes priority and
// due date on existing ones. The status of an existing row is never touched.
func (s *Store) UpsertComplianceMatches(ctx context.Context, companyID string, matches []models.RequirementMatch) error {
	if len(matches) == 0 {
		return nil
	}

	return database.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO company_compliance (id, company_id, requirement_id, status, priority, due_date)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (company_id, requirement_id) DO UPDATE
			SET priority = EXCLUDED.priority, due_date = EXCLUDED.due_date`)
		if err != nil {
			return fmt.Errorf("prepare compliance upsert: %w", err)
		}
		defer stmt.Close()

		for _, m := range matches {
			if _, err := stmt.ExecContext(ctx,
				uuid.New().String(), companyID, m.RequirementID,
				models.ComplianceStatusPending, m.Priority, nullTime(m.DueDate),
			); err != nil {
				return fmt.Errorf("upsert compliance %s: %w", m.RequirementID, err)
			}
		}
		return nil
	})
}

func (s *Store) ListComplianceStatuses(ctx context.Context, companyID string) ([]models.CompanyCompliance, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, company_id, requirement_id, status, priority, due_date, completed_at
		FROM company_compliance
		WHERE company_id = $1
		ORDER BY priority DESC, id`, companyID)
	if err != nil {
		return nil, fmt.Errorf("query compliance statuses: %w", err)
	}
	defer rows.Close()

	var items []models.CompanyCompliance
	for rows.Next() {
		var (
			c         models.CompanyCompliance
			due, done sql.NullTime
		)
		if err := rows.Scan(&c.ID, &c.CompanyID, &c.RequirementID, &c.Status, &c.Priority, &due, &done); err != nil {
			return nil, fmt.Errorf("scan compliance status: %w", err)
		}
		c.DueDate = timePtr(due)
		c.CompletedAt = timePtr(done)
		items = append(items, c)
	}
	return items, rows.Err()
}

// ListOpenComplianceItems returns the company's non-completed rows joined with
// their requirement, highest priority first.
func (s *Store) ListOpenComplianceItems(ctx context.Context, companyID string) ([]models.ComplianceItem, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT cc.id, cc.company_id, cc.requirement_id, cc.status, cc.priority, cc.due_date, cc.completed_at,
			r.id, r.title, COALESCE(r.description, ''), COALESCE(r.category, ''), r.severity,
			r.countries, r.sectors, r.company_sizes, r.is_recurring, r.frequency
		FROM company_compliance cc
		JOIN compliance_requirements r ON r.id = cc.requirement_id
		WHERE cc.company_id = $1 AND cc.status <> $2
		ORDER BY cc.priority DESC, cc.id`, companyID, models.ComplianceStatusCompleted)
	if err != nil {
		return nil, fmt.Errorf("query open compliance items: %w", err)
	}
	defer rows.Close()

	var items []models.ComplianceItem
	for rows.Next() {
		var (
			item      models.ComplianceItem
			due, done sql.NullTime
			frequency sql.NullString
		)
		dest := []interface{}{
			&item.ID, &item.CompanyID, &item.RequirementID, &item.Status, &item.Priority, &due, &done,
		}
		dest = append(dest, requirementDest(&item.Requirement, &frequency)...)
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan compliance item: %w", err)
		}
		item.DueDate = timePtr(due)
		item.CompletedAt = timePtr(done)
		item.Requirement.Frequency = stringPtr(frequency)
		items = append(items, item)
	}
	return items, rows.Err()
}
