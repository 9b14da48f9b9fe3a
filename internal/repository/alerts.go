package repository

import (
	"context"
	"database/sql"
	"fmt"

	"compliance-workers/internal/common/database"
	"compliance-workers/internal/models"

	"github.com/google/uuid"
)

// ReplaceAlerts deletes the company's alert set and inserts the new one in a
// single transaction. On any failure the previous set is left in place.
func (s *Store) ReplaceAlerts(ctx context.Context, companyID string, alerts []models.Alert) error {
	return database.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM alerts WHERE company_id = $1`, companyID); err != nil {
			return fmt.Errorf("clear alerts: %w", err)
		}
		if len(alerts) == 0 {
			return nil
		}

		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO alerts (
				id, company_id, source_type, source_id, title, description,
				risk_level, economic_impact, impact_type, deadline, deadline_label,
				cta_action, cta_target, cta_label, status, is_premium, teaser_message, created_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`)
		if err != nil {
			return fmt.Errorf("prepare alert insert: %w", err)
		}
		defer stmt.Close()

		createdAt := s.now()
		for _, a := range alerts {
			id := a.ID
			if id == "" {
				id = uuid.New().String()
			}
			if _, err := stmt.ExecContext(ctx,
				id, companyID, a.SourceType, a.SourceID, a.Title, a.Description,
				a.RiskLevel, a.EconomicImpact, a.ImpactType, nullTime(a.Deadline), nullString(a.DeadlineLabel),
				a.CTAAction, a.CTATarget, a.CTALabel, a.Status, a.IsPremium, nullString(a.TeaserMessage), createdAt,
			); err != nil {
				return fmt.Errorf("insert alert for %s %s: %w", a.SourceType, a.SourceID, err)
			}
		}
		return nil
	})
}

// ListAlerts returns the company's current alert set, most urgent first.
func (s *Store) ListAlerts(ctx context.Context, companyID string) ([]models.Alert, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, company_id, source_type, source_id, title, description,
			risk_level, economic_impact, impact_type, deadline, deadline_label,
			cta_action, cta_target, cta_label, status, is_premium, teaser_message
		FROM alerts
		WHERE company_id = $1
		ORDER BY deadline NULLS LAST, id`, companyID)
	if err != nil {
		return nil, fmt.Errorf("query alerts: %w", err)
	}
	defer rows.Close()

	var alerts []models.Alert
	for rows.Next() {
		var (
			a             models.Alert
			deadline      sql.NullTime
			label, teaser sql.NullString
		)
		if err := rows.Scan(
			&a.ID, &a.CompanyID, &a.SourceType, &a.SourceID, &a.Title, &a.Description,
			&a.RiskLevel, &a.EconomicImpact, &a.ImpactType, &deadline, &label,
			&a.CTAAction, &a.CTATarget, &a.CTALabel, &a.Status, &a.IsPremium, &teaser,
		); err != nil {
			return nil, fmt.Errorf("scan alert: %w", err)
		}
		a.Deadline = timePtr(deadline)
		a.DeadlineLabel = stringPtr(label)
		a.TeaserMessage = stringPtr(teaser)
		alerts = append(alerts, a)
	}
	return alerts, rows.Err()
}
