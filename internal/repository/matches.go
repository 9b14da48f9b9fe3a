package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"compliance-workers/internal/models"

	"github.com/google/uuid"
)

// UpsertCompanyGrant writes one match keyed by (company_id, grant_id). Re-matching
// refreshes score and details only, so a status the user already moved is kept.
func (s *Store) UpsertCompanyGrant(ctx context.Context, companyID, grantID string, score int, details models.MatchDetails, status string) error {
	data, err := json.Marshal(details)
	if err != nil {
		return fmt.Errorf("encode match details: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO company_grants (id, company_id, grant_id, match_score, match_data, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $7)
		ON CONFLICT (company_id, grant_id) DO UPDATE
		SET match_score = EXCLUDED.match_score,
			match_data = EXCLUDED.match_data,
			updated_at = EXCLUDED.updated_at`,
		uuid.New().String(), companyID, grantID, score, data, status, s.now())
	if err != nil {
		return fmt.Errorf("upsert company grant %s/%s: %w", companyID, grantID, err)
	}
	return nil
}

const companyGrantColumns = `cg.id, cg.company_id, cg.grant_id, cg.match_score, cg.match_data, cg.status, cg.updated_at`

func companyGrantDest(cg *models.CompanyGrant, data *[]byte) []interface{} {
	return []interface{}{&cg.ID, &cg.CompanyID, &cg.GrantID, &cg.MatchScore, data, &cg.Status, &cg.UpdatedAt}
}

func decodeMatchData(cg *models.CompanyGrant, data []byte) error {
	if len(data) == 0 {
		return nil
	}
	var details models.MatchDetails
	if err := json.Unmarshal(data, &details); err != nil {
		return fmt.Errorf("decode match_data for %s: %w", cg.ID, err)
	}
	cg.MatchData = &details
	return nil
}

// GetCompanyGrant loads one stored match with its grant.
func (s *Store) GetCompanyGrant(ctx context.Context, companyID, grantID string) (*models.GrantOpportunity, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+companyGrantColumns+`, `+grantColumns+`
		FROM company_grants cg
		JOIN grants g ON g.id = cg.grant_id
		WHERE cg.company_id = $1 AND cg.grant_id = $2`, companyID, grantID)

	opp, err := scanOpportunity(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s/%s", ErrMatchNotFound, companyID, grantID)
	}
	if err != nil {
		return nil, fmt.Errorf("query company grant: %w", err)
	}
	return opp, nil
}

// ListGrantOpportunities returns the company's matches still in opportunity status.
func (s *Store) ListGrantOpportunities(ctx context.Context, companyID string) ([]models.GrantOpportunity, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+companyGrantColumns+`, `+grantColumns+`
		FROM company_grants cg
		JOIN grants g ON g.id = cg.grant_id
		WHERE cg.company_id = $1 AND cg.status = $2
		ORDER BY cg.match_score DESC, cg.id`, companyID, models.GrantStatusOpportunity)
	if err != nil {
		return nil, fmt.Errorf("query grant opportunities: %w", err)
	}
	defer rows.Close()

	var opps []models.GrantOpportunity
	for rows.Next() {
		opp, err := scanOpportunity(rows)
		if err != nil {
			return nil, fmt.Errorf("scan grant opportunity: %w", err)
		}
		opps = append(opps, *opp)
	}
	return opps, rows.Err()
}

func scanOpportunity(s scanner) (*models.GrantOpportunity, error) {
	var (
		opp  models.GrantOpportunity
		data []byte
		row  grantRow
	)
	dest := companyGrantDest(&opp.CompanyGrant, &data)
	dest = append(dest, row.dest(&opp.Grant)...)
	if err := s.Scan(dest...); err != nil {
		return nil, err
	}
	if err := decodeMatchData(&opp.CompanyGrant, data); err != nil {
		return nil, err
	}
	if err := row.apply(&opp.Grant); err != nil {
		return nil, err
	}
	return &opp, nil
}
