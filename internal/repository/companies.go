package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"compliance-workers/internal/models"
)

const companyColumns = `id, name, COALESCE(email, ''), country, region, sector, company_size,
	employee_count, annual_revenue, cnae_code, compliance_score, last_score_update`

func scanCompany(s scanner) (*models.Company, error) {
	var (
		c          models.Company
		region     sql.NullString
		employees  sql.NullInt64
		revenue    sql.NullFloat64
		cnae       sql.NullString
		lastUpdate sql.NullTime
	)
	if err := s.Scan(
		&c.ID, &c.Name, &c.Email, &c.Country, &region, &c.Sector, &c.CompanySize,
		&employees, &revenue, &cnae, &c.ComplianceScore, &lastUpdate,
	); err != nil {
		return nil, err
	}
	c.Region = stringPtr(region)
	c.EmployeeCount = intPtr(employees)
	c.AnnualRevenue = floatPtr(revenue)
	c.CNAECode = stringPtr(cnae)
	c.LastScoreUpdate = timePtr(lastUpdate)
	return &c, nil
}

// GetCompany returns ErrCompanyNotFound when no row matches id.
func (s *Store) GetCompany(ctx context.Context, id string) (*models.Company, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+companyColumns+` FROM companies WHERE id = $1`, id)

	company, err := scanCompany(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrCompanyNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("query company %s: %w", id, err)
	}
	return company, nil
}

func (s *Store) ListCompanies(ctx context.Context) ([]models.Company, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+companyColumns+` FROM companies ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query companies: %w", err)
	}
	defer rows.Close()

	var companies []models.Company
	for rows.Next() {
		c, err := scanCompany(rows)
		if err != nil {
			return nil, fmt.Errorf("scan company: %w", err)
		}
		companies = append(companies, *c)
	}
	return companies, rows.Err()
}

func (s *Store) SetComplianceScore(ctx context.Context, companyID string, score int, at time.Time) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE companies
		SET compliance_score = $2, last_score_update = $3
		WHERE id = $1`, companyID, score, at)
	if err != nil {
		return fmt.Errorf("update compliance score: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update compliance score: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s", ErrCompanyNotFound, companyID)
	}
	return nil
}
