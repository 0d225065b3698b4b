// Package store persists analysis requests and their results in postgres.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"

	stderrors "storescout/internal/common/errors"
	"storescout/internal/common/logger"
	"storescout/internal/models"
)

// Schema is the DDL for the analyses table. Applied at startup; the
// statement is idempotent.
const Schema = `
CREATE TABLE IF NOT EXISTS analyses (
    id            TEXT PRIMARY KEY,
    address       TEXT NOT NULL,
    industry_code TEXT NOT NULL,
    industry_name TEXT NOT NULL DEFAULT '',
    radius_m      INTEGER NOT NULL,
    status        TEXT NOT NULL,
    district_code TEXT NOT NULL DEFAULT '',
    admin_code    TEXT NOT NULL DEFAULT '',
    total_score   INTEGER,
    report        JSONB,
    error_detail  TEXT,
    created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at    TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// updatableColumns whitelists the columns the dynamic Update may touch.
var updatableColumns = map[string]bool{
	"status":       true,
	"total_score":  true,
	"report":       true,
	"error_detail": true,
}

// AnalysisStore is the postgres-backed repository for analysis requests.
type AnalysisStore struct {
	db     *sql.DB
	logger logger.Logger
}

// New creates the store over an open connection pool.
func New(db *sql.DB, log logger.Logger) *AnalysisStore {
	return &AnalysisStore{db: db, logger: log}
}

// Init applies the schema.
func (s *AnalysisStore) Init(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, Schema); err != nil {
		return stderrors.NewQueryExecutionFailedError(err)
	}
	return nil
}

// Insert persists a new analysis row.
func (s *AnalysisStore) Insert(ctx context.Context, req *models.AnalysisRequest) error {
	const q = `
		INSERT INTO analyses (id, address, industry_code, industry_name, radius_m, status, district_code, admin_code, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := s.db.ExecContext(ctx, q,
		req.ID, req.Address, req.IndustryCode, req.IndustryName,
		req.RadiusM, string(req.Status), req.DistrictCode, req.AdminCode, req.CreatedAt)
	if err != nil {
		s.logger.WithError(err).Error("failed to insert analysis", map[string]interface{}{
			"analysis_id": req.ID,
		})
		return stderrors.NewQueryExecutionFailedError(err)
	}
	return nil
}

// Update applies the given column updates to one analysis row. Unknown
// columns are rejected before touching the database.
func (s *AnalysisStore) Update(ctx context.Context, id string, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}

	cols := make([]string, 0, len(fields))
	for col := range fields {
		if !updatableColumns[col] {
			return stderrors.NewQueryExecutionFailedError(fmt.Errorf("column %q is not updatable", col))
		}
		cols = append(cols, col)
	}
	sort.Strings(cols)

	set := make([]string, 0, len(cols)+1)
	args := make([]interface{}, 0, len(cols)+1)
	for i, col := range cols {
		set = append(set, fmt.Sprintf("%s = $%d", col, i+1))
		args = append(args, fields[col])
	}
	set = append(set, "updated_at = now()")
	args = append(args, id)

	q := fmt.Sprintf("UPDATE analyses SET %s WHERE id = $%d", strings.Join(set, ", "), len(args))

	res, err := s.db.ExecContext(ctx, q, args...)
	if err != nil {
		s.logger.WithError(err).Error("failed to update analysis", map[string]interface{}{
			"analysis_id": id,
		})
		return stderrors.NewQueryExecutionFailedError(err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return stderrors.NewAnalysisNotFoundError(id)
	}
	return nil
}

// GetByID loads one analysis row.
func (s *AnalysisStore) GetByID(ctx context.Context, id string) (*models.AnalysisRequest, error) {
	const q = `
		SELECT id, address, industry_code, industry_name, radius_m, status,
		       district_code, admin_code, total_score, report, created_at
		FROM analyses WHERE id = $1`

	var (
		req        models.AnalysisRequest
		status     string
		totalScore sql.NullInt64
		report     []byte
	)
	err := s.db.QueryRowContext(ctx, q, id).Scan(
		&req.ID, &req.Address, &req.IndustryCode, &req.IndustryName,
		&req.RadiusM, &status, &req.DistrictCode, &req.AdminCode,
		&totalScore, &report, &req.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, stderrors.NewAnalysisNotFoundError(id)
	}
	if err != nil {
		return nil, stderrors.NewQueryExecutionFailedError(err)
	}

	req.Status = models.AnalysisStatus(status)
	if totalScore.Valid {
		v := int(totalScore.Int64)
		req.TotalScore = &v
	}
	if len(report) > 0 {
		req.Report = report
	}
	return &req, nil
}
