package store

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	stderrors "storescout/internal/common/errors"
	"storescout/internal/common/logger"
	"storescout/internal/models"
)

func newTestStore(t *testing.T) (*AnalysisStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return New(db, logger.NewTestLogger(t)), mock
}

func TestInsert(t *testing.T) {
	s, mock := newTestStore(t)

	req := &models.AnalysisRequest{
		ID:           "a-1",
		Address:      "서울 성동구",
		IndustryCode: "cafe",
		IndustryName: "카페",
		RadiusM:      500,
		Status:       models.StatusPending,
		DistrictCode: "11200",
		AdminCode:    "1120011500",
		CreatedAt:    time.Now(),
	}

	mock.ExpectExec("INSERT INTO analyses").
		WithArgs(req.ID, req.Address, req.IndustryCode, req.IndustryName,
			req.RadiusM, "PENDING", req.DistrictCode, req.AdminCode, req.CreatedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, s.Insert(context.Background(), req))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdate_BuildsDeterministicSetClause(t *testing.T) {
	s, mock := newTestStore(t)

	// Columns sort alphabetically: report, status, total_score.
	mock.ExpectExec(`UPDATE analyses SET report = \$1, status = \$2, total_score = \$3, updated_at = now\(\) WHERE id = \$4`).
		WithArgs([]byte(`{"totalScore":72}`), "COMPLETED", 72, "a-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := s.Update(context.Background(), "a-1", map[string]interface{}{
		"status":      "COMPLETED",
		"total_score": 72,
		"report":      []byte(`{"totalScore":72}`),
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdate_RejectsUnknownColumn(t *testing.T) {
	s, _ := newTestStore(t)

	err := s.Update(context.Background(), "a-1", map[string]interface{}{
		"status": "COMPLETED; DROP TABLE analyses",
		"id":     "a-2",
	})
	require.Error(t, err)
	se := stderrors.AsStandard(err)
	assert.Equal(t, stderrors.ErrCodeQueryExecutionFailed, se.Code)
}

func TestUpdate_NoRowsIsNotFound(t *testing.T) {
	s, mock := newTestStore(t)

	mock.ExpectExec("UPDATE analyses SET").
		WithArgs("FAILED", "missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := s.Update(context.Background(), "missing", map[string]interface{}{
		"status": "FAILED",
	})
	require.Error(t, err)
	assert.Equal(t, stderrors.ErrCodeAnalysisNotFound, stderrors.AsStandard(err).Code)
}

func TestUpdate_EmptyFieldsNoOp(t *testing.T) {
	s, mock := newTestStore(t)
	require.NoError(t, s.Update(context.Background(), "a-1", nil))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByID(t *testing.T) {
	s, mock := newTestStore(t)

	created := time.Now()
	rows := sqlmock.NewRows([]string{
		"id", "address", "industry_code", "industry_name", "radius_m", "status",
		"district_code", "admin_code", "total_score", "report", "created_at",
	}).AddRow("a-1", "서울 성동구", "cafe", "카페", 500, "COMPLETED",
		"11200", "1120011500", 72, []byte(`{"totalScore":72}`), created)

	mock.ExpectQuery("SELECT (.+) FROM analyses WHERE id = ").
		WithArgs("a-1").
		WillReturnRows(rows)

	req, err := s.GetByID(context.Background(), "a-1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, req.Status)
	require.NotNil(t, req.TotalScore)
	assert.Equal(t, 72, *req.TotalScore)
	assert.JSONEq(t, `{"totalScore":72}`, string(req.Report))
}

func TestGetByID_PendingRowHasNulls(t *testing.T) {
	s, mock := newTestStore(t)

	rows := sqlmock.NewRows([]string{
		"id", "address", "industry_code", "industry_name", "radius_m", "status",
		"district_code", "admin_code", "total_score", "report", "created_at",
	}).AddRow("a-2", "부산", "bakery", "베이커리", 1000, "PENDING",
		"", "", nil, nil, time.Now())

	mock.ExpectQuery("SELECT (.+) FROM analyses WHERE id = ").
		WithArgs("a-2").
		WillReturnRows(rows)

	req, err := s.GetByID(context.Background(), "a-2")
	require.NoError(t, err)
	assert.Nil(t, req.TotalScore)
	assert.Nil(t, req.Report)
	assert.Equal(t, models.StatusPending, req.Status)
}

func TestGetByID_NotFound(t *testing.T) {
	s, mock := newTestStore(t)

	mock.ExpectQuery("SELECT (.+) FROM analyses WHERE id = ").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := s.GetByID(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, stderrors.ErrCodeAnalysisNotFound, stderrors.AsStandard(err).Code)
}
