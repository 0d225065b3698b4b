package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	stderrors "storescout/internal/common/errors"
	"storescout/internal/common/logger"
	"storescout/internal/models"
)

// processTimeout bounds one background analysis run, covering all retry
// budgets of the slowest source plus the detail wave.
const processTimeout = 2 * time.Minute

// Repository is the persistence surface the handlers need.
type Repository interface {
	Insert(ctx context.Context, req *models.AnalysisRequest) error
	GetByID(ctx context.Context, id string) (*models.AnalysisRequest, error)
}

// Processor runs an accepted analysis to completion.
type Processor interface {
	Process(ctx context.Context, req *models.AnalysisRequest)
}

// Handler serves the analysis endpoints.
type Handler struct {
	repo      Repository
	processor Processor
	logger    logger.Logger
}

// NewHandler wires the handler dependencies.
func NewHandler(repo Repository, p Processor, log logger.Logger) *Handler {
	return &Handler{repo: repo, processor: p, logger: log}
}

type createAnalysisRequest struct {
	Address      string `json:"address" binding:"required"`
	IndustryCode string `json:"industryCode" binding:"required"`
	IndustryName string `json:"industryName"`
	RadiusM      int    `json:"radiusM" binding:"required"`
	DistrictCode string `json:"districtCode"`
	AdminCode    string `json:"adminCode"`
}

// CreateAnalysis accepts a new analysis request, persists it PENDING and
// starts the pipeline in the background. Responds 202 with the id.
func (h *Handler) CreateAnalysis(c *gin.Context) {
	var body createAnalysisRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		writeError(c, stderrors.NewAnalysisInvalidInputError(err.Error()))
		return
	}
	if !models.ValidRadius(body.RadiusM) {
		writeError(c, stderrors.NewAnalysisInvalidInputError("radiusM must be one of 300, 500, 1000, 1500, 2000"))
		return
	}

	req := &models.AnalysisRequest{
		ID:           uuid.NewString(),
		Address:      body.Address,
		IndustryCode: body.IndustryCode,
		IndustryName: body.IndustryName,
		RadiusM:      body.RadiusM,
		DistrictCode: body.DistrictCode,
		AdminCode:    body.AdminCode,
		Status:       models.StatusPending,
		CreatedAt:    time.Now().UTC(),
	}

	if err := h.repo.Insert(c.Request.Context(), req); err != nil {
		writeError(c, err)
		return
	}

	// Detached from the request context so the client disconnecting does
	// not cancel the run.
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), processTimeout)
		defer cancel()
		h.processor.Process(ctx, req)
	}()

	c.JSON(http.StatusAccepted, gin.H{
		"id":     req.ID,
		"status": req.Status,
	})
}

// GetAnalysis returns the current state of one analysis, including the
// report once it completed.
func (h *Handler) GetAnalysis(c *gin.Context) {
	req, err := h.repo.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, req)
}

// errorBody is the standardized error envelope.
type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

func writeError(c *gin.Context, err error) {
	se := stderrors.AsStandard(err)
	c.AbortWithStatusJSON(httpStatus(se.Code), gin.H{
		"error": errorBody{
			Code:    string(se.Code),
			Message: se.Message,
			Details: se.Details,
		},
	})
}

func httpStatus(code stderrors.ErrorCode) int {
	switch code {
	case stderrors.ErrCodeAnalysisInvalidInput:
		return http.StatusBadRequest
	case stderrors.ErrCodeAnalysisNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
