package handler

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"figcheck/internal/csvexport"
	"figcheck/internal/domain"
	"figcheck/internal/service"
)

// VerificationHandler handles claim verification endpoints.
type VerificationHandler struct {
	verificationService service.VerificationService
}

// NewVerificationHandler creates a new VerificationHandler.
func NewVerificationHandler(verificationService service.VerificationService) *VerificationHandler {
	return &VerificationHandler{verificationService: verificationService}
}

type verifyRequest struct {
	Claims []domain.CalculationClaim `json:"claims" binding:"required"`
}

type submitRunRequest struct {
	Name   string                    `json:"name" binding:"max=255"`
	Claims []domain.CalculationClaim `json:"claims" binding:"required"`
}

// VerifyResponse is the body of a synchronous verification.
type VerifyResponse struct {
	Results []domain.ClaimResult `json:"results"`
	Summary domain.RunSummary    `json:"summary"`
}

// Verify handles POST /api/v1/verify
// @Summary Verify claims
// @Description Recompute each calculation claim and judge the reported figure synchronously
// @Tags verification
// @Accept json
// @Produce json
// @Param request body verifyRequest true "Claims to verify"
// @Success 200 {object} APIResponse{data=VerifyResponse} "Per-claim results and summary"
// @Failure 400 {object} APIResponse "Invalid request"
// @Failure 401 {object} APIResponse "Unauthorized"
// @Failure 413 {object} APIResponse "Batch or body too large"
// @Security BearerAuth
// @Router /verify [post]
func (h *VerificationHandler) Verify(c *gin.Context) {
	if _, _, ok := extractAuthContext(c); !ok {
		return
	}

	var req verifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err, "claims are required")
		return
	}

	results, summary, err := h.verificationService.VerifyBatch(req.Claims)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, VerifyResponse{Results: results, Summary: summary})
}

// SubmitRun handles POST /api/v1/runs
// @Summary Queue a verification run
// @Tags runs
// @Accept json
// @Produce json
// @Param request body submitRunRequest true "Run name and claims"
// @Success 202 {object} APIResponse{data=domain.VerificationRun} "Run queued"
// @Failure 400 {object} APIResponse "Invalid request"
// @Failure 401 {object} APIResponse "Unauthorized"
// @Failure 413 {object} APIResponse "Batch or body too large"
// @Security BearerAuth
// @Router /runs [post]
func (h *VerificationHandler) SubmitRun(c *gin.Context) {
	tenantID, userID, ok := extractAuthContext(c)
	if !ok {
		return
	}

	var req submitRunRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err, "claims are required")
		return
	}

	run, err := h.verificationService.SubmitRun(c.Request.Context(), &service.SubmitRunInput{
		TenantID:  tenantID,
		CreatedBy: userID,
		Name:      req.Name,
		Claims:    req.Claims,
	})
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondAccepted(c, run)
}

// ListRuns handles GET /api/v1/runs
// @Summary List verification runs
// @Tags runs
// @Produce json
// @Param offset query int false "Offset" default(0)
// @Param limit query int false "Limit" default(20)
// @Success 200 {object} APIResponse{data=[]domain.VerificationRun,meta=PagMeta} "Runs, newest first"
// @Failure 401 {object} APIResponse "Unauthorized"
// @Security BearerAuth
// @Router /runs [get]
func (h *VerificationHandler) ListRuns(c *gin.Context) {
	tenantID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	offset, limit := parsePagination(c)
	runs, total, err := h.verificationService.ListRuns(c.Request.Context(), tenantID, offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondPaginated(c, runs, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// GetRun handles GET /api/v1/runs/:id
// @Summary Get a verification run
// @Tags runs
// @Produce json
// @Param id path string true "Run ID (UUID)"
// @Success 200 {object} APIResponse{data=domain.VerificationRun} "Run with results"
// @Failure 400 {object} APIResponse "Invalid ID"
// @Failure 404 {object} APIResponse "Run not found"
// @Security BearerAuth
// @Router /runs/{id} [get]
func (h *VerificationHandler) GetRun(c *gin.Context) {
	tenantID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}
	runID, ok := parseRunID(c)
	if !ok {
		return
	}

	run, err := h.verificationService.GetRun(c.Request.Context(), tenantID, runID)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, run)
}

// ExportRun handles GET /api/v1/runs/:id/export
// @Summary Export run results as CSV
// @Tags runs
// @Produce text/csv
// @Param id path string true "Run ID (UUID)"
// @Success 200 {file} file "CSV report"
// @Failure 404 {object} APIResponse "Run not found"
// @Failure 409 {object} APIResponse "Run not completed"
// @Security BearerAuth
// @Router /runs/{id}/export [get]
// The report is buffered so failures still produce a JSON error envelope.
func (h *VerificationHandler) ExportRun(c *gin.Context) {
	tenantID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}
	runID, ok := parseRunID(c)
	if !ok {
		return
	}

	var buf bytes.Buffer
	buf.Write(csvexport.BOM)
	run, err := h.verificationService.ExportRun(c.Request.Context(), tenantID, runID, &buf)
	if err != nil {
		HandleError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, csvexport.BuildFilename(run.Name)))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// ArchiveRun handles POST /api/v1/runs/:id/archive
// @Summary Archive run results to object storage
// @Tags runs
// @Produce json
// @Param id path string true "Run ID (UUID)"
// @Success 200 {object} APIResponse{data=service.ArchiveResult} "Archive key and download URL"
// @Failure 404 {object} APIResponse "Run not found"
// @Failure 409 {object} APIResponse "Run not completed"
// @Failure 503 {object} APIResponse "Archiving not configured"
// @Security BearerAuth
// @Router /runs/{id}/archive [post]
func (h *VerificationHandler) ArchiveRun(c *gin.Context) {
	tenantID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}
	runID, ok := parseRunID(c)
	if !ok {
		return
	}

	result, err := h.verificationService.ArchiveRun(c.Request.Context(), tenantID, runID)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, result)
}
