package handler

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/foxerka/enterprise-assets/internal/report"
	"github.com/foxerka/enterprise-assets/internal/service"
	"go.uber.org/zap"
)

// ReportHandler serves XLSX exports
type ReportHandler struct {
	reportService *service.ReportService
	logger        *zap.Logger
}

// NewReportHandler creates a new report handler instance
func NewReportHandler(reportService *service.ReportService, logger *zap.Logger) *ReportHandler {
	return &ReportHandler{
		reportService: reportService,
		logger:        logger,
	}
}

// writeWorkbook renders into memory first so a failure can still become a
// JSON error instead of a truncated download
func (h *ReportHandler) writeWorkbook(w http.ResponseWriter, r *http.Request, name string, render func(context.Context, io.Writer) error) {
	var buf bytes.Buffer
	if err := render(r.Context(), &buf); err != nil {
		respondServiceError(w, h.logger, err, "render "+name+" report")
		return
	}

	filename := name + "-" + time.Now().Format("20060102") + ".xlsx"
	w.Header().Set("Content-Type", report.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

// Equipment godoc
// @Summary Equipment register export
// @Tags Reports
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success 200 {file} file
// @Failure 500 {object} domain.APIError
// @Security BearerAuth
// @Router /reports/equipment.xlsx [get]
func (h *ReportHandler) Equipment(w http.ResponseWriter, r *http.Request) {
	h.writeWorkbook(w, r, "equipment", h.reportService.WriteEquipment)
}

// Maintenance godoc
// @Summary Maintenance schedule export
// @Tags Reports
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success 200 {file} file
// @Failure 500 {object} domain.APIError
// @Security BearerAuth
// @Router /reports/maintenance.xlsx [get]
func (h *ReportHandler) Maintenance(w http.ResponseWriter, r *http.Request) {
	h.writeWorkbook(w, r, "maintenance", h.reportService.WriteMaintenance)
}

// ArchiveEquipment godoc
// @Summary Archive equipment register
// @Description Renders the equipment register and uploads it to report storage
// @Tags Reports
// @Produce json
// @Success 201 {object} service.ArchivedReport
// @Failure 409 {object} domain.APIError "Archiving disabled"
// @Failure 500 {object} domain.APIError
// @Security BearerAuth
// @Router /reports/equipment/archive [post]
func (h *ReportHandler) ArchiveEquipment(w http.ResponseWriter, r *http.Request) {
	archived, err := h.reportService.ArchiveEquipment(r.Context())
	if err != nil {
		respondServiceError(w, h.logger, err, "archive equipment report")
		return
	}
	respondJSON(w, http.StatusCreated, archived)
}
