package http

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/cosmo-uplink/internal/domain/missionlog"
	"github.com/yanqian/cosmo-uplink/internal/domain/missionreport"
	"github.com/yanqian/cosmo-uplink/internal/domain/telemetry"
)

// ReportController is the view-state machine behind the report endpoints.
type ReportController interface {
	State() missionreport.State
	Start(ctx context.Context, req missionreport.ReportRequest) (missionreport.State, error)
	StartAsync(ctx context.Context, req missionreport.ReportRequest) (missionreport.State, error)
	Dismiss() missionreport.State
	Acknowledge(version uint64) (missionreport.State, bool)
	Subscribe(buffer int) (<-chan missionreport.State, func())
}

// Handler wires the HTTP transport to domain services.
type Handler struct {
	reports   ReportController
	telemetry telemetry.Service
	logs      missionlog.Service
	logger    *slog.Logger
}

// NewHandler constructs the root HTTP handler.
func NewHandler(reports ReportController, telemetrySvc telemetry.Service, logSvc missionlog.Service, logger *slog.Logger) *Handler {
	return &Handler{
		reports:   reports,
		telemetry: telemetrySvc,
		logs:      logSvc,
		logger:    logger.With("component", "http.handler"),
	}
}

// reportRequestBody lets callers override any part of the dashboard readings.
// Weather fields left out keep their dashboard values.
type reportRequestBody struct {
	Zone     string       `json:"zone"`
	Weather  *weatherBody `json:"weather"`
	Minerals []string     `json:"minerals"`
}

type weatherBody struct {
	Wind        *float64 `json:"wind"`
	Temperature *float64 `json:"temperature"`
	Radiation   *float64 `json:"radiation"`
}

type acknowledgeBody struct {
	Version *uint64 `json:"version"`
}

// StartReport triggers report generation. By default the call returns as soon
// as the view state is generating; ?wait=true blocks until the report is ready.
func (h *Handler) StartReport(c *gin.Context) {
	var body reportRequestBody
	if err := c.ShouldBindJSON(&body); err != nil && !errors.Is(err, io.EOF) {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}
	req := h.mergeRequest(c.Request.Context(), body)

	wait, _ := strconv.ParseBool(c.Query("wait"))
	var (
		state missionreport.State
		err   error
	)
	if wait {
		state, err = h.reports.Start(c.Request.Context(), req)
	} else {
		state, err = h.reports.StartAsync(c.Request.Context(), req)
	}
	if err != nil {
		abortWithAppError(c, err, "report_failed")
		return
	}

	status := http.StatusAccepted
	if wait {
		status = http.StatusOK
	}
	c.JSON(status, state)
}

// ReportState returns the current view state.
func (h *Handler) ReportState(c *gin.Context) {
	c.JSON(http.StatusOK, h.reports.State())
}

// DismissReport closes the report view without saving.
func (h *Handler) DismissReport(c *gin.Context) {
	c.JSON(http.StatusOK, h.reports.Dismiss())
}

// AcknowledgeReport dismisses the ready report. When a version is given the
// dismissal only applies to that exact report.
func (h *Handler) AcknowledgeReport(c *gin.Context) {
	var body acknowledgeBody
	if err := c.ShouldBindJSON(&body); err != nil && !errors.Is(err, io.EOF) {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}
	if body.Version == nil {
		c.JSON(http.StatusOK, h.reports.Dismiss())
		return
	}
	state, ok := h.reports.Acknowledge(*body.Version)
	if !ok {
		abortWithError(c, NewHTTPError(http.StatusConflict, "stale_version", "report version is no longer current", nil))
		return
	}
	c.JSON(http.StatusOK, state)
}

// SaveReport stores the ready report in the mission log.
func (h *Handler) SaveReport(c *gin.Context) {
	entry, err := h.logs.SaveCurrent(c.Request.Context())
	if err != nil {
		abortWithAppError(c, err, "log_failed")
		return
	}
	c.JSON(http.StatusCreated, entry)
}

// ListLogs returns the newest saved transmissions.
func (h *Handler) ListLogs(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", "limit must be a non-negative integer", err))
			return
		}
		limit = parsed
	}
	entries, err := h.logs.Recent(c.Request.Context(), limit)
	if err != nil {
		abortWithAppError(c, err, "log_failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{"entries": entries})
}

// GetLog returns a single saved transmission.
func (h *Handler) GetLog(c *gin.Context) {
	entry, err := h.logs.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWithAppError(c, err, "log_failed")
		return
	}
	c.JSON(http.StatusOK, entry)
}

// GetTranscript streams the archived plain-text copy of a transmission.
func (h *Handler) GetTranscript(c *gin.Context) {
	rc, err := h.logs.Transcript(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWithAppError(c, err, "log_failed")
		return
	}
	defer rc.Close()
	c.Status(http.StatusOK)
	c.Header("Content-Type", "text/plain; charset=utf-8")
	if _, err := io.Copy(c.Writer, rc); err != nil {
		h.logger.Warn("transcript copy interrupted", "id", c.Param("id"), "error", err)
	}
}

// Telemetry returns the dashboard snapshot.
func (h *Handler) Telemetry(c *gin.Context) {
	c.JSON(http.StatusOK, h.telemetry.Snapshot(c.Request.Context()))
}

// ListSpecimens returns the specimen catalog, optionally filtered by rarity.
func (h *Handler) ListSpecimens(c *gin.Context) {
	items, err := h.telemetry.Specimens(c.Request.Context(), c.Query("rarity"))
	if err != nil {
		abortWithAppError(c, err, "catalog_failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{"specimens": items})
}

// GetSpecimen returns a single specimen.
func (h *Handler) GetSpecimen(c *gin.Context) {
	item, err := h.telemetry.Specimen(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWithAppError(c, err, "catalog_failed")
		return
	}
	c.JSON(http.StatusOK, item)
}

// Health reports liveness along with the current view status.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "report": h.reports.State().Status})
}

func (h *Handler) mergeRequest(ctx context.Context, body reportRequestBody) missionreport.ReportRequest {
	req := h.telemetry.DefaultReportRequest(ctx)
	if body.Zone != "" {
		req.Zone = body.Zone
	}
	if w := body.Weather; w != nil {
		if w.Wind != nil {
			req.Weather.Wind = *w.Wind
		}
		if w.Temperature != nil {
			req.Weather.Temperature = *w.Temperature
		}
		if w.Radiation != nil {
			req.Weather.Radiation = *w.Radiation
		}
	}
	if body.Minerals != nil {
		req.Minerals = body.Minerals
	}
	return req
}
