package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"ListingPulse/internal/domain/models"
	"ListingPulse/internal/scheduler"
	xhttp "ListingPulse/pkg/http"
	applogger "ListingPulse/pkg/logger"
)

// ReportHandler serves the cached strategy report and listing calendar. All
// reads come from scheduler snapshots; requests never trigger upstream calls.
type ReportHandler struct {
	report   *scheduler.Scheduler[*models.Report]
	calendar *scheduler.Scheduler[[]models.CalendarEntry]
	logger   *applogger.Logger
}

// NewReportHandler creates a ReportHandler.
func NewReportHandler(
	report *scheduler.Scheduler[*models.Report],
	calendar *scheduler.Scheduler[[]models.CalendarEntry],
	logger *applogger.Logger,
) *ReportHandler {
	return &ReportHandler{report: report, calendar: calendar, logger: logger}
}

// RegisterRoutes implements http.Handler.
func (h *ReportHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", h.Health)
	api := e.Group("/api")
	api.GET("/report", h.Report)
	api.GET("/calendar", h.Calendar)
}

type reportRequest struct {
	Symbol string `query:"symbol" validate:"omitempty,alphanum,max=20"`
}

type reportResponse struct {
	Status      scheduler.Status `json:"status"`
	LastUpdated time.Time        `json:"lastUpdated"`
	NextRunAt   time.Time        `json:"nextRunAt"`
	Report      *models.Report   `json:"report,omitempty"`
}

// Report returns the latest strategy report. An optional symbol query narrows
// the per-asset analyses; grid definitions and summaries are always whole.
func (h *ReportHandler) Report(c echo.Context) error {
	req := new(reportRequest)
	if errs := xhttp.ReadAndValidateRequest(c, req); errs != nil {
		return xhttp.BadRequestResponse(c, errs)
	}

	snap := h.report.Snapshot()
	resp := reportResponse{
		Status:      snap.Status,
		LastUpdated: snap.LastUpdated,
		NextRunAt:   snap.NextRunAt,
		Report:      snap.Data,
	}
	if snap.Data == nil {
		return xhttp.DataResponse(c, http.StatusAccepted, resp)
	}

	if req.Symbol != "" {
		filtered := *snap.Data
		filtered.Analyses = nil
		want := strings.ToUpper(req.Symbol)
		for _, a := range snap.Data.Analyses {
			if a.Symbol == want {
				filtered.Analyses = append(filtered.Analyses, a)
			}
		}
		if len(filtered.Analyses) == 0 {
			return xhttp.NotFoundResponse(c, "symbol not in report")
		}
		resp.Report = &filtered
	}

	return xhttp.SuccessResponse(c, resp)
}

type calendarResponse struct {
	Status      scheduler.Status       `json:"status"`
	LastUpdated time.Time              `json:"lastUpdated"`
	NextRunAt   time.Time              `json:"nextRunAt"`
	Listings    []models.CalendarEntry `json:"listings"`
}

// Calendar returns the recent-listings calendar, newest first.
func (h *ReportHandler) Calendar(c echo.Context) error {
	snap := h.calendar.Snapshot()
	return xhttp.SuccessResponse(c, calendarResponse{
		Status:      snap.Status,
		LastUpdated: snap.LastUpdated,
		NextRunAt:   snap.NextRunAt,
		Listings:    snap.Data,
	})
}

type healthResponse struct {
	Status    string                    `json:"status"`
	Schedules map[string]scheduleHealth `json:"schedules"`
}

type scheduleHealth struct {
	Status      scheduler.Status `json:"status"`
	LastUpdated time.Time        `json:"lastUpdated"`
	Error       string           `json:"error,omitempty"`
}

// Health reports process liveness and per-schedule state. It always returns
// 200; a schedule in error state is visible in the body, not the status code.
func (h *ReportHandler) Health(c echo.Context) error {
	report := h.report.Snapshot()
	calendar := h.calendar.Snapshot()
	return xhttp.SuccessResponse(c, healthResponse{
		Status: "ok",
		Schedules: map[string]scheduleHealth{
			"report":   {Status: report.Status, LastUpdated: report.LastUpdated, Error: report.Err},
			"calendar": {Status: calendar.Status, LastUpdated: calendar.LastUpdated, Error: calendar.Err},
		},
	})
}
