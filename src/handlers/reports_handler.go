// backend/src/handlers/reports_handler.go
package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/username/vendalytics/backend/src/logger"
	"github.com/username/vendalytics/backend/src/services"
	"github.com/username/vendalytics/backend/src/utils"
)

type ReportsHandler struct {
	reportService services.ReportService
	chartService  services.ChartService
}

func NewReportsHandler(reportService services.ReportService, chartService services.ChartService) *ReportsHandler {
	return &ReportsHandler{
		reportService: reportService,
		chartService:  chartService,
	}
}

// writeJSON serializes payload with the standard headers. Every report
// endpoint funnels through here so the content type is set exactly once.
func (h *ReportsHandler) writeJSON(w http.ResponseWriter, r *http.Request, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.FromContext(r.Context()).Error("Error encoding report response", "path", r.URL.Path, "error", err)
	}
}

func (h *ReportsHandler) handleError(w http.ResponseWriter, r *http.Request, err error) {
	logger.FromContext(r.Context()).Error("Error building report", "path", r.URL.Path, "error", err)
	utils.SendJSONError(w, statusInternalError, "An internal error occurred while building the report.", http.StatusInternalServerError)
}

func (h *ReportsHandler) HandleFinancialMetrics(w http.ResponseWriter, r *http.Request) {
	metrics, err := h.reportService.FinancialMetrics()
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	h.writeJSON(w, r, metrics)
}

func (h *ReportsHandler) HandleProductAnalysis(w http.ResponseWriter, r *http.Request) {
	// Unrecognized sort values fall back to the default order downstream.
	sortBy := r.URL.Query().Get("sort_by")
	analysis, err := h.reportService.ProductAnalysis(sortBy)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	h.writeJSON(w, r, analysis)
}

func (h *ReportsHandler) HandleTransactionAnalysis(w http.ResponseWriter, r *http.Request) {
	sortBy := r.URL.Query().Get("sort_by")
	profits, err := h.reportService.TransactionAnalysis(sortBy)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	h.writeJSON(w, r, profits)
}

func (h *ReportsHandler) HandleSalesSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.reportService.SalesSummary()
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	h.writeJSON(w, r, summary)
}

func (h *ReportsHandler) HandleRegionalPerformance(w http.ResponseWriter, r *http.Request) {
	metrics, err := h.reportService.RegionalPerformance()
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	h.writeJSON(w, r, metrics)
}

func (h *ReportsHandler) HandleStatePerformance(w http.ResponseWriter, r *http.Request) {
	metrics, err := h.reportService.StatePerformance()
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	h.writeJSON(w, r, metrics)
}

// HandleCustomerProfile serves the demographic distribution with ETag support:
// the profile only changes on import, so clients can revalidate cheaply.
func (h *ReportsHandler) HandleCustomerProfile(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	profile, err := h.reportService.CustomerProfile()
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	currentETag, etagErr := utils.GenerateETag(profile)
	if etagErr != nil {
		log.Error("Failed to generate ETag for customer profile", "error", etagErr)
	}

	w.Header().Set("Cache-Control", "no-cache, private")

	if etagErr == nil && currentETag != "" {
		quotedETag := fmt.Sprintf("\"%s\"", currentETag)
		w.Header().Set("ETag", quotedETag)
		clientETag := r.Header.Get("If-None-Match")
		for _, cETag := range strings.Split(clientETag, ",") {
			if strings.TrimSpace(cETag) == quotedETag {
				log.Debug("ETag match for customer profile", "etag", currentETag)
				w.WriteHeader(http.StatusNotModified)
				return
			}
		}
	} else {
		log.Warn("Proceeding without ETag check due to ETag generation error or empty ETag")
	}

	h.writeJSON(w, r, profile)
}

func (h *ReportsHandler) HandleFullReport(w http.ResponseWriter, r *http.Request) {
	report, err := h.reportService.FullReport()
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	h.writeJSON(w, r, report)
}

// HandleDownload serves the consolidated report as an attachment, either as
// pretty-printed JSON or as a PNG bar chart of regional revenue.
func (h *ReportsHandler) HandleDownload(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "json"
	}

	report, err := h.reportService.FullReport()
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	stamp := report.GeneratedAt.Format("2006-01-02")

	switch format {
	case "json":
		payload, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			h.handleError(w, r, err)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="relatorio-vendas-%s.json"`, stamp))
		if _, err := w.Write(payload); err != nil {
			logger.FromContext(r.Context()).Error("Error writing report download", "error", err)
		}
	case "png":
		image, err := h.chartService.RegionRevenueChart(report.Regional)
		if err != nil {
			h.handleError(w, r, err)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="relatorio-vendas-%s.png"`, stamp))
		if _, err := w.Write(image); err != nil {
			logger.FromContext(r.Context()).Error("Error writing chart download", "error", err)
		}
	default:
		utils.SendJSONError(w, statusProcessingError, fmt.Sprintf("unsupported report format %q (want json or png)", format), http.StatusUnprocessableEntity)
	}
}
