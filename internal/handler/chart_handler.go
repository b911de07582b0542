package handler

import (
	"net/http"

	"github.com/costmanagement/backend/internal/service"
)

// ChartHandler handles GET /api/chart.
type ChartHandler struct {
	chartSvc service.ChartService
}

// NewChartHandler creates a ChartHandler.
func NewChartHandler(chartSvc service.ChartService) *ChartHandler {
	return &ChartHandler{chartSvc: chartSvc}
}

// Chart は年・月ごとのプロジェクトコスト積み上げを返す
func (h *ChartHandler) Chart(w http.ResponseWriter, r *http.Request) {
	p, err := queryPrecision(r)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	years, err := h.chartSvc.Rollup(r.Context(), p)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "Chart data retrieved", years)
}
