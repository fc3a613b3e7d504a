package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"jmlastro/internal/models"
)

type Calculator interface {
	LoveMatch(req models.LoveMatchRequest) (models.LoveMatchResult, error)
	Numerology(req models.NumerologyRequest) (models.NumerologyResult, error)
	BirthChart(req models.BirthChartRequest) (models.BirthChartResult, error)
}

type CalculatorHandler struct {
	Service Calculator
	Log     *zap.SugaredLogger
}

func (h *CalculatorHandler) LoveMatch(w http.ResponseWriter, r *http.Request) {
	var req models.LoveMatchRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	res, err := h.Service.LoveMatch(req)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *CalculatorHandler) Numerology(w http.ResponseWriter, r *http.Request) {
	var req models.NumerologyRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	res, err := h.Service.Numerology(req)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *CalculatorHandler) BirthChart(w http.ResponseWriter, r *http.Request) {
	var req models.BirthChartRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	res, err := h.Service.BirthChart(req)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
