package http

import (
	"net/http"

	"github.com/SkAltmash/ZapSplit/internal/service"

	"github.com/gorilla/mux"
)

// PayLaterHandler serves the ZupPayLater credit program endpoints.
type PayLaterHandler struct {
	payLaterSvc service.PayLaterService
	ledgerSvc   service.LedgerService
}

func NewPayLaterHandler(payLaterSvc service.PayLaterService, ledgerSvc service.LedgerService) *PayLaterHandler {
	return &PayLaterHandler{payLaterSvc: payLaterSvc, ledgerSvc: ledgerSvc}
}

func (h *PayLaterHandler) Apply(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Occupation    string `json:"occupation"`
		MonthlyIncome string `json:"monthly_income"`
		PAN           string `json:"pan"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	income, err := parseAmount(req.MonthlyIncome)
	if err != nil {
		writeError(w, err)
		return
	}

	wallet, err := h.payLaterSvc.Apply(r.Context(), userIDFrom(r), req.Occupation, income, req.PAN)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, wallet)
}

func (h *PayLaterHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	wallet, draws, err := h.payLaterSvc.Dashboard(r.Context(), userIDFrom(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"wallet": wallet, "draws": draws})
}

func (h *PayLaterHandler) UseCredit(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Amount string `json:"amount"`
		Note   string `json:"note"`
		PIN    string `json:"pin"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	amount, err := parseAmount(req.Amount)
	if err != nil {
		writeError(w, err)
		return
	}

	draw, err := h.ledgerSvc.UseCredit(r.Context(), userIDFrom(r), amount, req.Note, req.PIN)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, draw)
}

func (h *PayLaterHandler) PayDue(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PIN string `json:"pin"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	if err := h.ledgerSvc.PayDue(r.Context(), userIDFrom(r), mux.Vars(r)["id"], req.PIN); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (h *PayLaterHandler) ExtendDue(w http.ResponseWriter, r *http.Request) {
	var req struct {
		AddedDays int    `json:"added_days"`
		PIN       string `json:"pin"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	if err := h.ledgerSvc.ExtendDue(r.Context(), userIDFrom(r), mux.Vars(r)["id"], req.AddedDays, req.PIN); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}
