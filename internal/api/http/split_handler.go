package http

import (
	"net/http"

	"github.com/SkAltmash/ZapSplit/internal/service"

	"github.com/gorilla/mux"
)

// SplitHandler serves bill-split creation, lookup and settlement.
type SplitHandler struct {
	splitSvc  service.SplitService
	ledgerSvc service.LedgerService
}

func NewSplitHandler(splitSvc service.SplitService, ledgerSvc service.LedgerService) *SplitHandler {
	return &SplitHandler{splitSvc: splitSvc, ledgerSvc: ledgerSvc}
}

func (h *SplitHandler) CreateSplit(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ParticipantIDs []string `json:"participant_ids"`
		Amount         string   `json:"amount"`
		Note           string   `json:"note"`
		SourceTxnID    string   `json:"source_txn_id"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	amount, err := parseAmount(req.Amount)
	if err != nil {
		writeError(w, err)
		return
	}

	split, err := h.splitSvc.CreateSplit(r.Context(), userIDFrom(r), req.ParticipantIDs, amount, req.Note, req.SourceTxnID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, split)
}

func (h *SplitHandler) ListSplits(w http.ResponseWriter, r *http.Request) {
	splits, err := h.splitSvc.ListSplits(r.Context(), userIDFrom(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"splits": splits})
}

func (h *SplitHandler) GetSplit(w http.ResponseWriter, r *http.Request) {
	split, err := h.splitSvc.GetSplit(r.Context(), userIDFrom(r), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, split)
}

func (h *SplitHandler) PaySplit(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PIN string `json:"pin"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	if err := h.ledgerSvc.PaySplit(r.Context(), mux.Vars(r)["id"], userIDFrom(r), req.PIN); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}
