package http

import (
	"net/http"
	"strconv"

	"github.com/SkAltmash/ZapSplit/internal/domain"
	"github.com/SkAltmash/ZapSplit/internal/service"

	"github.com/shopspring/decimal"
)

// WalletHandler serves balance, top-up, transfer and history endpoints.
type WalletHandler struct {
	ledgerSvc service.LedgerService
}

func NewWalletHandler(ledgerSvc service.LedgerService) *WalletHandler {
	return &WalletHandler{ledgerSvc: ledgerSvc}
}

// parseAmount accepts amounts as JSON strings so clients never push
// binary floats through the wire.
func parseAmount(raw string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, domain.ErrInvalidAmount
	}
	return amount, nil
}

// pageParams reads page/page_size query params, defaulting to the
// first page of twenty rows.
func pageParams(r *http.Request) (int32, int32) {
	page := int32(1)
	pageSize := int32(20)
	if v, err := strconv.ParseInt(r.URL.Query().Get("page"), 10, 32); err == nil && v > 0 {
		page = int32(v)
	}
	if v, err := strconv.ParseInt(r.URL.Query().Get("page_size"), 10, 32); err == nil && v > 0 && v <= 100 {
		pageSize = int32(v)
	}
	return page, pageSize
}

func (h *WalletHandler) GetWallet(w http.ResponseWriter, r *http.Request) {
	wallet, err := h.ledgerSvc.GetWallet(r.Context(), userIDFrom(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, wallet)
}

func (h *WalletHandler) AddMoney(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Amount string `json:"amount"`
		UPI    string `json:"upi"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	amount, err := parseAmount(req.Amount)
	if err != nil {
		writeError(w, err)
		return
	}

	txn, err := h.ledgerSvc.AddMoney(r.Context(), userIDFrom(r), amount, req.UPI)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, txn)
}

func (h *WalletHandler) Transfer(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RecipientID string `json:"recipient_id"`
		Amount      string `json:"amount"`
		Note        string `json:"note"`
		PIN         string `json:"pin"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	amount, err := parseAmount(req.Amount)
	if err != nil {
		writeError(w, err)
		return
	}

	txn, err := h.ledgerSvc.Transfer(r.Context(), userIDFrom(r), req.RecipientID, amount, req.Note, req.PIN)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, txn)
}

func (h *WalletHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	page, pageSize := pageParams(r)

	txns, total, err := h.ledgerSvc.GetTransactions(r.Context(), userIDFrom(r), page, pageSize)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"transactions": txns,
		"total_count":  total,
		"page":         page,
		"page_size":    pageSize,
	})
}

func (h *WalletHandler) ClaimReward(w http.ResponseWriter, r *http.Request) {
	var req struct {
		InvitedID string `json:"invited_id"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	if err := h.ledgerSvc.ClaimReward(r.Context(), userIDFrom(r), req.InvitedID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}
