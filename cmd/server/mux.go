package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/spendsync/spendsync/pkg/common"
	"github.com/spendsync/spendsync/pkg/export"
	"github.com/spendsync/spendsync/pkg/stats"
)

type Handler struct {
	apiKey string
	sync   SyncService
	ledger LedgerReader
	auth   MailAuth
}

func NewHandler(
	apiKey string,
	sync SyncService,
	ledger LedgerReader,
	auth MailAuth,
) *Handler {
	return &Handler{
		apiKey: apiKey,
		sync:   sync,
		ledger: ledger,
		auth:   auth,
	}
}

func (h *Handler) authorized(w http.ResponseWriter, r *http.Request) bool {
	if h.apiKey != r.URL.Query().Get("api_key") {
		w.WriteHeader(http.StatusUnauthorized)
		return false
	}

	return true
}

func (h *Handler) AuthURL(w http.ResponseWriter, r *http.Request) {
	if !h.authorized(w, r) {
		return
	}

	writeJSON(w, http.StatusOK, AuthURLResponse{
		URL: h.auth.AuthURL(fmt.Sprint(time.Now().UnixNano())),
	})
}

func (h *Handler) AuthCallback(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	if code == "" {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "missing code"})
		return
	}

	if err := h.auth.Exchange(r.Context(), code); err != nil {
		writeJSON(w, http.StatusBadGateway, ErrorResponse{Error: err.Error()})
		return
	}

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("mailbox linked, you can close this tab"))
}

func (h *Handler) Sync(w http.ResponseWriter, r *http.Request) {
	if !h.authorized(w, r) {
		return
	}

	result, err := h.sync.Sync(r.Context())
	if err != nil {
		switch {
		case errors.Is(err, common.ErrSyncInProgress):
			writeJSON(w, http.StatusConflict, ErrorResponse{Error: "a sync is already running"})
		case errors.Is(err, common.ErrMailboxAuth):
			// the user should re-link the mailbox, not retry blindly
			writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "mailbox not linked or token rejected, re-link via /api/auth/url"})
		default:
			writeJSON(w, http.StatusBadGateway, ErrorResponse{Error: err.Error()})
		}
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) Paste(w http.ResponseWriter, r *http.Request) {
	if !h.authorized(w, r) {
		return
	}

	b, err := io.ReadAll(r.Body)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	var request PasteRequest
	if err = json.Unmarshal(b, &request); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	tx, err := h.sync.AddManual(r.Context(), request.Text)
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, ErrorResponse{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, tx)
}

func (h *Handler) Transactions(w http.ResponseWriter, r *http.Request) {
	if !h.authorized(w, r) {
		return
	}

	writeJSON(w, http.StatusOK, h.ledger.Snapshot().Transactions)
}

func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	if !h.authorized(w, r) {
		return
	}

	writeJSON(w, http.StatusOK, stats.Summarize(h.ledger.Snapshot().Transactions))
}

func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	if !h.authorized(w, r) {
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="transactions.xlsx"`)

	if err := export.WriteXLSX(h.ledger.Snapshot().Transactions, w); err != nil {
		w.WriteHeader(http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
