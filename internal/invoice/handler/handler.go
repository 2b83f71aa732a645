package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"intakeflow/internal/invoice/service"
	"intakeflow/internal/platform/httpx"
	"intakeflow/pkg/derrors"
)

// Handler exposes the invoice flow over HTTP. It delegates to the service
// without embedding business logic so transport concerns stay isolated.
type Handler struct {
	svc    *service.Service
	logger *slog.Logger
}

func New(svc *service.Service, logger *slog.Logger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

// Register mounts the invoice routes on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/invoices", h.handleSubmit)
	r.Get("/invoices", h.handleList)
	r.Patch("/invoices/{transactionID}/status", h.handleUpdateStatus)
	r.Get("/customers/{customerID}", h.handleSearch)
	r.Post("/customers/{customerID}/send", h.handleSendInvoice)
}

func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var in service.SubmitInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		httpx.WriteError(w, derrors.New(derrors.CodeBadRequest, "invalid request body"))
		return
	}
	rec, err := h.svc.Submit(r.Context(), in)
	if err != nil {
		h.logger.WarnContext(r.Context(), "submit rejected", "error", err.Error())
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, rec)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	recs, err := h.svc.List(r.Context())
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, recs)
}

func (h *Handler) handleSearch(w http.ResponseWriter, r *http.Request) {
	rec, err := h.svc.Search(r.Context(), chi.URLParam(r, "customerID"))
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, rec)
}

// handleSendInvoice drives the full workflow for the customer's latest record.
// Step failures come back inside the state payload, not as transport errors,
// so the caller can render state.error verbatim.
func (h *Handler) handleSendInvoice(w http.ResponseWriter, r *http.Request) {
	st, err := h.svc.RunWorkflow(r.Context(), chi.URLParam(r, "customerID"))
	if err != nil {
		h.logger.ErrorContext(r.Context(), "workflow failed", "error", err.Error())
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, st)
}

func (h *Handler) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	var body struct {
		PaymentStatus string `json:"payment_status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		httpx.WriteError(w, derrors.New(derrors.CodeBadRequest, "invalid request body"))
		return
	}
	if err := h.svc.UpdatePaymentStatus(r.Context(), chi.URLParam(r, "transactionID"), body.PaymentStatus); err != nil {
		httpx.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
