package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"intakeflow/internal/kyc/models"
	"intakeflow/internal/kyc/service"
	"intakeflow/internal/platform/httpx"
	"intakeflow/pkg/derrors"
)

// Handler exposes the KYC subsystem over HTTP.
type Handler struct {
	svc    *service.Service
	logger *slog.Logger
}

func New(svc *service.Service, logger *slog.Logger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

// Register mounts the KYC routes on the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/kyc/schema", h.handleSchema)
	r.Post("/kyc", h.handleSubmit)
	r.Get("/kyc", h.handleSearch)
	r.Get("/kyc/{customerID}", h.handleGet)
	r.Put("/kyc/{customerID}", h.handleUpdate)
	r.Patch("/kyc/{customerID}/status", h.handleSetStatus)
	r.Post("/kyc/{customerID}/document", h.handleGenerateDocument)
}

// handleSchema serves the form layout so clients render the same sections and
// options the validator enforces.
func (h *Handler) handleSchema(w http.ResponseWriter, _ *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"sections":    models.Sections,
		"declaration": models.DeclarationText,
	})
}

func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var in service.SubmitInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		httpx.WriteError(w, derrors.New(derrors.CodeBadRequest, "invalid request body"))
		return
	}
	app, err := h.svc.Submit(r.Context(), in)
	if err != nil {
		h.logger.WarnContext(r.Context(), "kyc submission rejected", "error", err.Error())
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, app)
}

func (h *Handler) handleSearch(w http.ResponseWriter, r *http.Request) {
	apps, err := h.svc.Search(r.Context(), r.URL.Query().Get("search"))
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	if apps == nil {
		apps = []models.Application{}
	}
	httpx.WriteJSON(w, http.StatusOK, apps)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	app, err := h.svc.Get(r.Context(), chi.URLParam(r, "customerID"))
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, app)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var app models.Application
	if err := json.NewDecoder(r.Body).Decode(&app); err != nil {
		httpx.WriteError(w, derrors.New(derrors.CodeBadRequest, "invalid request body"))
		return
	}
	updated, err := h.svc.Update(r.Context(), chi.URLParam(r, "customerID"), app)
	if err != nil {
		h.logger.WarnContext(r.Context(), "kyc update rejected", "error", err.Error())
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, updated)
}

func (h *Handler) handleSetStatus(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		httpx.WriteError(w, derrors.New(derrors.CodeBadRequest, "invalid request body"))
		return
	}
	app, err := h.svc.SetStatus(r.Context(), chi.URLParam(r, "customerID"), body.Status)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, app)
}

func (h *Handler) handleGenerateDocument(w http.ResponseWriter, r *http.Request) {
	path, err := h.svc.GenerateDocument(r.Context(), chi.URLParam(r, "customerID"))
	if err != nil {
		h.logger.WarnContext(r.Context(), "document generation refused", "error", err.Error())
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]string{"path": path})
}
