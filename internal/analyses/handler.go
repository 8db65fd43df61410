package analyses

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/JaimeStill/redline/pkg/handlers"
	"github.com/JaimeStill/redline/pkg/routes"
)

// Handler provides HTTP endpoints for analysis operations.
type Handler struct {
	sys         System
	logger      *slog.Logger
	maxBodySize int64
}

// NewHandler creates a Handler with the given system, logger, and request body limit.
func NewHandler(sys System, logger *slog.Logger, maxBodySize int64) *Handler {
	return &Handler{
		sys:         sys,
		logger:      logger.With("handler", "analyses"),
		maxBodySize: maxBodySize,
	}
}

// Routes returns the route group definition for analysis endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/analyses",
		Tags:   []string{"Analyses"},
		Routes: []routes.Route{
			{Method: "POST", Pattern: "", Handler: h.Submit, OpenAPI: submitOp},
			{Method: "GET", Pattern: "/{id}", Handler: h.Find, OpenAPI: findOp},
			{Method: "GET", Pattern: "/{id}/summary", Handler: h.Summary, OpenAPI: summaryOp},
			{Method: "DELETE", Pattern: "/{id}", Handler: h.Delete, OpenAPI: deleteOp},
		},
		Schemas: schemas,
	}
}

// Submit analyzes the extracted text in the JSON body and returns the
// completed result.
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	if h.maxBodySize > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxBodySize)
	}

	var cmd SubmitCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			handlers.RespondError(w, h.logger, http.StatusRequestEntityTooLarge, ErrBodyTooLarge)
			return
		}
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidRequest)
		return
	}

	result, err := h.sys.Submit(r.Context(), cmd)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusCreated, result)
}

// Find returns a cached analysis by its id path parameter.
func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	result, err := h.sys.Find(r.Context(), r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Summary returns finding counts for a cached analysis.
func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.sys.Summary(r.Context(), r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, summary)
}

// Delete removes a cached analysis by its id path parameter.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.sys.Delete(r.Context(), r.PathValue("id")); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
