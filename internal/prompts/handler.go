package prompts

import (
	"log/slog"
	"net/http"

	"github.com/JaimeStill/redline/pkg/handlers"
	"github.com/JaimeStill/redline/pkg/routes"
)

// Handler exposes the active rule table and output contract.
type Handler struct {
	rules     []RuleSpec
	recordKey string
	logger    *slog.Logger
}

// ContractContent is the response type for the output contract endpoint.
type ContractContent struct {
	RecordKey     string     `json:"record_key"`
	Severities    []Severity `json:"severities"`
	Priorities    []Priority `json:"priorities"`
	MinConfidence float64    `json:"min_confidence"`
	MaxPerRule    int        `json:"max_findings_per_rule"`
	Content       string     `json:"content"`
}

// NewHandler creates a Handler serving rules.
func NewHandler(rules []RuleSpec, recordKey string, logger *slog.Logger) *Handler {
	if recordKey == "" {
		recordKey = DefaultRecordKey
	}
	return &Handler{
		rules:     rules,
		recordKey: recordKey,
		logger:    logger.With("handler", "rules"),
	}
}

// Routes returns the route group definition for rule endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/rules",
		Tags:   []string{"Rules"},
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.List, OpenAPI: listOp},
			{Method: "GET", Pattern: "/contract", Handler: h.Contract, OpenAPI: contractOp},
			{Method: "GET", Pattern: "/{id}", Handler: h.Find, OpenAPI: findOp},
		},
		Schemas: schemas,
	}
}

// List returns the active rule table.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	handlers.RespondJSON(w, http.StatusOK, h.rules)
}

// Find returns a single rule by its id path parameter.
func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	rule, err := FindRule(h.rules, r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, rule)
}

// Contract returns the output contract embedded in every prompt.
func (h *Handler) Contract(w http.ResponseWriter, r *http.Request) {
	handlers.RespondJSON(w, http.StatusOK, ContractContent{
		RecordKey:     h.recordKey,
		Severities:    Severities(),
		Priorities:    Priorities(),
		MinConfidence: MinConfidence,
		MaxPerRule:    MaxFindingsPerRule,
		Content:       Contract(h.recordKey),
	})
}
