package analyses

import (
	"net/http"

	"github.com/JaimeStill/redline/internal/prompts"
	"github.com/JaimeStill/redline/pkg/openapi"
)

var idParam = openapi.PathParam("id", "uuid", "Analysis document ID")

var submitOp = &openapi.Operation{
	Summary:     "Analyze document text",
	Description: "Chunks the text, reviews every chunk against the rule table, and caches the merged result for one hour.",
	RequestBody: openapi.RequestBodyJSON("SubmitCommand", true),
	Responses: map[int]*openapi.Response{
		http.StatusCreated:               openapi.ResponseJSON("Completed analysis", "AnalysisResult"),
		http.StatusBadRequest:            openapi.ResponseRef(openapi.BadRequest),
		http.StatusRequestEntityTooLarge: openapi.ResponseRef(openapi.PayloadTooLarge),
		http.StatusBadGateway:            openapi.ResponseRef(openapi.BadGateway),
		http.StatusInternalServerError:   openapi.ResponseRef(openapi.InternalServerError),
	},
}

var findOp = &openapi.Operation{
	Summary:    "Get a cached analysis",
	Parameters: []*openapi.Parameter{idParam},
	Responses: map[int]*openapi.Response{
		http.StatusOK:       openapi.ResponseJSON("Cached analysis", "AnalysisResult"),
		http.StatusNotFound: openapi.ResponseRef(openapi.NotFound),
	},
}

var summaryOp = &openapi.Operation{
	Summary:    "Get finding counts for a cached analysis",
	Parameters: []*openapi.Parameter{idParam},
	Responses: map[int]*openapi.Response{
		http.StatusOK:       openapi.ResponseJSON("Analysis summary", "AnalysisSummary"),
		http.StatusNotFound: openapi.ResponseRef(openapi.NotFound),
	},
}

var deleteOp = &openapi.Operation{
	Summary:    "Evict a cached analysis",
	Parameters: []*openapi.Parameter{idParam},
	Responses: map[int]*openapi.Response{
		http.StatusNoContent: {Description: "Analysis evicted"},
		http.StatusNotFound:  openapi.ResponseRef(openapi.NotFound),
	},
}

var counts = openapi.MapOf(&openapi.Schema{Type: "integer"})

var schemas = map[string]*openapi.Schema{
	"SubmitCommand": {
		Type:     "object",
		Required: []string{"filename", "text"},
		Properties: map[string]*openapi.Schema{
			"filename":    {Type: "string", MaxLength: openapi.Int(255), Example: "solicitation.pdf"},
			"text":        {Type: "string", Description: "Extracted plain text of the document"},
			"total_pages": {Type: "integer", Minimum: openapi.Float(0)},
			"language":    {Type: "string", MaxLength: openapi.Int(32), Description: "Response language; defaults to the service language"},
			"model":       {Type: "string", MaxLength: openapi.Int(64), Description: "Logical model key; unknown keys use the default model"},
		},
	},
	"Finding": {
		Type: "object",
		Properties: map[string]*openapi.Schema{
			"id":         {Type: "string", Format: "uuid"},
			"rule_id":    {Type: "string"},
			"title":      {Type: "string"},
			"severity":   openapi.EnumOf(prompts.Severities()),
			"priority":   openapi.EnumOf(prompts.Priorities()),
			"page_no":    {Type: "integer", Description: "1-based page number, 0 when unknown"},
			"snippet":    {Type: "string"},
			"suggestion": {Type: "string"},
			"confidence": {Type: "number"},
		},
	},
	"AnalysisResult": {
		Type: "object",
		Properties: map[string]*openapi.Schema{
			"doc_id":      {Type: "string", Format: "uuid"},
			"filename":    {Type: "string"},
			"total_pages": {Type: "integer"},
			"chunk_count": {Type: "integer"},
			"findings":    openapi.ArrayOf("Finding"),
			"status":      {Type: "string", Enum: []any{"pending", "running", "completed", "failed"}},
			"created_at":  {Type: "string", Format: "date-time"},
		},
	},
	"AnalysisSummary": {
		Type: "object",
		Properties: map[string]*openapi.Schema{
			"doc_id":        {Type: "string", Format: "uuid"},
			"filename":      {Type: "string"},
			"total_pages":   {Type: "integer"},
			"chunk_count":   {Type: "integer"},
			"finding_count": {Type: "integer"},
			"by_severity":   counts,
			"by_priority":   counts,
			"by_rule":       counts,
			"created_at":    {Type: "string", Format: "date-time"},
			"expires_at":    {Type: "string", Format: "date-time"},
		},
	},
}
