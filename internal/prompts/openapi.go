package prompts

import (
	"net/http"

	"github.com/JaimeStill/redline/pkg/openapi"
)

var listOp = &openapi.Operation{
	Summary: "List review rules",
	Responses: map[int]*openapi.Response{
		http.StatusOK: {
			Description: "Active rule table",
			Content: map[string]*openapi.MediaType{
				"application/json": {Schema: openapi.ArrayOf("Rule")},
			},
		},
	},
}

var contractOp = &openapi.Operation{
	Summary:     "Get the output contract",
	Description: "Returns the JSON contract appended to every prompt along with its thresholds.",
	Responses: map[int]*openapi.Response{
		http.StatusOK: openapi.ResponseJSON("Output contract", "Contract"),
	},
}

var findOp = &openapi.Operation{
	Summary:    "Get a review rule",
	Parameters: []*openapi.Parameter{openapi.PathParam("id", "", "Rule ID, matched case-insensitively")},
	Responses: map[int]*openapi.Response{
		http.StatusOK:       openapi.ResponseJSON("Rule", "Rule"),
		http.StatusNotFound: openapi.ResponseRef(openapi.NotFound),
	},
}

var schemas = map[string]*openapi.Schema{
	"Rule": {
		Type:     "object",
		Required: []string{"id", "description", "priority"},
		Properties: map[string]*openapi.Schema{
			"id":          {Type: "string", Example: "REQ-DEADLINE"},
			"description": {Type: "string"},
			"priority":    openapi.EnumOf(Priorities()),
		},
	},
	"Contract": {
		Type: "object",
		Properties: map[string]*openapi.Schema{
			"record_key":            {Type: "string", Example: DefaultRecordKey},
			"severities":            {Type: "array", Items: openapi.EnumOf(Severities())},
			"priorities":            {Type: "array", Items: openapi.EnumOf(Priorities())},
			"min_confidence":        {Type: "number", Example: MinConfidence},
			"max_findings_per_rule": {Type: "integer", Example: MaxFindingsPerRule},
			"content":               {Type: "string"},
		},
	},
}
