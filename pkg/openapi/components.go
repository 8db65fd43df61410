package openapi

import "maps"

// Shared error response names registered by NewComponents.
const (
	BadRequest          = "BadRequest"
	NotFound            = "NotFound"
	PayloadTooLarge     = "PayloadTooLarge"
	BadGateway          = "BadGateway"
	InternalServerError = "InternalServerError"
)

// NewComponents creates Components with the shared Error schema and the
// error responses every handler can return.
func NewComponents() *Components {
	return &Components{
		Schemas: map[string]*Schema{
			"Error": {
				Type:     "object",
				Required: []string{"error"},
				Properties: map[string]*Schema{
					"error": {Type: "string", Description: "Error message"},
				},
			},
		},
		Responses: map[string]*Response{
			BadRequest:          errorResponse("Invalid request"),
			NotFound:            errorResponse("Resource not found or expired"),
			PayloadTooLarge:     errorResponse("Request body exceeds the configured limit"),
			BadGateway:          errorResponse("Reasoning service unavailable or returned an error"),
			InternalServerError: errorResponse("Internal error"),
		},
	}
}

// AddSchemas merges the given schemas into the component schemas.
func (c *Components) AddSchemas(schemas map[string]*Schema) {
	maps.Copy(c.Schemas, schemas)
}

// AddResponses merges the given responses into the component responses.
func (c *Components) AddResponses(responses map[string]*Response) {
	maps.Copy(c.Responses, responses)
}

func errorResponse(description string) *Response {
	return ResponseJSON(description, "Error")
}
