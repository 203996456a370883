package openapi

import "maps"

// NewComponents creates Components with the shared error schema and the
// standard error responses that reference it.
func NewComponents() *Components {
	return &Components{
		Schemas: map[string]*Schema{
			"Error": {
				Type:     "object",
				Required: []string{"error"},
				Properties: map[string]*Schema{
					"error": {Type: "string", Description: "Error message"},
					"field": {Type: "string", Description: "Offending input field, set on validation errors"},
				},
			},
		},
		Responses: map[string]*Response{
			"BadRequest":         errorResponse("Invalid request"),
			"NotFound":           errorResponse("Resource not found"),
			"InternalError":      errorResponse("Unexpected server error"),
			"BadGateway":         errorResponse("Upstream dependency failed"),
			"ServiceUnavailable": errorResponse("Dependency not configured or not ready"),
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
	return &Response{
		Description: description,
		Content: map[string]*MediaType{
			"application/json": {Schema: SchemaRef("Error")},
		},
	}
}
