package extraction

import "github.com/JaimeStill/applytrack/pkg/openapi"

var schemas = map[string]*openapi.Schema{
	"ExtractionRequest": {
		Type:     "object",
		Required: []string{"source"},
		Properties: map[string]*openapi.Schema{
			"source": {
				Type:        "string",
				Description: "http(s) URL of a job posting, or the posting content itself",
				Example:     "https://jobs.example.com/postings/42",
			},
		},
	},
}

func extractOp(id string) *openapi.Operation {
	return &openapi.Operation{
		OperationID: id,
		Summary:     "Extract job posting details from a source",
		Description: "Runs on a bounded worker pool. The engine output is returned without validation.",
		RequestBody: openapi.RequestBodyJSON("ExtractionRequest", true),
		Responses: map[int]*openapi.Response{
			200: extractedResponse(),
			400: openapi.ResponseRef("BadRequest"),
			502: openapi.ResponseRef("BadGateway"),
			503: openapi.ResponseRef("ServiceUnavailable"),
		},
	}
}

func extractedResponse() *openapi.Response {
	resp := openapi.ResponseObject("Engine output")
	resp.Headers = map[string]*openapi.Header{
		HeaderExtractionID: {
			Description: "Archive id, present when the payload was archived",
			Schema:      &openapi.Schema{Type: "string", Format: "uuid"},
		},
	}
	return resp
}

var archivedOp = &openapi.Operation{
	OperationID: "getExtraction",
	Summary:     "Get an archived extraction payload",
	Parameters:  []*openapi.Parameter{openapi.PathParam("id", "Extraction ID")},
	Responses: map[int]*openapi.Response{
		200: openapi.ResponseObject("Archived engine output"),
		404: openapi.ResponseRef("NotFound"),
		503: openapi.ResponseRef("ServiceUnavailable"),
	},
}
