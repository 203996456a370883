package applications

import "github.com/JaimeStill/applytrack/pkg/openapi"

var schemas = map[string]*openapi.Schema{
	"Application": {
		Type:     "object",
		Required: []string{"_id", "company", "role", "platform", "status", "jobUrl", "phone_number", "createdAt", "updatedAt", "__v"},
		Properties: map[string]*openapi.Schema{
			"_id":          {Type: "string", Format: "uuid"},
			"company":      {Type: "string"},
			"role":         {Type: "string"},
			"salary":       {Type: "string"},
			"platform":     {Type: "string"},
			"status":       {Type: "string"},
			"contact":      {Type: "string"},
			"jobUrl":       {Type: "string", Format: "uri"},
			"phone_number": {Type: "string"},
			"interview":    {Type: "string", Format: "date-time"},
			"feedback":     {Type: "string"},
			"createdAt":    {Type: "string", Format: "date-time"},
			"updatedAt":    {Type: "string", Format: "date-time"},
			"__v":          {Type: "integer", Description: "Number of mutations applied to the record"},
		},
	},
	"CreateApplication": {
		Type:     "object",
		Required: []string{"company", "role", "platform", "jobUrl", "phone_number"},
		Properties: map[string]*openapi.Schema{
			"company":      {Type: "string"},
			"role":         {Type: "string"},
			"salary":       {Type: "string"},
			"platform":     {Type: "string"},
			"status":       {Type: "string", Description: "Defaults to the configured initial status"},
			"contact":      {Type: "string"},
			"jobUrl":       {Type: "string", Format: "uri"},
			"phone_number": {Type: "string"},
			"interview":    {Type: "string", Format: "date-time"},
			"feedback":     {Type: "string"},
		},
	},
	"UpdateApplication": {
		Type:        "object",
		Description: "Absent, null, and empty fields are left unchanged",
		Properties: map[string]*openapi.Schema{
			"company":   {Type: "string"},
			"role":      {Type: "string"},
			"salary":    {Type: "string"},
			"platform":  {Type: "string"},
			"status":    {Type: "string"},
			"contact":   {Type: "string"},
			"jobUrl":    {Type: "string", Format: "uri"},
			"interview": {Type: "string", Format: "date-time"},
			"feedback":  {Type: "string"},
		},
	},
	"Message": {
		Type:       "object",
		Required:   []string{"message"},
		Properties: map[string]*openapi.Schema{"message": {Type: "string"}},
	},
}

var listOp = &openapi.Operation{
	OperationID: "listApplications",
	Summary:     "List active applications for a phone number",
	Parameters: []*openapi.Parameter{
		openapi.QueryParam("phone_number", "string", "Phone number owning the applications", true),
	},
	Responses: map[int]*openapi.Response{
		200: openapi.ResponseArray("Active applications", "Application"),
		400: openapi.ResponseRef("BadRequest"),
	},
}

var createOp = &openapi.Operation{
	OperationID: "createApplication",
	Summary:     "Create an application",
	RequestBody: openapi.RequestBodyJSON("CreateApplication", true),
	Responses: map[int]*openapi.Response{
		201: openapi.ResponseJSON("Created application", "Application"),
		400: openapi.ResponseRef("BadRequest"),
	},
}

var findOp = &openapi.Operation{
	OperationID: "getApplication",
	Summary:     "Get an active application",
	Parameters:  []*openapi.Parameter{openapi.PathParam("id", "Application ID")},
	Responses: map[int]*openapi.Response{
		200: openapi.ResponseJSON("Application", "Application"),
		404: openapi.ResponseRef("NotFound"),
	},
}

var updateOp = &openapi.Operation{
	OperationID: "updateApplication",
	Summary:     "Partially update an active application",
	Parameters:  []*openapi.Parameter{openapi.PathParam("id", "Application ID")},
	RequestBody: openapi.RequestBodyJSON("UpdateApplication", true),
	Responses: map[int]*openapi.Response{
		200: openapi.ResponseJSON("Updated application", "Application"),
		400: openapi.ResponseRef("BadRequest"),
		404: openapi.ResponseRef("NotFound"),
	},
}

var deactivateOp = &openapi.Operation{
	OperationID: "deactivateApplication",
	Summary:     "Deactivate an application",
	Parameters:  []*openapi.Parameter{openapi.PathParam("id", "Application ID")},
	Responses: map[int]*openapi.Response{
		200: openapi.ResponseJSON("Deactivated", "Message"),
		404: openapi.ResponseRef("NotFound"),
	},
}
