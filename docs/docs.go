// Package docs holds the OpenAPI document served by the Swagger UI.
// Regenerate with: swag init -g cmd/main.go
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/status": {
            "get": {
                "description": "Sends a health_check action to the matching workflow",
                "produces": ["application/json"],
                "tags": ["status"],
                "summary": "Workflow status",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/models.APIResponse"}}}
            }
        },
        "/sessions": {
            "post": {
                "description": "Start a compose session for the configured agent",
                "produces": ["application/json"],
                "tags": ["sessions"],
                "summary": "Create a session",
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/models.APIResponse"}}}
            }
        },
        "/sessions/{id}": {
            "get": {
                "description": "Attachments, matches, processing flag and notification of a session",
                "produces": ["application/json"],
                "tags": ["sessions"],
                "summary": "Get a session",
                "parameters": [{"type": "string", "description": "Session ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.APIResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/models.APIResponse"}}
                }
            },
            "delete": {
                "produces": ["application/json"],
                "tags": ["sessions"],
                "summary": "End a session",
                "parameters": [{"type": "string", "description": "Session ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.APIResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/models.APIResponse"}}
                }
            }
        },
        "/sessions/{id}/attachments": {
            "post": {
                "description": "Validate and upload one or more files, in order, to tracked storage",
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["attachments"],
                "summary": "Upload attachments",
                "parameters": [
                    {"type": "string", "description": "Session ID", "name": "id", "in": "path", "required": true},
                    {"type": "file", "description": "Files to upload", "name": "files", "in": "formData", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.APIResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/models.APIResponse"}}
                }
            }
        },
        "/sessions/{id}/attachments/{index}": {
            "delete": {
                "produces": ["application/json"],
                "tags": ["attachments"],
                "summary": "Remove an attachment",
                "parameters": [
                    {"type": "string", "description": "Session ID", "name": "id", "in": "path", "required": true},
                    {"type": "integer", "description": "Attachment index", "name": "index", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.APIResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/models.APIResponse"}}
                }
            }
        },
        "/sessions/{id}/matches": {
            "post": {
                "description": "Send the message and tracked attachments to the matching workflow and return ranked leads",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["matches"],
                "summary": "Find matching leads",
                "parameters": [
                    {"type": "string", "description": "Session ID", "name": "id", "in": "path", "required": true},
                    {"description": "Message content", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/models.FindMatchesRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.APIResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/models.APIResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/models.APIResponse"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/models.APIResponse"}}
                }
            }
        },
        "/sessions/{id}/matches/{index}/message": {
            "put": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["matches"],
                "summary": "Edit a personalized message",
                "parameters": [
                    {"type": "string", "description": "Session ID", "name": "id", "in": "path", "required": true},
                    {"type": "integer", "description": "Match index", "name": "index", "in": "path", "required": true},
                    {"description": "New message", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/models.EditMessageRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.APIResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/models.APIResponse"}}
                }
            }
        },
        "/sessions/{id}/matches/{index}/dispatch": {
            "post": {
                "description": "Build the wa.me link and QR code for a match and record the dispatch",
                "produces": ["application/json"],
                "tags": ["whatsapp"],
                "summary": "Dispatch a match over WhatsApp",
                "parameters": [
                    {"type": "string", "description": "Session ID", "name": "id", "in": "path", "required": true},
                    {"type": "integer", "description": "Match index", "name": "index", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.APIResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/models.APIResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/models.APIResponse"}}
                }
            }
        },
        "/sessions/{id}/matches/{index}/whatsapp": {
            "get": {
                "description": "Redirects to the wa.me deep link for a match",
                "tags": ["whatsapp"],
                "summary": "Open WhatsApp for a match",
                "parameters": [
                    {"type": "string", "description": "Session ID", "name": "id", "in": "path", "required": true},
                    {"type": "integer", "description": "Match index", "name": "index", "in": "path", "required": true}
                ],
                "responses": {
                    "302": {"description": "Found"},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/models.APIResponse"}}
                }
            }
        },
        "/sessions/{id}/clear": {
            "post": {
                "description": "Drop every attachment and match of the session",
                "produces": ["application/json"],
                "tags": ["sessions"],
                "summary": "Clear all content",
                "parameters": [{"type": "string", "description": "Session ID", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/models.APIResponse"}}}
            }
        },
        "/sessions/{id}/analytics": {
            "get": {
                "description": "Tracking analytics from the storage worker, passed through as-is",
                "produces": ["application/json"],
                "tags": ["attachments"],
                "summary": "Storage analytics",
                "parameters": [{"type": "string", "description": "Session ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.APIResponse"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/models.APIResponse"}}
                }
            }
        },
        "/sessions/{id}/notification": {
            "get": {
                "produces": ["application/json"],
                "tags": ["sessions"],
                "summary": "Current notification",
                "parameters": [{"type": "string", "description": "Session ID", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/models.APIResponse"}}}
            }
        },
        "/sessions/{id}/dispatches": {
            "get": {
                "description": "Journal of WhatsApp dispatches made in this session",
                "produces": ["application/json"],
                "tags": ["whatsapp"],
                "summary": "List dispatches",
                "parameters": [{"type": "string", "description": "Session ID", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/models.APIResponse"}}}
            }
        }
    },
    "definitions": {
        "models.APIResponse": {
            "type": "object",
            "properties": {
                "data": {},
                "message": {"type": "string"},
                "status": {"type": "string"},
                "timestamp": {"type": "string"}
            }
        },
        "models.FindMatchesRequest": {
            "type": "object",
            "properties": {
                "messageContent": {"type": "string", "example": "New 3-bedroom condo in Bishan, S$1.45M"}
            }
        },
        "models.EditMessageRequest": {
            "type": "object",
            "properties": {
                "message": {"type": "string", "example": "Hi Alice, a new listing near you..."}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8081",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "PropertyAgent Pro API",
	Description:      "Upload tracked files, match leads through the workflow engine and dispatch WhatsApp messages",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
