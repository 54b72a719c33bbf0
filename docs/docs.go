// Package docs registers the OpenAPI description served under /swagger.
// Regenerate with: swag init -g cmd/server/main.go -o docs
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
        "/health": {"get": {"tags": ["health"], "summary": "Liveness probe", "responses": {"200": {"description": "OK"}}}},
        "/health/ready": {"get": {"tags": ["health"], "summary": "Readiness probe", "responses": {"200": {"description": "OK"}, "503": {"description": "Service Unavailable"}}}},
        "/v1/auth/register": {"post": {"tags": ["auth"], "summary": "Register a new user", "responses": {"201": {"description": "Created"}, "409": {"description": "Conflict"}, "422": {"description": "Unprocessable Entity"}}}},
        "/v1/auth/login": {"post": {"tags": ["auth"], "summary": "Login", "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}}},
        "/v1/users": {"get": {"security": [{"BearerAuth": []}], "tags": ["users"], "summary": "List users", "responses": {"200": {"description": "OK"}}}},
        "/v1/users/me": {"get": {"security": [{"BearerAuth": []}], "tags": ["users"], "summary": "Current user", "responses": {"200": {"description": "OK"}}}},
        "/v1/users/{id}": {"get": {"security": [{"BearerAuth": []}], "tags": ["users"], "summary": "Get a user", "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}},
        "/v1/users/{id}/roles": {"post": {"security": [{"BearerAuth": []}], "tags": ["users"], "summary": "Grant a role", "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}}}},
        "/v1/users/{id}/roles/{role}": {"delete": {"security": [{"BearerAuth": []}], "tags": ["users"], "summary": "Revoke a role", "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}}}},
        "/v1/issues": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["issues"], "summary": "Search issues", "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["issues"], "summary": "Create an issue", "responses": {"201": {"description": "Created"}, "200": {"description": "Replayed idempotent request"}, "403": {"description": "Forbidden"}, "409": {"description": "Idempotency-Key in use by a running request"}}}
        },
        "/v1/issues/{id}": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["issues"], "summary": "Get an issue", "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}},
            "patch": {"security": [{"BearerAuth": []}], "tags": ["issues"], "summary": "Update issue fields", "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}}},
            "delete": {"security": [{"BearerAuth": []}], "tags": ["issues"], "summary": "Delete an issue and its comments", "responses": {"204": {"description": "No Content"}, "403": {"description": "Forbidden"}}}
        },
        "/v1/issues/{id}/status": {"patch": {"security": [{"BearerAuth": []}], "tags": ["issues"], "summary": "Change issue status", "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}}}},
        "/v1/issues/{id}/assignee": {"patch": {"security": [{"BearerAuth": []}], "tags": ["issues"], "summary": "Assign or claim an issue", "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}, "409": {"description": "Conflict"}}}},
        "/v1/issues/{id}/comments": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["comments"], "summary": "List comments of an issue, oldest first", "responses": {"200": {"description": "OK"}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["comments"], "summary": "Comment on an issue", "responses": {"201": {"description": "Created"}}}
        },
        "/v1/comments/{id}": {
            "put": {"security": [{"BearerAuth": []}], "tags": ["comments"], "summary": "Edit a comment", "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}}},
            "delete": {"security": [{"BearerAuth": []}], "tags": ["comments"], "summary": "Delete a comment", "responses": {"204": {"description": "No Content"}, "403": {"description": "Forbidden"}}}
        },
        "/v1/issues/{id}/watchers": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["watchers"], "summary": "List issue watchers", "responses": {"200": {"description": "OK"}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["watchers"], "summary": "Watch an issue (not implemented)", "responses": {"501": {"description": "Not Implemented"}}}
        },
        "/v1/issues/{id}/watchers/{userId}": {"delete": {"security": [{"BearerAuth": []}], "tags": ["watchers"], "summary": "Stop watching an issue (not implemented)", "responses": {"501": {"description": "Not Implemented"}}}}
    },
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Issue Tracker API",
	Description:      "Issues, comments and watchers with role and relationship based authorization.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
