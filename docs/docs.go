// Package docs registers the gateway OpenAPI document with swag.
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
        "/health": {
            "get": {"tags": ["system"], "summary": "Health check", "produces": ["application/json"],
                "responses": {"200": {"description": "OK"}}}
        },
        "/session": {
            "get": {"tags": ["session"], "summary": "Current session", "produces": ["application/json"],
                "responses": {"200": {"description": "OK"}}}
        },
        "/session/login": {
            "post": {"tags": ["session"], "summary": "Log in", "consumes": ["application/json"], "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/loginRequest"}}],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}, "401": {"description": "Unauthorized"}, "502": {"description": "Bad Gateway"}}}
        },
        "/session/logout": {
            "post": {"tags": ["session"], "summary": "Log out", "produces": ["application/json"],
                "responses": {"200": {"description": "OK"}}}
        },
        "/api/v1/dashboard": {
            "get": {"tags": ["device"], "summary": "Dashboard snapshot", "produces": ["application/json"],
                "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}}
        },
        "/api/v1/logs": {
            "get": {"tags": ["device"], "summary": "Device logs", "produces": ["application/json"],
                "parameters": [{"type": "integer", "description": "1-based page", "name": "page", "in": "query"}],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}, "401": {"description": "Unauthorized"}}}
        },
        "/api/v1/forecast": {
            "get": {"tags": ["location"], "summary": "Five-day forecast", "produces": ["application/json"],
                "responses": {"200": {"description": "OK"}}}
        },
        "/api/v1/location": {
            "get": {"tags": ["location"], "summary": "Device location", "produces": ["application/json"],
                "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["location"], "summary": "Save device location", "consumes": ["application/json"], "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/locationRequest"}}],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}, "502": {"description": "Bad Gateway"}}}
        },
        "/api/v1/irrigate": {
            "post": {"tags": ["device"], "summary": "Manual irrigation", "consumes": ["application/json"], "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/irrigateRequest"}}],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}, "502": {"description": "Bad Gateway"}}}
        },
        "/api/v1/plan/recompute": {
            "post": {"tags": ["device"], "summary": "Recompute irrigation plan", "produces": ["application/json"],
                "responses": {"200": {"description": "OK"}, "502": {"description": "Bad Gateway"}}}
        },
        "/api/v1/password": {
            "post": {"tags": ["session"], "summary": "Change password", "consumes": ["application/json"], "produces": ["application/json"],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}, "401": {"description": "Unauthorized"}}}
        },
        "/api/v1/admin/users": {
            "get": {"tags": ["admin"], "summary": "List users", "produces": ["application/json"],
                "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}}},
            "post": {"tags": ["admin"], "summary": "Create device owner", "consumes": ["application/json"], "produces": ["application/json"],
                "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}, "403": {"description": "Forbidden"}}}
        },
        "/api/v1/admin/users/{id}": {
            "delete": {"tags": ["admin"], "summary": "Delete user", "produces": ["application/json"],
                "parameters": [{"type": "integer", "description": "user id", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}, "403": {"description": "Forbidden"}}}
        }
    },
    "definitions": {
        "loginRequest": {"type": "object", "properties": {
            "username": {"type": "string", "example": "farmer"},
            "password": {"type": "string", "example": "secret"},
            "admin": {"type": "boolean"}}},
        "locationRequest": {"type": "object", "properties": {
            "latitude": {"type": "number", "example": 39.92},
            "longitude": {"type": "number", "example": 116.41}}},
        "irrigateRequest": {"type": "object", "properties": {
            "volume_l": {"type": "number", "example": 1.5}}}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8090",
	BasePath:         "/",
	Schemes:          []string{"http"},
	Title:            "Irrigation console gateway",
	Description:      "Local gateway over the irrigation console session and sync core.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
