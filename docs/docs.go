// Package docs registers the OpenAPI document served under /swagger
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
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "security": [{"BearerAuth": []}],
    "paths": {
        "/auth/register": {
            "post": {
                "tags": ["auth"],
                "summary": "Register a user (an admin token is required to create admins)",
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/RegisterRequest"}}],
                "responses": {"201": {"description": "Created"}, "400": {"description": "Invalid body"}, "403": {"description": "Admin required"}, "409": {"description": "Email taken"}}
            }
        },
        "/auth/login": {
            "post": {
                "tags": ["auth"],
                "summary": "Exchange credentials for an access and refresh token",
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}],
                "responses": {"200": {"description": "OK"}, "401": {"description": "Invalid credentials"}}
            }
        },
        "/auth/refresh": {
            "post": {
                "tags": ["auth"],
                "summary": "Issue a new token pair from a refresh token",
                "responses": {"200": {"description": "OK"}, "401": {"description": "Invalid token"}}
            }
        },
        "/auth/logout": {
            "post": {"tags": ["auth"], "summary": "Log out (client discards tokens)", "responses": {"200": {"description": "OK"}}}
        },
        "/auth/me": {
            "get": {"tags": ["auth"], "summary": "Current user from the access token", "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}}
        },
        "/auth/change-password": {
            "put": {"tags": ["auth"], "summary": "Change own password", "responses": {"200": {"description": "OK"}, "401": {"description": "Wrong current password or unauthorized"}}}
        },
        "/users/me": {
            "get": {"tags": ["users"], "summary": "Current user profile", "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}},
            "patch": {"tags": ["users"], "summary": "Update own profile", "responses": {"200": {"description": "OK"}, "409": {"description": "Email taken"}}}
        },
        "/genres": {
            "get": {"tags": ["catalog"], "summary": "List genres", "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["catalog"], "summary": "Create a genre (admin)", "responses": {"201": {"description": "Created"}, "409": {"description": "Duplicate name"}}}
        },
        "/actors": {
            "get": {"tags": ["catalog"], "summary": "List actors", "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["catalog"], "summary": "Create an actor (admin)", "responses": {"201": {"description": "Created"}}}
        },
        "/theatre-halls": {
            "get": {"tags": ["catalog"], "summary": "List halls with capacity", "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["catalog"], "summary": "Create a hall (admin)", "responses": {"201": {"description": "Created"}, "400": {"description": "Invalid grid"}}}
        },
        "/plays": {
            "get": {
                "tags": ["catalog"],
                "summary": "List plays",
                "parameters": [
                    {"in": "query", "name": "title", "type": "string"},
                    {"in": "query", "name": "genres", "type": "string", "description": "comma separated ids"},
                    {"in": "query", "name": "actors", "type": "string", "description": "comma separated ids"},
                    {"in": "query", "name": "page", "type": "integer"},
                    {"in": "query", "name": "per_page", "type": "integer"}
                ],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Page out of range"}}
            },
            "post": {"tags": ["catalog"], "summary": "Create a play (admin)", "responses": {"201": {"description": "Created"}, "400": {"description": "Unknown genre or actor"}}}
        },
        "/plays/{id}": {
            "get": {"tags": ["catalog"], "summary": "Play detail", "parameters": [{"in": "path", "name": "id", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not found"}}}
        },
        "/plays/{id}/upload-image": {
            "post": {"tags": ["catalog"], "summary": "Upload a play image (admin)", "consumes": ["multipart/form-data"], "parameters": [{"in": "path", "name": "id", "required": true, "type": "string"}, {"in": "formData", "name": "image", "required": true, "type": "file"}], "responses": {"200": {"description": "OK"}, "400": {"description": "Not an image"}}}
        },
        "/performances": {
            "get": {
                "tags": ["catalog"],
                "summary": "List performances with availability",
                "parameters": [
                    {"in": "query", "name": "date", "type": "string", "description": "YYYY-MM-DD"},
                    {"in": "query", "name": "play", "type": "string"}
                ],
                "responses": {"200": {"description": "OK"}}
            },
            "post": {"tags": ["catalog"], "summary": "Schedule a performance (admin)", "responses": {"201": {"description": "Created"}}}
        },
        "/performances/{id}": {
            "get": {"tags": ["catalog"], "summary": "Performance detail with taken places", "parameters": [{"in": "path", "name": "id", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not found"}}},
            "put": {"tags": ["catalog"], "summary": "Reschedule a performance (admin)", "parameters": [{"in": "path", "name": "id", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}}},
            "delete": {"tags": ["catalog"], "summary": "Delete a performance without tickets (admin)", "parameters": [{"in": "path", "name": "id", "required": true, "type": "string"}], "responses": {"200": {"description": "Deleted"}, "409": {"description": "Tickets exist"}}}
        },
        "/performances/{id}/availability": {
            "get": {"tags": ["catalog"], "summary": "Seats left and taken places", "parameters": [{"in": "path", "name": "id", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not found"}}}
        },
        "/reservations": {
            "get": {
                "tags": ["reservations"],
                "summary": "List own reservations, newest first",
                "parameters": [{"in": "query", "name": "page", "type": "integer"}, {"in": "query", "name": "per_page", "type": "integer"}],
                "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}
            },
            "post": {
                "tags": ["reservations"],
                "summary": "Reserve seats atomically",
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/CreateReservationRequest"}}],
                "responses": {
                    "201": {"description": "Created"},
                    "400": {"description": "OutOfBounds or EmptyReservation"},
                    "401": {"description": "Unauthorized"},
                    "404": {"description": "Performance not found"},
                    "409": {"description": "SeatTaken"},
                    "503": {"description": "Performance busy, retry"}
                }
            }
        }
    },
    "definitions": {
        "RegisterRequest": {
            "type": "object",
            "required": ["first_name", "last_name", "email", "password"],
            "properties": {
                "first_name": {"type": "string"},
                "last_name": {"type": "string"},
                "email": {"type": "string"},
                "password": {"type": "string"},
                "role": {"type": "string", "enum": ["USER", "ADMIN"]}
            }
        },
        "LoginRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {"email": {"type": "string"}, "password": {"type": "string"}}
        },
        "TicketRequest": {
            "type": "object",
            "required": ["row", "seat", "performance"],
            "properties": {"row": {"type": "integer"}, "seat": {"type": "integer"}, "performance": {"type": "string", "format": "uuid"}}
        },
        "CreateReservationRequest": {
            "type": "object",
            "properties": {"tickets": {"type": "array", "items": {"$ref": "#/definitions/TicketRequest"}}}
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Theatre API",
	Description:      "Theatre catalog, reservations and tickets.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
