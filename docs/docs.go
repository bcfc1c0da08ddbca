// Quarry - Validated Search and Sort Contracts
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/quarry

// Package docs registers the Swagger 2.0 document served at /swagger/*.
//
// The document is maintained by hand next to the routes in
// internal/api/chi_router.go. Import the package for its side effect:
//
//	import _ "github.com/tomtom215/quarry/docs"
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "license": {
            "name": "AGPL-3.0-or-later",
            "url": "https://www.gnu.org/licenses/agpl-3.0.html"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/search/{entity}": {
            "get": {
                "description": "Runs a search whose sort and filter fields are checked against the entity's allow-list. With root and relation set, rows of root are returned ordered by the related entity's fields; filters prefixed with the root name (order.status) apply to root fields. Every other query parameter is an equality filter.",
                "produces": ["application/json"],
                "tags": ["Search"],
                "summary": "Search an entity",
                "parameters": [
                    {"type": "string", "description": "Entity whose fields sort and filter name", "name": "entity", "in": "path", "required": true},
                    {"type": "string", "description": "Comma-separated field[:asc|desc] pairs", "name": "sort", "in": "query"},
                    {"type": "string", "description": "Root entity of a relation search", "name": "root", "in": "query"},
                    {"type": "string", "description": "Relation field on root", "name": "relation", "in": "query"},
                    {"type": "integer", "description": "Rows to skip", "name": "offset", "in": "query"},
                    {"type": "integer", "description": "Page size", "name": "limit", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "Search result envelope", "schema": {"$ref": "#/definitions/SearchResponse"}},
                    "400": {"description": "Unknown sort field, malformed direction, unknown relation or invalid paging", "schema": {"$ref": "#/definitions/ErrorResponse"}},
                    "404": {"description": "Entity is not searchable", "schema": {"$ref": "#/definitions/ErrorResponse"}},
                    "500": {"description": "Query failed", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/entities": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Search"],
                "summary": "List searchable entities",
                "responses": {
                    "200": {"description": "Entity names", "schema": {"$ref": "#/definitions/APIResponse"}}
                }
            }
        },
        "/entities/{entity}/sortable": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Search"],
                "summary": "List the sortable fields of an entity",
                "parameters": [
                    {"type": "string", "description": "Entity name", "name": "entity", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "Field allow-list", "schema": {"$ref": "#/definitions/APIResponse"}},
                    "404": {"description": "Unknown entity", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/edit-actions": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Mutations"],
                "summary": "List edit actions",
                "responses": {
                    "200": {"description": "Code and description of every edit action", "schema": {"$ref": "#/definitions/EditActionsResponse"}}
                }
            }
        },
        "/entities/{entity}/mutations": {
            "post": {
                "description": "Applies one edit. NONE commits nothing and answers 200 with applied=false. A committed edit answers 202 and publishes a mutation event.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Mutations"],
                "summary": "Apply an edit action",
                "parameters": [
                    {"type": "string", "description": "Entity name", "name": "entity", "in": "path", "required": true},
                    {"description": "Mutation", "name": "mutation", "in": "body", "required": true, "schema": {"$ref": "#/definitions/MutationRequest"}}
                ],
                "responses": {
                    "200": {"description": "NONE accepted", "schema": {"$ref": "#/definitions/MutationResponse"}},
                    "202": {"description": "Edit committed", "schema": {"$ref": "#/definitions/MutationResponse"}},
                    "400": {"description": "Invalid mutation", "schema": {"$ref": "#/definitions/ErrorResponse"}},
                    "403": {"description": "Refused by the edit action policy", "schema": {"$ref": "#/definitions/ErrorResponse"}},
                    "404": {"description": "Entity or row not found", "schema": {"$ref": "#/definitions/ErrorResponse"}},
                    "409": {"description": "ID already in use", "schema": {"$ref": "#/definitions/ErrorResponse"}},
                    "500": {"description": "Commit failed", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/events/live": {
            "get": {
                "description": "Upgrades to a WebSocket that receives every applied mutation as {\"type\":\"mutation\",\"data\":event}.",
                "tags": ["Realtime"],
                "summary": "Live mutation feed",
                "responses": {
                    "101": {"description": "Switching protocols"},
                    "403": {"description": "Origin not allowed"},
                    "503": {"description": "Live feed unavailable", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/health/live": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Core"],
                "summary": "Liveness probe",
                "responses": {
                    "200": {"description": "Process is up", "schema": {"$ref": "#/definitions/APIResponse"}}
                }
            }
        },
        "/health/ready": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Core"],
                "summary": "Readiness probe",
                "responses": {
                    "200": {"description": "Database reachable", "schema": {"$ref": "#/definitions/APIResponse"}},
                    "503": {"description": "Database unreachable; data.status is not_ready", "schema": {"$ref": "#/definitions/APIResponse"}}
                }
            }
        }
    },
    "definitions": {
        "Metadata": {
            "type": "object",
            "properties": {
                "timestamp": {"type": "string", "format": "date-time"},
                "query_time_ms": {"type": "integer"},
                "request_id": {"type": "string"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string", "example": "VALIDATION_ERROR"},
                "message": {"type": "string"},
                "details": {"type": "object"}
            }
        },
        "APIResponse": {
            "type": "object",
            "properties": {
                "status": {"type": "string", "example": "success"},
                "data": {"type": "object"},
                "metadata": {"$ref": "#/definitions/Metadata"}
            }
        },
        "ErrorResponse": {
            "type": "object",
            "properties": {
                "status": {"type": "string", "example": "error"},
                "error": {"$ref": "#/definitions/APIError"},
                "metadata": {"$ref": "#/definitions/Metadata"}
            }
        },
        "SearchInfos": {
            "type": "object",
            "properties": {
                "total": {"type": "integer"},
                "sort": {"type": "array", "items": {"$ref": "#/definitions/SortOrder"}},
                "offset": {"type": "integer"},
                "limit": {"type": "integer"},
                "has_more": {"type": "boolean"}
            }
        },
        "SortOrder": {
            "type": "object",
            "properties": {
                "field": {"type": "string"},
                "direction": {"type": "string", "enum": ["ASC", "DESC"]}
            }
        },
        "SearchEnvelope": {
            "type": "object",
            "properties": {
                "search_infos": {"$ref": "#/definitions/SearchInfos"},
                "data": {"type": "array", "items": {"type": "object"}}
            }
        },
        "SearchResponse": {
            "type": "object",
            "properties": {
                "status": {"type": "string", "example": "success"},
                "data": {"$ref": "#/definitions/SearchEnvelope"},
                "metadata": {"$ref": "#/definitions/Metadata"}
            }
        },
        "EditAction": {
            "type": "object",
            "properties": {
                "code": {"type": "string", "enum": ["NONE", "CREATE", "UPDATE", "DELETE", "CHANGE_STATUS"]},
                "description": {"type": "string"}
            }
        },
        "EditActionsResponse": {
            "type": "object",
            "properties": {
                "status": {"type": "string", "example": "success"},
                "data": {"type": "array", "items": {"$ref": "#/definitions/EditAction"}},
                "metadata": {"$ref": "#/definitions/Metadata"}
            }
        },
        "MutationRequest": {
            "type": "object",
            "required": ["action"],
            "properties": {
                "id": {"type": "string"},
                "action": {"type": "string", "enum": ["NONE", "CREATE", "UPDATE", "DELETE", "CHANGE_STATUS"]},
                "actor": {"type": "string"},
                "changes": {"type": "object"}
            }
        },
        "MutationResult": {
            "type": "object",
            "properties": {
                "applied": {"type": "boolean"},
                "action": {"type": "string"},
                "entity_id": {"type": "string"},
                "event_id": {"type": "string"}
            }
        },
        "MutationResponse": {
            "type": "object",
            "properties": {
                "status": {"type": "string", "example": "success"},
                "data": {"$ref": "#/definitions/MutationResult"},
                "metadata": {"$ref": "#/definitions/Metadata"}
            }
        }
    },
    "tags": [
        {"description": "Validated search with sort allow-lists", "name": "Search"},
        {"description": "Edit actions and mutation submission", "name": "Mutations"},
        {"description": "Live mutation feed over WebSocket", "name": "Realtime"},
        {"description": "Health probes", "name": "Core"}
    ]
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{"http", "https"},
	Title:            "Quarry API",
	Description:      "Validated search and sort contracts with edit actions and mutation events.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
