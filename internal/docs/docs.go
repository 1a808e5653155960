// Package docs registers the Swagger document for the REST and GraphQL routes.
// Keep it in step with the @Router annotations in internal/server.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "license": {
            "name": "MIT",
            "url": "https://opensource.org/licenses/MIT"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/graphql": {
            "get": {
                "description": "Execute a read-only GraphQL query passed as query parameters. Mutations are refused.",
                "produces": ["application/json"],
                "tags": ["graphql"],
                "summary": "Execute a GraphQL query",
                "parameters": [
                    {"type": "string", "description": "GraphQL document", "name": "query", "in": "query", "required": true},
                    {"type": "string", "description": "Operation to run", "name": "operationName", "in": "query"},
                    {"type": "string", "description": "JSON object of variable values", "name": "variables", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/graph.Response"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/graph.Response"}}
                }
            },
            "post": {
                "description": "Execute a GraphQL query or mutation sent as a JSON body.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["graphql"],
                "summary": "Execute a GraphQL request",
                "parameters": [
                    {"description": "GraphQL request", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/graph.Params"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/graph.Response"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/graph.Response"}}
                }
            }
        },
        "/member-types": {
            "get": {
                "produces": ["application/json"],
                "tags": ["member-types"],
                "summary": "List member types",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/models.MemberType"}}}
                }
            }
        },
        "/member-types/{memberTypeId}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["member-types"],
                "summary": "Get a member type",
                "parameters": [
                    {"enum": ["BASIC", "BUSINESS"], "type": "string", "description": "Member type ID", "name": "memberTypeId", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.MemberType"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/users/{userId}/user-subscribed-to": {
            "get": {
                "produces": ["application/json"],
                "tags": ["subscriptions"],
                "summary": "List the authors a user subscribes to",
                "parameters": [
                    {"type": "string", "format": "uuid", "description": "Subscriber ID", "name": "userId", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/models.User"}}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            },
            "post": {
                "consumes": ["application/json"],
                "tags": ["subscriptions"],
                "summary": "Subscribe a user to an author",
                "parameters": [
                    {"type": "string", "format": "uuid", "description": "Subscriber ID", "name": "userId", "in": "path", "required": true},
                    {"description": "Author to subscribe to", "name": "request", "in": "body", "required": true, "schema": {"type": "object", "properties": {"authorId": {"type": "string"}}}}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/users/{userId}/user-subscribed-to/{authorId}": {
            "delete": {
                "tags": ["subscriptions"],
                "summary": "Unsubscribe a user from an author",
                "parameters": [
                    {"type": "string", "format": "uuid", "description": "Subscriber ID", "name": "userId", "in": "path", "required": true},
                    {"type": "string", "format": "uuid", "description": "Author ID", "name": "authorId", "in": "path", "required": true}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "graph.Params": {
            "type": "object",
            "properties": {
                "query": {"type": "string"},
                "operationName": {"type": "string"},
                "variables": {"type": "object", "additionalProperties": true}
            }
        },
        "graph.Response": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "errors": {
                    "type": "array",
                    "items": {
                        "type": "object",
                        "properties": {
                            "message": {"type": "string"},
                            "path": {"type": "array", "items": {}},
                            "extensions": {"type": "object", "properties": {"code": {"type": "string"}}}
                        }
                    }
                }
            }
        },
        "models.ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string"},
                "code": {"type": "string"},
                "details": {"type": "string"}
            }
        },
        "models.MemberType": {
            "type": "object",
            "properties": {
                "id": {"type": "string", "enum": ["BASIC", "BUSINESS"]},
                "discount": {"type": "number"},
                "postsLimitPerMonth": {"type": "integer"}
            }
        },
        "models.User": {
            "type": "object",
            "properties": {
                "id": {"type": "string", "format": "uuid"},
                "name": {"type": "string"},
                "balance": {"type": "number"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger metadata so clients can modify it.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{"http", "https"},
	Title:            "Social Graph API",
	Description:      "Batched GraphQL reads and writes over users, profiles, posts, member types and subscriptions, plus REST routes for member types and subscriptions.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
