package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Relief Teacher Marketplace API",
        "description": "Two-sided marketplace connecting schools with relief teachers",
        "version": "1.0.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "in": "header", "name": "Authorization"}
    },
    "tags": [
        {"name": "Authentication", "description": "Login"},
        {"name": "Teachers", "description": "Teacher registration and self-service"},
        {"name": "Schools", "description": "School-facing discovery, favourites and notifications"},
        {"name": "Messages", "description": "Direct messaging (Phase 3)"},
        {"name": "Verifications", "description": "Credential verification (Phase 3)"},
        {"name": "Countries", "description": "Country configuration (Phase 3)"},
        {"name": "Subscriptions", "description": "Tier standing (Phase 3)"},
        {"name": "Enterprise", "description": "Enterprise multi-school accounts (Phase 3)"}
    ],
    "paths": {
        "/health": {
            "get": {"summary": "Health check", "responses": {"200": {"description": "OK"}}}
        },
        "/ready": {
            "get": {"summary": "Readiness check", "responses": {"200": {"description": "Ready"}}}
        },
        "/auth/login": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Authenticate by email and password",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"type": "object"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid credentials"}
                }
            }
        },
        "/teachers/register": {
            "post": {
                "tags": ["Teachers"],
                "summary": "Register a teacher with profile, location and weekly availability",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"type": "object"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Email already in use"}
                }
            }
        },
        "/teachers/subscribe": {
            "post": {
                "tags": ["Teachers"],
                "summary": "Create a subscription row (billing stub)",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/teachers/v2/me/availability-calendar": {
            "get": {
                "tags": ["Teachers"],
                "summary": "List date-specific availability",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "from", "in": "query", "required": true, "type": "string"},
                    {"name": "to", "in": "query", "required": true, "type": "string"}
                ],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Invalid request"}}
            },
            "put": {
                "tags": ["Teachers"],
                "summary": "Batch upsert date-specific availability",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"type": "object"}}
                ],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Invalid request"}}
            }
        },
        "/teachers/v2/me/boost/activate": {
            "post": {
                "tags": ["Teachers"],
                "summary": "Activate boost",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK"}, "409": {"description": "Subscription required"}}
            }
        },
        "/schools/teachers": {
            "get": {
                "tags": ["Schools"],
                "summary": "List discoverable teachers (Phase 1)",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/schools/v2/teachers": {
            "get": {
                "tags": ["Schools"],
                "summary": "List discoverable teachers (Phase 2)",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "date", "in": "query", "type": "string"},
                    {"name": "origin_postcode", "in": "query", "type": "string"},
                    {"name": "max_distance_km", "in": "query", "type": "number"}
                ],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Invalid request"}}
            }
        },
        "/schools/v3/teachers": {
            "get": {
                "tags": ["Schools"],
                "summary": "List discoverable teachers (Phase 3, country-aware)",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "country_code", "in": "query", "required": true, "type": "string"},
                    {"name": "date", "in": "query", "type": "string"},
                    {"name": "origin_postcode", "in": "query", "type": "string"},
                    {"name": "max_distance_km", "in": "query", "type": "number"}
                ],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Invalid request"}}
            }
        },
        "/v3/messages": {
            "post": {
                "tags": ["Messages"],
                "summary": "Send a message",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"type": "object"}}
                ],
                "responses": {
                    "201": {"description": "Created"},
                    "400": {"description": "country_code required"},
                    "404": {"description": "Not found"}
                }
            }
        },
        "/v3/configs": {
            "get": {
                "tags": ["Countries"],
                "summary": "List country configurations",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK"}}
            }
        }
    },
    "definitions": {
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total_count": {"type": "integer"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "pagination": {"$ref": "#/definitions/Pagination"},
                "meta": {"type": "object"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
