// Package docs holds the Swagger 2.0 document for the JSON API, registered with
// swag so http-swagger can serve it at /swagger/*. It is maintained by hand and
// covers the /api routes; `swag init -g cmd/api/main.go` rebuilds it from the
// handler annotations.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {
            "name": "API Support",
            "email": "support@example.com"
        },
        "license": {
            "name": "MIT",
            "url": "https://opensource.org/licenses/MIT"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/health": {
            "get": {
                "description": "Check if the API is running",
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/dashboard": {
            "get": {
                "produces": ["application/json"],
                "tags": ["pages"],
                "summary": "Dashboard",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/http.DashboardResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/httputil.ErrorResponse"}}
                }
            }
        },
        "/api/auth/login": {
            "post": {
                "description": "Verifies an identity provider ID token, creates the profile on first sign-in and sets the session cookies",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Sign in",
                "parameters": [
                    {"description": "ID token", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/auth.LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/auth.LoginResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/httputil.ErrorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/httputil.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/httputil.ErrorResponse"}}
                }
            }
        },
        "/api/auth/logout": {
            "post": {
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Sign out",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/api/profile": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["profile"],
                "summary": "Get profile",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/profile.Profile"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/httputil.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/httputil.ErrorResponse"}}
                }
            },
            "patch": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["profile"],
                "summary": "Update profile",
                "parameters": [
                    {"description": "Fields to change", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/profile.Patch"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/profile.Profile"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/httputil.ErrorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/httputil.ErrorResponse"}}
                }
            }
        },
        "/api/onboarding": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["profile"],
                "summary": "Complete onboarding",
                "parameters": [
                    {"description": "Onboarding answers", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/profile.OnboardingInput"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/profile.Profile"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/httputil.ErrorResponse"}}
                }
            }
        },
        "/api/geocode/reverse": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["geocode"],
                "summary": "Reverse geocode",
                "parameters": [
                    {"type": "number", "description": "Latitude", "name": "lat", "in": "query", "required": true},
                    {"type": "number", "description": "Longitude", "name": "lon", "in": "query", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/geocode.LocationResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/httputil.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/httputil.ErrorResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/httputil.ErrorResponse"}}
                }
            }
        },
        "/api/plants": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["plants"],
                "summary": "List plants",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/plant.PlantsResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/httputil.ErrorResponse"}}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json", "multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["plants"],
                "summary": "Add plant",
                "parameters": [
                    {"description": "Plant", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/plant.Input"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/plant.Plant"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/httputil.ErrorResponse"}},
                    "413": {"description": "Request Entity Too Large", "schema": {"$ref": "#/definitions/httputil.ErrorResponse"}},
                    "415": {"description": "Unsupported Media Type", "schema": {"$ref": "#/definitions/httputil.ErrorResponse"}}
                }
            }
        },
        "/api/plants/stream": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["text/event-stream"],
                "tags": ["plants"],
                "summary": "Stream plants",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/plant.Plant"}}}
                }
            }
        },
        "/api/plants/{id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["plants"],
                "summary": "Get plant",
                "parameters": [{"type": "string", "description": "Plant ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/plant.Plant"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/httputil.ErrorResponse"}}
                }
            },
            "patch": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json", "multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["plants"],
                "summary": "Update plant",
                "parameters": [
                    {"type": "string", "description": "Plant ID", "name": "id", "in": "path", "required": true},
                    {"description": "Fields to change", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/plant.Patch"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/plant.Plant"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/httputil.ErrorResponse"}}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["plants"],
                "summary": "Delete plant",
                "parameters": [{"type": "string", "description": "Plant ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/api/plants/{id}/water": {
            "post": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["plants"],
                "summary": "Mark plant watered",
                "parameters": [{"type": "string", "description": "Plant ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/plant.Plant"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/httputil.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "auth.LoginRequest": {
            "type": "object",
            "properties": {"idToken": {"type": "string"}}
        },
        "auth.LoginResponse": {
            "type": "object",
            "properties": {
                "profile": {"$ref": "#/definitions/profile.Profile"},
                "status": {"type": "string"}
            }
        },
        "geocode.LocationResponse": {
            "type": "object",
            "properties": {"location": {"type": "string"}}
        },
        "http.DashboardResponse": {
            "type": "object",
            "properties": {
                "needsWaterCount": {"type": "integer"},
                "needsWaterPlantIds": {"type": "array", "items": {"type": "string"}},
                "page": {"type": "string"},
                "plants": {"type": "array", "items": {"$ref": "#/definitions/plant.Plant"}},
                "profile": {"$ref": "#/definitions/profile.Profile"},
                "totalPlants": {"type": "integer"}
            }
        },
        "httputil.ErrorResponse": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "error": {"type": "string"}
            }
        },
        "plant.Input": {
            "type": "object",
            "properties": {
                "commonName": {"type": "string"},
                "healthStatus": {"type": "string", "enum": ["healthy", "needsAttention", "sick"]},
                "location": {"type": "string", "enum": ["indoor", "outdoor"]},
                "notes": {"type": "string"},
                "species": {"type": "string"},
                "wateringSchedule": {"$ref": "#/definitions/plant.ScheduleInput"}
            }
        },
        "plant.Patch": {
            "type": "object",
            "properties": {
                "commonName": {"type": "string"},
                "healthStatus": {"type": "string", "enum": ["healthy", "needsAttention", "sick"]},
                "location": {"type": "string", "enum": ["indoor", "outdoor"]},
                "notes": {"type": "string"},
                "photo": {"type": "string"},
                "species": {"type": "string"},
                "wateringSchedule": {"$ref": "#/definitions/plant.ScheduleInput"}
            }
        },
        "plant.Plant": {
            "type": "object",
            "properties": {
                "commonName": {"type": "string"},
                "createdAt": {"type": "string"},
                "healthStatus": {"type": "string", "enum": ["healthy", "needsAttention", "sick"]},
                "id": {"type": "string"},
                "location": {"type": "string", "enum": ["indoor", "outdoor"]},
                "notes": {"type": "string"},
                "photo": {"type": "string"},
                "species": {"type": "string"},
                "updatedAt": {"type": "string"},
                "userId": {"type": "string"},
                "wateringSchedule": {"$ref": "#/definitions/plant.WateringSchedule"}
            }
        },
        "plant.PlantsResponse": {
            "type": "object",
            "properties": {
                "needsWaterCount": {"type": "integer"},
                "needsWaterPlantIds": {"type": "array", "items": {"type": "string"}},
                "plants": {"type": "array", "items": {"$ref": "#/definitions/plant.Plant"}}
            }
        },
        "plant.ScheduleInput": {
            "type": "object",
            "properties": {
                "frequencyDays": {"type": "integer"},
                "lastWatered": {"type": "string"}
            }
        },
        "plant.WateringSchedule": {
            "type": "object",
            "properties": {
                "frequencyDays": {"type": "integer"},
                "lastWatered": {"type": "string"}
            }
        },
        "profile.OnboardingInput": {
            "type": "object",
            "properties": {
                "experienceLevel": {"type": "string", "enum": ["beginner", "intermediate", "expert"]},
                "location": {"type": "string"},
                "preferredPlants": {"type": "array", "items": {"type": "string"}}
            }
        },
        "profile.Patch": {
            "type": "object",
            "properties": {
                "completedOnboarding": {"type": "boolean"},
                "displayName": {"type": "string"},
                "experienceLevel": {"type": "string", "enum": ["beginner", "intermediate", "expert"]},
                "location": {"type": "string"},
                "photoURL": {"type": "string"},
                "preferredPlants": {"type": "array", "items": {"type": "string"}}
            }
        },
        "profile.Profile": {
            "type": "object",
            "properties": {
                "completedOnboarding": {"type": "boolean"},
                "createdAt": {"type": "string"},
                "displayName": {"type": "string"},
                "email": {"type": "string"},
                "experienceLevel": {"type": "string", "enum": ["beginner", "intermediate", "expert"]},
                "location": {"type": "string"},
                "photoURL": {"type": "string"},
                "preferredPlants": {"type": "array", "items": {"type": "string"}},
                "uid": {"type": "string"},
                "updatedAt": {"type": "string"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "Type \"Bearer\" followed by a space and the session token. Browsers send the session cookie instead.",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Plantopia API",
	Description:      "Plant care backend: identity-provider sign-in, profiles, onboarding and plant tracking with watering schedules.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
