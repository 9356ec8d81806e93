package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Der Town API",
        "description": "Community events, announcements, and calendar feeds",
        "version": "1.0.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Events", "description": "Community event listing and submission"},
        {"name": "Announcements", "description": "Community announcements"},
        {"name": "Calendar", "description": "iCalendar and RSS feeds, per-event export links"},
        {"name": "Activities", "description": "Recurring activity schedules"},
        {"name": "Lookups", "description": "Organizations, locations, and tags"},
        {"name": "Authentication", "description": "Admin session management"},
        {"name": "Admin", "description": "Review workflow and exports"}
    ],
    "paths": {
        "/health": {
            "get": {
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/ready": {
            "get": {
                "summary": "Readiness check",
                "responses": {
                    "200": {"description": "Ready"}
                }
            }
        },
        "/api/v1/events": {
            "get": {
                "tags": ["Events"],
                "summary": "List published events",
                "parameters": [
                    {"name": "tag_id", "in": "query", "type": "string"},
                    {"name": "organization_id", "in": "query", "type": "string"},
                    {"name": "location_id", "in": "query", "type": "string"},
                    {"name": "search", "in": "query", "type": "string"},
                    {"name": "include_past", "in": "query", "type": "boolean"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "page_size", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Events"],
                "summary": "Submit an event for review",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SaveEventRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/events/{id}": {
            "get": {
                "tags": ["Events"],
                "summary": "Get one event",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/events/{id}/ical": {
            "get": {
                "tags": ["Calendar"],
                "summary": "Single-event iCalendar download",
                "produces": ["text/calendar"],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "VCALENDAR document"},
                    "404": {"description": "Not found"}
                }
            }
        },
        "/api/v1/events/{id}/google": {
            "get": {
                "tags": ["Calendar"],
                "summary": "Redirect to Google Calendar event creation",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "302": {"description": "Redirect"},
                    "404": {"description": "Not found"}
                }
            }
        },
        "/api/v1/events/{id}/outlook": {
            "get": {
                "tags": ["Calendar"],
                "summary": "Redirect to Outlook event creation",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "302": {"description": "Redirect"},
                    "404": {"description": "Not found"}
                }
            }
        },
        "/api/v1/calendar/ical": {
            "get": {
                "tags": ["Calendar"],
                "summary": "Site-wide iCalendar feed",
                "produces": ["text/calendar"],
                "responses": {
                    "200": {"description": "VCALENDAR document"}
                }
            }
        },
        "/api/v1/calendar/rss": {
            "get": {
                "tags": ["Calendar"],
                "summary": "Site-wide RSS feed",
                "produces": ["application/rss+xml"],
                "responses": {
                    "200": {"description": "RSS 2.0 document"}
                }
            }
        },
        "/api/v1/announcements": {
            "get": {
                "tags": ["Announcements"],
                "summary": "List active announcements",
                "parameters": [
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "page_size", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Announcements"],
                "summary": "Submit an announcement for review",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SaveAnnouncementRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/activities": {
            "get": {
                "tags": ["Activities"],
                "summary": "List recurring activities",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/activities/{id}/occurrences": {
            "get": {
                "tags": ["Activities"],
                "summary": "Expand a recurring activity schedule",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "start_date", "in": "query", "required": true, "type": "string", "format": "date"},
                    {"name": "end_date", "in": "query", "required": true, "type": "string", "format": "date"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Validation error"},
                    "404": {"description": "Not found"}
                }
            }
        },
        "/api/v1/organizations": {
            "get": {
                "tags": ["Lookups"],
                "summary": "List organizations",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/locations": {
            "get": {
                "tags": ["Lookups"],
                "summary": "List locations",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/tags": {
            "get": {
                "tags": ["Lookups"],
                "summary": "List tags",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/auth/login": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Authenticate admin",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid credentials"}
                }
            }
        },
        "/api/v1/auth/refresh": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Refresh access token",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid refresh token"}
                }
            }
        },
        "/api/v1/admin/events": {
            "get": {
                "tags": ["Admin"],
                "summary": "List events for review",
                "parameters": [
                    {"name": "status", "in": "query", "type": "string", "enum": ["pending", "approved", "archived"]},
                    {"name": "search", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "page_size", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/admin/events/export": {
            "get": {
                "tags": ["Admin"],
                "summary": "Export upcoming events",
                "produces": ["text/csv", "application/pdf"],
                "parameters": [
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"], "default": "csv"}
                ],
                "responses": {
                    "200": {"description": "Document"},
                    "400": {"description": "Unsupported format"}
                }
            }
        },
        "/api/v1/admin/events/{id}/approve": {
            "post": {
                "tags": ["Admin"],
                "summary": "Approve a pending event",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "Approved"},
                    "404": {"description": "Not found"}
                }
            }
        },
        "/api/v1/admin/activities/{id}/calendar-export": {
            "get": {
                "tags": ["Admin"],
                "summary": "Export an activity schedule as iCalendar",
                "produces": ["text/calendar"],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "VCALENDAR document"},
                    "404": {"description": "Not found"}
                }
            }
        },
        "/api/v1/admin/status": {
            "get": {
                "tags": ["Admin"],
                "summary": "Runtime statistics",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "LoginRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "SaveEventRequest": {
            "type": "object",
            "required": ["title", "start_date"],
            "properties": {
                "title": {"type": "string"},
                "description": {"type": "string"},
                "start_date": {"type": "string", "format": "date"},
                "end_date": {"type": "string", "format": "date"},
                "start_time": {"type": "string", "example": "19:00:00"},
                "end_time": {"type": "string", "example": "21:00:00"},
                "location_id": {"type": "string"},
                "organization_id": {"type": "string"},
                "primary_tag_id": {"type": "string"},
                "secondary_tag_id": {"type": "string"},
                "website": {"type": "string"},
                "cost": {"type": "string"},
                "email": {"type": "string"},
                "registration": {"type": "boolean"},
                "registration_link": {"type": "string"},
                "featured": {"type": "boolean"},
                "exclude_from_calendar": {"type": "boolean"},
                "comments": {"type": "string"}
            }
        },
        "SaveAnnouncementRequest": {
            "type": "object",
            "required": ["title", "message"],
            "properties": {
                "title": {"type": "string"},
                "message": {"type": "string"},
                "author": {"type": "string"},
                "email": {"type": "string"},
                "link": {"type": "string"},
                "organization_id": {"type": "string"},
                "show_at": {"type": "string", "format": "date-time"},
                "expires_at": {"type": "string", "format": "date-time"},
                "comments": {"type": "string"}
            }
        },
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
