package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Timetable View API",
        "description": "Busy/free grids, common free pairs and snapshot comparisons for the university timetable",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Timetable", "description": "Grids and common free pairs"},
        {"name": "Comparison", "description": "Rendered diffs between timetable snapshots"},
        {"name": "Observability", "description": "Process metrics"}
    ],
    "paths": {
        "/timetable/grid": {
            "post": {
                "tags": ["Timetable"],
                "summary": "Busy/free grid of the selected entities",
                "consumes": ["application/json"],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/GridRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/timetable/free-slots": {
            "post": {
                "tags": ["Timetable"],
                "summary": "Pairs at which every selected entity is free",
                "consumes": ["application/json"],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/FreeSlotsRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/timetable/free-slots/export": {
            "post": {
                "tags": ["Timetable"],
                "summary": "Download the free-slot table",
                "consumes": ["application/json"],
                "produces": ["text/csv", "application/pdf"],
                "parameters": [
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf", "xlsx"], "default": "csv"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/FreeSlotsRequest"}}
                ],
                "responses": {
                    "200": {"description": "File", "schema": {"type": "file"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/timetable/semester": {
            "get": {
                "tags": ["Timetable"],
                "summary": "Semester, teaching week and parity of a date",
                "parameters": [
                    {"name": "date", "in": "query", "type": "string", "format": "date"},
                    {"name": "semcode", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/timetable/pairs": {
            "get": {
                "tags": ["Timetable"],
                "summary": "Pair numbers and their clock times",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/timetable/semesters": {
            "get": {
                "tags": ["Timetable"],
                "summary": "Semesters that have a timetable",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/timetable/cache/{semcode}": {
            "delete": {
                "tags": ["Timetable"],
                "summary": "Drop cached schedule loads of a semester",
                "parameters": [
                    {"name": "semcode", "in": "path", "type": "integer", "required": true}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/comparisons": {
            "get": {
                "tags": ["Comparison"],
                "summary": "Rendered comparison of two timetable snapshots",
                "parameters": [
                    {"name": "left", "in": "query", "type": "string", "required": true},
                    {"name": "right", "in": "query", "type": "string", "required": true},
                    {"name": "expand", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Snapshot not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "502": {"description": "Comparison service failed", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/comparisons/render": {
            "post": {
                "tags": ["Comparison"],
                "summary": "Render a comparison tree supplied by the caller",
                "consumes": ["application/json"],
                "parameters": [
                    {"name": "expand", "in": "query", "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"type": "object"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/metrics/summary": {
            "get": {
                "tags": ["Observability"],
                "summary": "Aggregated process metrics",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "EntityRef": {
            "type": "object",
            "required": ["type", "value"],
            "properties": {
                "type": {"type": "string", "enum": ["group", "prep", "room"]},
                "value": {"type": "string"}
            }
        },
        "GridRequest": {
            "type": "object",
            "required": ["entities", "from", "to"],
            "properties": {
                "entities": {"type": "array", "items": {"$ref": "#/definitions/EntityRef"}},
                "from": {"type": "string", "format": "date"},
                "to": {"type": "string", "format": "date"},
                "semcode": {"type": "integer"}
            }
        },
        "FreeSlotsRequest": {
            "type": "object",
            "required": ["from", "to"],
            "properties": {
                "entities": {"type": "array", "items": {"$ref": "#/definitions/EntityRef"}},
                "from": {"type": "string", "format": "date"},
                "to": {"type": "string", "format": "date"},
                "semcode": {"type": "integer"},
                "minPair": {"type": "integer", "minimum": 1, "maximum": 7},
                "maxPair": {"type": "integer", "minimum": 1, "maximum": 7},
                "sort": {"type": "string", "enum": ["date", "pair", "entities"]},
                "order": {"type": "string", "enum": ["asc", "desc"]},
                "toggle": {"type": "string", "enum": ["date", "pair", "entities"]},
                "freeSlots": {"type": "object", "additionalProperties": {"type": "object", "additionalProperties": {"type": "array", "items": {"type": "integer"}}}}
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
