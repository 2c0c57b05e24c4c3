package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Attendance Planner API",
        "description": "Semester planning, attendance marking and attendance risk for students.",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "security": [{"BearerAuth": []}],
    "tags": [
        {"name": "Semesters", "description": "Semester setup, holidays and exam blocks"},
        {"name": "Timetable", "description": "Weekly timetable import"},
        {"name": "Today", "description": "Day view with attendance risk"},
        {"name": "Attendance", "description": "Attendance marking and tallies"},
        {"name": "Reports", "description": "Downloadable reports"}
    ],
    "paths": {
        "/semesters": {
            "post": {
                "tags": ["Semesters"],
                "summary": "Set up a semester and generate its classes",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateSemesterRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/semesters/exists": {
            "get": {
                "tags": ["Semesters"],
                "summary": "Whether a semester has been set up",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/semesters/current": {
            "get": {
                "tags": ["Semesters"],
                "summary": "Current semester with its blocks",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "No semester", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/semesters/current/schedule": {
            "get": {
                "tags": ["Semesters"],
                "summary": "Holidays and exam blocks by start date",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/semesters/current/blackouts": {
            "post": {
                "tags": ["Semesters"],
                "summary": "Add a holiday or exam block",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/AddBlackoutRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "No semester", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/semesters/current/blackouts/{id}": {
            "delete": {
                "tags": ["Semesters"],
                "summary": "Remove a holiday or exam block",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "Deleted"},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/timetable": {
            "get": {
                "tags": ["Timetable"],
                "summary": "Weekly timetable, Monday first",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            },
            "put": {
                "tags": ["Timetable"],
                "summary": "Import weekly timetable rows",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SaveTimetableRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/timetable/exists": {
            "get": {
                "tags": ["Timetable"],
                "summary": "Whether a timetable has been imported",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/subjects/known": {
            "get": {
                "tags": ["Timetable"],
                "summary": "Subject names and aliases seen in imports",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/today": {
            "get": {
                "tags": ["Today"],
                "summary": "Today's classes, counters and attendance risk",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/instances/{id}/attendance": {
            "patch": {
                "tags": ["Attendance"],
                "summary": "Mark attendance for a class",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/MarkAttendanceRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Not the owner", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "422": {"description": "Class has not started", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/attendance/stats": {
            "get": {
                "tags": ["Attendance"],
                "summary": "Attendance tallies of classes held so far",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/reports/risk.pdf": {
            "get": {
                "tags": ["Reports"],
                "summary": "Download the attendance risk report",
                "produces": ["application/pdf"],
                "responses": {
                    "200": {"description": "PDF document"},
                    "404": {"description": "Reports disabled or no semester", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "BlackoutInput": {
            "type": "object",
            "properties": {
                "start": {"type": "string", "format": "date"},
                "end": {"type": "string", "format": "date"},
                "name": {"type": "string"}
            },
            "required": ["start", "end"]
        },
        "CreateSemesterRequest": {
            "type": "object",
            "properties": {
                "startDate": {"type": "string", "format": "date"},
                "endDate": {"type": "string", "format": "date"},
                "minAttendancePct": {"type": "number"},
                "holidays": {"type": "array", "items": {"$ref": "#/definitions/BlackoutInput"}},
                "exams": {"type": "array", "items": {"$ref": "#/definitions/BlackoutInput"}}
            },
            "required": ["startDate", "endDate"]
        },
        "AddBlackoutRequest": {
            "type": "object",
            "properties": {
                "kind": {"type": "string", "enum": ["HOLIDAY", "EXAM"]},
                "start": {"type": "string", "format": "date"},
                "end": {"type": "string", "format": "date"},
                "name": {"type": "string"}
            },
            "required": ["kind", "start", "end"]
        },
        "TimetableRow": {
            "type": "object",
            "properties": {
                "day": {"type": "string", "enum": ["MON", "TUE", "WED", "THU", "FRI", "SAT", "SUN"]},
                "type": {"type": "string", "enum": ["THEORY", "LAB", "FREE"]},
                "startTime": {"type": "string", "example": "09:00"},
                "endTime": {"type": "string", "example": "10:00"},
                "subject": {"type": "string"}
            },
            "required": ["day", "type", "startTime", "endTime"]
        },
        "SaveTimetableRequest": {
            "type": "object",
            "properties": {
                "rows": {"type": "array", "items": {"$ref": "#/definitions/TimetableRow"}},
                "subjectMapping": {"type": "object", "additionalProperties": {"type": "string"}},
                "replace": {"type": "boolean"}
            },
            "required": ["rows"]
        },
        "MarkAttendanceRequest": {
            "type": "object",
            "properties": {
                "status": {"type": "string", "enum": ["PRESENT", "ABSENT", "EXCUSED"]}
            },
            "required": ["status"]
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
