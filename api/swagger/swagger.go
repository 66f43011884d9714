package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "RISE Research API",
        "description": "Identity, availability scheduling, invoicing and reporting proxy over the RISE record store",
        "version": "1.0.0"
    },
    "basePath": "/api",
    "schemes": [
        "http",
        "https"
    ],
    "tags": [
        {"name": "Identity", "description": "Google sign-in and role lookup"},
        {"name": "Scheduler", "description": "Weekly student availability"},
        {"name": "Calendar", "description": "iCalendar exports of mentor availability"},
        {"name": "Invoicing", "description": "Mentor class validation and invoices"},
        {"name": "Reports", "description": "Weekly student reports"},
        {"name": "Students", "description": "Students table passthrough"}
    ],
    "paths": {
        "/health": {
            "get": {
                "summary": "Liveness probe",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/HealthResponse"}}}
            }
        },
        "/verify-identity-token": {
            "post": {
                "tags": ["Identity"],
                "summary": "Verify a Google ID credential",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/VerifyIdentityRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/VerifyIdentityResponse"}},
                    "400": {"description": "Missing credential", "schema": {"$ref": "#/definitions/ErrorBody"}},
                    "401": {"description": "Invalid credential", "schema": {"$ref": "#/definitions/ErrorBody"}},
                    "403": {"description": "Not registered", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            }
        },
        "/verify-email": {
            "post": {
                "tags": ["Identity"],
                "summary": "Check whether an email is registered",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"type": "object", "properties": {"email": {"type": "string"}}}}
                ],
                "responses": {"200": {"description": "OK", "schema": {"type": "object", "properties": {"authorized": {"type": "boolean"}, "email": {"type": "string"}}}}}
            }
        },
        "/authorized-emails": {
            "get": {
                "tags": ["Identity"],
                "summary": "List registered emails",
                "responses": {"200": {"description": "OK", "schema": {"type": "object", "properties": {"emails": {"type": "array", "items": {"type": "string"}}, "count": {"type": "integer"}}}}}
            }
        },
        "/check-eligibility": {
            "post": {
                "tags": ["Scheduler"],
                "summary": "Check whether a student may submit availability",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"type": "object", "properties": {"email": {"type": "string"}}}}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/EligibilityResponse"}}}
            }
        },
        "/submit-availability": {
            "post": {
                "tags": ["Scheduler"],
                "summary": "Submit a week of availability",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SubmitAvailabilityRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/SubmitAvailabilityResponse"}},
                    "400": {"description": "Invalid submission", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            }
        },
        "/mentor-schedules/{email}": {
            "get": {
                "tags": ["Scheduler"],
                "summary": "List the latest availability of a mentor's programs",
                "parameters": [
                    {"name": "email", "in": "path", "required": true, "type": "string"},
                    {"name": "timezone", "in": "query", "type": "string"}
                ],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/time-slots": {
            "get": {
                "tags": ["Scheduler"],
                "summary": "List selectable hourly slots",
                "parameters": [
                    {"name": "date", "in": "query", "type": "string"},
                    {"name": "timezone", "in": "query", "type": "string"}
                ],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/mentor-schedules/{email}/calendar.ics": {
            "get": {
                "tags": ["Calendar"],
                "summary": "Download a mentor's availability calendar",
                "produces": ["text/calendar"],
                "parameters": [
                    {"name": "email", "in": "path", "required": true, "type": "string"},
                    {"name": "timezone", "in": "query", "type": "string"}
                ],
                "responses": {"200": {"description": "iCalendar document"}}
            }
        },
        "/mentor-schedules/{email}/calendar-link": {
            "get": {
                "tags": ["Calendar"],
                "summary": "Issue a signed calendar subscription link",
                "parameters": [
                    {"name": "email", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"type": "object", "properties": {"success": {"type": "boolean"}, "url": {"type": "string"}, "expiresAt": {"type": "string", "format": "date-time"}}}}}
            }
        },
        "/calendar/feed/{token}": {
            "get": {
                "tags": ["Calendar"],
                "summary": "Serve a calendar feed from a signed link",
                "produces": ["text/calendar"],
                "parameters": [
                    {"name": "token", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "iCalendar document"},
                    "401": {"description": "Invalid link", "schema": {"$ref": "#/definitions/ErrorBody"}},
                    "403": {"description": "Expired link", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            }
        },
        "/pending-classes/{email}": {
            "get": {
                "tags": ["Invoicing"],
                "summary": "List a mentor's classes awaiting payment",
                "parameters": [
                    {"name": "email", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/pending-classes/{email}/export": {
            "get": {
                "tags": ["Invoicing"],
                "summary": "Export a mentor's pending classes",
                "produces": ["text/csv", "application/pdf"],
                "parameters": [
                    {"name": "email", "in": "path", "required": true, "type": "string"},
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]}
                ],
                "responses": {"200": {"description": "Statement file"}}
            }
        },
        "/validate-classes": {
            "post": {
                "tags": ["Invoicing"],
                "summary": "Confirm classes and create an invoice",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ValidateClassesRequest"}}
                ],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/raise-discrepancy": {
            "post": {
                "tags": ["Invoicing"],
                "summary": "Record an issue against classes",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"type": "object", "properties": {"programId": {"type": "string"}, "classIds": {"type": "array", "items": {"type": "string"}}, "issues": {"type": "string"}}}}
                ],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/pending-reports": {
            "get": {
                "tags": ["Reports"],
                "summary": "List pending student reports grouped by counselor",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/students": {
            "get": {
                "tags": ["Students"],
                "summary": "List students",
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "tags": ["Students"],
                "summary": "Create a student",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"type": "object"}}
                ],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/students/{id}": {
            "put": {
                "tags": ["Students"],
                "summary": "Update a student",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"type": "object"}}
                ],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ErrorBody"}}}
            },
            "delete": {
                "tags": ["Students"],
                "summary": "Delete a student",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ErrorBody"}}}
            }
        }
    },
    "definitions": {
        "ErrorBody": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "error": {"type": "string"},
                "message": {"type": "string"},
                "retryable": {"type": "boolean"}
            }
        },
        "HealthResponse": {
            "type": "object",
            "properties": {
                "status": {"type": "string"},
                "message": {"type": "string"},
                "timestamp": {"type": "string", "format": "date-time"}
            }
        },
        "VerifyIdentityRequest": {
            "type": "object",
            "required": ["credential"],
            "properties": {"credential": {"type": "string"}}
        },
        "VerifyIdentityResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "email": {"type": "string"},
                "name": {"type": "string"},
                "picture": {"type": "string"},
                "role": {"type": "string", "enum": ["Student", "Parent", "Mentor", "Writing Coach", "Team"]}
            }
        },
        "EligibilityResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "isActiveStudent": {"type": "boolean"},
                "studentData": {"type": "object"},
                "hasExistingSubmission": {"type": "boolean"},
                "canSubmit": {"type": "boolean"},
                "existingAvailability": {"type": "object"},
                "targetWeek": {"type": "object"},
                "message": {"type": "string"}
            }
        },
        "SubmitAvailabilityRequest": {
            "type": "object",
            "required": ["programId", "studentName", "week"],
            "properties": {
                "programId": {"type": "string"},
                "studentName": {"type": "string"},
                "week": {"type": "string", "example": "2024-06-17 to 2024-06-23"},
                "availability": {"type": "string"},
                "selections": {"type": "object", "additionalProperties": {"type": "array", "items": {"type": "integer"}}},
                "timezone": {"type": "string"}
            }
        },
        "SubmitAvailabilityResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "message": {"type": "string"},
                "recordId": {"type": "string"},
                "week": {"type": "string"}
            }
        },
        "ValidateClassesRequest": {
            "type": "object",
            "required": ["programId", "classIds", "mentorEmail", "mentorName"],
            "properties": {
                "programId": {"type": "string"},
                "classIds": {"type": "array", "items": {"type": "string"}},
                "mentorEmail": {"type": "string"},
                "mentorName": {"type": "string"},
                "completedCount": {"type": "integer"},
                "missedCount": {"type": "integer"},
                "totalAmount": {"type": "number"},
                "currency": {"type": "string"}
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
