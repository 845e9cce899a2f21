package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Syllabus Progress API",
        "description": "Class, subject and syllabus administration with topic completion tracking and principal reports",
        "version": "1.0.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Auth", "description": "Session login and logout"},
        {"name": "Admin", "description": "Users, hierarchy and teacher assignments"},
        {"name": "Teacher", "description": "Assigned syllabus and topic completion"},
        {"name": "Principal", "description": "Progress board and reports"}
    ],
    "paths": {
        "/health": {
            "get": {"summary": "Health check", "responses": {"200": {"description": "OK"}}}
        },
        "/ready": {
            "get": {"summary": "Readiness check", "responses": {"200": {"description": "Ready"}, "503": {"description": "Database unreachable"}}}
        },
        "/auth/login": {
            "get": {
                "tags": ["Auth"],
                "summary": "Current session status",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            },
            "post": {
                "tags": ["Auth"],
                "summary": "Log in with username and password",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "Logged in", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid username or password", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/auth/logout": {
            "get": {"tags": ["Auth"], "summary": "Clear the session", "responses": {"200": {"description": "Logged out"}}}
        },
        "/admin/": {
            "get": {"tags": ["Admin"], "summary": "Admin dashboard counts", "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}}}
        },
        "/admin/users": {
            "get": {
                "tags": ["Admin"],
                "summary": "List users",
                "parameters": [
                    {"name": "role", "in": "query", "type": "string", "enum": ["admin", "teacher", "principal"]},
                    {"name": "search", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "page_size", "in": "query", "type": "integer"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/admin/user/create": {
            "post": {
                "tags": ["Admin"],
                "summary": "Create a user with the role default password",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateUserRequest"}}
                ],
                "responses": {"201": {"description": "Created"}, "409": {"description": "Username or email taken"}}
            }
        },
        "/admin/user/{id}/edit": {
            "post": {
                "tags": ["Admin"],
                "summary": "Update a user",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateUserRequest"}}
                ],
                "responses": {"200": {"description": "Updated"}, "404": {"description": "Not found"}}
            }
        },
        "/admin/classes": {
            "get": {"tags": ["Admin"], "summary": "List classes with sections and groups", "responses": {"200": {"description": "OK"}}}
        },
        "/admin/class/create": {
            "post": {
                "tags": ["Admin"],
                "summary": "Create a class",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/NameRequest"}}
                ],
                "responses": {"201": {"description": "Created"}, "409": {"description": "Class exists"}}
            }
        },
        "/admin/class/{id}/delete": {
            "post": {
                "tags": ["Admin"],
                "summary": "Delete a class and everything beneath it",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "integer"}],
                "responses": {"200": {"description": "Deleted"}, "404": {"description": "Not found"}}
            }
        },
        "/admin/class/{id}/section": {
            "post": {
                "tags": ["Admin"],
                "summary": "Add a section to a class",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/NameRequest"}}
                ],
                "responses": {"201": {"description": "Created"}}
            }
        },
        "/admin/class/{id}/group": {
            "post": {
                "tags": ["Admin"],
                "summary": "Add a group to a senior class",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/NameRequest"}}
                ],
                "responses": {"201": {"description": "Created"}, "400": {"description": "Class does not take groups"}}
            }
        },
        "/admin/subjects": {
            "get": {
                "tags": ["Admin"],
                "summary": "List subjects",
                "parameters": [{"name": "class_id", "in": "query", "type": "integer"}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/admin/subject/create": {
            "post": {"tags": ["Admin"], "summary": "Create a subject", "responses": {"201": {"description": "Created"}}}
        },
        "/admin/syllabus": {
            "get": {"tags": ["Admin"], "summary": "Full class, subject, chapter and topic tree", "responses": {"200": {"description": "OK"}}}
        },
        "/admin/chapter/create": {
            "post": {"tags": ["Admin"], "summary": "Create a chapter", "responses": {"201": {"description": "Created"}}}
        },
        "/admin/topic/create": {
            "post": {"tags": ["Admin"], "summary": "Create a topic", "responses": {"201": {"description": "Created"}}}
        },
        "/admin/progress/{kind}/{id}": {
            "get": {
                "tags": ["Admin"],
                "summary": "Completion percentage of a subject, chapter or class",
                "parameters": [
                    {"name": "kind", "in": "path", "required": true, "type": "string", "enum": ["subject", "chapter", "class"]},
                    {"name": "id", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/admin/assignments": {
            "get": {"tags": ["Admin"], "summary": "List teacher assignments", "responses": {"200": {"description": "OK"}}}
        },
        "/admin/assignment/create": {
            "post": {
                "tags": ["Admin"],
                "summary": "Assign a teacher to a class subject",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateAssignmentRequest"}}
                ],
                "responses": {"201": {"description": "Created"}, "409": {"description": "Already assigned"}}
            }
        },
        "/admin/assignment/{id}/delete": {
            "post": {
                "tags": ["Admin"],
                "summary": "Remove a teacher assignment",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "integer"}],
                "responses": {"200": {"description": "Deleted"}}
            }
        },
        "/admin/api/sections-for-class/{class_id}": {
            "get": {
                "tags": ["Admin"],
                "summary": "Sections of a class",
                "parameters": [{"name": "class_id", "in": "path", "required": true, "type": "integer"}],
                "responses": {"200": {"description": "Array of {id, name}"}}
            }
        },
        "/admin/api/groups-for-class/{class_id}": {
            "get": {
                "tags": ["Admin"],
                "summary": "Groups of a class",
                "parameters": [{"name": "class_id", "in": "path", "required": true, "type": "integer"}],
                "responses": {"200": {"description": "Array of {id, name}"}}
            }
        },
        "/admin/api/subjects-for-class/{class_id}": {
            "get": {
                "tags": ["Admin"],
                "summary": "Subjects of a class",
                "parameters": [{"name": "class_id", "in": "path", "required": true, "type": "integer"}],
                "responses": {"200": {"description": "Array of {id, name}"}}
            }
        },
        "/teacher/": {
            "get": {"tags": ["Teacher"], "summary": "Assigned subjects with chapters and topics", "responses": {"200": {"description": "OK"}}}
        },
        "/api/topic/{topic_id}": {
            "post": {
                "tags": ["Teacher"],
                "summary": "Mark a topic complete or incomplete",
                "parameters": [
                    {"name": "topic_id", "in": "path", "required": true, "type": "integer"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/TopicUpdateRequest"}}
                ],
                "responses": {
                    "200": {"description": "Updated", "schema": {"$ref": "#/definitions/StatusResponse"}},
                    "403": {"description": "Not assigned", "schema": {"$ref": "#/definitions/StatusResponse"}}
                }
            }
        },
        "/principal/": {
            "get": {"tags": ["Principal"], "summary": "Per-assignment progress board", "responses": {"200": {"description": "OK"}}}
        },
        "/principal/reports": {
            "get": {
                "tags": ["Principal"],
                "summary": "Report rows with class filter options",
                "parameters": [{"name": "class_id", "in": "query", "type": "integer"}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/principal/reports/download/{format}": {
            "get": {
                "tags": ["Principal"],
                "summary": "Download the progress report",
                "produces": ["application/pdf", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", "text/csv"],
                "parameters": [
                    {"name": "format", "in": "path", "required": true, "type": "string", "enum": ["pdf", "excel", "csv"]},
                    {"name": "class_id", "in": "query", "type": "integer"}
                ],
                "responses": {"200": {"description": "File attachment"}}
            }
        },
        "/principal/reports/email": {
            "post": {
                "tags": ["Principal"],
                "summary": "Email the PDF report",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/EmailReportRequest"}}
                ],
                "responses": {"201": {"description": "Sent"}, "503": {"description": "Mail delivery failed"}}
            }
        },
        "/principal/reports/emails": {
            "get": {
                "tags": ["Principal"],
                "summary": "Recently emailed reports",
                "parameters": [{"name": "limit", "in": "query", "type": "integer"}],
                "responses": {"200": {"description": "OK"}}
            }
        }
    },
    "definitions": {
        "LoginRequest": {
            "type": "object",
            "properties": {
                "username": {"type": "string"},
                "password": {"type": "string"}
            },
            "required": ["username", "password"]
        },
        "CreateUserRequest": {
            "type": "object",
            "properties": {
                "username": {"type": "string"},
                "email": {"type": "string"},
                "full_name": {"type": "string"},
                "role": {"type": "string", "enum": ["admin", "teacher", "principal"]}
            },
            "required": ["username", "email", "full_name", "role"]
        },
        "UpdateUserRequest": {
            "type": "object",
            "properties": {
                "username": {"type": "string"},
                "email": {"type": "string"},
                "full_name": {"type": "string"},
                "role": {"type": "string", "enum": ["admin", "teacher", "principal"]}
            },
            "required": ["username", "email", "full_name", "role"]
        },
        "NameRequest": {
            "type": "object",
            "properties": {"name": {"type": "string"}},
            "required": ["name"]
        },
        "CreateAssignmentRequest": {
            "type": "object",
            "properties": {
                "teacher_id": {"type": "integer"},
                "class_id": {"type": "integer"},
                "section_id": {"type": "integer"},
                "group_id": {"type": "integer"},
                "subject_id": {"type": "integer"}
            },
            "required": ["teacher_id", "class_id", "subject_id"]
        },
        "TopicUpdateRequest": {
            "type": "object",
            "properties": {"is_completed": {"type": "boolean"}},
            "required": ["is_completed"]
        },
        "EmailReportRequest": {
            "type": "object",
            "properties": {
                "to": {"type": "array", "items": {"type": "string"}},
                "class_id": {"type": "integer"}
            },
            "required": ["to"]
        },
        "StatusResponse": {
            "type": "object",
            "properties": {
                "status": {"type": "string"},
                "message": {"type": "string"}
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
