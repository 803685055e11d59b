// Package docs registers the OpenAPI document served under /swagger. The
// layout follows swag's output; `go generate ./docs` rebuilds it from the
// godoc annotations on the controllers.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {
            "name": "API Support"
        },
        "license": {
            "name": "Apache 2.0",
            "url": "http://www.apache.org/licenses/LICENSE-2.0.html"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/admin/questions": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Admin - Questions"],
                "summary": "(Admin) Add or replace a question bank entry",
                "parameters": [
                    {
                        "description": "Question document",
                        "name": "question",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/dto.BankQuestionDTO"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.UpsertResponse"}},
                    "400": {"description": "Invalid input data", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "500": {"description": "Internal server error", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "503": {"description": "No document store configured", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/attempts": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Custom Tests"],
                "summary": "Submit and grade an attempt of a custom test",
                "parameters": [
                    {
                        "description": "MCQ and gap-fill answers",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/dto.SubmitAttemptRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.AttemptResponse"}},
                    "400": {"description": "Invalid input data", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "404": {"description": "Test not found", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "503": {"description": "No document store configured", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/generate-test": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Generation"],
                "summary": "Generate a test around a theme",
                "parameters": [
                    {
                        "description": "Theme and test settings",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/dto.GenerateTopicTestRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.QuestionsEnvelope"}},
                    "400": {"description": "Invalid input data", "schema": {"$ref": "#/definitions/dto.QuestionsEnvelope"}},
                    "500": {"description": "Internal server error", "schema": {"$ref": "#/definitions/dto.QuestionsEnvelope"}},
                    "502": {"description": "No batch produced questions", "schema": {"$ref": "#/definitions/dto.QuestionsEnvelope"}}
                }
            }
        },
        "/generate-test-custom": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Generation"],
                "summary": "Generate a test for a learner profile",
                "parameters": [
                    {
                        "description": "Learner profile and test settings",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/dto.GenerateCustomTestRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.QuestionsEnvelope"}},
                    "400": {"description": "Invalid input data", "schema": {"$ref": "#/definitions/dto.QuestionsEnvelope"}},
                    "500": {"description": "Internal server error", "schema": {"$ref": "#/definitions/dto.QuestionsEnvelope"}},
                    "502": {"description": "No batch produced questions", "schema": {"$ref": "#/definitions/dto.QuestionsEnvelope"}}
                }
            }
        },
        "/grade": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Grading"],
                "summary": "Grade answers and optionally add an AI study plan",
                "parameters": [
                    {
                        "description": "Answer key, answers and optional profile",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/dto.GradeRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.GradeResponse"}},
                    "400": {"description": "Malformed answer key", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "500": {"description": "Internal server error", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/recommend": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Grading"],
                "summary": "Recommend a learning path from similar students",
                "parameters": [
                    {
                        "description": "Study time and six skill scores",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/dto.RecommendRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.RecommendResponse"}},
                    "400": {"description": "Invalid input data", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "503": {"description": "Recommender dataset not loaded", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/tests/custom": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Custom Tests"],
                "summary": "Build a custom test from the question bank",
                "parameters": [
                    {
                        "description": "Learner profile and preferences",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/dto.CreateCustomTestRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.CustomTestSummaryDTO"}},
                    "400": {"description": "Invalid input data", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "500": {"description": "Internal server error", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "502": {"description": "Neither the bank nor the model supplied questions", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "503": {"description": "No document store configured", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/tests/{test_id}/attempts": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Custom Tests"],
                "summary": "List graded attempts of a custom test",
                "parameters": [
                    {"type": "string", "description": "Test ID", "name": "test_id", "in": "path", "required": true},
                    {"type": "string", "description": "Only attempts of this user", "name": "user_id", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/dto.AttemptResultDTO"}}},
                    "503": {"description": "No document store configured", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/tests/{test_id}/questions": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Custom Tests"],
                "summary": "Get the questions of a custom test without answers",
                "parameters": [
                    {"type": "string", "description": "Test ID", "name": "test_id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.TestQuestionsDTO"}},
                    "404": {"description": "Test not found", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "503": {"description": "No document store configured", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "dto.AttemptResponse": {"type": "object"},
        "dto.AttemptResultDTO": {"type": "object"},
        "dto.BankQuestionDTO": {
            "type": "object",
            "required": ["answers", "level", "text", "type"],
            "properties": {
                "id": {"type": "string"},
                "type": {"type": "string", "enum": ["mcq", "gap"]},
                "level": {"type": "string", "example": "B1"},
                "tags": {"type": "array", "items": {"type": "string"}},
                "skills": {"type": "array", "items": {"type": "string"}},
                "text": {"type": "string"},
                "options": {"type": "array", "items": {"type": "string"}},
                "answers": {"type": "array", "items": {"type": "string"}},
                "explanation": {"type": "string"},
                "time_estimate": {"type": "integer"}
            }
        },
        "dto.CreateCustomTestRequest": {"type": "object"},
        "dto.CustomTestSummaryDTO": {"type": "object"},
        "dto.ErrorResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string"},
                "details": {"type": "array", "items": {"type": "string"}}
            }
        },
        "dto.GenerateCustomTestRequest": {"type": "object"},
        "dto.GenerateTopicTestRequest": {"type": "object"},
        "dto.GradeRequest": {"type": "object"},
        "dto.GradeResponse": {"type": "object"},
        "dto.QuestionsEnvelope": {
            "type": "object",
            "properties": {
                "status": {"type": "string", "example": "success"},
                "data": {"type": "array", "items": {"type": "object"}},
                "message": {"type": "string"}
            }
        },
        "dto.RecommendRequest": {
            "type": "object",
            "properties": {
                "time_available": {"type": "integer"},
                "vocab_score": {"type": "integer"},
                "grammar_score": {"type": "integer"},
                "listening_score": {"type": "integer"},
                "speaking_score": {"type": "integer"},
                "reading_score": {"type": "integer"},
                "writing_score": {"type": "integer"}
            }
        },
        "dto.RecommendResponse": {"type": "object"},
        "dto.SubmitAttemptRequest": {"type": "object"},
        "dto.TestQuestionsDTO": {"type": "object"},
        "dto.UpsertResponse": {
            "type": "object",
            "properties": {
                "status": {"type": "string", "example": "ok"},
                "id": {"type": "string"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/api/v1",
	Schemes:          []string{"http", "https"},
	Title:            "StudyHub AI API",
	Description:      "Generates English test questions with Gemini, grades answers locally and recommends learning paths.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
