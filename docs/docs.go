// Package docs registers the OpenAPI description served under /swagger.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/upload": {
            "post": {
                "description": "Store an .xlsx, .xlsm or .csv file and return its column names",
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["uploads"],
                "summary": "Upload a spreadsheet",
                "parameters": [
                    {"type": "file", "description": "Spreadsheet", "name": "file", "in": "formData", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.UploadResponse"}},
                    "400": {"description": "Unsupported or unreadable file", "schema": {"$ref": "#/definitions/handler.APIError"}},
                    "413": {"description": "File too large", "schema": {"$ref": "#/definitions/handler.APIError"}}
                }
            }
        },
        "/process-table": {
            "post": {
                "description": "Store a table given as headers plus row objects and return its column names",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["uploads"],
                "summary": "Submit a pasted table",
                "parameters": [
                    {"description": "Pasted table", "name": "table", "in": "body", "required": true, "schema": {"$ref": "#/definitions/model.PastedTable"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.UploadResponse"}},
                    "400": {"description": "Invalid table", "schema": {"$ref": "#/definitions/handler.APIError"}}
                }
            }
        },
        "/uploads/{id}": {
            "delete": {
                "tags": ["uploads"],
                "summary": "Delete an upload",
                "parameters": [
                    {"type": "string", "description": "Upload ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "404": {"description": "Unknown upload", "schema": {"$ref": "#/definitions/handler.APIError"}}
                }
            }
        },
        "/uploads/{id}/columns": {
            "get": {
                "produces": ["application/json"],
                "tags": ["uploads"],
                "summary": "List upload columns",
                "parameters": [
                    {"type": "string", "description": "Upload ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.ColumnsResponse"}},
                    "404": {"description": "Unknown upload", "schema": {"$ref": "#/definitions/handler.APIError"}}
                }
            }
        },
        "/aggregate/{id}": {
            "post": {
                "description": "Group the upload by group_columns and reduce each of agg_columns with its operation. Returns the workbook as an attachment, or JSON with format=json.",
                "consumes": ["application/json"],
                "produces": ["application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", "application/json"],
                "tags": ["aggregation"],
                "summary": "Aggregate an upload",
                "parameters": [
                    {"type": "string", "description": "Upload ID", "name": "id", "in": "path", "required": true},
                    {"type": "string", "description": "xlsx (default), csv or json", "name": "format", "in": "query"},
                    {"description": "Aggregation plan", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/model.AggregationRequest"}}
                ],
                "responses": {
                    "200": {"description": "Aggregated workbook", "schema": {"type": "file"}},
                    "400": {"description": "Invalid plan", "schema": {"$ref": "#/definitions/handler.APIError"}},
                    "404": {"description": "Unknown upload", "schema": {"$ref": "#/definitions/handler.APIError"}}
                }
            }
        },
        "/downloads/{id}/{name}": {
            "get": {
                "produces": ["application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"],
                "tags": ["aggregation"],
                "summary": "Download a result",
                "parameters": [
                    {"type": "string", "description": "Upload ID", "name": "id", "in": "path", "required": true},
                    {"type": "string", "description": "Result file name", "name": "name", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "Result file", "schema": {"type": "file"}},
                    "404": {"description": "Unknown upload or result", "schema": {"$ref": "#/definitions/handler.APIError"}}
                }
            }
        },
        "/healthz": {
            "get": {
                "produces": ["application/json"],
                "tags": ["system"],
                "summary": "Liveness probe",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        }
    },
    "definitions": {
        "handler.APIError": {
            "type": "object",
            "properties": {
                "details": {},
                "error_code": {"type": "string"},
                "message": {"type": "string"}
            }
        },
        "model.AggregationRequest": {
            "type": "object",
            "properties": {
                "agg_columns": {"type": "array", "items": {"type": "string"}},
                "group_columns": {"type": "array", "items": {"type": "string"}},
                "operations": {"type": "object", "additionalProperties": {"type": "string"}}
            }
        },
        "model.PastedTable": {
            "type": "object",
            "required": ["headers"],
            "properties": {
                "headers": {"type": "array", "items": {"type": "string"}},
                "data": {"type": "array", "items": {"type": "object", "additionalProperties": true}}
            }
        },
        "model.UploadResponse": {
            "type": "object",
            "properties": {
                "columns": {"type": "array", "items": {"type": "string"}},
                "filename": {"type": "string"},
                "upload_id": {"type": "string"}
            }
        },
        "model.ColumnsResponse": {
            "type": "object",
            "properties": {
                "columns": {"type": "array", "items": {"type": "string"}},
                "upload_id": {"type": "string"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Excel Aggregator API",
	Description:      "Upload a spreadsheet, choose aggregation and grouping columns, download the grouped result.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
