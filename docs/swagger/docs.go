// Package swagger provides API documentation
package swagger

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
        "/api/upload": {
            "post": {
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["upload"],
                "summary": "Upload files through the server",
                "parameters": [
                    {"type": "file", "description": "Files (files[] or files)", "name": "files", "in": "formData", "required": true},
                    {"type": "string", "description": "Batch metadata JSON", "name": "metadata", "in": "formData", "required": true},
                    {"type": "string", "description": "true when uploading many files", "name": "batchMode", "in": "formData"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/responses.UploadResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/platformerrors.HTTPErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/platformerrors.HTTPErrorResponse"}}
                }
            }
        },
        "/api/upload/presigned-url": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["upload"],
                "summary": "Request a direct upload URL",
                "parameters": [
                    {"description": "File description", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/requests.PresignedURLRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/responses.PresignedURLResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/platformerrors.HTTPErrorResponse"}},
                    "501": {"description": "Not Implemented", "schema": {"$ref": "#/definitions/platformerrors.HTTPErrorResponse"}}
                }
            }
        },
        "/api/upload/metadata": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["upload"],
                "summary": "Register a directly uploaded file",
                "parameters": [
                    {"description": "Uploaded file and batch metadata", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/requests.MetadataRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/responses.MetadataResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/platformerrors.HTTPErrorResponse"}}
                }
            }
        },
        "/api/upload/abandon": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["upload"],
                "summary": "Discard an unregistered upload",
                "parameters": [
                    {"description": "Storage key", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/requests.AbandonRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/responses.AbandonResponse"}}
                }
            }
        },
        "/api/assets": {
            "get": {
                "produces": ["application/json"],
                "tags": ["assets"],
                "summary": "List or search assets",
                "parameters": [
                    {"type": "integer", "name": "pageSize", "in": "query"},
                    {"type": "string", "name": "offset", "in": "query"},
                    {"type": "string", "name": "event", "in": "query"},
                    {"type": "string", "name": "photographer", "in": "query"},
                    {"type": "string", "name": "tags", "in": "query"},
                    {"type": "string", "name": "dateFrom", "in": "query"},
                    {"type": "string", "name": "dateTo", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/responses.AssetListResponse"}}
                }
            }
        },
        "/api/assets/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["assets"],
                "summary": "Get an asset",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            },
            "delete": {
                "produces": ["application/json"],
                "tags": ["assets"],
                "summary": "Delete an asset",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            }
        },
        "/api/gallery": {
            "get": {
                "produces": ["application/json"],
                "tags": ["gallery"],
                "summary": "Filtered gallery view",
                "parameters": [
                    {"type": "string", "name": "q", "in": "query"},
                    {"type": "string", "name": "event", "in": "query"},
                    {"type": "string", "name": "photographer", "in": "query"},
                    {"type": "string", "name": "fileType", "in": "query"},
                    {"type": "string", "name": "tags", "in": "query"},
                    {"type": "string", "name": "dateFrom", "in": "query"},
                    {"type": "string", "name": "dateTo", "in": "query"}
                ],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/api/stats": {
            "get": {
                "produces": ["application/json"],
                "tags": ["assets"],
                "summary": "Collection statistics",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/api/download": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["assets"],
                "summary": "Get a download URL",
                "parameters": [
                    {"description": "Storage key", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/requests.DownloadRequest"}}
                ],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}
            }
        }
    },
    "definitions": {
        "platformerrors.HTTPErrorResponse": {
            "type": "object",
            "properties": {"success": {"type": "boolean"}, "error": {"type": "string"}}
        },
        "requests.PresignedURLRequest": {
            "type": "object",
            "required": ["fileName"],
            "properties": {"fileName": {"type": "string"}, "fileType": {"type": "string"}, "fileSize": {"type": "integer"}}
        },
        "requests.MetadataRequest": {
            "type": "object",
            "required": ["key"],
            "properties": {
                "key": {"type": "string"},
                "originalFilename": {"type": "string"},
                "publicUrl": {"type": "string"},
                "fileType": {"type": "string"},
                "mimeType": {"type": "string"},
                "size": {"type": "integer"},
                "metadata": {"type": "object"}
            }
        },
        "requests.AbandonRequest": {
            "type": "object",
            "required": ["key"],
            "properties": {"key": {"type": "string"}}
        },
        "requests.DownloadRequest": {
            "type": "object",
            "properties": {"filename": {"type": "string"}}
        },
        "responses.UploadResponse": {
            "type": "object",
            "properties": {"success": {"type": "boolean"}, "assets": {"type": "array", "items": {"type": "object"}}}
        },
        "responses.PresignedURLResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "presignedUrl": {"type": "string"},
                "key": {"type": "string"},
                "publicUrl": {"type": "string"},
                "expiresIn": {"type": "integer"}
            }
        },
        "responses.MetadataResponse": {
            "type": "object",
            "properties": {"success": {"type": "boolean"}, "asset": {"type": "object"}}
        },
        "responses.AbandonResponse": {
            "type": "object",
            "properties": {"success": {"type": "boolean"}, "deleted": {"type": "boolean"}}
        },
        "responses.AssetListResponse": {
            "type": "object",
            "properties": {"records": {"type": "array", "items": {"type": "object"}}, "offset": {"type": "string"}}
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "FrameVault API",
	Description:      "Event media asset service: uploads, metadata, gallery queries and downloads.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
