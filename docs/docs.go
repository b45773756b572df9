// Package docs is generated by swag init from the annotations in cmd and
// internal/handler. Regenerate it after changing them.
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
        "/api/v1/detect": {
            "post": {
                "description": "Zero-shot detection of the text queries in the image at image_url. The visualization is always requested.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["detection"],
                "summary": "Detect objects in an image URL",
                "parameters": [
                    {
                        "description": "Detection request",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/models.DetectionRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.DetectionResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/api/v1/detect/upload": {
            "post": {
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["detection"],
                "summary": "Detect objects in an uploaded image",
                "parameters": [
                    {"type": "file", "description": "Image", "name": "file", "in": "formData", "required": true},
                    {"type": "array", "items": {"type": "string"}, "collectionFormat": "multi", "description": "Text queries", "name": "text_queries", "in": "formData", "required": true},
                    {"type": "number", "default": 0.4, "description": "Box threshold", "name": "box_threshold", "in": "formData"},
                    {"type": "number", "default": 0.4, "description": "Text threshold", "name": "text_threshold", "in": "formData"},
                    {"type": "integer", "default": 5, "description": "Priority", "name": "priority", "in": "formData"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.DetectionResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/api/v1/video_action/detect/upload": {
            "post": {
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["video"],
                "summary": "Detect an action in an uploaded video",
                "parameters": [
                    {"type": "file", "description": "Video", "name": "file", "in": "formData", "required": true},
                    {"type": "string", "default": "person running walking", "description": "Action prompt", "name": "prompt", "in": "formData", "required": true},
                    {"type": "number", "default": 0.3, "description": "Person weight", "name": "person_weight", "in": "formData"},
                    {"type": "number", "default": 0.6, "description": "Action weight", "name": "action_weight", "in": "formData"},
                    {"type": "number", "default": 0.1, "description": "Context weight", "name": "context_weight", "in": "formData"},
                    {"type": "number", "default": 0.5, "description": "Similarity threshold", "name": "similarity_threshold", "in": "formData"},
                    {"type": "number", "default": 0.4, "description": "Action threshold", "name": "action_threshold", "in": "formData"},
                    {"type": "boolean", "default": true, "description": "Render a timeline", "name": "return_timeline", "in": "formData"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.VideoActionResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Liveness probe",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.HealthResponse"}}
                }
            }
        }
    },
    "definitions": {
        "models.BoundingBox": {
            "type": "object",
            "properties": {
                "height": {"type": "number"},
                "width": {"type": "number"},
                "x_max": {"type": "number"},
                "x_min": {"type": "number"},
                "y_max": {"type": "number"},
                "y_min": {"type": "number"}
            }
        },
        "models.Detection": {
            "type": "object",
            "properties": {
                "bounding_box": {"$ref": "#/definitions/models.BoundingBox"},
                "confidence": {"type": "number"},
                "id": {"type": "integer"},
                "label": {"type": "string"}
            }
        },
        "models.DetectionRequest": {
            "type": "object",
            "properties": {
                "async_processing": {"type": "boolean", "example": false},
                "box_threshold": {"type": "number", "example": 0.4},
                "image_url": {"type": "string", "example": "https://images.unsplash.com/photo-1606567595334-d39972c85dbe"},
                "priority": {"type": "integer", "example": 5},
                "return_visualization": {"type": "boolean", "example": true},
                "text_queries": {"type": "array", "items": {"type": "string"}, "example": ["a cat", "a dog"]},
                "text_threshold": {"type": "number", "example": 0.4}
            }
        },
        "models.DetectionResponse": {
            "type": "object",
            "properties": {
                "detections": {"type": "array", "items": {"$ref": "#/definitions/models.Detection"}},
                "image_size": {"$ref": "#/definitions/models.ImageSize"},
                "num_detections": {"type": "integer"},
                "queries": {"type": "array", "items": {"type": "string"}},
                "success": {"type": "boolean"},
                "thresholds": {"$ref": "#/definitions/models.Thresholds"},
                "visualization": {"$ref": "#/definitions/models.Visualization"}
            }
        },
        "models.ErrorResponse": {
            "type": "object",
            "properties": {
                "category": {"type": "string", "example": "network"},
                "message": {"type": "string", "example": "HTTP error! status: 500 - Internal Server Error"}
            }
        },
        "models.HealthResponse": {
            "type": "object",
            "properties": {
                "status": {"type": "string", "example": "ok"}
            }
        },
        "models.ImageSize": {
            "type": "object",
            "properties": {
                "height": {"type": "integer"},
                "width": {"type": "integer"}
            }
        },
        "models.SimilarityScores": {
            "type": "object",
            "properties": {
                "action": {"type": "number"},
                "context": {"type": "number"},
                "person": {"type": "number"},
                "weighted": {"type": "number"}
            }
        },
        "models.Thresholds": {
            "type": "object",
            "properties": {
                "box_threshold": {"type": "number"},
                "text_threshold": {"type": "number"}
            }
        },
        "models.VideoActionResponse": {
            "type": "object",
            "properties": {
                "action_verb": {"type": "string"},
                "error": {"type": "string"},
                "job_id": {"type": "string"},
                "passed_detections": {"type": "array", "items": {"$ref": "#/definitions/models.VideoDetection"}},
                "prompt": {"type": "string"},
                "segments": {"type": "array", "items": {"$ref": "#/definitions/models.VideoSegment"}},
                "stats": {"$ref": "#/definitions/models.VideoStats"},
                "success": {"type": "boolean"},
                "timeline_visualization": {"type": "string"},
                "timestamp": {"type": "string"},
                "video_duration": {"type": "number"},
                "video_path": {"type": "string"}
            }
        },
        "models.VideoDetection": {
            "type": "object",
            "properties": {
                "blip_description": {"type": "string"},
                "confidence": {"type": "number"},
                "frame_idx": {"type": "integer"},
                "passed": {"type": "boolean"},
                "similarity_scores": {"$ref": "#/definitions/models.SimilarityScores"},
                "timestamp": {"type": "number"}
            }
        },
        "models.VideoSegment": {
            "type": "object",
            "properties": {
                "action_label": {"type": "string"},
                "confidence": {"type": "number"},
                "detections": {"type": "array", "items": {"$ref": "#/definitions/models.VideoDetection"}},
                "end_time": {"type": "number"},
                "frame_count": {"type": "integer"},
                "start_time": {"type": "number"}
            }
        },
        "models.VideoStats": {
            "type": "object",
            "properties": {
                "passed_detections": {"type": "integer"},
                "segments_found": {"type": "integer"},
                "success_rate": {"type": "number"},
                "total_detections": {"type": "integer"},
                "total_frames": {"type": "integer"}
            }
        },
        "models.Visualization": {
            "type": "object",
            "properties": {
                "image_base64": {"type": "string"}
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
	Title:            "DAMZ detect console API",
	Description:      "Zero-shot object detection and video action detection on top of the remote inference service.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
