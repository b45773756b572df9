package models

import (
	"errors"
	"strings"
)

var (
	ErrNoImageSource = errors.New("Please provide an image URL or upload an image")
	ErrNoQueries     = errors.New("Please provide at least one text query")
)

const (
	DefaultBoxThreshold  = 0.4
	DefaultTextThreshold = 0.4
	DefaultPriority      = 5
	MinPriority          = 1
	MaxPriority          = 10
)

// DefaultQueries are the queries a fresh object-detection form starts with.
func DefaultQueries() []string {
	return []string{"a cat", "a remote control", "a person"}
}

type BoundingBox struct {
	XMin   float64 `json:"x_min"`
	YMin   float64 `json:"y_min"`
	XMax   float64 `json:"x_max"`
	YMax   float64 `json:"y_max"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type Detection struct {
	ID          int         `json:"id"`
	Label       string      `json:"label"`
	Confidence  float64     `json:"confidence"`
	BoundingBox BoundingBox `json:"bounding_box"`
}

type ImageSize struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

type Thresholds struct {
	BoxThreshold  float64 `json:"box_threshold"`
	TextThreshold float64 `json:"text_threshold"`
}

type Visualization struct {
	ImageBase64 string `json:"image_base64"`
}

// DetectionRequest is the JSON body of POST /detect.
type DetectionRequest struct {
	ImageURL            string   `json:"image_url" example:"https://images.unsplash.com/photo-1606567595334-d39972c85dbe"`
	TextQueries         []string `json:"text_queries" example:"a cat,a dog"`
	BoxThreshold        float64  `json:"box_threshold" example:"0.4"`
	TextThreshold       float64  `json:"text_threshold" example:"0.4"`
	ReturnVisualization bool     `json:"return_visualization" example:"true"`
	AsyncProcessing     bool     `json:"async_processing" example:"false"`
	Priority            int      `json:"priority" example:"5"`
}

func (r DetectionRequest) Validate() error {
	if strings.TrimSpace(r.ImageURL) == "" {
		return ErrNoImageSource
	}
	if len(TrimQueries(r.TextQueries)) == 0 {
		return ErrNoQueries
	}
	return nil
}

type DetectionResponse struct {
	Success       bool           `json:"success"`
	NumDetections int            `json:"num_detections"`
	Detections    []Detection    `json:"detections"`
	ImageSize     ImageSize      `json:"image_size"`
	Queries       []string       `json:"queries"`
	Thresholds    Thresholds     `json:"thresholds"`
	Visualization *Visualization `json:"visualization,omitempty"`
}

// HasVisualization reports whether the service returned a rendered image.
func (r *DetectionResponse) HasVisualization() bool {
	return r.Visualization != nil && r.Visualization.ImageBase64 != ""
}

// TrimQueries trims every query and drops the blank ones.
func TrimQueries(queries []string) []string {
	out := make([]string, 0, len(queries))
	for _, q := range queries {
		if q = strings.TrimSpace(q); q != "" {
			out = append(out, q)
		}
	}
	return out
}
