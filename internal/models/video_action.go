package models

import (
	"errors"
	"strings"
)

var (
	ErrNoVideo  = errors.New("Please upload a video file")
	ErrNoPrompt = errors.New("Please provide a prompt describing the action to detect")
)

const (
	DefaultPrompt              = "person running walking"
	DefaultPersonWeight        = 0.3
	DefaultActionWeight        = 0.6
	DefaultContextWeight       = 0.1
	DefaultSimilarityThreshold = 0.5
	DefaultActionThreshold     = 0.4
)

// VideoActionRequest is sent as multipart form data. Weights are expected to
// sum to about 1.0 but the service decides what to do with them.
type VideoActionRequest struct {
	File                *Upload
	Prompt              string
	PersonWeight        float64
	ActionWeight        float64
	ContextWeight       float64
	SimilarityThreshold float64
	ActionThreshold     float64
	ReturnTimeline      bool
}

// NewVideoActionRequest returns a request carrying the default weights and thresholds.
func NewVideoActionRequest(file *Upload, prompt string) VideoActionRequest {
	return VideoActionRequest{
		File:                file,
		Prompt:              prompt,
		PersonWeight:        DefaultPersonWeight,
		ActionWeight:        DefaultActionWeight,
		ContextWeight:       DefaultContextWeight,
		SimilarityThreshold: DefaultSimilarityThreshold,
		ActionThreshold:     DefaultActionThreshold,
		ReturnTimeline:      true,
	}
}

func (r VideoActionRequest) Validate() error {
	if r.File.Empty() {
		return ErrNoVideo
	}
	if strings.TrimSpace(r.Prompt) == "" {
		return ErrNoPrompt
	}
	return nil
}

type SimilarityScores struct {
	Person   float64 `json:"person"`
	Action   float64 `json:"action"`
	Context  float64 `json:"context"`
	Weighted float64 `json:"weighted"`
}

type VideoDetection struct {
	Timestamp        float64          `json:"timestamp"`
	FrameIdx         int              `json:"frame_idx"`
	Confidence       float64          `json:"confidence"`
	BlipDescription  string           `json:"blip_description"`
	SimilarityScores SimilarityScores `json:"similarity_scores"`
	Passed           bool             `json:"passed"`
}

type VideoSegment struct {
	StartTime   float64          `json:"start_time"`
	EndTime     float64          `json:"end_time"`
	Confidence  float64          `json:"confidence"`
	FrameCount  int              `json:"frame_count"`
	ActionLabel string           `json:"action_label"`
	Detections  []VideoDetection `json:"detections"`
}

type VideoStats struct {
	TotalFrames      int     `json:"total_frames"`
	TotalDetections  int     `json:"total_detections"`
	PassedDetections int     `json:"passed_detections"`
	SuccessRate      float64 `json:"success_rate"`
	SegmentsFound    int     `json:"segments_found"`
}

type VideoActionResponse struct {
	Success               bool             `json:"success"`
	JobID                 string           `json:"job_id"`
	VideoPath             string           `json:"video_path"`
	Prompt                string           `json:"prompt"`
	ActionVerb            string           `json:"action_verb"`
	Timestamp             string           `json:"timestamp"`
	VideoDuration         float64          `json:"video_duration"`
	Stats                 VideoStats       `json:"stats"`
	PassedDetections      []VideoDetection `json:"passed_detections"`
	Segments              []VideoSegment   `json:"segments"`
	TimelineVisualization *string          `json:"timeline_visualization"`
	Error                 *string          `json:"error"`
}

func (r *VideoActionResponse) HasTimeline() bool {
	return r.TimelineVisualization != nil && *r.TimelineVisualization != ""
}
