package handler

import (
	"fmt"
	"log"
	"net/http"

	"github.com/bytedance/sonic"

	"github.com/damz-ai/detect-console/internal/apierr"
	"github.com/damz-ai/detect-console/internal/metrics"
	"github.com/damz-ai/detect-console/internal/models"
)

const apiForm = "api"

// APIHandler exposes the same detections as the console as JSON, for
// scripts and the benchmark.
type APIHandler struct {
	logger        *log.Logger
	detection     detectionService
	video         videoActionService
	maxUploadSize int64
}

func NewAPIHandler(logger *log.Logger, detection detectionService, video videoActionService, maxUploadSize int64) *APIHandler {
	return &APIHandler{
		logger:        logger,
		detection:     detection,
		video:         video,
		maxUploadSize: maxUploadSize,
	}
}

// Detect godoc
// @Summary Detect objects in an image URL
// @Description Zero-shot detection of the text queries in the image at image_url. The visualization is always requested.
// @Tags detection
// @Accept json
// @Produce json
// @Param request body models.DetectionRequest true "Detection request"
// @Success 200 {object} models.DetectionResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 502 {object} models.ErrorResponse
// @Router /api/v1/detect [post]
func (h *APIHandler) Detect(w http.ResponseWriter, r *http.Request) {
	var req models.DetectionRequest
	if err := sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, apierr.Validation(fmt.Sprintf("invalid JSON: %s", err)))
		return
	}

	resp, err := h.detection.Detect(r.Context(), models.DetectionInput{
		Source:        models.NewImageSource(nil, req.ImageURL),
		Queries:       req.TextQueries,
		BoxThreshold:  req.BoxThreshold,
		TextThreshold: req.TextThreshold,
		Priority:      req.Priority,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, resp)
}

// DetectUpload godoc
// @Summary Detect objects in an uploaded image
// @Tags detection
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Image"
// @Param text_queries formData []string true "Text queries" collectionFormat(multi)
// @Param box_threshold formData number false "Box threshold" default(0.4)
// @Param text_threshold formData number false "Text threshold" default(0.4)
// @Param priority formData int false "Priority" default(5)
// @Success 200 {object} models.DetectionResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 502 {object} models.ErrorResponse
// @Router /api/v1/detect/upload [post]
func (h *APIHandler) DetectUpload(w http.ResponseWriter, r *http.Request) {
	if err := parseForm(w, r, h.maxUploadSize); err != nil {
		h.writeError(w, err)
		return
	}

	in, file, err := readDetectionInput(r)
	if err != nil {
		h.writeError(w, err)
		return
	}
	// this endpoint only takes files
	in.Source = models.NewImageSource(file, "")

	resp, err := h.detection.Detect(r.Context(), in)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, resp)
}

// DetectVideoAction godoc
// @Summary Detect an action in an uploaded video
// @Tags video
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Video"
// @Param prompt formData string true "Action prompt" default(person running walking)
// @Param person_weight formData number false "Person weight" default(0.3)
// @Param action_weight formData number false "Action weight" default(0.6)
// @Param context_weight formData number false "Context weight" default(0.1)
// @Param similarity_threshold formData number false "Similarity threshold" default(0.5)
// @Param action_threshold formData number false "Action threshold" default(0.4)
// @Param return_timeline formData bool false "Render a timeline" default(true)
// @Success 200 {object} models.VideoActionResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 502 {object} models.ErrorResponse
// @Router /api/v1/video_action/detect/upload [post]
func (h *APIHandler) DetectVideoAction(w http.ResponseWriter, r *http.Request) {
	if err := parseForm(w, r, h.maxUploadSize); err != nil {
		h.writeError(w, err)
		return
	}

	req, err := readVideoActionRequest(r)
	if err != nil {
		h.writeError(w, err)
		return
	}

	resp, err := h.video.Detect(r.Context(), req)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, resp)
}

// Health godoc
// @Summary Liveness probe
// @Tags health
// @Produce json
// @Success 200 {object} models.HealthResponse
// @Router /health [get]
func (h *APIHandler) Health(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, models.HealthResponse{Status: "ok"})
}

func (h *APIHandler) writeJSON(w http.ResponseWriter, v any) {
	data, err := sonic.Marshal(v)
	if err != nil {
		http.Error(w, fmt.Sprintf("failed to encode: %s", err), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// writeError answers 400 for anything rejected before the inference service
// was called and 502 for everything the service or the network did.
func (h *APIHandler) writeError(w http.ResponseWriter, err error) {
	category := apierr.CategoryOf(err)
	status := http.StatusBadGateway
	if category == apierr.CategoryValidation {
		status = http.StatusBadRequest
		metrics.RejectedSubmission(apiForm, reasonValidation)
	} else {
		h.logger.Printf("api call failed: %v\n", err)
	}

	data, encErr := sonic.Marshal(models.ErrorResponse{
		Category: string(category),
		Message:  apierr.UserMessage(err),
	})
	if encErr != nil {
		http.Error(w, apierr.UserMessage(err), status)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}
