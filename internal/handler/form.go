package handler

import (
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/damz-ai/detect-console/internal/apierr"
	"github.com/damz-ai/detect-console/internal/models"
)

// multipartMemory is how much of a multipart body is kept in memory before
// spilling to temporary files.
const multipartMemory = 32 << 20

// parseForm reads a multipart or url-encoded body capped at limit bytes.
func parseForm(w http.ResponseWriter, r *http.Request, limit int64) error {
	r.Body = http.MaxBytesReader(w, r.Body, limit)

	err := r.ParseMultipartForm(multipartMemory)
	if errors.Is(err, http.ErrNotMultipart) {
		err = r.ParseForm()
	}
	if err == nil {
		return nil
	}

	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return apierr.Validation(fmt.Sprintf("Upload exceeds the limit of %d bytes", tooLarge.Limit))
	}
	return apierr.Validation(fmt.Sprintf("invalid form: %s", err))
}

// readUpload returns nil when no file was sent in field.
func readUpload(r *http.Request, field string) (*models.Upload, error) {
	f, hdr, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, apierr.Validation(fmt.Sprintf("invalid %s: %s", field, err))
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", field, err)
	}
	if len(data) == 0 {
		return nil, nil
	}
	return &models.Upload{
		Name:        hdr.Filename,
		ContentType: hdr.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}

// lastValue returns the last submitted value of key, so a checkbox can
// follow a hidden field carrying its unchecked value.
func lastValue(r *http.Request, key string) (string, bool) {
	values := r.Form[key]
	if len(values) == 0 {
		return "", false
	}
	return strings.TrimSpace(values[len(values)-1]), true
}

func formFloat(r *http.Request, key string, def float64) (float64, error) {
	s, ok := lastValue(r, key)
	if !ok || s == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, apierr.Validation(fmt.Sprintf("%s must be a number", key))
	}
	return v, nil
}

func formInt(r *http.Request, key string, def int) (int, error) {
	s, ok := lastValue(r, key)
	if !ok || s == "" {
		return def, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, apierr.Validation(fmt.Sprintf("%s must be an integer", key))
	}
	return v, nil
}

func formBool(r *http.Request, key string, def bool) (bool, error) {
	s, ok := lastValue(r, key)
	if !ok || s == "" {
		return def, nil
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return false, apierr.Validation(fmt.Sprintf("%s must be true or false", key))
	}
	return v, nil
}

// readDetectionInput reads the object detection form. The file is
// returned separately so callers can tell which source the user picked.
func readDetectionInput(r *http.Request) (models.DetectionInput, *models.Upload, error) {
	in := models.DetectionInput{Queries: r.Form["text_queries"]}

	file, err := readUpload(r, "file")
	if err != nil {
		return in, nil, err
	}
	in.Source = models.NewImageSource(file, r.FormValue("image_url"))

	if in.BoxThreshold, err = formFloat(r, "box_threshold", models.DefaultBoxThreshold); err != nil {
		return in, file, err
	}
	if in.TextThreshold, err = formFloat(r, "text_threshold", models.DefaultTextThreshold); err != nil {
		return in, file, err
	}
	if in.Priority, err = formInt(r, "priority", models.DefaultPriority); err != nil {
		return in, file, err
	}
	return in, file, nil
}

func readVideoActionRequest(r *http.Request) (models.VideoActionRequest, error) {
	file, err := readUpload(r, "file")
	if err != nil {
		return models.VideoActionRequest{}, err
	}

	req := models.NewVideoActionRequest(file, r.FormValue("prompt"))
	fields := []struct {
		key string
		dst *float64
	}{
		{"person_weight", &req.PersonWeight},
		{"action_weight", &req.ActionWeight},
		{"context_weight", &req.ContextWeight},
		{"similarity_threshold", &req.SimilarityThreshold},
		{"action_threshold", &req.ActionThreshold},
	}
	for _, f := range fields {
		if *f.dst, err = formFloat(r, f.key, *f.dst); err != nil {
			return req, err
		}
	}
	if req.ReturnTimeline, err = formBool(r, "return_timeline", req.ReturnTimeline); err != nil {
		return req, err
	}
	return req, nil
}
