package client

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strconv"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/damz-ai/detect-console/internal/models"
)

const defaultFileName = "upload"

func newDetectRequest(ctx context.Context, baseURL string, req models.DetectionRequest) (*http.Request, error) {
	body, err := sonic.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, baseURL+EndpointDetect, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	return httpReq, nil
}

func buildDetectUploadForm(
	file models.Upload,
	queries []string,
	boxThreshold, textThreshold float64,
	priority int,
) (*bytes.Buffer, string, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	if err := writeFile(writer, file); err != nil {
		return nil, "", err
	}

	fields := make([][2]string, 0, len(queries)+5)
	for _, q := range queries {
		if q = strings.TrimSpace(q); q != "" {
			fields = append(fields, [2]string{"text_queries", q})
		}
	}
	fields = append(fields,
		[2]string{"box_threshold", formatFloat(boxThreshold)},
		[2]string{"text_threshold", formatFloat(textThreshold)},
		[2]string{"return_visualization", "true"},
		[2]string{"async_processing", "false"},
		[2]string{"priority", strconv.Itoa(priority)},
	)
	if err := writeFields(writer, fields); err != nil {
		return nil, "", err
	}

	if err := writer.Close(); err != nil {
		return nil, "", err
	}
	return body, writer.FormDataContentType(), nil
}

func buildVideoActionForm(req models.VideoActionRequest) (*bytes.Buffer, string, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	if req.File != nil {
		if err := writeFile(writer, *req.File); err != nil {
			return nil, "", err
		}
	}

	err := writeFields(writer, [][2]string{
		{"prompt", req.Prompt},
		{"person_weight", formatFloat(req.PersonWeight)},
		{"action_weight", formatFloat(req.ActionWeight)},
		{"context_weight", formatFloat(req.ContextWeight)},
		{"similarity_threshold", formatFloat(req.SimilarityThreshold)},
		{"action_threshold", formatFloat(req.ActionThreshold)},
		{"return_timeline", strconv.FormatBool(req.ReturnTimeline)},
	})
	if err != nil {
		return nil, "", err
	}

	if err := writer.Close(); err != nil {
		return nil, "", err
	}
	return body, writer.FormDataContentType(), nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func writeFile(writer *multipart.Writer, file models.Upload) error {
	name := file.Name
	if name == "" {
		name = defaultFileName
	}
	contentType := file.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, quoteEscaper.Replace(name)))
	h.Set("Content-Type", contentType)

	part, err := writer.CreatePart(h)
	if err != nil {
		return fmt.Errorf("create form file: %w", err)
	}
	if _, err := part.Write(file.Data); err != nil {
		return fmt.Errorf("copy file data: %w", err)
	}
	return nil
}

func writeFields(writer *multipart.Writer, fields [][2]string) error {
	for _, f := range fields {
		if err := writer.WriteField(f[0], f[1]); err != nil {
			return fmt.Errorf("write field %s: %w", f[0], err)
		}
	}
	return nil
}

// formatFloat prints the shortest decimal that round-trips, 0.3 -> "0.3", 1 -> "1".
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
