package models

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// Upload is a named file held in memory until it is sent upstream.
type Upload struct {
	Name        string
	ContentType string
	Data        []byte
}

func (u *Upload) Empty() bool {
	return u == nil || len(u.Data) == 0
}

func (u *Upload) Size() int64 {
	if u == nil {
		return 0
	}
	return int64(len(u.Data))
}

// DataURL renders the upload as a data: URL for previews.
func (u *Upload) DataURL() string {
	if u.Empty() {
		return ""
	}
	contentType := u.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return fmt.Sprintf("data:%s;base64,%s", contentType, base64.StdEncoding.EncodeToString(u.Data))
}

// ImageSource is either a FileInput or a URLInput, never both.
type ImageSource interface {
	isImageSource()
	// Preview returns something an <img> tag can display.
	Preview() string
}

type FileInput struct {
	Upload
}

type URLInput struct {
	URL string
}

func (FileInput) isImageSource() {}
func (URLInput) isImageSource()  {}

func (f FileInput) Preview() string { return f.DataURL() }
func (u URLInput) Preview() string  { return u.URL }

// NewImageSource picks the active input: an uploaded file wins over a URL.
// It returns nil when neither is present.
func NewImageSource(file *Upload, url string) ImageSource {
	if !file.Empty() {
		return FileInput{Upload: *file}
	}
	if url = strings.TrimSpace(url); url != "" {
		return URLInput{URL: url}
	}
	return nil
}

// DetectionInput is what a user submits from the object detection form.
type DetectionInput struct {
	Source        ImageSource
	Queries       []string
	BoxThreshold  float64
	TextThreshold float64
	Priority      int
}

func (in DetectionInput) Validate() error {
	if in.Source == nil {
		return ErrNoImageSource
	}
	if len(TrimQueries(in.Queries)) == 0 {
		return ErrNoQueries
	}
	return nil
}
