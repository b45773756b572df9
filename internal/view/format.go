package view

import (
	"fmt"
	"html/template"
	"math"
	"strings"

	"github.com/damz-ai/detect-console/internal/state"
)

// ConfidenceColor buckets a confidence for display.
func ConfidenceColor(confidence float64) string {
	switch {
	case confidence >= 0.8:
		return "green"
	case confidence >= 0.6:
		return "blue"
	case confidence >= 0.4:
		return "orange"
	default:
		return "red"
	}
}

// Percent renders a confidence as a whole percentage, 0.823 -> "82%".
func Percent(confidence float64) string {
	return fmt.Sprintf("%d%%", int(math.Round(confidence*100)))
}

// Score renders a similarity score with one decimal, 0.453 -> "45.3%".
func Score(v float64) string {
	return fmt.Sprintf("%.1f%%", v*100)
}

// Timestamp renders seconds as m:ss.ss.
func Timestamp(seconds float64) string {
	minutes := int(math.Floor(seconds / 60))
	return fmt.Sprintf("%d:%05.2f", minutes, math.Mod(seconds, 60))
}

func Seconds(v float64) string {
	return fmt.Sprintf("%.2fs", v)
}

func Coord(v float64) string {
	return fmt.Sprintf("%.1f", v)
}

func FileSize(size int64) string {
	return fmt.Sprintf("%.2f MB", float64(size)/(1024*1024))
}

// Number drops trailing zeros, 0.40 -> "0.4".
func Number(v float64) string {
	return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.4f", v), "0"), ".")
}

// ImageData wraps base64 image bytes from the service into a data URL.
func ImageData(mime, b64 string) template.URL {
	return template.URL(fmt.Sprintf("data:%s;base64,%s", mime, b64))
}

// ImageSrc trusts data:image URLs built from uploads and leaves anything
// else to the template escaper.
func ImageSrc(src string) any {
	if strings.HasPrefix(src, "data:image/") {
		return template.URL(src)
	}
	return src
}

// IsConnectionIssue picks the connection banner over the generic error one.
func IsConnectionIssue(e state.ErrorState) bool {
	return e.IsNetwork()
}

var funcs = template.FuncMap{
	"color":      ConfidenceColor,
	"connection": IsConnectionIssue,
	"percent":    Percent,
	"score":      Score,
	"timestamp":  Timestamp,
	"seconds":    Seconds,
	"coord":      Coord,
	"filesize":   FileSize,
	"number":     Number,
	"imagedata":  ImageData,
	"imagesrc":   ImageSrc,
	"inc":        func(i int) int { return i + 1 },
	"join":       strings.Join,
	"fixed1":     func(v float64) string { return fmt.Sprintf("%.1f", v) },
	"deref": func(s *string) string {
		if s == nil {
			return ""
		}
		return *s
	},
}
