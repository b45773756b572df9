package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/damz-ai/detect-console/internal/apierr"
	"github.com/damz-ai/detect-console/internal/models"
	"github.com/damz-ai/detect-console/internal/state"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	PageObject     = "object_detection"
	PageVideo      = "video_action"
	PageComingSoon = "coming_soon"
)

var pages = []string{PageObject, PageVideo, PageComingSoon}

type TabLink struct {
	Tab         state.Tab
	Name        string
	Icon        string
	Description string
}

var tabs = []TabLink{
	{state.TabObjectDetection, "Object Detection", "🎯", "Zero-shot detection with natural language"},
	{state.TabVideoAction, "Video Action Detection", "🎬", "Detect actions in video sequences"},
	{state.TabComingSoon, "More Features", "✨", "Additional AI capabilities"},
}

// Page is everything a template needs. Results are only ever rendered, never kept.
type Page struct {
	State     *state.ViewState
	Form      state.Form
	Preview   string
	Detection *models.DetectionResponse
	Video     *models.VideoActionResponse
}

func (p Page) Tabs() []TabLink {
	return tabs
}

func (p Page) Demos() []state.Demo {
	return state.Demos()
}

// Error is the error of the form shown on this page.
func (p Page) Error() state.ErrorState {
	if p.State == nil {
		return state.ErrorState{}
	}
	return p.State.Error(p.Form)
}

func (p Page) Remediation() []string {
	return apierr.Remediation()
}

type Renderer struct {
	templates map[string]*template.Template
}

func NewRenderer() (*Renderer, error) {
	r := &Renderer{templates: make(map[string]*template.Template, len(pages))}
	for _, page := range pages {
		tmpl, err := template.New("layout.html").Funcs(funcs).ParseFS(templateFS,
			"templates/layout.html",
			"templates/notification.html",
			"templates/"+page+".html",
		)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", page, err)
		}
		r.templates[page] = tmpl
	}
	return r, nil
}

// Render executes the page into a buffer first so a template error never
// leaves half a page on the wire.
func (r *Renderer) Render(w io.Writer, page string, data Page) error {
	tmpl, ok := r.templates[page]
	if !ok {
		return fmt.Errorf("unknown page %q", page)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout.html", data); err != nil {
		return fmt.Errorf("failed to render %s: %w", page, err)
	}
	_, err := buf.WriteTo(w)
	return err
}
