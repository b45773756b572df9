// Package state holds the per-session view state of the console: which tab
// is open, what is typed into each form and which error is on screen.
// It is serializable and only changes through the methods below.
package state

import (
	"math"

	"github.com/damz-ai/detect-console/internal/apierr"
	"github.com/damz-ai/detect-console/internal/models"
)

type Tab string

const (
	TabObjectDetection Tab = "object-detection"
	TabVideoAction     Tab = "video-action"
	TabComingSoon      Tab = "coming-soon"
)

// ParseTab falls back to object detection for anything unknown.
func ParseTab(s string) Tab {
	switch Tab(s) {
	case TabObjectDetection, TabVideoAction, TabComingSoon:
		return Tab(s)
	default:
		return TabObjectDetection
	}
}

type Form string

const (
	FormObject Form = "object"
	FormVideo  Form = "video"
)

func ParseForm(s string) (Form, bool) {
	switch Form(s) {
	case FormObject, FormVideo:
		return Form(s), true
	default:
		return "", false
	}
}

// ErrorState is the one displayable error of a form. The floating
// notification and the inline panel are closed independently.
type ErrorState struct {
	Message          string          `json:"message,omitempty"`
	Category         apierr.Category `json:"category,omitempty"`
	NotificationOpen bool            `json:"notification_open"`
	PanelOpen        bool            `json:"panel_open"`
}

func (e ErrorState) ShowNotification() bool {
	return e.Message != "" && e.NotificationOpen
}

func (e ErrorState) ShowPanel() bool {
	return e.Message != "" && e.PanelOpen
}

func (e ErrorState) IsNetwork() bool {
	return e.Category == apierr.CategoryNetwork
}

type ObjectForm struct {
	ImageURL      string     `json:"image_url"`
	FileName      string     `json:"file_name,omitempty"`
	Queries       []string   `json:"queries"`
	BoxThreshold  float64    `json:"box_threshold"`
	TextThreshold float64    `json:"text_threshold"`
	Priority      int        `json:"priority"`
	Error         ErrorState `json:"error"`
}

type VideoForm struct {
	FileName            string     `json:"file_name,omitempty"`
	FileSize            int64      `json:"file_size,omitempty"`
	Prompt              string     `json:"prompt"`
	PersonWeight        float64    `json:"person_weight"`
	ActionWeight        float64    `json:"action_weight"`
	ContextWeight       float64    `json:"context_weight"`
	SimilarityThreshold float64    `json:"similarity_threshold"`
	ActionThreshold     float64    `json:"action_threshold"`
	ReturnTimeline      bool       `json:"return_timeline"`
	Error               ErrorState `json:"error"`
}

type ViewState struct {
	ActiveTab Tab        `json:"active_tab"`
	Object    ObjectForm `json:"object"`
	Video     VideoForm  `json:"video"`
}

// New returns the state of a first visit.
func New() *ViewState {
	return &ViewState{
		ActiveTab: TabObjectDetection,
		Object: ObjectForm{
			Queries:       models.DefaultQueries(),
			BoxThreshold:  models.DefaultBoxThreshold,
			TextThreshold: models.DefaultTextThreshold,
			Priority:      models.DefaultPriority,
		},
		Video: VideoForm{
			Prompt:              models.DefaultPrompt,
			PersonWeight:        models.DefaultPersonWeight,
			ActionWeight:        models.DefaultActionWeight,
			ContextWeight:       models.DefaultContextWeight,
			SimilarityThreshold: models.DefaultSimilarityThreshold,
			ActionThreshold:     models.DefaultActionThreshold,
			ReturnTimeline:      true,
		},
	}
}

func (s *ViewState) SetTab(tab Tab) {
	s.ActiveTab = tab
}

// SetImageURL makes the URL the active image source.
func (s *ViewState) SetImageURL(url string) {
	s.Object.ImageURL = url
	s.Object.FileName = ""
}

// SetImageFile makes an uploaded file the active image source.
func (s *ViewState) SetImageFile(name string) {
	s.Object.FileName = name
	s.Object.ImageURL = ""
}

func (s *ViewState) AddQuery() {
	s.Object.Queries = append(s.Object.Queries, "")
}

func (s *ViewState) UpdateQuery(i int, value string) {
	if i < 0 || i >= len(s.Object.Queries) {
		return
	}
	s.Object.Queries[i] = value
}

// RemoveQuery never leaves the form without a query field.
func (s *ViewState) RemoveQuery(i int) {
	if len(s.Object.Queries) <= 1 || i < 0 || i >= len(s.Object.Queries) {
		return
	}
	s.Object.Queries = append(s.Object.Queries[:i], s.Object.Queries[i+1:]...)
}

func (s *ViewState) SetQueries(queries []string) {
	if len(queries) == 0 {
		queries = []string{""}
	}
	s.Object.Queries = append([]string(nil), queries...)
}

// LoadDemo fills the object form from a preset and clears the previous error.
func (s *ViewState) LoadDemo(d Demo) {
	s.SetImageURL(d.URL)
	s.SetQueries(d.Queries)
	s.ClearError(FormObject)
}

func (s *ViewState) SetObjectParams(boxThreshold, textThreshold float64, priority int) {
	s.Object.BoxThreshold = clampUnit(boxThreshold)
	s.Object.TextThreshold = clampUnit(textThreshold)
	s.Object.Priority = clampPriority(priority)
}

func (s *ViewState) SetVideoFile(name string, size int64) {
	s.Video.FileName = name
	s.Video.FileSize = size
}

func (s *ViewState) SetVideoParams(req models.VideoActionRequest) {
	s.Video.Prompt = req.Prompt
	s.Video.PersonWeight = clampUnit(req.PersonWeight)
	s.Video.ActionWeight = clampUnit(req.ActionWeight)
	s.Video.ContextWeight = clampUnit(req.ContextWeight)
	s.Video.SimilarityThreshold = clampUnit(req.SimilarityThreshold)
	s.Video.ActionThreshold = clampUnit(req.ActionThreshold)
	s.Video.ReturnTimeline = req.ReturnTimeline
}

// Fail stores err as the form's displayable error and opens both the
// notification and the panel.
func (s *ViewState) Fail(form Form, err error) {
	e := s.errorOf(form)
	if e == nil || err == nil {
		return
	}
	*e = ErrorState{
		Message:          apierr.UserMessage(err),
		Category:         apierr.CategoryOf(err),
		NotificationOpen: true,
		PanelOpen:        true,
	}
}

func (s *ViewState) ClearError(form Form) {
	if e := s.errorOf(form); e != nil {
		*e = ErrorState{}
	}
}

func (s *ViewState) DismissNotification(form Form) {
	if e := s.errorOf(form); e != nil {
		e.NotificationOpen = false
		e.forgetIfClosed()
	}
}

func (s *ViewState) DismissPanel(form Form) {
	if e := s.errorOf(form); e != nil {
		e.PanelOpen = false
		e.forgetIfClosed()
	}
}

func (s *ViewState) Error(form Form) ErrorState {
	if e := s.errorOf(form); e != nil {
		return *e
	}
	return ErrorState{}
}

func (s *ViewState) errorOf(form Form) *ErrorState {
	switch form {
	case FormObject:
		return &s.Object.Error
	case FormVideo:
		return &s.Video.Error
	default:
		return nil
	}
}

func (e *ErrorState) forgetIfClosed() {
	if !e.NotificationOpen && !e.PanelOpen {
		*e = ErrorState{}
	}
}

// clampUnit maps NaN to 0 so the state always encodes.
func clampUnit(v float64) float64 {
	switch {
	case math.IsNaN(v), v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}

func clampPriority(p int) int {
	switch {
	case p < models.MinPriority:
		return models.MinPriority
	case p > models.MaxPriority:
		return models.MaxPriority
	default:
		return p
	}
}
