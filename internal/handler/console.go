package handler

import (
	"context"
	"io"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/damz-ai/detect-console/internal/apierr"
	"github.com/damz-ai/detect-console/internal/metrics"
	"github.com/damz-ai/detect-console/internal/models"
	"github.com/damz-ai/detect-console/internal/service"
	"github.com/damz-ai/detect-console/internal/state"
	"github.com/damz-ai/detect-console/internal/view"
)

type detectionService interface {
	Detect(ctx context.Context, in models.DetectionInput) (*models.DetectionResponse, error)
}

type videoActionService interface {
	Detect(ctx context.Context, req models.VideoActionRequest) (*models.VideoActionResponse, error)
}

type renderer interface {
	Render(w io.Writer, page string, data view.Page) error
}

const (
	reasonValidation = "validation"
	reasonInProgress = "in_progress"
)

// ConsoleHandler serves the HTML console. Every action loads the session's
// view state, applies one operation to it and saves it back.
type ConsoleHandler struct {
	logger        *log.Logger
	detection     detectionService
	video         videoActionService
	guard         *service.Guard
	sessions      *Sessions
	renderer      renderer
	maxUploadSize int64
}

func NewConsoleHandler(
	logger *log.Logger,
	detection detectionService,
	video videoActionService,
	guard *service.Guard,
	sessions *Sessions,
	renderer renderer,
	maxUploadSize int64,
) *ConsoleHandler {
	return &ConsoleHandler{
		logger:        logger,
		detection:     detection,
		video:         video,
		guard:         guard,
		sessions:      sessions,
		renderer:      renderer,
		maxUploadSize: maxUploadSize,
	}
}

// Index redirects to the tab the session was last on.
func (h *ConsoleHandler) Index(w http.ResponseWriter, r *http.Request) {
	_, st, ok := h.load(w, r)
	if !ok {
		return
	}
	http.Redirect(w, r, tabPath(st.ActiveTab), http.StatusFound)
}

func (h *ConsoleHandler) ObjectDetection(w http.ResponseWriter, r *http.Request) {
	h.showTab(w, r, state.TabObjectDetection)
}

func (h *ConsoleHandler) VideoAction(w http.ResponseWriter, r *http.Request) {
	h.showTab(w, r, state.TabVideoAction)
}

func (h *ConsoleHandler) ComingSoon(w http.ResponseWriter, r *http.Request) {
	h.showTab(w, r, state.TabComingSoon)
}

func (h *ConsoleHandler) showTab(w http.ResponseWriter, r *http.Request, tab state.Tab) {
	id, st, ok := h.load(w, r)
	if !ok {
		return
	}
	st.SetTab(tab)
	if !h.save(w, r, id, st) {
		return
	}

	page := view.Page{State: st}
	switch tab {
	case state.TabObjectDetection:
		page.Form = state.FormObject
		page.Preview = st.Object.ImageURL
	case state.TabVideoAction:
		page.Form = state.FormVideo
	}
	h.render(w, pageOf(tab), page)
}

// DetectObjects runs one object detection from the submitted form and
// renders the result. The result itself is never stored.
func (h *ConsoleHandler) DetectObjects(w http.ResponseWriter, r *http.Request) {
	id, st, ok := h.load(w, r)
	if !ok {
		return
	}
	st.SetTab(state.TabObjectDetection)
	st.ClearError(state.FormObject)
	page := view.Page{State: st, Form: state.FormObject, Preview: st.Object.ImageURL}

	if err := parseForm(w, r, h.maxUploadSize); err != nil {
		h.reject(st, state.FormObject, reasonValidation, err)
		h.saveAndRender(w, r, id, st, view.PageObject, page)
		return
	}

	in, file, err := readDetectionInput(r)
	applyObjectForm(st, r, file)
	if in.Source != nil {
		page.Preview = in.Source.Preview()
	}
	if err != nil {
		h.reject(st, state.FormObject, reasonValidation, err)
		h.saveAndRender(w, r, id, st, view.PageObject, page)
		return
	}

	release, err := h.guard.Acquire(guardKey(id, state.FormObject))
	if err != nil {
		h.reject(st, state.FormObject, reasonInProgress, err)
		h.saveAndRender(w, r, id, st, view.PageObject, page)
		return
	}
	defer release()

	if !h.save(w, r, id, st) {
		return
	}

	resp, err := h.detection.Detect(r.Context(), in)

	st = h.reload(r.Context(), id, st)
	page.State = st
	if err != nil {
		h.reject(st, state.FormObject, reasonValidation, err)
	} else {
		page.Detection = resp
	}
	h.saveAndRender(w, r, id, st, view.PageObject, page)
}

// EditQueries adds, removes or updates a query field. The rest of the
// submitted form is kept so nothing typed so far is lost.
func (h *ConsoleHandler) EditQueries(w http.ResponseWriter, r *http.Request) {
	id, st, ok := h.load(w, r)
	if !ok {
		return
	}
	if err := parseForm(w, r, h.maxUploadSize); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	applyObjectForm(st, r, nil)

	action := r.FormValue("action")
	var index int
	if action == "remove" || action == "update" {
		var err error
		if index, err = strconv.Atoi(r.FormValue("index")); err != nil {
			http.Error(w, "invalid index", http.StatusBadRequest)
			return
		}
	}

	switch action {
	case "add":
		st.AddQuery()
	case "remove":
		st.RemoveQuery(index)
	case "update":
		st.UpdateQuery(index, r.FormValue("value"))
	case "":
	default:
		http.Error(w, "unknown action", http.StatusBadRequest)
		return
	}

	if !h.save(w, r, id, st) {
		return
	}
	http.Redirect(w, r, tabPath(state.TabObjectDetection), http.StatusSeeOther)
}

// LoadDemo fills the object detection form from a preset without running it.
func (h *ConsoleHandler) LoadDemo(w http.ResponseWriter, r *http.Request) {
	id, st, ok := h.load(w, r)
	if !ok {
		return
	}

	demo, found := state.FindDemo(r.FormValue("preset"))
	if !found {
		http.Error(w, "unknown preset", http.StatusBadRequest)
		return
	}
	st.SetTab(state.TabObjectDetection)
	st.LoadDemo(demo)

	if !h.save(w, r, id, st) {
		return
	}
	http.Redirect(w, r, tabPath(state.TabObjectDetection), http.StatusSeeOther)
}

func (h *ConsoleHandler) DetectVideoAction(w http.ResponseWriter, r *http.Request) {
	id, st, ok := h.load(w, r)
	if !ok {
		return
	}
	st.SetTab(state.TabVideoAction)
	st.ClearError(state.FormVideo)
	page := view.Page{State: st, Form: state.FormVideo}

	if err := parseForm(w, r, h.maxUploadSize); err != nil {
		h.reject(st, state.FormVideo, reasonValidation, err)
		h.saveAndRender(w, r, id, st, view.PageVideo, page)
		return
	}

	req, err := readVideoActionRequest(r)
	if req.File != nil {
		st.SetVideoFile(req.File.Name, req.File.Size())
	}
	if err != nil {
		h.reject(st, state.FormVideo, reasonValidation, err)
		h.saveAndRender(w, r, id, st, view.PageVideo, page)
		return
	}
	st.SetVideoParams(req)

	release, err := h.guard.Acquire(guardKey(id, state.FormVideo))
	if err != nil {
		h.reject(st, state.FormVideo, reasonInProgress, err)
		h.saveAndRender(w, r, id, st, view.PageVideo, page)
		return
	}
	defer release()

	if !h.save(w, r, id, st) {
		return
	}

	resp, err := h.video.Detect(r.Context(), req)

	st = h.reload(r.Context(), id, st)
	page.State = st
	if err != nil {
		h.reject(st, state.FormVideo, reasonValidation, err)
	} else {
		page.Video = resp
	}
	h.saveAndRender(w, r, id, st, view.PageVideo, page)
}

func (h *ConsoleHandler) DismissNotification(w http.ResponseWriter, r *http.Request) {
	h.dismiss(w, r, (*state.ViewState).DismissNotification)
}

func (h *ConsoleHandler) DismissPanel(w http.ResponseWriter, r *http.Request) {
	h.dismiss(w, r, (*state.ViewState).DismissPanel)
}

func (h *ConsoleHandler) dismiss(w http.ResponseWriter, r *http.Request, op func(*state.ViewState, state.Form)) {
	form, ok := state.ParseForm(chi.URLParam(r, "form"))
	if !ok {
		http.NotFound(w, r)
		return
	}

	id, st, ok := h.load(w, r)
	if !ok {
		return
	}
	op(st, form)

	if !h.save(w, r, id, st) {
		return
	}
	http.Redirect(w, r, tabPath(st.ActiveTab), http.StatusSeeOther)
}

// reject records err as the form's displayable error. Only validation
// failures and in-flight rejections are counted as rejected submissions;
// the rest were counted by the client.
func (h *ConsoleHandler) reject(st *state.ViewState, form state.Form, reason string, err error) {
	if apierr.CategoryOf(err) == apierr.CategoryValidation {
		metrics.RejectedSubmission(string(form), reason)
	}
	h.logger.Printf("%s submission failed: %v\n", form, err)
	st.Fail(form, err)
}

func (h *ConsoleHandler) load(w http.ResponseWriter, r *http.Request) (string, *state.ViewState, bool) {
	id, st, err := h.sessions.Load(w, r)
	if err != nil {
		h.logger.Printf("failed to load view state: %v\n", err)
		http.Error(w, "failed to load session", http.StatusInternalServerError)
		return "", nil, false
	}
	return id, st, true
}

// reload picks up changes made from other tabs of the same session while a
// call was running. It falls back to the state it already has.
func (h *ConsoleHandler) reload(ctx context.Context, id string, fallback *state.ViewState) *state.ViewState {
	st, err := h.sessions.Reload(ctx, id)
	if err != nil {
		h.logger.Printf("failed to reload view state: %v\n", err)
		return fallback
	}
	return st
}

func (h *ConsoleHandler) save(w http.ResponseWriter, r *http.Request, id string, st *state.ViewState) bool {
	if err := h.sessions.Save(r.Context(), id, st); err != nil {
		h.logger.Printf("failed to save view state: %v\n", err)
		http.Error(w, "failed to save session", http.StatusInternalServerError)
		return false
	}
	return true
}

func (h *ConsoleHandler) saveAndRender(w http.ResponseWriter, r *http.Request, id string, st *state.ViewState, page string, data view.Page) {
	if !h.save(w, r, id, st) {
		return
	}
	h.render(w, page, data)
}

func (h *ConsoleHandler) render(w http.ResponseWriter, page string, data view.Page) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.renderer.Render(w, page, data); err != nil {
		h.logger.Printf("render failed: %v\n", err)
		http.Error(w, "failed to render page", http.StatusInternalServerError)
	}
}

// applyObjectForm copies what the user typed into the view state. A blank
// URL field does not clear a previously chosen file.
func applyObjectForm(st *state.ViewState, r *http.Request, file *models.Upload) {
	switch {
	case !file.Empty():
		st.SetImageFile(file.Name)
	case r.FormValue("image_url") != "" || st.Object.FileName == "":
		st.SetImageURL(r.FormValue("image_url"))
	}
	if queries, ok := r.Form["text_queries"]; ok {
		st.SetQueries(queries)
	}

	box, err := formFloat(r, "box_threshold", st.Object.BoxThreshold)
	if err != nil {
		box = st.Object.BoxThreshold
	}
	text, err := formFloat(r, "text_threshold", st.Object.TextThreshold)
	if err != nil {
		text = st.Object.TextThreshold
	}
	priority, err := formInt(r, "priority", st.Object.Priority)
	if err != nil {
		priority = st.Object.Priority
	}
	st.SetObjectParams(box, text, priority)
}

func guardKey(session string, form state.Form) string {
	return session + ":" + string(form)
}

func tabPath(tab state.Tab) string {
	return "/" + string(tab)
}

func pageOf(tab state.Tab) string {
	switch tab {
	case state.TabVideoAction:
		return view.PageVideo
	case state.TabComingSoon:
		return view.PageComingSoon
	default:
		return view.PageObject
	}
}
