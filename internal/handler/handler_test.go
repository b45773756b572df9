package handler

import (
	"bytes"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/go-chi/chi/v5"

	"github.com/damz-ai/detect-console/internal/client"
	"github.com/damz-ai/detect-console/internal/config"
	"github.com/damz-ai/detect-console/internal/models"
	"github.com/damz-ai/detect-console/internal/service"
	"github.com/damz-ai/detect-console/internal/state"
	"github.com/damz-ai/detect-console/internal/view"
)

const detectionJSON = `{
	"success": true,
	"num_detections": 2,
	"detections": [
		{"id": 1, "label": "a cat", "confidence": 0.823, "bounding_box": {"x_min": 1, "y_min": 2, "x_max": 3, "y_max": 4, "width": 2, "height": 2}},
		{"id": 2, "label": "a dog", "confidence": 0.823, "bounding_box": {"x_min": 5, "y_min": 6, "x_max": 7, "y_max": 8, "width": 2, "height": 2}}
	],
	"image_size": {"width": 640, "height": 480},
	"queries": ["a cat", "a dog"],
	"thresholds": {"box_threshold": 0.4, "text_threshold": 0.4}
}`

const videoJSON = `{
	"success": true,
	"job_id": "job-42",
	"action_verb": "running",
	"video_duration": 3,
	"stats": {"total_frames": 90, "total_detections": 3, "passed_detections": 1, "success_rate": 33.3, "segments_found": 0},
	"passed_detections": [],
	"segments": [],
	"timeline_visualization": null,
	"error": null
}`

type testEnv struct {
	t        *testing.T
	router   chi.Router
	guard    *service.Guard
	calls    atomic.Int32
	cookie   *http.Cookie
	upstream *httptest.Server
}

func newTestEnv(t *testing.T, upstream http.HandlerFunc) *testEnv {
	t.Helper()
	return newTestEnvWithLimit(t, upstream, 10<<20)
}

func newTestEnvWithLimit(t *testing.T, upstream http.HandlerFunc, maxUpload int64) *testEnv {
	t.Helper()

	env := &testEnv{t: t, guard: service.NewGuard()}
	env.upstream = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		env.calls.Add(1)
		upstream(w, r)
	}))
	t.Cleanup(env.upstream.Close)

	logger := log.New(io.Discard, "", 0)
	c := client.New(config.APIConfig{BaseURL: env.upstream.URL})
	detection := service.NewDetectionService(logger, c)
	video := service.NewVideoActionService(logger, c)

	renderer, err := view.NewRenderer()
	if err != nil {
		t.Fatalf("NewRenderer: %v", err)
	}
	sessions := NewSessions(state.NewMemoryStore(), "session")

	env.router = chi.NewRouter()
	Register(env.router,
		NewConsoleHandler(logger, detection, video, env.guard, sessions, renderer, maxUpload),
		NewAPIHandler(logger, detection, video, maxUpload),
	)
	return env
}

func respond(body string, status int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}
}

func (e *testEnv) do(req *http.Request) *httptest.ResponseRecorder {
	e.t.Helper()
	if e.cookie != nil {
		req.AddCookie(e.cookie)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)

	for _, c := range rec.Result().Cookies() {
		if c.Name == "session" {
			e.cookie = c
		}
	}
	return rec
}

func (e *testEnv) get(path string) *httptest.ResponseRecorder {
	return e.do(httptest.NewRequest(http.MethodGet, path, nil))
}

func (e *testEnv) postForm(path string, values url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return e.do(req)
}

type filePart struct {
	field, name string
	data        []byte
}

func (e *testEnv) postMultipart(path string, values url.Values, files ...filePart) *httptest.ResponseRecorder {
	e.t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for key, vs := range values {
		for _, v := range vs {
			if err := mw.WriteField(key, v); err != nil {
				e.t.Fatalf("WriteField: %v", err)
			}
		}
	}
	for _, f := range files {
		part, err := mw.CreateFormFile(f.field, f.name)
		if err != nil {
			e.t.Fatalf("CreateFormFile: %v", err)
		}
		_, _ = part.Write(f.data)
	}
	if err := mw.Close(); err != nil {
		e.t.Fatalf("multipart close: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return e.do(req)
}

func TestIndexRedirectsToActiveTab(t *testing.T) {
	env := newTestEnv(t, respond(detectionJSON, http.StatusOK))

	rec := env.get("/")
	if rec.Code != http.StatusFound || rec.Header().Get("Location") != "/object-detection" {
		t.Fatalf("got %d %q, want redirect to /object-detection", rec.Code, rec.Header().Get("Location"))
	}
	if env.cookie == nil {
		t.Fatal("expected a session cookie")
	}
	if !env.cookie.HttpOnly {
		t.Error("session cookie should be HTTP-only")
	}

	if rec := env.get("/video-action"); rec.Code != http.StatusOK {
		t.Fatalf("video page: %d", rec.Code)
	}
	if rec := env.get("/"); rec.Header().Get("Location") != "/video-action" {
		t.Errorf("expected redirect to the last tab, got %q", rec.Header().Get("Location"))
	}
}

func TestDetectObjectsValidationSkipsNetwork(t *testing.T) {
	tests := []struct {
		name    string
		values  url.Values
		wantMsg string
	}{
		{
			name:    "no image",
			values:  url.Values{"text_queries": {"a cat"}},
			wantMsg: "Please provide an image URL or upload an image",
		},
		{
			name:    "blank queries",
			values:  url.Values{"image_url": {"https://example.com/cat.jpg"}, "text_queries": {"  ", ""}},
			wantMsg: "Please provide at least one text query",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, respond(detectionJSON, http.StatusOK))

			rec := env.postMultipart("/object-detection", tt.values)
			if rec.Code != http.StatusOK {
				t.Fatalf("status %d", rec.Code)
			}
			if !strings.Contains(rec.Body.String(), tt.wantMsg) {
				t.Errorf("expected %q in page", tt.wantMsg)
			}
			if n := env.calls.Load(); n != 0 {
				t.Errorf("expected no upstream call, got %d", n)
			}
		})
	}
}

func TestDetectObjectsRendersCards(t *testing.T) {
	env := newTestEnv(t, respond(detectionJSON, http.StatusOK))

	rec := env.postMultipart("/object-detection", url.Values{
		"image_url":    {"https://example.com/pets.jpg"},
		"text_queries": {"a cat", "a dog"},
	})
	body := rec.Body.String()

	if n := strings.Count(body, `class="card detection-card"`); n != 2 {
		t.Errorf("got %d detection cards, want 2", n)
	}
	if n := strings.Count(body, "82%"); n != 2 {
		t.Errorf("got %d occurrences of 82%%, want 2", n)
	}
	if n := env.calls.Load(); n != 1 {
		t.Errorf("expected exactly one upstream call, got %d", n)
	}
	if !strings.Contains(body, `src="https://example.com/pets.jpg"`) {
		t.Error("expected the URL preview")
	}
}

func TestDetectObjectsFromUpload(t *testing.T) {
	var gotPath string
	env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		respond(detectionJSON, http.StatusOK)(w, r)
	})

	rec := env.postMultipart("/object-detection",
		url.Values{"text_queries": {"a cat"}, "image_url": {"https://example.com/ignored.jpg"}},
		filePart{field: "file", name: "cat.png", data: []byte("png bytes")},
	)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}
	if gotPath != client.EndpointDetectUpload {
		t.Errorf("expected the upload endpoint, got %q", gotPath)
	}
	if !strings.Contains(rec.Body.String(), "Last upload: cat.png") {
		t.Error("expected the file name to be kept in the form")
	}
}

func TestDetectObjectsErrors(t *testing.T) {
	t.Run("http error shows status and body", func(t *testing.T) {
		env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		})

		rec := env.postMultipart("/object-detection", url.Values{
			"image_url":    {"https://example.com/cat.jpg"},
			"text_queries": {"a cat"},
		})
		body := rec.Body.String()
		if !strings.Contains(body, "HTTP error! status: 500 - Internal Server Error") {
			t.Errorf("expected HTTP error message, got %s", body)
		}
		if strings.Contains(body, "Connection Issue") {
			t.Error("an HTTP error is not a connection issue")
		}
	})

	t.Run("unreachable service shows connection issue", func(t *testing.T) {
		env := newTestEnv(t, respond(detectionJSON, http.StatusOK))
		env.upstream.Close()

		rec := env.postMultipart("/object-detection", url.Values{
			"image_url":    {"https://example.com/cat.jpg"},
			"text_queries": {"a cat"},
		})
		body := rec.Body.String()
		for _, want := range []string{"Connection Issue", "Network error", "Refresh the page and try again"} {
			if !strings.Contains(body, want) {
				t.Errorf("expected %q in page", want)
			}
		}
	})
}

func TestDetectObjectsInFlight(t *testing.T) {
	env := newTestEnv(t, respond(detectionJSON, http.StatusOK))
	env.get("/object-detection")

	release, err := env.guard.Acquire(guardKey(env.cookie.Value, state.FormObject))
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	defer release()

	rec := env.postMultipart("/object-detection", url.Values{
		"image_url":    {"https://example.com/cat.jpg"},
		"text_queries": {"a cat"},
	})
	if !strings.Contains(rec.Body.String(), "A request is already in progress for this form") {
		t.Error("expected the second submission to be rejected")
	}
	if n := env.calls.Load(); n != 0 {
		t.Errorf("expected no upstream call, got %d", n)
	}

	// the other form is not blocked
	rec = env.postMultipart("/video-action", url.Values{"prompt": {"person running"}},
		filePart{field: "file", name: "clip.mp4", data: []byte("mp4")},
	)
	if strings.Contains(rec.Body.String(), "already in progress") {
		t.Error("video form should not share the object form's guard")
	}
}

func TestEditQueries(t *testing.T) {
	env := newTestEnv(t, respond(detectionJSON, http.StatusOK))

	rec := env.postMultipart("/object-detection/queries?action=add", url.Values{
		"image_url":    {"https://example.com/cat.jpg"},
		"text_queries": {"a cat", "a remote control", "a person"},
	})
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected redirect, got %d", rec.Code)
	}

	body := env.get("/object-detection").Body.String()
	if n := strings.Count(body, `name="text_queries"`); n != 4 {
		t.Errorf("got %d query fields, want 4", n)
	}
	if !strings.Contains(body, `value="https://example.com/cat.jpg"`) {
		t.Error("typed URL should survive adding a query")
	}

	env.postForm("/object-detection/queries?action=remove&index=0", url.Values{"text_queries": {"only"}})
	body = env.get("/object-detection").Body.String()
	if n := strings.Count(body, `name="text_queries"`); n != 1 {
		t.Errorf("the last query field must stay, got %d", n)
	}

	env.postForm("/object-detection/queries", url.Values{
		"action":       {"update"},
		"index":        {"0"},
		"value":        {"a bird"},
		"text_queries": {"only"},
	})
	if body := env.get("/object-detection").Body.String(); !strings.Contains(body, `value="a bird"`) {
		t.Error("expected the updated query")
	}

	if rec := env.postForm("/object-detection/queries?action=explode", nil); rec.Code != http.StatusBadRequest {
		t.Errorf("unknown action: got %d", rec.Code)
	}
}

func TestLoadDemo(t *testing.T) {
	env := newTestEnv(t, respond(detectionJSON, http.StatusOK))

	rec := env.postForm("/object-detection/demo", url.Values{"preset": {"traffic"}})
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected redirect, got %d", rec.Code)
	}

	body := env.get("/object-detection").Body.String()
	for _, want := range []string{`value="yellow car"`, `value="traffic light"`, "photo-1449824913935-59a10b8d2000"} {
		if !strings.Contains(body, want) {
			t.Errorf("expected %q after loading the demo", want)
		}
	}
	if n := env.calls.Load(); n != 0 {
		t.Errorf("loading a demo must not call the service, got %d calls", n)
	}

	if rec := env.postForm("/object-detection/demo", url.Values{"preset": {"nope"}}); rec.Code != http.StatusBadRequest {
		t.Errorf("unknown preset: got %d", rec.Code)
	}
}

func TestDismissError(t *testing.T) {
	env := newTestEnv(t, respond(detectionJSON, http.StatusOK))
	env.postMultipart("/object-detection", url.Values{"text_queries": {"a cat"}})

	body := env.get("/object-detection").Body.String()
	if !strings.Contains(body, `role="alert"`) || !strings.Contains(body, "/errors/object/panel/dismiss") {
		t.Fatal("expected both the notification and the panel")
	}

	rec := env.postForm("/errors/object/notification/dismiss", nil)
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/object-detection" {
		t.Fatalf("got %d %q", rec.Code, rec.Header().Get("Location"))
	}
	body = env.get("/object-detection").Body.String()
	if strings.Contains(body, `role="alert"`) {
		t.Error("notification should be closed")
	}
	if !strings.Contains(body, "/errors/object/panel/dismiss") {
		t.Error("panel should still be open")
	}

	env.postForm("/errors/object/panel/dismiss", nil)
	body = env.get("/object-detection").Body.String()
	if strings.Contains(body, "Please provide an image URL") {
		t.Error("error should be gone once both are closed")
	}

	if rec := env.postForm("/errors/audio/panel/dismiss", nil); rec.Code != http.StatusNotFound {
		t.Errorf("unknown form: got %d", rec.Code)
	}
}

func TestDetectVideoAction(t *testing.T) {
	env := newTestEnv(t, respond(videoJSON, http.StatusOK))

	t.Run("missing video", func(t *testing.T) {
		rec := env.postMultipart("/video-action", url.Values{"prompt": {"person running"}})
		if !strings.Contains(rec.Body.String(), "Please upload a video file") {
			t.Error("expected missing video message")
		}
		if n := env.calls.Load(); n != 0 {
			t.Errorf("expected no upstream call, got %d", n)
		}
	})

	t.Run("success", func(t *testing.T) {
		rec := env.postMultipart("/video-action",
			url.Values{"prompt": {"person running"}, "return_timeline": {"false", "true"}},
			filePart{field: "file", name: "clip.mp4", data: []byte("mp4 bytes")},
		)
		body := rec.Body.String()
		for _, want := range []string{"job-42", "33.3%", "clip.mp4"} {
			if !strings.Contains(body, want) {
				t.Errorf("expected %q in page", want)
			}
		}
		if n := env.calls.Load(); n != 1 {
			t.Errorf("expected one upstream call, got %d", n)
		}
	})
}

func TestAPIDetect(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		env := newTestEnv(t, respond(detectionJSON, http.StatusOK))

		req := httptest.NewRequest(http.MethodPost, "/api/v1/detect",
			strings.NewReader(`{"image_url":"https://example.com/cat.jpg","text_queries":["a cat"],"box_threshold":0.4,"text_threshold":0.4,"priority":5}`))
		rec := env.do(req)
		if rec.Code != http.StatusOK {
			t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
		}
		if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
			t.Errorf("content type %q", ct)
		}

		var resp models.DetectionResponse
		if err := sonic.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if resp.NumDetections != 2 || len(resp.Detections) != 2 {
			t.Errorf("unexpected response %+v", resp)
		}
	})

	tests := []struct {
		name         string
		upstream     http.HandlerFunc
		body         string
		wantStatus   int
		wantCategory string
		wantCalls    int32
	}{
		{
			name:         "invalid json",
			upstream:     respond(detectionJSON, http.StatusOK),
			body:         `{`,
			wantStatus:   http.StatusBadRequest,
			wantCategory: "validation",
		},
		{
			name:         "missing image",
			upstream:     respond(detectionJSON, http.StatusOK),
			body:         `{"text_queries":["a cat"]}`,
			wantStatus:   http.StatusBadRequest,
			wantCategory: "validation",
		},
		{
			name:         "upstream error",
			upstream:     respond(`boom`, http.StatusInternalServerError),
			body:         `{"image_url":"https://example.com/cat.jpg","text_queries":["a cat"]}`,
			wantStatus:   http.StatusBadGateway,
			wantCategory: "http",
			wantCalls:    1,
		},
		{
			name:         "malformed upstream body",
			upstream:     respond(`not json`, http.StatusOK),
			body:         `{"image_url":"https://example.com/cat.jpg","text_queries":["a cat"]}`,
			wantStatus:   http.StatusBadGateway,
			wantCategory: "parse",
			wantCalls:    1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, tt.upstream)

			rec := env.do(httptest.NewRequest(http.MethodPost, "/api/v1/detect", strings.NewReader(tt.body)))
			if rec.Code != tt.wantStatus {
				t.Fatalf("status %d, want %d", rec.Code, tt.wantStatus)
			}

			var resp models.ErrorResponse
			if err := sonic.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if resp.Category != tt.wantCategory {
				t.Errorf("category %q, want %q", resp.Category, tt.wantCategory)
			}
			if resp.Message == "" {
				t.Error("expected a message")
			}
			if n := env.calls.Load(); n != tt.wantCalls {
				t.Errorf("upstream calls %d, want %d", n, tt.wantCalls)
			}
		})
	}
}

func TestAPIDetectUpload(t *testing.T) {
	env := newTestEnv(t, respond(detectionJSON, http.StatusOK))

	rec := env.postMultipart("/api/v1/detect/upload",
		url.Values{"text_queries": {"a cat", "a dog"}, "priority": {"3"}},
		filePart{field: "file", name: "cat.jpg", data: []byte("jpeg")},
	)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}

	rec = env.postMultipart("/api/v1/detect/upload", url.Values{"text_queries": {"a cat"}, "image_url": {"https://example.com/x.jpg"}})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("upload endpoint without a file: got %d", rec.Code)
	}

	rec = env.postMultipart("/api/v1/detect/upload",
		url.Values{"text_queries": {"a cat"}, "box_threshold": {"high"}},
		filePart{field: "file", name: "cat.jpg", data: []byte("jpeg")},
	)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad threshold: got %d", rec.Code)
	}
	if n := env.calls.Load(); n != 1 {
		t.Errorf("upstream calls %d, want 1", n)
	}
}

func TestAPIUploadTooLarge(t *testing.T) {
	env := newTestEnvWithLimit(t, respond(videoJSON, http.StatusOK), 1024)

	rec := env.postMultipart("/api/v1/video_action/detect/upload",
		url.Values{"prompt": {"person running"}},
		filePart{field: "file", name: "clip.mp4", data: bytes.Repeat([]byte("x"), 4096)},
	)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status %d, want 400", rec.Code)
	}
	if n := env.calls.Load(); n != 0 {
		t.Errorf("expected no upstream call, got %d", n)
	}
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t, respond(detectionJSON, http.StatusOK))

	rec := env.get("/health")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"status":"ok"`) {
		t.Errorf("got %d %s", rec.Code, rec.Body.String())
	}
}

func TestNonFiniteNumbersAreRejected(t *testing.T) {
	for _, value := range []string{"NaN", "Inf", "+Inf", "-Inf"} {
		t.Run(value, func(t *testing.T) {
			env := newTestEnv(t, respond(detectionJSON, http.StatusOK))

			rec := env.postMultipart("/object-detection", url.Values{
				"image_url":     {"https://example.com/cat.jpg"},
				"text_queries":  {"a cat"},
				"box_threshold": {value},
			})
			if rec.Code != http.StatusOK {
				t.Fatalf("console status %d: %s", rec.Code, rec.Body.String())
			}
			if !strings.Contains(rec.Body.String(), "box_threshold must be a number") {
				t.Error("expected the validation message on the page")
			}

			rec = env.postMultipart("/api/v1/detect/upload",
				url.Values{"text_queries": {"a cat"}, "box_threshold": {value}},
				filePart{field: "file", name: "cat.jpg", data: []byte("jpeg")},
			)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("api status %d, want 400", rec.Code)
			}

			rec = env.postMultipart("/api/v1/video_action/detect/upload",
				url.Values{"prompt": {"person running"}, "action_weight": {value}},
				filePart{field: "file", name: "clip.mp4", data: []byte("mp4")},
			)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("video api status %d, want 400", rec.Code)
			}

			if n := env.calls.Load(); n != 0 {
				t.Errorf("expected no upstream call, got %d", n)
			}
		})
	}
}

func TestEditQueriesRejectsBadIndex(t *testing.T) {
	env := newTestEnv(t, respond(detectionJSON, http.StatusOK))

	for _, path := range []string{
		"/object-detection/queries?action=remove",
		"/object-detection/queries?action=remove&index=first",
		"/object-detection/queries?action=update&index=&value=a+bird",
	} {
		rec := env.postForm(path, url.Values{"text_queries": {"a cat", "a dog"}})
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: got %d, want 400", path, rec.Code)
		}
	}

	body := env.get("/object-detection").Body.String()
	if !strings.Contains(body, `value="a cat"`) || strings.Contains(body, `value="a bird"`) {
		t.Error("a rejected edit must not touch the queries")
	}
}

func TestAPIDetectVideoAction(t *testing.T) {
	var gotPrompt string
	env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
		gotPrompt = r.FormValue("prompt")
		respond(videoJSON, http.StatusOK)(w, r)
	})

	rec := env.postMultipart("/api/v1/video_action/detect/upload",
		url.Values{"prompt": {"  person running  "}, "return_timeline": {"false"}},
		filePart{field: "file", name: "clip.mp4", data: []byte("mp4 bytes")},
	)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("content type %q", ct)
	}

	var resp models.VideoActionResponse
	if err := sonic.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.JobID != "job-42" || resp.Stats.PassedDetections != 1 || resp.ActionVerb != "running" {
		t.Errorf("unexpected response %+v", resp)
	}
	if gotPrompt != "person running" {
		t.Errorf("upstream prompt %q, want trimmed", gotPrompt)
	}

	tests := []struct {
		name    string
		values  url.Values
		files   []filePart
		wantMsg string
	}{
		{
			name:    "missing file",
			values:  url.Values{"prompt": {"person running"}},
			wantMsg: "Please upload a video file",
		},
		{
			name:    "blank prompt",
			values:  url.Values{"prompt": {"   "}},
			files:   []filePart{{field: "file", name: "clip.mp4", data: []byte("mp4")}},
			wantMsg: "Please provide a prompt describing the action to detect",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.postMultipart("/api/v1/video_action/detect/upload", tt.values, tt.files...)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status %d, want 400", rec.Code)
			}

			var resp models.ErrorResponse
			if err := sonic.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if resp.Category != "validation" || resp.Message != tt.wantMsg {
				t.Errorf("got %+v, want validation %q", resp, tt.wantMsg)
			}
		})
	}

	if n := env.calls.Load(); n != 1 {
		t.Errorf("upstream calls %d, want 1", n)
	}
}
