package api_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/lennai/lennai/internal/api"
	"github.com/lennai/lennai/internal/content"
	"github.com/lennai/lennai/internal/content/contenttest"
	"github.com/lennai/lennai/internal/llm"
)

func newServer(t *testing.T, responses ...llm.MockResponse) (*httptest.Server, *llm.MockProvider) {
	t.Helper()
	mock := llm.NewMockProvider(responses...)
	gw := content.New(mock, nil, content.DefaultConfig())
	srv := httptest.NewServer(api.NewRouter(api.NewHandler(gw, "Exam-level"), nil))
	t.Cleanup(srv.Close)
	return srv, mock
}

func post(t *testing.T, srv *httptest.Server, path, body string) (*http.Response, map[string]any) {
	t.Helper()
	resp, err := http.Post(srv.URL+path, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST %s: %v", path, err)
	}
	defer resp.Body.Close()
	var out map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode %s: %v", path, err)
	}
	return resp, out
}

func TestJSON(t *testing.T) {
	w := httptest.NewRecorder()
	api.JSON(w, http.StatusCreated, map[string]string{"foo": "bar"})

	if w.Code != http.StatusCreated {
		t.Errorf("status = %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}
	var got map[string]string
	if err := json.NewDecoder(w.Body).Decode(&got); err != nil {
		t.Fatal(err)
	}
	if got["foo"] != "bar" {
		t.Errorf("got %v", got)
	}
}

func TestHealth(t *testing.T) {
	srv, _ := newServer(t)
	resp, err := http.Get(srv.URL + "/health")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d", resp.StatusCode)
	}
}

func TestChat(t *testing.T) {
	srv, mock := newServer(t, llm.MockResponse{Content: contenttest.StructuredContentJSON("Renal Physiology", content.SubjectPhysiology)})

	resp, out := post(t, srv, "/functions/gemini-chat",
		`{"text":"Explain GFR","history":[{"role":"user","content":"hi"},{"role":"tutor","content":"hello"}]}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d: %v", resp.StatusCode, out)
	}
	if out["topicTitle"] != "Renal Physiology" {
		t.Errorf("topicTitle = %v", out["topicTitle"])
	}
	if qs, _ := out["practiceQuestions"].([]any); len(qs) != 2 {
		t.Errorf("practiceQuestions = %v", out["practiceQuestions"])
	}
	msg := mock.Calls[0].Messages[0].Content
	if !strings.Contains(msg, "Student: hi") || !strings.Contains(msg, "Tutor: hello") {
		t.Errorf("history not rendered: %q", msg)
	}
}

func TestMissingFields(t *testing.T) {
	srv, mock := newServer(t)
	tests := []struct {
		path string
		body string
		want string
	}{
		{"/functions/gemini-chat", `{"text":"  "}`, "Missing required field: text"},
		{"/functions/gemini-lecturer", `{"action":"notes"}`, "Missing required fields: action, topic"},
		{"/functions/gemini-lecturer", `{"action":"essay","topic":"Sepsis"}`, "Invalid action. Must be: notes, lesson-plan, or question-bank"},
		{"/api/v1/questions", `{}`, "Missing required field: topic"},
		{"/api/v1/games/sequence", `{}`, "Missing required field: subject"},
		{"/api/v1/games/label", `{"subject":""}`, "Missing required field: subject"},
		{"/api/v1/exam-outline", `{"topic":""}`, "Missing required field: topic"},
		{"/api/v1/visual", `{}`, "Missing required field: prompt"},
		{"/api/v1/questions", `not json`, "invalid request body"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp, out := post(t, srv, tt.path, tt.body)
			if resp.StatusCode != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", resp.StatusCode)
			}
			if out["error"] != tt.want {
				t.Errorf("error = %v, want %q", out["error"], tt.want)
			}
		})
	}
	if mock.CallCount() != 0 {
		t.Errorf("provider called %d times", mock.CallCount())
	}
}

func TestGenerationFailureIs502(t *testing.T) {
	srv, _ := newServer(t, llm.MockResponse{Err: &llm.ErrProviderUnavailable{Err: errors.New("down")}})
	resp, out := post(t, srv, "/api/v1/exam-outline", `{"topic":"Sepsis"}`)
	if resp.StatusCode != http.StatusBadGateway {
		t.Errorf("status = %d, want 502", resp.StatusCode)
	}
	if msg, _ := out["error"].(string); !strings.Contains(msg, content.OpExamOutline) {
		t.Errorf("error = %q", msg)
	}
}

func TestQuestions(t *testing.T) {
	srv, mock := newServer(t, llm.MockResponse{Content: contenttest.QuestionSetJSON(contenttest.Questions(5, 2))})
	resp, out := post(t, srv, "/api/v1/questions", `{"topic":"Heart failure","subject":"Pharmacology"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d: %v", resp.StatusCode, out)
	}
	if qs, _ := out["questions"].([]any); len(qs) != 5 {
		t.Errorf("questions = %v", out["questions"])
	}
	if msg := mock.Calls[0].Messages[0].Content; !strings.Contains(msg, "Exam-level") {
		t.Errorf("default difficulty missing: %q", msg)
	}
}

func TestSequencePuzzle(t *testing.T) {
	srv, _ := newServer(t, llm.MockResponse{Content: contenttest.JSON(contenttest.SequencePuzzle(4))})
	resp, out := post(t, srv, "/api/v1/games/sequence", `{"subject":"Physiology"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d: %v", resp.StatusCode, out)
	}
	if steps, _ := out["steps"].([]any); len(steps) != 4 {
		t.Errorf("steps = %v", out["steps"])
	}
}

func TestLabelPuzzle(t *testing.T) {
	srv, _ := newServer(t, llm.MockResponse{Content: contenttest.LabelMetadataJSON("Heart", "heart", "Aorta", "Left ventricle", "Right atrium", "Pulmonary artery")})
	resp, out := post(t, srv, "/api/v1/games/label", `{"subject":"Anatomy"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d: %v", resp.StatusCode, out)
	}
	if out["imageUrl"] != "" {
		t.Errorf("imageUrl = %v, want empty without image capability", out["imageUrl"])
	}
	if parts, _ := out["parts"].([]any); len(parts) != 4 {
		t.Errorf("parts = %v", out["parts"])
	}
}

func TestLecturerNotes(t *testing.T) {
	notes := content.LecturerNotes{
		Title:               "Sepsis",
		Content:             "Body",
		Depth:               content.DepthSummary,
		KeyConcepts:         []string{"SIRS"},
		ClinicalPearls:      []string{"Lactate"},
		DiagramDescriptions: []string{"Cascade"},
	}
	srv, mock := newServer(t, llm.MockResponse{Content: contenttest.JSON(notes)})
	resp, out := post(t, srv, "/functions/gemini-lecturer", `{"action":"notes","topic":"Sepsis","depth":"summary"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d: %v", resp.StatusCode, out)
	}
	if out["title"] != "Sepsis" {
		t.Errorf("title = %v", out["title"])
	}
	if msg := mock.Calls[0].Messages[0].Content; !strings.Contains(msg, "summary teaching notes") {
		t.Errorf("prompt = %q", msg)
	}
}

func TestMaterial(t *testing.T) {
	srv, mock := newServer(t, llm.MockResponse{Content: contenttest.StructuredContentJSON("Nephron", content.SubjectAnatomy)})

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", "nephron.txt")
	if err != nil {
		t.Fatal(err)
	}
	fw.Write([]byte("The nephron is the functional unit of the kidney."))
	mw.Close()

	resp, err := http.Post(srv.URL+"/api/v1/materials", mw.FormDataContentType(), &body)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	att := mock.Calls[0].Messages[0].Attachments
	if len(att) != 1 || att[0].Name != "nephron.txt" || att[0].MIMEType != "text/plain" {
		t.Errorf("attachments = %+v", att)
	}
}

func TestCORSPreflight(t *testing.T) {
	srv, _ := newServer(t)
	req, _ := http.NewRequest(http.MethodOptions, srv.URL+"/functions/gemini-chat", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", "POST")
	req.Header.Set("Access-Control-Request-Headers", "content-type")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Allow-Origin = %q", got)
	}
}
