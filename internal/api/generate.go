package api

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/lennai/lennai/internal/content"
	"github.com/lennai/lennai/internal/document"
)

type chatRequest struct {
	Text    string                `json:"text"`
	History []content.TurnSummary `json:"history"`
}

// Chat answers a tutoring question with a structured study unit.
func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if !decode(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		Error(w, http.StatusBadRequest, "Missing required field: text")
		return
	}
	sc, err := h.gen.GenerateTutorReply(r.Context(), req.Text, req.History)
	if err != nil {
		generationFailed(w, r, err)
		return
	}
	JSON(w, http.StatusOK, sc)
}

type lecturerRequest struct {
	Action string `json:"action"`
	Topic  string `json:"topic"`
	Depth  string `json:"depth"`
}

// Lecturer actions.
const (
	ActionNotes        = "notes"
	ActionLessonPlan   = "lesson-plan"
	ActionQuestionBank = "question-bank"
)

// Lecturer produces teaching material for one of the lecturer actions.
func (h *Handler) Lecturer(w http.ResponseWriter, r *http.Request) {
	var req lecturerRequest
	if !decode(w, r, &req) {
		return
	}
	topic := strings.TrimSpace(req.Topic)
	if req.Action == "" || topic == "" {
		Error(w, http.StatusBadRequest, "Missing required fields: action, topic")
		return
	}

	var (
		out any
		err error
	)
	switch req.Action {
	case ActionNotes:
		out, err = h.gen.GenerateLecturerNotes(r.Context(), topic, content.ParseDepth(req.Depth))
	case ActionLessonPlan:
		out, err = h.gen.GenerateLessonPlan(r.Context(), topic)
	case ActionQuestionBank:
		out, err = h.gen.GenerateQuestionBank(r.Context(), topic)
	default:
		Error(w, http.StatusBadRequest, "Invalid action. Must be: notes, lesson-plan, or question-bank")
		return
	}
	if err != nil {
		generationFailed(w, r, err)
		return
	}
	JSON(w, http.StatusOK, out)
}

type questionsRequest struct {
	Topic      string `json:"topic"`
	Subject    string `json:"subject"`
	Difficulty string `json:"difficulty"`
}

// Questions generates a practice question set for a topic.
func (h *Handler) Questions(w http.ResponseWriter, r *http.Request) {
	var req questionsRequest
	if !decode(w, r, &req) {
		return
	}
	topic := strings.TrimSpace(req.Topic)
	if topic == "" {
		Error(w, http.StatusBadRequest, "Missing required field: topic")
		return
	}
	difficulty := strings.TrimSpace(req.Difficulty)
	if difficulty == "" {
		difficulty = h.difficulty
	}
	qs, err := h.gen.GenerateQuestionSet(r.Context(), topic, difficulty, content.ParseSubject(req.Subject))
	if err != nil {
		generationFailed(w, r, err)
		return
	}
	JSON(w, http.StatusOK, map[string]any{"questions": qs})
}

type subjectRequest struct {
	Subject string `json:"subject"`
}

// SequencePuzzle generates a process-ordering puzzle.
func (h *Handler) SequencePuzzle(w http.ResponseWriter, r *http.Request) {
	var req subjectRequest
	if !decode(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Subject) == "" {
		Error(w, http.StatusBadRequest, "Missing required field: subject")
		return
	}
	p, err := h.gen.GenerateSequencePuzzle(r.Context(), content.ParseSubject(req.Subject))
	if err != nil {
		generationFailed(w, r, err)
		return
	}
	JSON(w, http.StatusOK, p)
}

// LabelPuzzle generates a labelling puzzle with its illustration.
func (h *Handler) LabelPuzzle(w http.ResponseWriter, r *http.Request) {
	var req subjectRequest
	if !decode(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Subject) == "" {
		Error(w, http.StatusBadRequest, "Missing required field: subject")
		return
	}
	p, err := h.gen.GenerateLabelPuzzle(r.Context(), content.ParseSubject(req.Subject))
	if err != nil {
		generationFailed(w, r, err)
		return
	}
	JSON(w, http.StatusOK, p)
}

type topicRequest struct {
	Topic string `json:"topic"`
}

// ExamOutline generates a high-yield outline for a topic.
func (h *Handler) ExamOutline(w http.ResponseWriter, r *http.Request) {
	var req topicRequest
	if !decode(w, r, &req) {
		return
	}
	topic := strings.TrimSpace(req.Topic)
	if topic == "" {
		Error(w, http.StatusBadRequest, "Missing required field: topic")
		return
	}
	o, err := h.gen.GenerateExamOutline(r.Context(), topic)
	if err != nil {
		generationFailed(w, r, err)
		return
	}
	JSON(w, http.StatusOK, o)
}

type visualRequest struct {
	Prompt string `json:"prompt"`
}

// Visual renders an illustration. imageUrl is empty when no image
// capability is configured.
func (h *Handler) Visual(w http.ResponseWriter, r *http.Request) {
	var req visualRequest
	if !decode(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Prompt) == "" {
		Error(w, http.StatusBadRequest, "Missing required field: prompt")
		return
	}
	url, err := h.gen.GenerateVisual(r.Context(), req.Prompt)
	if err != nil {
		generationFailed(w, r, err)
		return
	}
	JSON(w, http.StatusOK, map[string]string{"imageUrl": url})
}

// Material analyzes an uploaded study document sent as the "file" field
// of a multipart form.
func (h *Handler) Material(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, document.MaxSize+1<<20)
	file, header, err := r.FormFile("file")
	if err != nil {
		Error(w, http.StatusBadRequest, "Missing required field: file")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		Error(w, http.StatusBadRequest, "could not read file")
		return
	}
	doc, err := document.FromBytes(header.Filename, data)
	var unsupported *document.UnsupportedTypeError
	switch {
	case errors.As(err, &unsupported):
		Error(w, http.StatusUnsupportedMediaType, err.Error())
		return
	case err != nil:
		Error(w, http.StatusBadRequest, err.Error())
		return
	}

	sc, err := h.gen.GenerateFromDocument(r.Context(), doc.Attachment())
	if err != nil {
		generationFailed(w, r, err)
		return
	}
	JSON(w, http.StatusOK, sc)
}
