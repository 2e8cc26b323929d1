package content

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/lennai/lennai/internal/llm"
)

// Gateway is the single point of contact with the generative provider.
// Every method returns validated content or a *GenerationError.
type Gateway interface {
	GenerateTutorReply(ctx context.Context, question string, history []TurnSummary) (*StructuredContent, error)
	GenerateFromDocument(ctx context.Context, doc llm.Attachment) (*StructuredContent, error)
	GenerateQuestionSet(ctx context.Context, topic, difficulty string, subject Subject) ([]Question, error)
	GenerateSequencePuzzle(ctx context.Context, subject Subject) (*SequencePuzzle, error)
	GenerateLabelPuzzle(ctx context.Context, subject Subject) (*LabelPuzzle, error)
	GenerateVisual(ctx context.Context, prompt string) (string, error)
	GenerateExamOutline(ctx context.Context, topic string) (*ExamOutline, error)
	GenerateLecturerNotes(ctx context.Context, topic string, depth Depth) (*LecturerNotes, error)
	GenerateLessonPlan(ctx context.Context, topic string) (*LessonPlan, error)
	GenerateQuestionBank(ctx context.Context, topic string) (*QuestionBank, error)
}

// Operation names. They double as the LLM request purpose.
const (
	OpTutorReply       = "tutor-reply"
	OpMaterialAnalysis = "material-analysis"
	OpQuestionSet      = "question-set"
	OpSequencePuzzle   = "sequence-puzzle"
	OpLabelPuzzle      = "label-puzzle"
	OpVisual           = "visual"
	OpExamOutline      = "exam-outline"
	OpLecturerNotes    = "lecturer-notes"
	OpLessonPlan       = "lesson-plan"
	OpQuestionBank     = "question-bank"
)

// LLMGateway implements Gateway on top of an llm.Provider. images may be
// nil, in which case illustrations are never produced.
type LLMGateway struct {
	provider llm.Provider
	images   llm.ImageGenerator
	config   Config
}

var _ Gateway = (*LLMGateway)(nil)

// New creates a gateway with the given provider, image generator and config.
func New(provider llm.Provider, images llm.ImageGenerator, cfg Config) *LLMGateway {
	return &LLMGateway{provider: provider, images: images, config: cfg}
}

// GenerateTutorReply answers a chat question. Only the most recent
// HistoryWindow turns of history are sent.
func (g *LLMGateway) GenerateTutorReply(ctx context.Context, question string, history []TurnSummary) (*StructuredContent, error) {
	if strings.TrimSpace(question) == "" {
		return nil, &GenerationError{Op: OpTutorReply, Err: errors.New("empty question")}
	}
	if w := g.config.HistoryWindow; w >= 0 && len(history) > w {
		history = history[len(history)-w:]
	}

	req := llm.Request{
		System:   chatSystemPrompt,
		Messages: []llm.Message{{Role: llm.RoleUser, Content: buildTutorMessage(question, history)}},
		Schema:   StructuredContentSchema,
	}
	return generate(ctx, g, OpTutorReply, req, checkStructuredContent)
}

// GenerateFromDocument analyzes a study document. The document is the
// only context; no chat history is sent.
func (g *LLMGateway) GenerateFromDocument(ctx context.Context, doc llm.Attachment) (*StructuredContent, error) {
	if len(doc.Data) == 0 && strings.TrimSpace(doc.Text) == "" {
		return nil, &GenerationError{Op: OpMaterialAnalysis, Err: errors.New("empty document")}
	}

	req := llm.Request{
		System: materialSystemPrompt,
		Messages: []llm.Message{{
			Role:        llm.RoleUser,
			Content:     materialInstruction,
			Attachments: []llm.Attachment{doc},
		}},
		Schema: StructuredContentSchema,
	}
	return generate(ctx, g, OpMaterialAnalysis, req, checkStructuredContent)
}

type questionSet struct {
	Questions []Question `json:"questions"`
}

// GenerateQuestionSet returns up to QuestionSetSize questions, each with
// an in-range correct answer.
func (g *LLMGateway) GenerateQuestionSet(ctx context.Context, topic, difficulty string, subject Subject) ([]Question, error) {
	req := llm.Request{
		System:   practiceSystemPrompt,
		Messages: []llm.Message{{Role: llm.RoleUser, Content: buildQuestionSetMessage(topic, difficulty, subject)}},
		Schema:   QuestionSetSchema,
	}
	set, err := generate(ctx, g, OpQuestionSet, req, func(s *questionSet) error {
		qs, err := checkQuestionSet(s.Questions)
		s.Questions = qs
		return err
	})
	if err != nil {
		return nil, err
	}
	return set.Questions, nil
}

// GenerateSequencePuzzle returns a puzzle whose step orders are exactly
// 0..n-1.
func (g *LLMGateway) GenerateSequencePuzzle(ctx context.Context, subject Subject) (*SequencePuzzle, error) {
	req := llm.Request{
		System:   practiceSystemPrompt,
		Messages: []llm.Message{{Role: llm.RoleUser, Content: buildSequenceMessage(subject)}},
		Schema:   SequencePuzzleSchema,
	}
	return generate(ctx, g, OpSequencePuzzle, req, checkSequencePuzzle)
}

type labelMetadata struct {
	Title       string        `json:"title"`
	ImagePrompt string        `json:"imagePrompt"`
	Parts       []LabeledPart `json:"parts"`
}

// GenerateLabelPuzzle fetches the part metadata, then asks for an
// illustration. A failed or unavailable illustration leaves ImageURL
// empty; the puzzle is still returned.
func (g *LLMGateway) GenerateLabelPuzzle(ctx context.Context, subject Subject) (*LabelPuzzle, error) {
	req := llm.Request{
		System:   practiceSystemPrompt,
		Messages: []llm.Message{{Role: llm.RoleUser, Content: buildLabelMessage(subject)}},
		Schema:   labelMetadataSchema,
	}
	meta, err := generate(ctx, g, OpLabelPuzzle, req, func(m *labelMetadata) error {
		return checkLabelParts(m.Parts)
	})
	if err != nil {
		return nil, err
	}

	title := strings.TrimSpace(meta.Title)
	if title == "" {
		title = DefaultLabelTitle
	}
	prompt := meta.ImagePrompt
	if strings.TrimSpace(prompt) == "" {
		prompt = title
	}

	imageURL, err := g.GenerateVisual(ctx, prompt)
	if err != nil {
		slog.Warn("label puzzle illustration unavailable", "subject", subject, "error", err)
		imageURL = ""
	}

	return &LabelPuzzle{Title: title, ImageURL: imageURL, Parts: meta.Parts}, nil
}

// GenerateVisual renders an illustration for prompt and returns it as a
// data URL. It returns "" and no error when no image capability is
// configured.
func (g *LLMGateway) GenerateVisual(ctx context.Context, prompt string) (string, error) {
	if g.images == nil {
		return "", nil
	}
	ctx = llm.WithPurpose(ctx, OpVisual)
	img, err := g.images.GenerateImage(ctx, llm.ImageRequest{
		Prompt:      enhanceImagePrompt(prompt),
		AspectRatio: g.config.ImageAspectRatio,
	})
	if err != nil {
		return "", &GenerationError{Op: OpVisual, Err: err}
	}
	return img.DataURL(), nil
}

// GenerateExamOutline returns a high-yield outline for topic.
func (g *LLMGateway) GenerateExamOutline(ctx context.Context, topic string) (*ExamOutline, error) {
	req := llm.Request{
		System:   practiceSystemPrompt,
		Messages: []llm.Message{{Role: llm.RoleUser, Content: buildExamOutlineMessage(topic)}},
		Schema:   ExamOutlineSchema,
	}
	return generate(ctx, g, OpExamOutline, req, checkExamOutline)
}

// GenerateLecturerNotes returns teaching notes at the requested depth.
func (g *LLMGateway) GenerateLecturerNotes(ctx context.Context, topic string, depth Depth) (*LecturerNotes, error) {
	depth = ParseDepth(string(depth))
	req := llm.Request{
		System:   lecturerSystemPrompt,
		Messages: []llm.Message{{Role: llm.RoleUser, Content: buildNotesMessage(topic, depth)}},
		Schema:   LecturerNotesSchema,
	}
	return generate(ctx, g, OpLecturerNotes, req, func(n *LecturerNotes) error {
		if strings.TrimSpace(n.Content) == "" {
			return invalid("content", "empty")
		}
		n.Depth = depth
		return nil
	})
}

// GenerateLessonPlan returns a timed lesson plan for topic.
func (g *LLMGateway) GenerateLessonPlan(ctx context.Context, topic string) (*LessonPlan, error) {
	req := llm.Request{
		System:   lecturerSystemPrompt,
		Messages: []llm.Message{{Role: llm.RoleUser, Content: buildLessonPlanMessage(topic)}},
		Schema:   LessonPlanSchema,
	}
	return generate(ctx, g, OpLessonPlan, req, func(p *LessonPlan) error {
		if len(p.Structure) == 0 {
			return invalid("structure", "empty")
		}
		return nil
	})
}

// GenerateQuestionBank returns a lecturer question bank for topic.
func (g *LLMGateway) GenerateQuestionBank(ctx context.Context, topic string) (*QuestionBank, error) {
	req := llm.Request{
		System:   lecturerSystemPrompt,
		Messages: []llm.Message{{Role: llm.RoleUser, Content: buildQuestionBankMessage(topic)}},
		Schema:   QuestionBankSchema,
	}
	return generate(ctx, g, OpQuestionBank, req, checkQuestionBank)
}

// generate runs one structured request: call the provider, validate the
// raw JSON against the schema, decode it and apply the domain check. Any
// failure is returned as a *GenerationError.
func generate[T any](ctx context.Context, g *LLMGateway, op string, req llm.Request, check func(*T) error) (*T, error) {
	ctx = llm.WithPurpose(ctx, op)
	req.MaxTokens = g.config.MaxTokens
	req.Temperature = g.config.Temperature

	resp, err := g.provider.Generate(ctx, req)
	if err != nil {
		return nil, &GenerationError{Op: op, Err: err}
	}
	if err := llm.ValidateResponse(req.Schema, resp.Content); err != nil {
		return nil, &GenerationError{Op: op, Err: err}
	}

	var out T
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return nil, &GenerationError{Op: op, Err: fmt.Errorf("parse response: %w", err)}
	}
	if check != nil {
		if err := check(&out); err != nil {
			return nil, &GenerationError{Op: op, Err: err}
		}
	}
	return &out, nil
}
