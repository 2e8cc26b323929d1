// Package materiallab is the screen that turns a student's own document into
// study content.
package materiallab

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/lennai/lennai/internal/chat"
	"github.com/lennai/lennai/internal/content"
	"github.com/lennai/lennai/internal/document"
	"github.com/lennai/lennai/internal/llm"
	"github.com/lennai/lennai/internal/screen"
	"github.com/lennai/lennai/internal/ui/components"
	"github.com/lennai/lennai/internal/ui/layout"
	"github.com/lennai/lennai/internal/ui/studyview"
	"github.com/lennai/lennai/internal/ui/theme"
)

// Analyzer generates study content from a document.
type Analyzer interface {
	GenerateFromDocument(ctx context.Context, doc llm.Attachment) (*content.StructuredContent, error)
}

// Uploader stores the original document. *supabase.Client satisfies it.
type Uploader interface {
	UploadMaterial(ctx context.Context, userID, name, mimeType string, data []byte) (string, error)
}

type analyzedMsg struct {
	Name      string
	Content   *content.StructuredContent
	URL       string
	UploadErr error
	Err       error
}

// LabScreen accepts a file path and shows the generated study content.
type LabScreen struct {
	gen      Analyzer
	uploader Uploader
	userID   string

	input   components.TextInput
	busy    bool
	name    string
	result  *content.StructuredContent
	view    chat.View
	reveal  bool
	url     string
	errMsg  string
	warning string
}

var _ screen.Screen = (*LabScreen)(nil)
var _ screen.KeyHintProvider = (*LabScreen)(nil)

// New creates a LabScreen. uploader may be nil, in which case documents are
// only analyzed.
func New(gen Analyzer, uploader Uploader, userID string) *LabScreen {
	return &LabScreen{
		gen:      gen,
		uploader: uploader,
		userID:   userID,
		input:    components.NewTextInput("Document", "path/to/notes.pdf", 1024),
		view:     chat.ViewOverview,
	}
}

func (m *LabScreen) Init() tea.Cmd {
	return m.input.Focus()
}

func (m *LabScreen) Title() string {
	if m.name != "" {
		return "Material Lab · " + m.name
	}
	return "Material Lab"
}

func (m *LabScreen) KeyHints() []layout.KeyHint {
	if m.result != nil {
		return []layout.KeyHint{
			{Key: "Tab", Description: "Switch view"},
			{Key: "Ctrl+R", Description: "Answers"},
			{Key: "Ctrl+N", Description: "New document"},
			{Key: "Esc", Description: "Back"},
		}
	}
	return []layout.KeyHint{{Key: "Enter", Description: "Analyze"}, {Key: "Esc", Description: "Back"}}
}

func (m *LabScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case analyzedMsg:
		m.busy = false
		if msg.Err != nil {
			m.errMsg = describe(msg.Err)
			return m, nil
		}
		m.name = msg.Name
		m.result = msg.Content
		m.url = msg.URL
		m.view = chat.ViewOverview
		m.reveal = false
		if msg.UploadErr != nil {
			m.warning = "Analyzed, but the file could not be saved to your library."
		}
		return m, nil

	case tea.KeyMsg:
		if m.result != nil {
			switch msg.String() {
			case "tab":
				m.view = studyview.Next(m.view)
			case "ctrl+r":
				m.reveal = !m.reveal
			case "ctrl+n":
				m.reset()
				return m, m.input.Focus()
			}
			return m, nil
		}
		if msg.String() == "enter" {
			return m, m.analyze()
		}
	}

	if m.result != nil || m.busy {
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *LabScreen) reset() {
	m.result = nil
	m.name = ""
	m.url = ""
	m.errMsg = ""
	m.warning = ""
	m.input.Reset()
}

func (m *LabScreen) analyze() tea.Cmd {
	path := strings.TrimSpace(m.input.Value())
	if path == "" || m.busy {
		return nil
	}
	m.busy = true
	m.errMsg = ""
	m.warning = ""

	gen, uploader, userID := m.gen, m.uploader, m.userID
	return func() tea.Msg {
		doc, err := document.Load(path)
		if err != nil {
			return analyzedMsg{Err: err}
		}
		ctx := context.Background()
		sc, err := gen.GenerateFromDocument(ctx, doc.Attachment())
		if err != nil {
			return analyzedMsg{Err: err}
		}
		out := analyzedMsg{Name: doc.Name, Content: sc}
		if uploader != nil {
			out.URL, out.UploadErr = uploader.UploadMaterial(ctx, userID, doc.Name, doc.MIMEType, doc.Data)
		}
		return out
	}
}

func describe(err error) string {
	var unsupported *document.UnsupportedTypeError
	if errors.As(err, &unsupported) {
		return fmt.Sprintf("%s files are not supported. Try a PDF, image or text file.", unsupported.MIMEType)
	}
	var genErr *content.GenerationError
	if errors.As(err, &genErr) {
		return "Could not analyze this document. Please try again."
	}
	return err.Error()
}

func (m *LabScreen) View(width, height int) string {
	cw := components.ContentWidth(width)
	if m.busy {
		return layout.RenderNotice("Reading your document...", theme.TextDim, width)
	}

	var b strings.Builder
	if m.result == nil {
		b.WriteString(theme.Heading.Render("Analyze your own notes"))
		b.WriteString("\n")
		b.WriteString(theme.Hint.Render("PDFs, images and text files become notes, slides, flashcards and a quiz."))
		b.WriteString("\n\n")
		b.WriteString(m.input.View())
	} else {
		b.WriteString(studyview.Tabs(m.view))
		b.WriteString("\n\n")
		if m.view == chat.ViewQuiz {
			b.WriteString(studyview.Quiz(m.result.PracticeQuestions, cw-4, m.reveal))
		} else {
			b.WriteString(studyview.Render(m.result, m.view, cw-4))
		}
		if m.url != "" {
			b.WriteString("\n\n")
			b.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).Render("Saved to " + m.url))
		}
	}
	if m.warning != "" {
		b.WriteString("\n\n")
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Highlight).Width(cw - 4).Render(m.warning))
	}
	if m.errMsg != "" {
		b.WriteString("\n\n")
		b.WriteString(theme.ErrorText.Width(cw - 4).Render(m.errMsg))
	}
	return components.Centered(components.Panel(b.String(), cw), width, height)
}
