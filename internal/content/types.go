package content

import "strings"

// Subject is the closed set of subject tags used to scope generated content.
type Subject string

const (
	SubjectAnatomy      Subject = "Anatomy"
	SubjectPhysiology   Subject = "Physiology"
	SubjectEmbryology   Subject = "Embryology"
	SubjectMedSurg      Subject = "Medical-Surgical Nursing"
	SubjectPharmacology Subject = "Pharmacology"
	SubjectPHC          Subject = "Primary Health Care"
	SubjectOther        Subject = "Other Nursing Science"
)

// Subjects lists every subject in display order.
var Subjects = []Subject{
	SubjectAnatomy,
	SubjectPhysiology,
	SubjectEmbryology,
	SubjectMedSurg,
	SubjectPharmacology,
	SubjectPHC,
	SubjectOther,
}

// ParseSubject maps a free-form tag onto the enumeration. Matching is
// case-insensitive; anything unrecognized becomes SubjectOther.
func ParseSubject(s string) Subject {
	for _, subj := range Subjects {
		if strings.EqualFold(string(subj), strings.TrimSpace(s)) {
			return subj
		}
	}
	return SubjectOther
}

// StructuredContent is the canonical tutoring unit returned for chat
// replies and material analysis.
type StructuredContent struct {
	TopicTitle        string      `json:"topicTitle"`
	SimpleExplanation string      `json:"simpleExplanation"`
	KeyConcepts       []string    `json:"keyConcepts"`
	VisualGuide       string      `json:"visualGuide"`
	ExamFocus         string      `json:"examFocus"`
	PracticeQuestions []Question  `json:"practiceQuestions"`
	Slides            []Slide     `json:"slides"`
	Flashcards        []Flashcard `json:"flashcards"`
	Subject           Subject     `json:"subject"`
}

// Question is a multiple-choice question. CorrectAnswer indexes Options.
type Question struct {
	ID            string   `json:"id"`
	Text          string   `json:"text"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correctAnswer"`
	Explanation   string   `json:"explanation"`
	Difficulty    string   `json:"difficulty,omitempty"`
}

// Slide is one slide of a generated deck.
type Slide struct {
	Title            string   `json:"title"`
	Bullets          []string `json:"bullets"`
	ImageDescription string   `json:"imageDescription"`
	Notes            string   `json:"notes,omitempty"`
}

// Flashcard is a front/back revision card.
type Flashcard struct {
	Front string `json:"front"`
	Back  string `json:"back"`
}

// Conversation roles used in history windows.
const (
	RoleStudent = "user"
	RoleTutor   = "tutor"
)

// TurnSummary is one prior conversation turn sent as context.
type TurnSummary struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// PathStep is one step of a sequence puzzle. Order is its 0-based correct
// position.
type PathStep struct {
	ID    string `json:"id"`
	Text  string `json:"text"`
	Order int    `json:"order"`
}

// SequencePuzzle is the payload of the sequence-ordering game.
type SequencePuzzle struct {
	Title string     `json:"title"`
	Steps []PathStep `json:"steps"`
}

// LabeledPart is one labelled region of a label puzzle.
type LabeledPart struct {
	ID          string `json:"id"`
	Label       string `json:"label"`
	Description string `json:"description"`
}

// LabelPuzzle is the payload of the label-matching game. ImageURL is a
// data URL, or empty when no illustration could be produced.
type LabelPuzzle struct {
	Title    string        `json:"title"`
	ImageURL string        `json:"imageUrl"`
	Parts    []LabeledPart `json:"parts"`
}

// ExamOutline is a high-yield revision outline for one topic.
type ExamOutline struct {
	Topic         string   `json:"topic"`
	Subject       Subject  `json:"subject"`
	OutlinePoints []string `json:"outlinePoints"`
}

// Depth selects how much detail lecturer notes carry.
type Depth string

const (
	DepthSummary  Depth = "summary"
	DepthDetailed Depth = "detailed"
)

// LecturerNotes are classroom-ready teaching notes.
type LecturerNotes struct {
	Title               string   `json:"title"`
	Content             string   `json:"content"`
	Depth               Depth    `json:"depth"`
	KeyConcepts         []string `json:"keyConcepts"`
	ClinicalPearls      []string `json:"clinicalPearls"`
	DiagramDescriptions []string `json:"diagramDescriptions"`
}

// LessonPlan is a timed lesson structure.
type LessonPlan struct {
	Title           string          `json:"title"`
	Duration        string          `json:"duration"`
	Objectives      []string        `json:"objectives"`
	Structure       []LessonSegment `json:"structure"`
	GroupActivities []string        `json:"groupActivities"`
}

// LessonSegment is one timed block of a lesson plan.
type LessonSegment struct {
	Time     string `json:"time"`
	Activity string `json:"activity"`
	Method   string `json:"method"`
}

// QuestionBank is a lecturer question bank.
type QuestionBank struct {
	Topic        string        `json:"topic"`
	MCQs         []Question    `json:"mcqs"`
	ShortAnswers []ShortAnswer `json:"shortAnswers"`
	CaseStudies  []CaseStudy   `json:"caseStudies"`
}

// ShortAnswer is a free-response question with its model answer.
type ShortAnswer struct {
	Question  string `json:"question"`
	Answer    string `json:"answer"`
	Rationale string `json:"rationale"`
}

// CaseStudy is a clinical scenario with paired questions and answers.
type CaseStudy struct {
	Scenario  string   `json:"scenario"`
	Questions []string `json:"questions"`
	Answers   []string `json:"answers"`
}
