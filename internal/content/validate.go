package content

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

const (
	// QuestionSetSize is the number of questions per quiz round.
	QuestionSetSize = 5

	// LabelPartCount is the number of parts requested for a label puzzle.
	LabelPartCount = 4

	// DefaultLabelTitle is used when the provider leaves the title blank.
	DefaultLabelTitle = "Anatomical Labeling Challenge"

	minSequenceSteps = 2
	minLabelParts    = 2
)

// checkQuestions enforces the option and answer-index rules and gives
// every question a unique id.
func checkQuestions(field string, qs []Question) error {
	seen := make(map[string]bool, len(qs))
	for i := range qs {
		q := &qs[i]
		name := fmt.Sprintf("%s[%d]", field, i)
		if strings.TrimSpace(q.Text) == "" {
			return invalid(name+".text", "empty question text")
		}
		if len(q.Options) < 2 {
			return invalid(name+".options", "need at least 2 options, got %d", len(q.Options))
		}
		if q.CorrectAnswer < 0 || q.CorrectAnswer >= len(q.Options) {
			return invalid(name+".correctAnswer", "index %d out of range for %d options", q.CorrectAnswer, len(q.Options))
		}
		q.ID = strings.TrimSpace(q.ID)
		if q.ID == "" || seen[q.ID] {
			q.ID = uuid.NewString()
		}
		seen[q.ID] = true
	}
	return nil
}

func checkStructuredContent(sc *StructuredContent) error {
	if strings.TrimSpace(sc.TopicTitle) == "" {
		return invalid("topicTitle", "empty")
	}
	if err := checkQuestions("practiceQuestions", sc.PracticeQuestions); err != nil {
		return err
	}
	for i, s := range sc.Slides {
		if strings.TrimSpace(s.Title) == "" {
			return invalid(fmt.Sprintf("slides[%d].title", i), "empty")
		}
	}
	sc.Subject = ParseSubject(string(sc.Subject))
	return nil
}

func checkQuestionSet(qs []Question) ([]Question, error) {
	if len(qs) == 0 {
		return nil, invalid("questions", "no questions returned")
	}
	if len(qs) > QuestionSetSize {
		qs = qs[:QuestionSetSize]
	}
	if err := checkQuestions("questions", qs); err != nil {
		return nil, err
	}
	return qs, nil
}

// checkSequencePuzzle requires the order values to be exactly 0..n-1.
func checkSequencePuzzle(p *SequencePuzzle) error {
	n := len(p.Steps)
	if n < minSequenceSteps {
		return invalid("steps", "need at least %d steps, got %d", minSequenceSteps, n)
	}
	seenOrder := make([]bool, n)
	seenID := make(map[string]bool, n)
	for i := range p.Steps {
		s := &p.Steps[i]
		if s.Order < 0 || s.Order >= n {
			return invalid(fmt.Sprintf("steps[%d].order", i), "%d outside 0..%d", s.Order, n-1)
		}
		if seenOrder[s.Order] {
			return invalid(fmt.Sprintf("steps[%d].order", i), "duplicate order %d", s.Order)
		}
		seenOrder[s.Order] = true
		if strings.TrimSpace(s.Text) == "" {
			return invalid(fmt.Sprintf("steps[%d].text", i), "empty")
		}
		s.ID = strings.TrimSpace(s.ID)
		if s.ID == "" || seenID[s.ID] {
			s.ID = uuid.NewString()
		}
		seenID[s.ID] = true
	}
	return nil
}

// checkLabelParts requires distinct, non-empty labels so a choice
// identifies exactly one part.
func checkLabelParts(parts []LabeledPart) error {
	if len(parts) < minLabelParts {
		return invalid("parts", "need at least %d parts, got %d", minLabelParts, len(parts))
	}
	seenLabel := make(map[string]bool, len(parts))
	seenID := make(map[string]bool, len(parts))
	for i := range parts {
		p := &parts[i]
		p.Label = strings.TrimSpace(p.Label)
		if p.Label == "" {
			return invalid(fmt.Sprintf("parts[%d].label", i), "empty")
		}
		key := strings.ToLower(p.Label)
		if seenLabel[key] {
			return invalid(fmt.Sprintf("parts[%d].label", i), "duplicate label %q", p.Label)
		}
		seenLabel[key] = true
		p.ID = strings.TrimSpace(p.ID)
		if p.ID == "" || seenID[p.ID] {
			p.ID = uuid.NewString()
		}
		seenID[p.ID] = true
	}
	return nil
}

func checkExamOutline(o *ExamOutline) error {
	if len(o.OutlinePoints) == 0 {
		return invalid("outlinePoints", "empty")
	}
	o.Subject = ParseSubject(string(o.Subject))
	return nil
}

func checkQuestionBank(b *QuestionBank) error {
	return checkQuestions("mcqs", b.MCQs)
}

// ParseDepth accepts "summary" or "detailed"; anything else is detailed.
func ParseDepth(s string) Depth {
	if strings.EqualFold(strings.TrimSpace(s), string(DepthSummary)) {
		return DepthSummary
	}
	return DepthDetailed
}
