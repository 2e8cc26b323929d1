// Package contenttest provides canned provider payloads for tests of
// packages built on the content gateway.
package contenttest

import (
	"encoding/json"
	"fmt"

	"github.com/lennai/lennai/internal/content"
)

// JSON marshals v, panicking on failure.
func JSON(v any) json.RawMessage {
	data, err := json.Marshal(v)
	if err != nil {
		panic(fmt.Sprintf("contenttest: marshal: %v", err))
	}
	return data
}

// Questions returns n four-option questions whose correct answer is
// always option index correct.
func Questions(n, correct int) []content.Question {
	qs := make([]content.Question, n)
	for i := range qs {
		qs[i] = content.Question{
			ID:            fmt.Sprintf("q%d", i+1),
			Text:          fmt.Sprintf("Question %d?", i+1),
			Options:       []string{"A", "B", "C", "D"},
			CorrectAnswer: correct,
			Explanation:   "Because.",
			Difficulty:    "Exam-level",
		}
	}
	return qs
}

// StructuredContent returns a complete tutoring unit for topic.
func StructuredContent(topic string, subject content.Subject) content.StructuredContent {
	return content.StructuredContent{
		TopicTitle:        topic,
		SimpleExplanation: topic + " explained simply.",
		KeyConcepts:       []string{"First concept", "Second concept"},
		VisualGuide:       "A labelled diagram.",
		ExamFocus:         "Commonly tested.",
		PracticeQuestions: Questions(2, 1),
		Slides: []content.Slide{{
			Title:            topic,
			Bullets:          []string{"Point one", "Point two", "Point three"},
			ImageDescription: "Diagram",
			Notes:            "Speaker notes",
		}},
		Flashcards: []content.Flashcard{{Front: "What is " + topic + "?", Back: "A topic."}},
		Subject:    subject,
	}
}

// StructuredContentJSON is StructuredContent as a provider payload.
func StructuredContentJSON(topic string, subject content.Subject) json.RawMessage {
	return JSON(StructuredContent(topic, subject))
}

// QuestionSetJSON wraps questions the way the question-set schema expects.
func QuestionSetJSON(qs []content.Question) json.RawMessage {
	return JSON(map[string]any{"questions": qs})
}

// SequencePuzzle returns a puzzle of n steps in authoritative order.
func SequencePuzzle(n int) content.SequencePuzzle {
	steps := make([]content.PathStep, n)
	for i := range steps {
		steps[i] = content.PathStep{ID: fmt.Sprintf("s%d", i), Text: fmt.Sprintf("Step %d", i+1), Order: i}
	}
	return content.SequencePuzzle{Title: "Cardiac cycle", Steps: steps}
}

// LabelMetadataJSON is the first-stage payload of a label puzzle with one
// part per label.
func LabelMetadataJSON(title, imagePrompt string, labels ...string) json.RawMessage {
	parts := make([]content.LabeledPart, len(labels))
	for i, l := range labels {
		parts[i] = content.LabeledPart{ID: fmt.Sprintf("p%d", i+1), Label: l, Description: l + " description"}
	}
	return JSON(map[string]any{"title": title, "imagePrompt": imagePrompt, "parts": parts})
}
