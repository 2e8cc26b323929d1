package content

import "github.com/lennai/lennai/internal/llm"

func stringArray(desc string) map[string]any {
	return map[string]any{
		"type":        "array",
		"items":       map[string]any{"type": "string"},
		"description": desc,
	}
}

func subjectProperty() map[string]any {
	enum := make([]any, len(Subjects))
	for i, s := range Subjects {
		enum[i] = string(s)
	}
	return map[string]any{
		"type":        "string",
		"enum":        enum,
		"description": "The subject area the content belongs to",
	}
}

// questionDefinition is shared by every schema that carries MCQs.
func questionDefinition() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"id": map[string]any{
				"type":        "string",
				"description": "Short unique identifier for the question",
			},
			"text": map[string]any{
				"type":        "string",
				"description": "The NCLEX-style question stem",
			},
			"options": stringArray("Answer options, at least 2, usually 4"),
			"correctAnswer": map[string]any{
				"type":        "integer",
				"minimum":     0,
				"description": "0-based index of the correct option",
			},
			"explanation": map[string]any{
				"type":        "string",
				"description": "Rationale for the correct answer",
			},
			"difficulty": map[string]any{
				"type":        "string",
				"description": "Difficulty label, e.g. Easy, Moderate, Exam-level",
			},
		},
		"required":             []any{"id", "text", "options", "correctAnswer", "explanation", "difficulty"},
		"additionalProperties": false,
	}
}

// StructuredContentSchema defines the tutoring unit shared by chat replies
// and material analysis.
var StructuredContentSchema = &llm.Schema{
	Name:        "structured-content",
	Description: "A complete study unit: explanation, key concepts, practice questions, slides and flashcards",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"topicTitle": map[string]any{
				"type":        "string",
				"description": "Short title naming the topic",
			},
			"simpleExplanation": map[string]any{
				"type":        "string",
				"description": "Plain-language explanation suitable for a nursing student",
			},
			"keyConcepts": stringArray("Key points to remember"),
			"visualGuide": map[string]any{
				"type":        "string",
				"description": "Description of a diagram that would illustrate the topic",
			},
			"examFocus": map[string]any{
				"type":        "string",
				"description": "What examiners most often test on this topic",
			},
			"practiceQuestions": map[string]any{
				"type":        "array",
				"items":       questionDefinition(),
				"description": "NCLEX-style practice questions",
			},
			"slides": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"title":            map[string]any{"type": "string"},
						"bullets":          stringArray("3-6 concise bullets"),
						"imageDescription": map[string]any{"type": "string"},
						"notes": map[string]any{
							"type":        "string",
							"description": "Optional speaker notes, empty string if none",
						},
					},
					"required":             []any{"title", "bullets", "imageDescription", "notes"},
					"additionalProperties": false,
				},
				"description": "Slide deck summarizing the topic",
			},
			"flashcards": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"front": map[string]any{"type": "string"},
						"back":  map[string]any{"type": "string"},
					},
					"required":             []any{"front", "back"},
					"additionalProperties": false,
				},
				"description": "Question/answer revision cards",
			},
			"subject": subjectProperty(),
		},
		"required": []any{
			"topicTitle", "simpleExplanation", "keyConcepts", "visualGuide", "examFocus",
			"practiceQuestions", "slides", "flashcards", "subject",
		},
		"additionalProperties": false,
	},
}

// QuestionSetSchema wraps the quiz questions in an object; not every
// provider accepts a top-level array.
var QuestionSetSchema = &llm.Schema{
	Name:        "question-set",
	Description: "A set of NCLEX-style multiple choice questions",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"questions": map[string]any{
				"type":  "array",
				"items": questionDefinition(),
			},
		},
		"required":             []any{"questions"},
		"additionalProperties": false,
	},
}

// SequencePuzzleSchema defines the sequence-ordering game payload.
var SequencePuzzleSchema = &llm.Schema{
	Name:        "sequence-puzzle",
	Description: "A clinical or physiological process broken into ordered steps",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"title": map[string]any{"type": "string"},
			"steps": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"id":   map[string]any{"type": "string"},
						"text": map[string]any{"type": "string"},
						"order": map[string]any{
							"type":        "integer",
							"minimum":     0,
							"description": "0-based correct position of the step",
						},
					},
					"required":             []any{"id", "text", "order"},
					"additionalProperties": false,
				},
				"description": "4-8 steps whose order values are exactly 0..n-1",
			},
		},
		"required":             []any{"title", "steps"},
		"additionalProperties": false,
	},
}

// labelMetadataSchema is the first stage of a label puzzle. The image
// prompt is consumed by the gateway and never returned to callers.
var labelMetadataSchema = &llm.Schema{
	Name:        "label-puzzle",
	Description: "An anatomical labelling challenge with its illustration prompt",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"title": map[string]any{"type": "string"},
			"imagePrompt": map[string]any{
				"type":        "string",
				"description": "Description of the illustration the parts refer to",
			},
			"parts": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"id":          map[string]any{"type": "string"},
						"label":       map[string]any{"type": "string"},
						"description": map[string]any{"type": "string"},
					},
					"required":             []any{"id", "label", "description"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []any{"title", "imagePrompt", "parts"},
		"additionalProperties": false,
	},
}

// ExamOutlineSchema defines the exam guide outline.
var ExamOutlineSchema = &llm.Schema{
	Name:        "exam-outline",
	Description: "High-yield exam revision outline",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"topic":         map[string]any{"type": "string"},
			"subject":       subjectProperty(),
			"outlinePoints": stringArray("High-yield points in revision order"),
		},
		"required":             []any{"topic", "subject", "outlinePoints"},
		"additionalProperties": false,
	},
}

// LecturerNotesSchema defines teaching notes.
var LecturerNotesSchema = &llm.Schema{
	Name:        "lecturer-notes",
	Description: "Classroom-ready teaching notes",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"title":   map[string]any{"type": "string"},
			"content": map[string]any{"type": "string"},
			"depth": map[string]any{
				"type": "string",
				"enum": []any{string(DepthSummary), string(DepthDetailed)},
			},
			"keyConcepts":         stringArray("Core concepts"),
			"clinicalPearls":      stringArray("Practical clinical pearls"),
			"diagramDescriptions": stringArray("Diagrams worth drawing on the board"),
		},
		"required":             []any{"title", "content", "depth", "keyConcepts", "clinicalPearls", "diagramDescriptions"},
		"additionalProperties": false,
	},
}

// LessonPlanSchema defines a timed lesson plan.
var LessonPlanSchema = &llm.Schema{
	Name:        "lesson-plan",
	Description: "A structured lesson plan with timed activities",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"title":      map[string]any{"type": "string"},
			"duration":   map[string]any{"type": "string"},
			"objectives": stringArray("Learning objectives"),
			"structure": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"time":     map[string]any{"type": "string"},
						"activity": map[string]any{"type": "string"},
						"method":   map[string]any{"type": "string"},
					},
					"required":             []any{"time", "activity", "method"},
					"additionalProperties": false,
				},
			},
			"groupActivities": stringArray("Group activities"),
		},
		"required":             []any{"title", "duration", "objectives", "structure", "groupActivities"},
		"additionalProperties": false,
	},
}

// QuestionBankSchema defines a lecturer question bank.
var QuestionBankSchema = &llm.Schema{
	Name:        "question-bank",
	Description: "A large NCLEX-style question bank with MCQs, short answers and case studies",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"topic": map[string]any{"type": "string"},
			"mcqs": map[string]any{
				"type":  "array",
				"items": questionDefinition(),
			},
			"shortAnswers": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"question":  map[string]any{"type": "string"},
						"answer":    map[string]any{"type": "string"},
						"rationale": map[string]any{"type": "string"},
					},
					"required":             []any{"question", "answer", "rationale"},
					"additionalProperties": false,
				},
			},
			"caseStudies": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"scenario":  map[string]any{"type": "string"},
						"questions": stringArray("Questions about the scenario"),
						"answers":   stringArray("Answers, one per question"),
					},
					"required":             []any{"scenario", "questions", "answers"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []any{"topic", "mcqs", "shortAnswers", "caseStudies"},
		"additionalProperties": false,
	},
}
