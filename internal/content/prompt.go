package content

import (
	"fmt"
	"strings"
)

const studyAidOutput = `
OUTPUT STRUCTURE (MANDATORY ORDER):
- Topic Title
- Simple Explanation
- Key Points
- Visual Guide Description
- Exam Focus
- Practice Questions (NCLEX-style, correctAnswer is the 0-based option index)
- Slides Section (3-6 bullets each, title, image description)
- Flashcards Section (Q/A format for exam prep)`

const chatSystemPrompt = `You are Lennai, an AI Learning Assistant for nursing and health science students.
SECTION: CHATBOT (QUESTION-BASED LEARNING)

Rules:
- Treat the student's question as the learning topic.
- Identify the subject and explain in simple language.
- Use the conversation so far only to resolve follow-up questions.
- Generate a visual guide description and practice questions.
- Generate concise slides and Q/A flashcards for the topic.` + "\n" + studyAidOutput

const materialSystemPrompt = `You are Lennai, an AI Learning Assistant for nursing and health science students.
SECTION: MATERIAL UPLOAD (DOCUMENT ANALYSIS)

Rules:
- Treat the uploaded document as the ONLY source of context. Do not bring in unrelated topics.
- Identify the subject and stay strictly within it.
- No chat-style interaction.
- Analyze images (diagrams, scans, labels) and documents fully.` + "\n" + studyAidOutput

const practiceSystemPrompt = `You are Lennai, an exam-preparation assistant for nursing and health science students.

Rules:
- Maintain absolute medical accuracy.
- Multiple choice questions have 4 options with exactly one correct answer; correctAnswer is its 0-based index.
- Distractors should reflect common clinical misconceptions.
- Every question carries a rationale in its explanation.`

const lecturerSystemPrompt = `You are Lennai, a high-level AI Teaching Assistant for nursing and medical science lecturers.
Your goal is to assist educators in curriculum preparation and material synthesis.

Core tasks:
1. Architect teaching-friendly notes (summary or deep-dive).
2. Generate NCLEX-style question banks (MCQs, short answers, case studies).
3. Design structured lesson plans with timed activities.

Behavior:
- Maintain absolute medical accuracy and subject fidelity.
- Format content to be classroom-ready.
- Focus on student engagement and high-yield examination requirements.`

const materialInstruction = "Analyze the uploaded clinical material thoroughly and generate study aids."

// buildTutorMessage renders the history window as labelled lines followed
// by the new question.
func buildTutorMessage(question string, history []TurnSummary) string {
	var b strings.Builder
	for _, turn := range history {
		fmt.Fprintf(&b, "%s: %s\n", speakerLabel(turn.Role), turn.Content)
	}
	fmt.Fprintf(&b, "Question: %s", question)
	return b.String()
}

func speakerLabel(role string) string {
	if role == RoleTutor {
		return "Tutor"
	}
	return "Student"
}

func buildQuestionSetMessage(topic, difficulty string, subject Subject) string {
	return fmt.Sprintf("Generate %d %s NCLEX-style questions about %s (%s).", QuestionSetSize, difficulty, topic, subject)
}

func buildSequenceMessage(subject Subject) string {
	return fmt.Sprintf("Create a sequence game for %s: pick one clinical or physiological process and break it into 4-8 ordered steps.", subject)
}

func buildLabelMessage(subject Subject) string {
	return fmt.Sprintf("Create a labelling game for %s. Provide %d key parts with distinct labels and an image prompt for the illustration.", subject, LabelPartCount)
}

func buildExamOutlineMessage(topic string) string {
	return fmt.Sprintf("High-yield nursing exam outline for: %s.", topic)
}

func buildNotesMessage(topic string, depth Depth) string {
	return fmt.Sprintf("Generate %s teaching notes for the topic: %s.", depth, topic)
}

func buildLessonPlanMessage(topic string) string {
	return fmt.Sprintf("Design a comprehensive lesson plan for: %s.", topic)
}

func buildQuestionBankMessage(topic string) string {
	return fmt.Sprintf("Generate a large, diverse question bank for: %s. Include MCQs, short answers, and a case study.", topic)
}

// enhanceImagePrompt injects the fixed style and accuracy constraints.
// Callers cannot override them.
func enhanceImagePrompt(raw string) string {
	return strings.Join([]string{
		"[TASK]: Generate a medically accurate, professional-grade educational illustration.",
		"[CONTEXT]: Nursing students for clinical learning and NCLEX preparation.",
		"[REFERENCES]: High-fidelity anatomical accuracy (Gray's Anatomy/Netter's).",
		"[EVALUATION CRITERIA]: Clean, clinical style, white background, no artistic distortion.",
		"[CONTENT]: " + strings.TrimSpace(raw),
	}, "\n")
}
