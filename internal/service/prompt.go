package service

import (
	"fmt"

	"pdf-quiz/internal/domain"
)

// MaxPromptSourceRunes is how much of the source text is sent to the model.
const MaxPromptSourceRunes = 5000

const quizPromptTemplate = `Generate a quiz based on the following text. Create %d multiple-choice questions (MCQs), %d true/false questions, and %d fill-in-the-blank questions. Respond with ONLY a JSON object in the following format:
{
    "mcq": [
        {
            "question": "Question text",
            "options": ["Option A", "Option B", "Option C", "Option D"],
            "correctAnswer": "Correct option"
        }
    ],
    "trueFalse": [
        {
            "question": "Question text",
            "correctAnswer": true
        }
    ],
    "fillInTheBlank": [
        {
            "question": "Question text with %s for the blank",
            "correctAnswer": "Answer for the blank"
        }
    ]
}

Rules:
1. Every multiple-choice question has exactly %d options and its correctAnswer is one of them
2. correctAnswer for true/false questions is a JSON boolean (true or false)
3. Every fill-in-the-blank question contains %s where the answer belongs

Here is the text to base the quiz on: %s`

// BuildQuizPrompt returns the instruction sent to the model for text.
// Only the first MaxPromptSourceRunes code points of text are used.
func BuildQuizPrompt(text string) string {
	return fmt.Sprintf(quizPromptTemplate,
		domain.RequestedMultipleChoice, domain.RequestedTrueFalse, domain.RequestedFillInBlank,
		domain.BlankMarker,
		domain.MultipleChoiceOptions,
		domain.BlankMarker,
		truncateRunes(text, MaxPromptSourceRunes))
}

func truncateRunes(s string, n int) string {
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
