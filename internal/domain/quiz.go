package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Counts requested from the generation service.
const (
	RequestedMultipleChoice = 5
	RequestedTrueFalse      = 3
	RequestedFillInBlank    = 2
	MultipleChoiceOptions   = 4
)

// BlankMarker marks the gap in a fill-in-the-blank question.
const BlankMarker = "_____"

// Quiz is the structured result of one generation request.
type Quiz struct {
	MultipleChoice []MultipleChoiceQuestion `json:"mcq"`
	TrueFalse      []TrueFalseQuestion      `json:"trueFalse"`
	FillInBlank    []FillInBlankQuestion    `json:"fillInTheBlank"`
}

type MultipleChoiceQuestion struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correctAnswer"`
}

type TrueFalseQuestion struct {
	Question      string `json:"question"`
	CorrectAnswer bool   `json:"correctAnswer"`
}

type FillInBlankQuestion struct {
	Question      string `json:"question"`
	CorrectAnswer string `json:"correctAnswer"`
}

// Normalize replaces nil collections with empty ones so the quiz always
// serializes as arrays.
func (q *Quiz) Normalize() {
	if q.MultipleChoice == nil {
		q.MultipleChoice = []MultipleChoiceQuestion{}
	}
	if q.TrueFalse == nil {
		q.TrueFalse = []TrueFalseQuestion{}
	}
	if q.FillInBlank == nil {
		q.FillInBlank = []FillInBlankQuestion{}
	}
	for i := range q.MultipleChoice {
		if q.MultipleChoice[i].Options == nil {
			q.MultipleChoice[i].Options = []string{}
		}
	}
}

// Validate checks the quiz against the shape requested in the prompt.
// All problems are reported together.
func (q *Quiz) Validate() error {
	var errs []error

	if n := len(q.MultipleChoice); n != RequestedMultipleChoice {
		errs = append(errs, fmt.Errorf("expected %d multiple-choice questions, got %d", RequestedMultipleChoice, n))
	}
	if n := len(q.TrueFalse); n != RequestedTrueFalse {
		errs = append(errs, fmt.Errorf("expected %d true/false questions, got %d", RequestedTrueFalse, n))
	}
	if n := len(q.FillInBlank); n != RequestedFillInBlank {
		errs = append(errs, fmt.Errorf("expected %d fill-in-the-blank questions, got %d", RequestedFillInBlank, n))
	}

	for i, mc := range q.MultipleChoice {
		if strings.TrimSpace(mc.Question) == "" {
			errs = append(errs, fmt.Errorf("mcq[%d]: empty question", i))
		}
		if len(mc.Options) != MultipleChoiceOptions {
			errs = append(errs, fmt.Errorf("mcq[%d]: expected %d options, got %d", i, MultipleChoiceOptions, len(mc.Options)))
		}
		if !mc.HasAnswerInOptions() {
			errs = append(errs, fmt.Errorf("mcq[%d]: correct answer %q is not one of the options", i, mc.CorrectAnswer))
		}
	}
	for i, tf := range q.TrueFalse {
		if strings.TrimSpace(tf.Question) == "" {
			errs = append(errs, fmt.Errorf("trueFalse[%d]: empty question", i))
		}
	}
	for i, fb := range q.FillInBlank {
		if !strings.Contains(fb.Question, "___") {
			errs = append(errs, fmt.Errorf("fillInTheBlank[%d]: question has no blank marker", i))
		}
		if strings.TrimSpace(fb.CorrectAnswer) == "" {
			errs = append(errs, fmt.Errorf("fillInTheBlank[%d]: empty answer", i))
		}
	}

	return errors.Join(errs...)
}

// HasAnswerInOptions reports whether CorrectAnswer equals one of Options.
func (m MultipleChoiceQuestion) HasAnswerInOptions() bool {
	for _, opt := range m.Options {
		if opt == m.CorrectAnswer {
			return true
		}
	}
	return false
}

// QuestionCount is the total number of questions across all collections.
func (q *Quiz) QuestionCount() int {
	return len(q.MultipleChoice) + len(q.TrueFalse) + len(q.FillInBlank)
}
