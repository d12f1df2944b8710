package dto

import "pdf-quiz/internal/domain"

// UploadResponse represents a processed upload in the API response
// @Description Text extracted from an uploaded PDF
type UploadResponse struct {
	Message       string `json:"message"`
	UploadID      string `json:"uploadId"`
	Filename      string `json:"filename"`
	ExtractedText string `json:"extractedText"`
	PageCount     int    `json:"pageCount"`
	WordCount     int    `json:"wordCount"`
}

// GenerateQuizRequest represents the body of a quiz generation request
// @Description Source text for quiz generation
type GenerateQuizRequest struct {
	Text string `json:"text"`
}

// MultipleChoiceQuestionResponse is one multiple-choice question
type MultipleChoiceQuestionResponse struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correctAnswer"`
}

// TrueFalseQuestionResponse is one true/false question
type TrueFalseQuestionResponse struct {
	Question      string `json:"question"`
	CorrectAnswer bool   `json:"correctAnswer"`
}

// FillInBlankQuestionResponse is one fill-in-the-blank question
type FillInBlankQuestionResponse struct {
	Question      string `json:"question"`
	CorrectAnswer string `json:"correctAnswer"`
}

// QuizResponse represents a generated quiz in the API response
// @Description Generated quiz
type QuizResponse struct {
	MultipleChoice []MultipleChoiceQuestionResponse `json:"mcq"`
	TrueFalse      []TrueFalseQuestionResponse      `json:"trueFalse"`
	FillInBlank    []FillInBlankQuestionResponse    `json:"fillInTheBlank"`
}

// NewQuizResponse maps a domain quiz to its API shape. Collections are never nil.
func NewQuizResponse(q *domain.Quiz) *QuizResponse {
	resp := &QuizResponse{
		MultipleChoice: []MultipleChoiceQuestionResponse{},
		TrueFalse:      []TrueFalseQuestionResponse{},
		FillInBlank:    []FillInBlankQuestionResponse{},
	}
	if q == nil {
		return resp
	}
	for _, m := range q.MultipleChoice {
		options := m.Options
		if options == nil {
			options = []string{}
		}
		resp.MultipleChoice = append(resp.MultipleChoice, MultipleChoiceQuestionResponse{
			Question:      m.Question,
			Options:       options,
			CorrectAnswer: m.CorrectAnswer,
		})
	}
	for _, tf := range q.TrueFalse {
		resp.TrueFalse = append(resp.TrueFalse, TrueFalseQuestionResponse{
			Question:      tf.Question,
			CorrectAnswer: tf.CorrectAnswer,
		})
	}
	for _, fb := range q.FillInBlank {
		resp.FillInBlank = append(resp.FillInBlank, FillInBlankQuestionResponse{
			Question:      fb.Question,
			CorrectAnswer: fb.CorrectAnswer,
		})
	}
	return resp
}

// CredentialStatusResponse reports whether quiz generation is configured
type CredentialStatusResponse struct {
	Configured bool `json:"configured"`
}

// ErrorResponse represents an error in the API response
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}
