package service

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"

	"pdf-quiz/internal/domain"
)

var errNoOpeningBrace = errors.New("completion contains no '{'")

// ParseQuizCompletion pulls the quiz object out of free-form model output.
// It fails with NO_JSON_FOUND when the text has no '{' and MALFORMED_JSON
// when the candidate does not decode into a Quiz. Collections are never nil
// on success.
func ParseQuizCompletion(raw string) (*domain.Quiz, error) {
	cleaned := stripThinkBlocks(raw)

	start := strings.Index(cleaned, "{")
	if start == -1 {
		return nil, domain.NewNoJSONFoundError(errNoOpeningBrace)
	}
	candidate := cleaned[start:]
	if end := strings.LastIndex(candidate, "}"); end != -1 {
		candidate = candidate[:end+1]
	}

	var quiz domain.Quiz
	dec := json.NewDecoder(bytes.NewReader([]byte(candidate)))
	if err := dec.Decode(&quiz); err != nil {
		return nil, domain.NewMalformedJSONError(err)
	}
	if rest := candidate[dec.InputOffset():]; strings.TrimSpace(rest) != "" {
		return nil, domain.NewMalformedJSONError(errors.New("trailing data after quiz object"))
	}

	quiz.Normalize()
	return &quiz, nil
}

// stripThinkBlocks removes <think>...</think> sections emitted by reasoning models.
// An unterminated block is left alone.
func stripThinkBlocks(s string) string {
	const openTag, closeTag = "<think>", "</think>"
	for {
		start := strings.Index(s, openTag)
		if start == -1 {
			return s
		}
		end := strings.Index(s[start:], closeTag)
		if end == -1 {
			return s
		}
		s = s[:start] + s[start+end+len(closeTag):]
	}
}
