// Package render formats quizzes for terminals.
package render

import (
	"fmt"
	"io"
	"strings"

	"pdf-quiz/internal/domain"
)

const optionLabels = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// Quiz writes q as numbered plain text. Answers are printed only when
// showAnswers is set.
func Quiz(w io.Writer, q *domain.Quiz, showAnswers bool) error {
	p := &printer{w: w}
	if q == nil || q.QuestionCount() == 0 {
		p.line("No questions generated.")
		return p.err
	}

	n := 0
	if len(q.MultipleChoice) > 0 {
		p.line("Multiple Choice")
		p.line(strings.Repeat("-", len("Multiple Choice")))
		for _, m := range q.MultipleChoice {
			n++
			p.linef("%d. %s", n, m.Question)
			for i, opt := range m.Options {
				p.linef("   %s) %s", label(i), opt)
			}
			if showAnswers {
				p.linef("   Answer: %s", m.CorrectAnswer)
			}
		}
		p.line("")
	}

	if len(q.TrueFalse) > 0 {
		p.line("True or False")
		p.line(strings.Repeat("-", len("True or False")))
		for _, tf := range q.TrueFalse {
			n++
			p.linef("%d. %s", n, tf.Question)
			if showAnswers {
				p.linef("   Answer: %s", trueFalse(tf.CorrectAnswer))
			}
		}
		p.line("")
	}

	if len(q.FillInBlank) > 0 {
		p.line("Fill in the Blank")
		p.line(strings.Repeat("-", len("Fill in the Blank")))
		for _, fb := range q.FillInBlank {
			n++
			p.linef("%d. %s", n, fb.Question)
			if showAnswers {
				p.linef("   Answer: %s", fb.CorrectAnswer)
			}
		}
	}
	return p.err
}

func label(i int) string {
	if i < len(optionLabels) {
		return optionLabels[i : i+1]
	}
	return fmt.Sprint(i + 1)
}

func trueFalse(b bool) string {
	if b {
		return "True"
	}
	return "False"
}

// printer keeps the first write error.
type printer struct {
	w   io.Writer
	err error
}

func (p *printer) line(s string) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintln(p.w, s)
}

func (p *printer) linef(format string, args ...any) {
	p.line(fmt.Sprintf(format, args...))
}
