package catalog

import (
	"encoding/json"
	"errors"
	"strings"
)

// QuizPayload is the payload shape for content items of kind "quiz".
type QuizPayload struct {
	Question    string       `json:"question"`
	Options     []QuizOption `json:"options"`
	Explanation string       `json:"explanation,omitempty"`
}

type QuizOption struct {
	ID      string `json:"id"`
	Text    string `json:"text"`
	Correct bool   `json:"correct,omitempty"`
}

var (
	ErrNotQuiz         = errors.New("content item is not a quiz")
	ErrMalformedQuiz   = errors.New("quiz payload is malformed")
	ErrNoCorrectOption = errors.New("quiz has no option marked correct")
)

// ParseQuizPayload decodes and validates a quiz content item. A valid quiz
// carries at least two options with exactly one marked correct; anything
// else is an authoring defect surfaced to the caller.
func ParseQuizPayload(item *ContentItem) (*QuizPayload, error) {
	if item == nil || item.Kind != KindQuiz {
		return nil, ErrNotQuiz
	}
	var p QuizPayload
	if err := json.Unmarshal(item.Payload, &p); err != nil {
		return nil, errors.Join(ErrMalformedQuiz, err)
	}
	if len(p.Options) < 2 {
		return nil, ErrMalformedQuiz
	}
	correct := 0
	for _, opt := range p.Options {
		if strings.TrimSpace(opt.ID) == "" {
			return nil, ErrMalformedQuiz
		}
		if opt.Correct {
			correct++
		}
	}
	if correct == 0 {
		return nil, ErrNoCorrectOption
	}
	if correct > 1 {
		return nil, ErrMalformedQuiz
	}
	return &p, nil
}

// CorrectOption returns the single option marked correct.
func (p *QuizPayload) CorrectOption() QuizOption {
	for _, opt := range p.Options {
		if opt.Correct {
			return opt
		}
	}
	return QuizOption{}
}
