package bank

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/medoo24/quizbank/internal/errors"
	"github.com/medoo24/quizbank/internal/logger"
	"github.com/medoo24/quizbank/internal/models"
)

// FileSet is one question file handed to ingestion.
type FileSet struct {
	Filename string
	Raw      []byte
}

// wrapper is the object form of a question file: {meta?, questions: [...]}.
type wrapper struct {
	Meta      json.RawMessage `json:"meta"`
	Questions json.RawMessage `json:"questions"`
}

// flexID accepts a JSON string or number and normalizes it to a string.
type flexID string

func (f *flexID) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = flexID(n.String())
	return nil
}

type rawQuestion struct {
	ID            flexID   `json:"id"`
	Term          string   `json:"term"`
	Subject       string   `json:"subject"`
	Lesson        string   `json:"lesson"`
	Chapter       string   `json:"chapter"`
	Text          string   `json:"question"`
	Options       []string `json:"options"`
	CorrectOption int      `json:"correct_option_id"`
	Explanation   string   `json:"explanation"`
}

// ParseFile parses one question file payload. The payload must be a bare JSON
// array of question objects or an object exposing a questions array; any other
// top-level shape fails with a MALFORMED_INPUT error naming the file.
// Questions failing the structural shape check are skipped, not fatal.
func ParseFile(ctx context.Context, filename string, raw []byte) ([]models.Question, error) {
	log := logger.FromContext(ctx).WithPrefix("bank")

	arr, err := questionArray(raw)
	if err != nil {
		return nil, errors.NewMalformedInputError(filename, err)
	}

	var items []json.RawMessage
	if err := json.Unmarshal(arr, &items); err != nil {
		return nil, errors.NewMalformedInputError(filename, err)
	}

	schema, err := compiledQuestionSchema()
	if err != nil {
		return nil, errors.NewInternalError(err)
	}

	questions := make([]models.Question, 0, len(items))
	for i, item := range items {
		var shape any
		if err := json.Unmarshal(item, &shape); err != nil {
			log.Warn("skipping question %d in %s: invalid JSON: %v", i, filename, err)
			continue
		}
		if err := schema.Validate(shape); err != nil {
			log.Warn("skipping question %d in %s: shape check failed: %v", i, filename, err)
			continue
		}

		var rq rawQuestion
		dec := json.NewDecoder(bytes.NewReader(item))
		dec.UseNumber()
		if err := dec.Decode(&rq); err != nil {
			log.Warn("skipping question %d in %s: decode failed: %v", i, filename, err)
			continue
		}
		if rq.CorrectOption < 0 || rq.CorrectOption >= len(rq.Options) {
			log.Warn("skipping question %s in %s: correct_option_id %d out of range for %d options",
				rq.ID, filename, rq.CorrectOption, len(rq.Options))
			continue
		}

		questions = append(questions, models.Question{
			FileID:        filename,
			ID:            string(rq.ID),
			Term:          rq.Term,
			Subject:       rq.Subject,
			Lesson:        rq.Lesson,
			Chapter:       rq.Chapter,
			Text:          rq.Text,
			Options:       rq.Options,
			CorrectOption: rq.CorrectOption,
			Explanation:   rq.Explanation,
		})
	}

	log.Debug("parsed %s: %d of %d questions accepted", filename, len(questions), len(items))
	return questions, nil
}

// questionArray extracts the question array from a payload that is either a
// bare array or a wrapper object with a questions field.
func questionArray(raw []byte) (json.RawMessage, error) {
	trimmed := bytes.TrimLeft(raw, " \t\r\n")
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("empty payload")
	}
	switch trimmed[0] {
	case '[':
		return json.RawMessage(trimmed), nil
	case '{':
		var w wrapper
		if err := json.Unmarshal(trimmed, &w); err != nil {
			return nil, err
		}
		inner := bytes.TrimLeft(w.Questions, " \t\r\n")
		if len(inner) == 0 || inner[0] != '[' {
			return nil, fmt.Errorf("object payload has no questions array")
		}
		return json.RawMessage(inner), nil
	default:
		return nil, fmt.Errorf("unexpected top-level token %q", string(trimmed[0]))
	}
}
