package service

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/kaptinlin/jsonrepair"
	"github.com/lshigami/studyhub-ai/internal/dto"
	"github.com/rs/zerolog/log"
)

// ParseQuestions is the only place raw model text becomes questions. Fences
// are stripped, the JSON is repaired if strict parsing fails, and the result
// must be a bare array or an object with a "data" array. Items failing the
// question schema are dropped. A non-nil error is always a *ParseError.
func ParseQuestions(text string) ([]dto.GeneratedQuestion, error) {
	raw, perr := cleanJSON(text)
	if perr != nil {
		return nil, perr
	}

	items, perr := questionItems(raw)
	if perr != nil {
		return nil, perr
	}
	if len(items) == 0 {
		return nil, nil
	}

	questions := make([]dto.GeneratedQuestion, 0, len(items))
	dropped := 0
	for i, item := range items {
		q, err := decodeQuestion(item)
		if err != nil {
			dropped++
			log.Debug().Err(err).Int("item", i).Msg("Dropping malformed generated question")
			continue
		}
		questions = append(questions, q)
	}
	if dropped > 0 {
		log.Warn().Int("dropped", dropped).Int("kept", len(questions)).Msg("Generated questions failed shape check")
	}
	if len(questions) == 0 {
		return nil, newParseError(ParseErrorShape, string(raw), errors.New("no item matched the question schema"))
	}
	return questions, nil
}

// cleanJSON pulls the JSON out of a model answer and returns it in a
// syntactically valid form. Prose around the payload is cut off, and the
// payload is repaired when the strict form does not parse.
func cleanJSON(text string) ([]byte, *ParseError) {
	s := stripCodeFences(text)
	if s == "" {
		return nil, newParseError(ParseErrorEmpty, text, nil)
	}
	if json.Valid([]byte(s)) {
		return []byte(s), nil
	}

	start := strings.IndexAny(s, "[{")
	if start > 0 {
		s = s[start:]
	}
	if end := strings.LastIndexAny(s, "]}"); start >= 0 && end >= 0 && json.Valid([]byte(s[:end+1])) {
		return []byte(s[:end+1]), nil
	}

	repaired, err := jsonrepair.JSONRepair(s)
	if err != nil {
		return nil, newParseError(ParseErrorSyntax, s, err)
	}
	if !json.Valid([]byte(repaired)) {
		return nil, newParseError(ParseErrorSyntax, s, errors.New("repaired text is still not valid JSON"))
	}
	return []byte(repaired), nil
}

// stripCodeFences returns the body of the first fenced block, wherever it
// sits in the text. Text without a fence is returned trimmed. An unclosed
// fence runs to the end of the text.
func stripCodeFences(src string) string {
	s := strings.TrimSpace(src)
	open := strings.Index(s, "```")
	if open < 0 {
		return s
	}

	body := s[open+3:]
	if nl := strings.IndexByte(body, '\n'); nl >= 0 && !strings.ContainsAny(body[:nl], "[{") {
		body = body[nl+1:] // language tag
	} else {
		body = strings.TrimPrefix(body, "json")
	}
	if end := strings.Index(body, "```"); end >= 0 {
		body = body[:end]
	}
	return strings.TrimSpace(body)
}

func questionItems(raw []byte) ([]json.RawMessage, *ParseError) {
	raw = bytes.TrimSpace(raw)
	switch {
	case len(raw) == 0:
		return nil, newParseError(ParseErrorEmpty, "", nil)
	case raw[0] == '[':
		var items []json.RawMessage
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, newParseError(ParseErrorSyntax, string(raw), err)
		}
		return items, nil
	case raw[0] == '{':
		var wrapper struct {
			Data json.RawMessage `json:"data"`
		}
		if err := json.Unmarshal(raw, &wrapper); err != nil {
			return nil, newParseError(ParseErrorSyntax, string(raw), err)
		}
		var items []json.RawMessage
		if len(wrapper.Data) == 0 || json.Unmarshal(wrapper.Data, &items) != nil {
			return nil, newParseError(ParseErrorShape, string(raw), errors.New(`object has no "data" array`))
		}
		return items, nil
	default:
		return nil, newParseError(ParseErrorShape, string(raw), errors.New("expected an array or an object"))
	}
}

func decodeQuestion(item json.RawMessage) (dto.GeneratedQuestion, error) {
	if err := validateAgainst("question", questionSchema, item); err != nil {
		return dto.GeneratedQuestion{}, err
	}

	var wire struct {
		Type        string          `json:"type"`
		Skill       string          `json:"skill"`
		Topic       json.RawMessage `json:"topic"`
		Question    string          `json:"question"`
		Options     []string        `json:"options"`
		Answer      string          `json:"answer"`
		Explanation string          `json:"explanation"`
	}
	if err := json.Unmarshal(item, &wire); err != nil {
		return dto.GeneratedQuestion{}, fmt.Errorf("decode question: %w", err)
	}

	return dto.GeneratedQuestion{
		Type:        wire.Type,
		Skill:       wire.Skill,
		Topic:       topicList(wire.Topic),
		Question:    wire.Question,
		Options:     wire.Options,
		Answer:      wire.Answer,
		Explanation: wire.Explanation,
	}, nil
}

func topicList(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return []string{}
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return list
	}
	var single string
	if err := json.Unmarshal(raw, &single); err == nil && single != "" {
		return []string{single}
	}
	return []string{}
}
