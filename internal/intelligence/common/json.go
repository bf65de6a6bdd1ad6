package common

import (
	"encoding/json"
	"strings"

	"github.com/praxislegal/lexia/pkg/errors"
)

// DecodeJSON parses a model response into v. Providers occasionally wrap
// the document in a markdown fence or leading prose even when asked for
// bare JSON, so the decoder trims to the outermost JSON value first.
func DecodeJSON(text string, v interface{}) error {
	cleaned := extractJSON(text)
	if cleaned == "" {
		return errors.New(errors.ErrCodeModelResponseMalformed, "response contains no JSON document")
	}
	if err := json.Unmarshal([]byte(cleaned), v); err != nil {
		return errors.Wrap(err, errors.ErrCodeModelResponseMalformed, "decode model JSON")
	}
	return nil
}

func extractJSON(text string) string {
	s := strings.TrimSpace(text)
	if fenced, ok := stripFence(s); ok {
		s = fenced
	}
	start := strings.IndexAny(s, "{[")
	if start < 0 {
		return ""
	}
	var closer byte
	if s[start] == '{' {
		closer = '}'
	} else {
		closer = ']'
	}
	end := strings.LastIndexByte(s, closer)
	if end <= start {
		return ""
	}
	return s[start : end+1]
}

func stripFence(s string) (string, bool) {
	if !strings.HasPrefix(s, "```") {
		return "", false
	}
	body := strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(body, '\n'); nl >= 0 {
		// Drop the language tag line ("json" etc).
		body = body[nl+1:]
	}
	if end := strings.LastIndex(body, "```"); end >= 0 {
		body = body[:end]
	}
	return strings.TrimSpace(body), true
}
