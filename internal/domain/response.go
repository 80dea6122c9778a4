package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

// DefaultResponseText is substituted when the model omits the response field entirely.
const DefaultResponseText = "No relevant information found."

// PlatformLink is a social or learning platform reference.
type PlatformLink struct {
	Platform string `json:"platform"`
	URL      string `json:"url"`
}

// PersonalInfo is a single contact detail, e.g. {type: "Gmail", value: "..."}.
type PersonalInfo struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

// StructuredResponse is the fixed-schema answer contract returned to every caller.
// Model output is coerced into it field-by-field, never trusted verbatim.
type StructuredResponse struct {
	Response     string         `json:"response"`
	Links        []PlatformLink `json:"links"`
	MediaLinks   []string       `json:"media_links"`
	PersonalInfo []PersonalInfo `json:"personal_info"`
}

// NewErrorResponse wraps a failure into a well-formed StructuredResponse so the
// voice path can always deliver a terminal frame.
func NewErrorResponse(err error) *StructuredResponse {
	return &StructuredResponse{
		Response:     fmt.Sprintf("Error: %v", err),
		Links:        []PlatformLink{},
		MediaLinks:   []string{},
		PersonalInfo: []PersonalInfo{},
	}
}

// CoerceResponse validates and defaults raw model output into a StructuredResponse.
// Output that is not a JSON object becomes the response text wholesale; missing
// fields default to empty lists. The response field falls back to
// DefaultResponseText only when absent, not when present but empty.
func CoerceResponse(raw string) *StructuredResponse {
	out := &StructuredResponse{
		Links:        []PlatformLink{},
		MediaLinks:   []string{},
		PersonalInfo: []PersonalInfo{},
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(stripCodeFence(raw)), &fields); err != nil || fields == nil {
		out.Response = raw
		return out
	}

	if msg, ok := fields["response"]; ok {
		var text string
		if err := json.Unmarshal(msg, &text); err == nil {
			out.Response = text
		} else {
			out.Response = string(msg)
		}
	} else {
		out.Response = DefaultResponseText
	}

	if msg, ok := fields["links"]; ok {
		var links []PlatformLink
		if err := json.Unmarshal(msg, &links); err == nil && links != nil {
			out.Links = links
		}
	}

	if msg, ok := fields["media_links"]; ok {
		var media []string
		if err := json.Unmarshal(msg, &media); err == nil && media != nil {
			out.MediaLinks = media
		}
	}

	if msg, ok := fields["personal_info"]; ok {
		var info []PersonalInfo
		if err := json.Unmarshal(msg, &info); err == nil && info != nil {
			out.PersonalInfo = info
		}
	}

	return out
}

// stripCodeFence removes a surrounding markdown code fence, which chat models
// frequently wrap JSON output in despite instructions.
func stripCodeFence(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}

	trimmed = strings.TrimPrefix(trimmed, "```")
	if idx := strings.Index(trimmed, "\n"); idx >= 0 {
		head := strings.TrimSpace(trimmed[:idx])
		if head == "json" || head == "" {
			trimmed = trimmed[idx+1:]
		}
	}
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}
