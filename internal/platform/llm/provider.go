package llm

import (
	"context"
	"encoding/json"
	"strings"
)

// Provider is a single-shot text or structured-output completion backend.
type Provider interface {
	// Generate sends one request. When req.Schema is set the reply is
	// validated against it and returned in Response.JSON.
	Generate(ctx context.Context, req Request) (*Response, error)
	ModelID() string
}

type Request struct {
	System      string
	Messages    []Message
	Schema      *Schema
	MaxTokens   int
	Temperature float64
}

// UserRequest is the common one-user-message request shape.
func UserRequest(system, user string) Request {
	return Request{
		System:   system,
		Messages: []Message{{Role: RoleUser, Content: user}},
	}
}

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type Message struct {
	Role    Role
	Content string
}

// Schema is a named JSON Schema. Name doubles as the provider-side schema
// name, so keep it kebab-case.
type Schema struct {
	Name        string
	Description string
	Definition  map[string]any
}

type Response struct {
	// Text is the raw reply body.
	Text string
	// JSON holds the validated reply when the request carried a Schema.
	JSON       json.RawMessage
	Usage      Usage
	Model      string
	StopReason string
}

type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

func newResponse(text string, schema *Schema) (*Response, error) {
	resp := &Response{Text: text}
	if schema == nil {
		return resp, nil
	}
	raw := json.RawMessage(StripCodeFence(text))
	if err := validateResponse(schema, raw); err != nil {
		return nil, err
	}
	resp.JSON = raw
	return resp, nil
}

// StripCodeFence removes a ```json ... ``` wrapper some models add even in
// structured-output mode.
func StripCodeFence(s string) string {
	t := strings.TrimSpace(s)
	if !strings.HasPrefix(t, "```") {
		return t
	}
	t = strings.TrimPrefix(t, "```")
	if nl := strings.IndexByte(t, '\n'); nl >= 0 {
		t = t[nl+1:]
	}
	t = strings.TrimSuffix(strings.TrimSpace(t), "```")
	return strings.TrimSpace(t)
}

const (
	StopEnd       = "end"
	StopMaxTokens = "max_tokens"
)

// resolveModel maps a short alias to the provider model id; unknown names
// pass through unchanged.
func resolveModel(name string, aliases map[string]string) string {
	if id, ok := aliases[name]; ok {
		return id
	}
	return name
}
