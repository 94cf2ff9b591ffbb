package prompts

import (
	"bytes"
	"fmt"
	"strings"
	"sync"
	"text/template"

	"github.com/yungbote/udl-lesson-backend/internal/platform/llm"
)

// Spec is the declarative form of a prompt. System and User are
// text/templates over Input. Schema may be nil for free-text prompts.
type Spec struct {
	Name        PromptName
	Version     int
	SchemaName  string
	Description string
	Schema      func() map[string]any
	System      string
	User        string
	Validators  []Validator
}

type Template struct {
	spec   Spec
	system *template.Template
	user   *template.Template
}

// Prompt is a rendered, ready-to-send prompt.
type Prompt struct {
	Name       PromptName
	Version    int
	System     string
	User       string
	SchemaName string
	Schema     map[string]any
	schemaDesc string
}

var funcs = template.FuncMap{
	"inc":   func(i int) int { return i + 1 },
	"upper": strings.ToUpper,
}

func MakeTemplate(s Spec) (Template, error) {
	if strings.TrimSpace(string(s.Name)) == "" {
		return Template{}, fmt.Errorf("prompt: missing name")
	}
	if s.Version <= 0 {
		return Template{}, fmt.Errorf("prompt %s: invalid version %d", s.Name, s.Version)
	}
	if (s.Schema == nil) != (strings.TrimSpace(s.SchemaName) == "") {
		return Template{}, fmt.Errorf("prompt %s: schema and schema name must be set together", s.Name)
	}
	sys, err := template.New("system").Funcs(funcs).Option("missingkey=zero").Parse(s.System)
	if err != nil {
		return Template{}, fmt.Errorf("prompt %s: parse system: %w", s.Name, err)
	}
	user, err := template.New("user").Funcs(funcs).Option("missingkey=zero").Parse(s.User)
	if err != nil {
		return Template{}, fmt.Errorf("prompt %s: parse user: %w", s.Name, err)
	}
	return Template{spec: s, system: sys, user: user}, nil
}

func (t Template) Render(in Input) (Prompt, error) {
	for _, v := range t.spec.Validators {
		if v == nil {
			continue
		}
		if err := v(in); err != nil {
			return Prompt{}, fmt.Errorf("%s: %w", t.spec.Name, err)
		}
	}
	sys, err := execute(t.system, in)
	if err != nil {
		return Prompt{}, fmt.Errorf("%s: render system: %w", t.spec.Name, err)
	}
	user, err := execute(t.user, in)
	if err != nil {
		return Prompt{}, fmt.Errorf("%s: render user: %w", t.spec.Name, err)
	}
	p := Prompt{
		Name:       t.spec.Name,
		Version:    t.spec.Version,
		System:     sys,
		User:       user,
		SchemaName: strings.TrimSpace(t.spec.SchemaName),
		schemaDesc: t.spec.Description,
	}
	if t.spec.Schema != nil {
		p.Schema = t.spec.Schema()
	}
	return p, nil
}

func execute(t *template.Template, in Input) (string, error) {
	var b bytes.Buffer
	if err := t.Execute(&b, in); err != nil {
		return "", err
	}
	return strings.TrimSpace(b.String()), nil
}

// Request converts the prompt into a single-turn llm.Request.
func (p Prompt) Request(maxTokens int, temperature float64) llm.Request {
	req := llm.UserRequest(p.System, p.User)
	req.MaxTokens = maxTokens
	req.Temperature = temperature
	if p.Schema != nil {
		req.Schema = &llm.Schema{Name: p.SchemaName, Description: p.schemaDesc, Definition: p.Schema}
	}
	return req
}

var (
	mu       sync.RWMutex
	registry = map[PromptName]Template{}
	initOnce sync.Once
)

// Register adds or replaces a template.
func Register(t Template) {
	mu.Lock()
	defer mu.Unlock()
	registry[t.spec.Name] = t
}

// RegisterSpec compiles and registers s, panicking on a malformed spec.
func RegisterSpec(s Spec) {
	t, err := MakeTemplate(s)
	if err != nil {
		panic(err)
	}
	Register(t)
}

// Build renders the named prompt.
func Build(name PromptName, in Input) (Prompt, error) {
	initOnce.Do(RegisterAll)
	mu.RLock()
	t, ok := registry[name]
	mu.RUnlock()
	if !ok {
		return Prompt{}, fmt.Errorf("unknown prompt: %s", name)
	}
	return t.Render(in)
}

// SchemaFor returns the llm schema registered for name, if any.
func SchemaFor(name PromptName) (*llm.Schema, bool) {
	initOnce.Do(RegisterAll)
	mu.RLock()
	t, ok := registry[name]
	mu.RUnlock()
	if !ok || t.spec.Schema == nil {
		return nil, false
	}
	return &llm.Schema{Name: t.spec.SchemaName, Description: t.spec.Description, Definition: t.spec.Schema()}, true
}
