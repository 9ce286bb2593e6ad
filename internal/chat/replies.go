package chat

import (
	_ "embed"
	"fmt"
	"io"
	"os"
	"strings"
	"text/template"

	"gopkg.in/yaml.v3"

	"todo-chat-backend/internal/types"
)

//go:embed replies.yaml
var defaultReplies []byte

// ReplyTexts is the YAML shape of the reply texts.
type ReplyTexts struct {
	Greeting   string `yaml:"greeting"`
	Help       string `yaml:"help"`
	Unknown    string `yaml:"unknown"`
	Empty      string `yaml:"empty"`
	ListHeader string `yaml:"list_header"`
	ListItem   string `yaml:"list_item"`
	Added      string `yaml:"added"`
	Deleted    string `yaml:"deleted"`
	NotFound   string `yaml:"not_found"`
}

// Replies holds the fixed texts and compiled templates used by the executor.
type Replies struct {
	texts ReplyTexts

	listItem *template.Template
	added    *template.Template
	deleted  *template.Template
	notFound *template.Template
}

// DefaultReplies returns the built-in replies.
func DefaultReplies() *Replies {
	r, err := LoadReplies("")
	if err != nil {
		// The embedded file is part of the binary; failing here is a build bug.
		panic(fmt.Sprintf("chat: embedded replies are invalid: %v", err))
	}
	return r
}

// LoadReplies reads the built-in replies and overlays the YAML file at path,
// if path is non-empty.
func LoadReplies(path string) (*Replies, error) {
	var texts ReplyTexts
	if err := yaml.Unmarshal(defaultReplies, &texts); err != nil {
		return nil, err
	}
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(b, &texts); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}
	return compileReplies(texts)
}

func compileReplies(texts ReplyTexts) (*Replies, error) {
	r := &Replies{texts: texts}
	for _, t := range []struct {
		name string
		text string
		dst  **template.Template
	}{
		{"list_item", texts.ListItem, &r.listItem},
		{"added", texts.Added, &r.added},
		{"deleted", texts.Deleted, &r.deleted},
		{"not_found", texts.NotFound, &r.notFound},
	} {
		if strings.TrimSpace(t.text) == "" {
			return nil, fmt.Errorf("reply %q is empty", t.name)
		}
		tpl, err := template.New(t.name).Parse(t.text)
		if err != nil {
			return nil, fmt.Errorf("reply %q: %w", t.name, err)
		}
		// Unknown fields only surface at execution time.
		if err := tpl.Execute(io.Discard, types.Todo{ID: 1, Title: "sample"}); err != nil {
			return nil, fmt.Errorf("reply %q: %w", t.name, err)
		}
		*t.dst = tpl
	}
	return r, nil
}

func (r *Replies) Greeting() string { return r.texts.Greeting }
func (r *Replies) Help() string     { return r.texts.Help }
func (r *Replies) Unknown() string  { return r.texts.Unknown }
func (r *Replies) Empty() string    { return r.texts.Empty }

func (r *Replies) Added(t types.Todo) string { return render(r.added, t) }

func (r *Replies) Deleted(id int64) string { return render(r.deleted, types.Todo{ID: id}) }

func (r *Replies) NotFound(id int64) string { return render(r.notFound, types.Todo{ID: id}) }

// List renders the header followed by one line per todo.
func (r *Replies) List(todos []types.Todo) string {
	var b strings.Builder
	b.WriteString(r.texts.ListHeader)
	for _, t := range todos {
		b.WriteByte('\n')
		b.WriteString(render(r.listItem, t))
	}
	return b.String()
}

// render never fails the caller: templates are checked at load time and
// only see types.Todo fields.
func render(tpl *template.Template, t types.Todo) string {
	var b strings.Builder
	if err := tpl.Execute(&b, t); err != nil {
		return fmt.Sprintf("%s (%d: %s)", tpl.Name(), t.ID, t.Title)
	}
	return b.String()
}
