package content

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/foadjalali/tcmindai/internal/i18n"
)

//go:embed schema/*.json
var schemaFS embed.FS

// Issue is a single problem found while checking content.
type Issue struct {
	Domain   Domain
	Location string
	Message  string
}

func (i Issue) String() string {
	loc := i.Location
	if loc == "" {
		loc = "#"
	}
	return fmt.Sprintf("%s %s: %s", i.Domain, loc, i.Message)
}

// Check validates every content document against its schema and reports
// entries that cannot fall back to the base locale. A nil slice means the
// content tree is healthy. A missing document is reported as an issue; the
// loader returns an error for it, so pages that need it respond 500.
func (l *Loader) Check() ([]Issue, error) {
	var issues []Issue
	for _, d := range Domains() {
		found, err := l.checkDomain(d)
		if err != nil {
			return nil, err
		}
		issues = append(issues, found...)
	}
	return issues, nil
}

func (l *Loader) checkDomain(d Domain) ([]Issue, error) {
	path, err := l.Path(d)
	if err != nil {
		return nil, err
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []Issue{{Domain: d, Message: "document missing"}}, nil
		}
		return nil, fmt.Errorf("content: read %s: %w", d, err)
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return []Issue{{Domain: d, Message: "malformed json: " + err.Error()}}, nil
	}

	schema, err := compileSchema(d)
	if err != nil {
		return nil, err
	}
	var issues []Issue
	if err := schema.Validate(doc); err != nil {
		var verr *jsonschema.ValidationError
		if !errors.As(err, &verr) {
			return nil, fmt.Errorf("content: validate %s: %w", d, err)
		}
		issues = append(issues, leafIssues(d, verr)...)
	}
	issues = append(issues, baseLocaleIssues(d, doc)...)
	return issues, nil
}

func compileSchema(d Domain) (*jsonschema.Schema, error) {
	name := string(d) + ".json"
	raw, err := schemaFS.ReadFile("schema/" + name)
	if err != nil {
		return nil, fmt.Errorf("content: schema for %s: %w", d, err)
	}
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource(name, bytes.NewReader(raw)); err != nil {
		return nil, fmt.Errorf("content: schema for %s: %w", d, err)
	}
	return compiler.Compile(name)
}

func leafIssues(d Domain, err *jsonschema.ValidationError) []Issue {
	var issues []Issue
	var walk func(*jsonschema.ValidationError)
	walk = func(node *jsonschema.ValidationError) {
		if node == nil {
			return
		}
		if len(node.Causes) == 0 {
			issues = append(issues, Issue{
				Domain:   d,
				Location: strings.TrimSpace(node.InstanceLocation),
				Message:  strings.TrimSpace(node.Message),
			})
			return
		}
		for _, cause := range node.Causes {
			walk(cause)
		}
	}
	walk(err)
	return issues
}

func baseLocaleIssues(d Domain, doc any) []Issue {
	base := string(i18n.Base)
	if d.LocaleKeyed() {
		obj, ok := doc.(map[string]any)
		if !ok {
			return nil
		}
		var issues []Issue
		if v, ok := obj[base]; !ok || v == nil {
			issues = append(issues, Issue{Domain: d, Location: "/" + base, Message: "base locale entry missing"})
		}
		keys := make([]string, 0, len(obj))
		for k := range obj {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if _, ok := i18n.Parse(k); !ok {
				issues = append(issues, Issue{Domain: d, Location: "/" + k, Message: "unsupported locale"})
			}
		}
		return issues
	}

	items, ok := doc.([]any)
	if !ok {
		return nil
	}
	var issues []Issue
	seen := map[string]bool{}
	for i, item := range items {
		post, ok := item.(map[string]any)
		if !ok {
			continue
		}
		slug, _ := post["slug"].(string)
		if seen[slug] {
			issues = append(issues, Issue{Domain: d, Location: fmt.Sprintf("/%d/slug", i), Message: fmt.Sprintf("duplicate slug %q", slug)})
		}
		seen[slug] = true
		translations, _ := post["translations"].(map[string]any)
		if _, ok := translations[base]; !ok {
			issues = append(issues, Issue{Domain: d, Location: fmt.Sprintf("/%d/translations/%s", i, base), Message: "base locale translation missing"})
		}
	}
	return issues
}
