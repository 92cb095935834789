// Where: internal/infra/naming/qualifier.go
// What: Template-based mapping from declared function names to deployed names.
// Why: Serverless-style manifests declare short names that deploy as service-stage-name.
package naming

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"
)

var errEmptyName = errors.New("name template produced an empty name")

// TemplateQualifier renders a text/template per function name.
// Template data exposes .Name plus every configured variable.
type TemplateQualifier struct {
	tmpl *template.Template
	vars map[string]string
}

// NewTemplateQualifier parses text with sprig helpers available.
func NewTemplateQualifier(text string, vars map[string]string) (*TemplateQualifier, error) {
	if strings.TrimSpace(text) == "" {
		text = "{{ .Name }}"
	}
	tmpl, err := template.New("function-name").
		Funcs(sprig.TxtFuncMap()).
		Option("missingkey=error").
		Parse(text)
	if err != nil {
		return nil, fmt.Errorf("parse name template: %w", err)
	}
	copied := make(map[string]string, len(vars))
	for key, value := range vars {
		copied[key] = value
	}
	return &TemplateQualifier{tmpl: tmpl, vars: copied}, nil
}

// Qualify renders the deployed name for name.
func (q *TemplateQualifier) Qualify(name string) (string, error) {
	data := make(map[string]string, len(q.vars)+1)
	for key, value := range q.vars {
		data[key] = value
	}
	data["Name"] = name

	var buf bytes.Buffer
	if err := q.tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render name template for %s: %w", name, err)
	}
	out := strings.TrimSpace(buf.String())
	if out == "" {
		return "", errEmptyName
	}
	return out, nil
}
