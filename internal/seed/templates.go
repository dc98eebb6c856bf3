// Package seed ships the export templates installed on first start.
package seed

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/spec-kit/msp-dashboard/internal/domain"
)

//go:embed default_templates.yaml
var defaultTemplatesYAML []byte

type templateFile struct {
	Templates []struct {
		Name    string `yaml:"name"`
		Type    string `yaml:"type"`
		Content string `yaml:"content"`
	} `yaml:"templates"`
}

// DefaultTemplates returns one default template per built-in type.
func DefaultTemplates() ([]domain.ExportTemplate, error) {
	return ParseTemplates(defaultTemplatesYAML)
}

// ParseTemplates decodes a template file. Every entry is marked default;
// duplicate types are rejected.
func ParseTemplates(data []byte) ([]domain.ExportTemplate, error) {
	var file templateFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("decode templates: %w", err)
	}
	seen := map[string]bool{}
	out := make([]domain.ExportTemplate, 0, len(file.Templates))
	for i, t := range file.Templates {
		if t.Name == "" || t.Type == "" || t.Content == "" {
			return nil, fmt.Errorf("template %d: name, type and content are required", i)
		}
		if seen[t.Type] {
			return nil, fmt.Errorf("template %d: duplicate type %q", i, t.Type)
		}
		seen[t.Type] = true
		out = append(out, domain.ExportTemplate{
			Name:      t.Name,
			Type:      t.Type,
			Content:   t.Content,
			IsDefault: true,
		})
	}
	return out, nil
}
