package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/spec-kit/msp-dashboard/internal/document"
	"github.com/spec-kit/msp-dashboard/internal/export"
)

type renderOptions struct {
	templatePath string
	dataPath     string
	format       string
	outPath      string
	title        string
}

func newRenderCmd() *cobra.Command {
	opts := &renderOptions{}
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a template against a YAML or JSON data file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRender(cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.templatePath, "template", "", "Markdown template file")
	cmd.Flags().StringVar(&opts.dataPath, "data", "", "YAML or JSON file with the placeholder values")
	cmd.Flags().StringVar(&opts.format, "format", "markdown", "output format: markdown, docx or html")
	cmd.Flags().StringVar(&opts.outPath, "out", "", "output file (default stdout)")
	cmd.Flags().StringVar(&opts.title, "title", "", "document title for docx output (default template file name)")
	_ = cmd.MarkFlagRequired("template")
	return cmd
}

func runRender(cmd *cobra.Command, opts *renderOptions) error {
	src, err := os.ReadFile(opts.templatePath)
	if err != nil {
		return fmt.Errorf("read template: %w", err)
	}
	data, err := loadData(opts.dataPath)
	if err != nil {
		return err
	}
	rec := export.FromMap(data)
	compiled := export.Compile(string(src))
	text := compiled.Render(rec)
	if missing := compiled.Missing(rec); len(missing) > 0 {
		fmt.Fprintf(cmd.ErrOrStderr(), "unresolved placeholders: %s\n", strings.Join(missing, ", "))
	}

	var out []byte
	switch opts.format {
	case "markdown", "md":
		out = []byte(text)
	case "html":
		html, err := document.HTML(text)
		if err != nil {
			return err
		}
		out = []byte(html)
	case "docx":
		model := document.Parse(text)
		model.Title = opts.title
		if model.Title == "" {
			model.Title = strings.TrimSuffix(filepath.Base(opts.templatePath), filepath.Ext(opts.templatePath))
		}
		out, err = document.DOCX(model)
		if err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown format %q: want markdown, docx or html", opts.format)
	}
	return writeOutput(cmd.OutOrStdout(), opts.outPath, out)
}

// loadData decodes a YAML or JSON document; JSON is valid YAML.
func loadData(path string) (map[string]any, error) {
	if path == "" {
		return map[string]any{}, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read data: %w", err)
	}
	data := map[string]any{}
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("parse data %s: %w", path, err)
	}
	return data, nil
}

func writeOutput(stdout io.Writer, path string, data []byte) error {
	if path == "" {
		_, err := stdout.Write(data)
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
