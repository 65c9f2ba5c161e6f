package render

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/KaramelBytes/datavista-cli/internal/analysis"
)

// Formats accepted by Report.
const (
	FormatMarkdown = "markdown"
	FormatJSON     = "json"
	FormatYAML     = "yaml"
)

// Report serializes rep in the named format.
func Report(w io.Writer, rep *analysis.InsightReport, format string) error {
	switch format {
	case "", FormatMarkdown:
		_, err := io.WriteString(w, rep.Markdown())
		return err
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(rep)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(rep); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	}
	return fmt.Errorf("unknown format %q (use markdown, json or yaml)", format)
}
