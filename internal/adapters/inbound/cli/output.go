package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/migrakit/migrakit/internal/domain"
	"gopkg.in/yaml.v3"
)

const formatText = "text"

func checkFormat(format string) error {
	switch format {
	case formatText, domain.FormatJSON, domain.FormatYAML:
		return nil
	default:
		return fmt.Errorf("unknown format %q (valid: text, json, yaml)", format)
	}
}

// writeEncoded writes v as JSON or YAML.
func writeEncoded(w io.Writer, v any, format string) error {
	if format == domain.FormatYAML {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
