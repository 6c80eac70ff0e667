// Package formatter renders simplified designs as YAML, JSON or markdown.
package formatter

import (
	"strings"

	"github.com/goccy/go-json"
	"github.com/hyp3rd/ewrap"
	"gopkg.in/yaml.v3"

	"github.com/kataras/figma-context/pkg/simplify"
)

// Format is an output format.
type Format string

const (
	YAML     Format = "yaml"
	JSON     Format = "json"
	Markdown Format = "markdown"
)

// ErrUnknownFormat is returned for an unsupported output format.
var ErrUnknownFormat = ewrap.New("unknown output format")

// ParseFormat parses a format name. The empty string means YAML.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "yaml", "yml":
		return YAML, nil
	case "json":
		return JSON, nil
	case "markdown", "md":
		return Markdown, nil
	default:
		return "", ewrap.Wrap(ErrUnknownFormat, s)
	}
}

// Render renders design in the given format.
func Render(design *simplify.Design, format Format) (string, error) {
	switch format {
	case YAML, "":
		return ToYAML(design)
	case JSON:
		return ToJSON(design)
	case Markdown:
		return ToMarkdown(design), nil
	default:
		return "", ewrap.Wrap(ErrUnknownFormat, string(format))
	}
}

// ToYAML renders design as YAML.
func ToYAML(design *simplify.Design) (string, error) {
	var sb strings.Builder

	enc := yaml.NewEncoder(&sb)
	enc.SetIndent(2)

	if err := enc.Encode(design); err != nil {
		return "", ewrap.Wrap(err, "failed to encode yaml")
	}
	if err := enc.Close(); err != nil {
		return "", ewrap.Wrap(err, "failed to encode yaml")
	}

	return sb.String(), nil
}

// ToJSON renders design as indented JSON.
func ToJSON(design *simplify.Design) (string, error) {
	data, err := json.MarshalIndent(design, "", "  ")
	if err != nil {
		return "", ewrap.Wrap(err, "failed to encode json")
	}

	return string(data), nil
}
