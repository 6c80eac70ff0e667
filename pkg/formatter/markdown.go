package formatter

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/kataras/figma-context/pkg/simplify"
)

// ToMarkdown renders a simplified design as a markdown document: an outline
// of the node tree followed by the shared style table.
func ToMarkdown(design *simplify.Design) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("# %s\n\n", design.Name))
	if design.LastModified != "" {
		sb.WriteString(fmt.Sprintf("Last modified: %s\n\n", design.LastModified))
	}
	if design.ThumbnailURL != "" {
		sb.WriteString(fmt.Sprintf("![thumbnail](%s)\n\n", design.ThumbnailURL))
	}

	sb.WriteString("## Nodes\n\n")
	if len(design.Nodes) == 0 {
		sb.WriteString("_No nodes._\n\n")
	}
	for _, n := range design.Nodes {
		writeNode(&sb, n, 0)
	}
	sb.WriteString("\n")

	if len(design.Components) > 0 {
		sb.WriteString("## Components\n\n")
		sb.WriteString("| ID | Name | Description |\n")
		sb.WriteString("|----|------|-------------|\n")
		for _, id := range sortedKeys(design.Components) {
			c := design.Components[id]
			sb.WriteString(fmt.Sprintf("| `%s` | %s | %s |\n", id, escapeCell(c.Name), escapeCell(c.Description)))
		}
		sb.WriteString("\n")
	}

	if len(design.GlobalVars.Styles) > 0 {
		sb.WriteString("## Styles\n\n")
		sb.WriteString("| ID | Value |\n")
		sb.WriteString("|----|-------|\n")
		for _, id := range sortedStyleIDs(design.GlobalVars.Styles) {
			sb.WriteString(fmt.Sprintf("| `%s` | %s |\n", id, escapeCell(styleString(design.GlobalVars.Styles[id]))))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

func writeNode(sb *strings.Builder, n *simplify.Node, depth int) {
	indent := strings.Repeat("  ", depth)
	sb.WriteString(fmt.Sprintf("%s- **%s** `%s` (%s)", indent, n.Name, n.ID, n.Type))

	if n.BoundingBox != nil {
		sb.WriteString(fmt.Sprintf(" %gx%g", n.BoundingBox.Width, n.BoundingBox.Height))
	}

	var refs []string
	for _, ref := range []struct{ label, id string }{
		{"fills", n.Fills},
		{"strokes", n.Strokes},
		{"effects", n.Effects},
		{"layout", n.Layout},
		{"text", n.TextStyle},
	} {
		if ref.id != "" {
			refs = append(refs, fmt.Sprintf("%s: `%s`", ref.label, ref.id))
		}
	}
	if n.BorderRadius != "" {
		refs = append(refs, fmt.Sprintf("radius: %s", n.BorderRadius))
	}
	if n.Opacity != 0 {
		refs = append(refs, fmt.Sprintf("opacity: %g", n.Opacity))
	}
	if len(refs) > 0 {
		sb.WriteString(" - " + strings.Join(refs, ", "))
	}
	sb.WriteString("\n")

	if n.Text != "" {
		sb.WriteString(fmt.Sprintf("%s  > %s\n", indent, strings.ReplaceAll(n.Text, "\n", " ")))
	}

	for _, child := range n.Children {
		writeNode(sb, child, depth+1)
	}
}

func styleString(v any) string {
	switch s := v.(type) {
	case []string:
		return strings.Join(s, ", ")
	case simplify.TextStyle:
		parts := []string{s.FontFamily}
		if s.FontWeight > 0 {
			parts = append(parts, fmt.Sprintf("%g", s.FontWeight))
		}
		if s.FontSize > 0 {
			parts = append(parts, fmt.Sprintf("%gpx", s.FontSize))
		}
		if s.LineHeight != "" {
			parts = append(parts, "line-height "+s.LineHeight)
		}
		return strings.Join(parts, " ")
	case simplify.Stroke:
		return strings.TrimSpace(s.Weight + " " + strings.Join(s.Colors, ", "))
	case simplify.Effects:
		var parts []string
		if s.BoxShadow != "" {
			parts = append(parts, "box-shadow: "+s.BoxShadow)
		}
		if s.Filter != "" {
			parts = append(parts, "filter: "+s.Filter)
		}
		if s.BackdropFilter != "" {
			parts = append(parts, "backdrop-filter: "+s.BackdropFilter)
		}
		return strings.Join(parts, "; ")
	case simplify.Layout:
		parts := []string{"flex " + s.Mode}
		if s.Justify != "" {
			parts = append(parts, "justify "+s.Justify)
		}
		if s.Align != "" {
			parts = append(parts, "align "+s.Align)
		}
		if s.Gap != "" {
			parts = append(parts, "gap "+s.Gap)
		}
		if s.Padding != "" {
			parts = append(parts, "padding "+s.Padding)
		}
		if s.Wrap {
			parts = append(parts, "wrap")
		}
		return strings.Join(parts, ", ")
	default:
		return fmt.Sprintf("%v", v)
	}
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

// sortedStyleIDs orders ids like fill_2 by prefix, then by numeric suffix,
// so that fill_2 comes before fill_10.
func sortedStyleIDs(styles map[string]any) []string {
	ids := sortedKeys(styles)
	sort.SliceStable(ids, func(i, j int) bool {
		pi, ni := splitStyleID(ids[i])
		pj, nj := splitStyleID(ids[j])
		if pi != pj {
			return pi < pj
		}
		return ni < nj
	})

	return ids
}

// splitStyleID splits "fill_12" into "fill" and 12. Ids without a numeric
// suffix keep their whole text as prefix and sort as 0.
func splitStyleID(id string) (string, int) {
	i := strings.LastIndexByte(id, '_')
	if i < 0 {
		return id, 0
	}

	n, err := strconv.Atoi(id[i+1:])
	if err != nil {
		return id, 0
	}

	return id[:i], n
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	return keys
}
