package simplify

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	"github.com/hyp3rd/ewrap"

	"github.com/kataras/figma-context/pkg/figma"
)

var errNilResponse = ewrap.New("cannot simplify a nil response")

// TextStyle is a deduplicated text style.
type TextStyle struct {
	FontFamily          string  `json:"fontFamily,omitempty" yaml:"fontFamily,omitempty"`
	FontWeight          float64 `json:"fontWeight,omitempty" yaml:"fontWeight,omitempty"`
	FontSize            float64 `json:"fontSize,omitempty" yaml:"fontSize,omitempty"`
	LineHeight          string  `json:"lineHeight,omitempty" yaml:"lineHeight,omitempty"`
	LetterSpacing       string  `json:"letterSpacing,omitempty" yaml:"letterSpacing,omitempty"`
	TextCase            string  `json:"textCase,omitempty" yaml:"textCase,omitempty"`
	TextAlignHorizontal string  `json:"textAlignHorizontal,omitempty" yaml:"textAlignHorizontal,omitempty"`
	TextAlignVertical   string  `json:"textAlignVertical,omitempty" yaml:"textAlignVertical,omitempty"`
}

// Stroke is a deduplicated stroke style.
type Stroke struct {
	Colors []string `json:"colors" yaml:"colors"`
	Weight string   `json:"weight,omitempty" yaml:"weight,omitempty"`
}

// Effects holds the CSS equivalents of a node's shadows and blurs.
type Effects struct {
	BoxShadow      string `json:"boxShadow,omitempty" yaml:"boxShadow,omitempty"`
	Filter         string `json:"filter,omitempty" yaml:"filter,omitempty"`
	BackdropFilter string `json:"backdropFilter,omitempty" yaml:"backdropFilter,omitempty"`
}

// Layout is the flexbox equivalent of an auto-layout frame.
type Layout struct {
	Mode    string `json:"mode" yaml:"mode"`
	Justify string `json:"justifyContent,omitempty" yaml:"justifyContent,omitempty"`
	Align   string `json:"alignItems,omitempty" yaml:"alignItems,omitempty"`
	Gap     string `json:"gap,omitempty" yaml:"gap,omitempty"`
	Padding string `json:"padding,omitempty" yaml:"padding,omitempty"`
	Wrap    bool   `json:"wrap,omitempty" yaml:"wrap,omitempty"`
}

// styleTable assigns stable ids to style values, sharing one id between equal values.
type styleTable struct {
	styles map[string]any
	index  map[string]string
	counts map[string]int
}

func newStyleTable() *styleTable {
	return &styleTable{
		styles: make(map[string]any),
		index:  make(map[string]string),
		counts: make(map[string]int),
	}
}

func (t *styleTable) ref(prefix string, value any) string {
	data, err := json.Marshal(value)
	if err != nil {
		data = []byte(fmt.Sprintf("%#v", value))
	}

	key := prefix + ":" + string(data)
	if id, ok := t.index[key]; ok {
		return id
	}

	t.counts[prefix]++
	id := fmt.Sprintf("%s_%d", prefix, t.counts[prefix])
	t.index[key] = id
	t.styles[id] = value

	return id
}

func buildFills(paints []figma.Paint) []string {
	var fills []string

	for i := range paints {
		p := &paints[i]
		if !p.IsVisible() {
			continue
		}

		switch {
		case p.Type == "SOLID" && p.Color != nil:
			fills = append(fills, formatColor(p.Color, paintOpacity(p)))
		case p.Type == "IMAGE" && p.ImageRef != "":
			fills = append(fills, fmt.Sprintf("IMAGE(%s)", p.ImageRef))
		case strings.HasPrefix(p.Type, "GRADIENT_"):
			stops := make([]string, 0, len(p.GradientStops))
			for _, s := range p.GradientStops {
				c := s.Color
				stops = append(stops, fmt.Sprintf("%s %s%%", formatColor(&c, paintOpacity(p)), number(s.Position*100)))
			}
			fills = append(fills, fmt.Sprintf("%s(%s)", p.Type, strings.Join(stops, ", ")))
		default:
			fills = append(fills, p.Type)
		}
	}

	return fills
}

func buildStrokes(node *figma.Node) *Stroke {
	var colors []string
	for i := range node.Strokes {
		p := &node.Strokes[i]
		if p.IsVisible() && p.Type == "SOLID" && p.Color != nil {
			colors = append(colors, formatColor(p.Color, paintOpacity(p)))
		}
	}

	if len(colors) == 0 {
		return nil
	}

	s := &Stroke{Colors: colors}
	if node.StrokeWeight > 0 {
		s.Weight = px(node.StrokeWeight)
	}

	return s
}

func buildEffects(effects []figma.Effect) *Effects {
	var shadows, filters, backdrop []string

	for i := range effects {
		e := &effects[i]
		if !e.IsVisible() {
			continue
		}

		switch e.Type {
		case "DROP_SHADOW", "INNER_SHADOW":
			var x, y float64
			if e.Offset != nil {
				x, y = e.Offset.X, e.Offset.Y
			}
			shadow := fmt.Sprintf("%s %s %s %s %s", px(x), px(y), px(e.Radius), px(e.Spread), formatColor(e.Color, 1))
			if e.Type == "INNER_SHADOW" {
				shadow = "inset " + shadow
			}
			shadows = append(shadows, shadow)
		case "LAYER_BLUR":
			filters = append(filters, fmt.Sprintf("blur(%s)", px(e.Radius)))
		case "BACKGROUND_BLUR":
			backdrop = append(backdrop, fmt.Sprintf("blur(%s)", px(e.Radius)))
		}
	}

	if len(shadows) == 0 && len(filters) == 0 && len(backdrop) == 0 {
		return nil
	}

	return &Effects{
		BoxShadow:      strings.Join(shadows, ", "),
		Filter:         strings.Join(filters, " "),
		BackdropFilter: strings.Join(backdrop, " "),
	}
}

func buildLayout(node *figma.Node) *Layout {
	var mode string
	switch node.LayoutMode {
	case "HORIZONTAL":
		mode = "row"
	case "VERTICAL":
		mode = "column"
	default:
		return nil
	}

	l := &Layout{
		Mode:    mode,
		Justify: alignment(node.PrimaryAxisAlignItems),
		Align:   alignment(node.CounterAxisAlignItems),
		Wrap:    node.LayoutWrap == "WRAP",
	}
	if node.ItemSpacing > 0 {
		l.Gap = px(node.ItemSpacing)
	}
	if node.PaddingTop > 0 || node.PaddingRight > 0 || node.PaddingBottom > 0 || node.PaddingLeft > 0 {
		l.Padding = boxShorthand(node.PaddingTop, node.PaddingRight, node.PaddingBottom, node.PaddingLeft)
	}

	return l
}

func alignment(v string) string {
	switch v {
	case "MIN":
		return "flex-start"
	case "MAX":
		return "flex-end"
	case "CENTER":
		return "center"
	case "SPACE_BETWEEN":
		return "space-between"
	case "BASELINE":
		return "baseline"
	default:
		return ""
	}
}

func buildTextStyle(s *figma.TypeStyle) *TextStyle {
	if s == nil {
		return nil
	}

	ts := &TextStyle{
		FontFamily:          s.FontFamily,
		FontWeight:          s.FontWeight,
		FontSize:            s.FontSize,
		TextCase:            s.TextCase,
		TextAlignHorizontal: s.TextAlignHorizontal,
		TextAlignVertical:   s.TextAlignVertical,
	}
	if s.LineHeightPx > 0 && s.FontSize > 0 {
		ts.LineHeight = number(s.LineHeightPx/s.FontSize) + "em"
	}
	if s.LetterSpacing != 0 && s.FontSize > 0 {
		ts.LetterSpacing = number(s.LetterSpacing/s.FontSize*100) + "%"
	}

	return ts
}

func borderRadius(node *figma.Node) string {
	if r := node.RectangleCornerRadii; len(r) == 4 && (r[0] != r[1] || r[1] != r[2] || r[2] != r[3]) {
		return boxShorthand(r[0], r[1], r[2], r[3])
	}
	if node.CornerRadius > 0 {
		return px(node.CornerRadius)
	}

	return ""
}

// boxShorthand renders a CSS four-value shorthand, collapsing equal sides.
func boxShorthand(top, right, bottom, left float64) string {
	switch {
	case top == right && right == bottom && bottom == left:
		return px(top)
	case top == bottom && right == left:
		return px(top) + " " + px(right)
	default:
		return strings.Join([]string{px(top), px(right), px(bottom), px(left)}, " ")
	}
}

func paintOpacity(p *figma.Paint) float64 {
	if p.Opacity == nil {
		return 1
	}

	return *p.Opacity
}

// formatColor converts a Figma color to #RRGGBB, or to rgba() when it is not fully opaque.
// A nil color renders as #000000.
func formatColor(c *figma.Color, opacity float64) string {
	if c == nil {
		return "#000000"
	}

	r := int(math.Round(c.R * 255))
	g := int(math.Round(c.G * 255))
	b := int(math.Round(c.B * 255))

	alpha := c.A * opacity
	if alpha >= 1 {
		return fmt.Sprintf("#%02X%02X%02X", r, g, b)
	}

	return fmt.Sprintf("rgba(%d, %d, %d, %s)", r, g, b, number(alpha))
}

func px(v float64) string {
	return number(v) + "px"
}

// number formats v with at most two decimals and no trailing zeros.
func number(v float64) string {
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64)
}
