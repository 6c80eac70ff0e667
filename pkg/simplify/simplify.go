// Package simplify converts raw Figma API responses into a compact design
// description: a trimmed node tree whose visual properties are deduplicated
// into a shared table of global style variables.
package simplify

import (
	"sort"

	"github.com/kataras/figma-context/pkg/figma"
)

// Design is the simplified form of a Figma file or of a set of its nodes.
type Design struct {
	Name         string               `json:"name" yaml:"name"`
	LastModified string               `json:"lastModified" yaml:"lastModified"`
	ThumbnailURL string               `json:"thumbnailUrl" yaml:"thumbnailUrl"`
	Nodes        []*Node              `json:"nodes" yaml:"nodes"`
	Components   map[string]Component `json:"components,omitempty" yaml:"components,omitempty"`
	GlobalVars   GlobalVars           `json:"globalVars" yaml:"globalVars"`
}

// Component is a component definition referenced by INSTANCE nodes.
type Component struct {
	ID          string `json:"id" yaml:"id"`
	Key         string `json:"key" yaml:"key"`
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// GlobalVars holds style values shared between nodes, keyed by style id.
type GlobalVars struct {
	Styles map[string]any `json:"styles" yaml:"styles"`
}

// Node is a simplified document node. Fills, Strokes, Effects, Layout and
// TextStyle are ids into Design.GlobalVars.Styles.
type Node struct {
	ID           string       `json:"id" yaml:"id"`
	Name         string       `json:"name" yaml:"name"`
	Type         string       `json:"type" yaml:"type"`
	Text         string       `json:"text,omitempty" yaml:"text,omitempty"`
	TextStyle    string       `json:"textStyle,omitempty" yaml:"textStyle,omitempty"`
	Fills        string       `json:"fills,omitempty" yaml:"fills,omitempty"`
	Strokes      string       `json:"strokes,omitempty" yaml:"strokes,omitempty"`
	Effects      string       `json:"effects,omitempty" yaml:"effects,omitempty"`
	Layout       string       `json:"layout,omitempty" yaml:"layout,omitempty"`
	Opacity      float64      `json:"opacity,omitempty" yaml:"opacity,omitempty"`
	BorderRadius string       `json:"borderRadius,omitempty" yaml:"borderRadius,omitempty"`
	ComponentID  string       `json:"componentId,omitempty" yaml:"componentId,omitempty"`
	Exportable   bool         `json:"exportable,omitempty" yaml:"exportable,omitempty"`
	BoundingBox  *BoundingBox `json:"boundingBox,omitempty" yaml:"boundingBox,omitempty"`
	Children     []*Node      `json:"children,omitempty" yaml:"children,omitempty"`
}

// BoundingBox is the absolute position and size of a node.
type BoundingBox struct {
	X      float64 `json:"x" yaml:"x"`
	Y      float64 `json:"y" yaml:"y"`
	Width  float64 `json:"width" yaml:"width"`
	Height float64 `json:"height" yaml:"height"`
}

// File simplifies a full file response.
func File(resp *figma.FileResponse) (*Design, error) {
	if resp == nil {
		return nil, errNilResponse
	}

	vars := newStyleTable()
	design := &Design{
		Name:         resp.Name,
		LastModified: resp.LastModified,
		ThumbnailURL: resp.ThumbnailURL,
		Components:   convertComponents(resp.Components),
	}

	for i := range resp.Document.Children {
		if n := simplifyNode(&resp.Document.Children[i], vars); n != nil {
			design.Nodes = append(design.Nodes, n)
		}
	}

	design.GlobalVars = GlobalVars{Styles: vars.styles}

	return design, nil
}

// Nodes simplifies a nodes response. Requested ids that resolved to null are skipped.
func Nodes(resp *figma.NodesResponse) (*Design, error) {
	if resp == nil {
		return nil, errNilResponse
	}

	vars := newStyleTable()
	design := &Design{
		Name:         resp.Name,
		LastModified: resp.LastModified,
		ThumbnailURL: resp.ThumbnailURL,
	}

	ids := make([]string, 0, len(resp.Nodes))
	for id := range resp.Nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	components := make(map[string]figma.Component)
	for _, id := range ids {
		data := resp.Nodes[id]
		if data == nil {
			continue
		}
		for cid, c := range data.Components {
			components[cid] = c
		}
		if n := simplifyNode(&data.Document, vars); n != nil {
			design.Nodes = append(design.Nodes, n)
		}
	}

	design.Components = convertComponents(components)
	design.GlobalVars = GlobalVars{Styles: vars.styles}

	return design, nil
}

func convertComponents(in map[string]figma.Component) map[string]Component {
	if len(in) == 0 {
		return nil
	}

	out := make(map[string]Component, len(in))
	for id, c := range in {
		out[id] = Component{ID: id, Key: c.Key, Name: c.Name, Description: c.Description}
	}

	return out
}

// simplifyNode recursively converts a node and its visible children.
// It returns nil for invisible nodes.
func simplifyNode(node *figma.Node, vars *styleTable) *Node {
	if !node.IsVisible() {
		return nil
	}

	n := &Node{
		ID:          node.ID,
		Name:        node.Name,
		Type:        node.Type,
		ComponentID: node.ComponentID,
		Exportable:  len(node.ExportSettings) > 0,
	}

	if node.AbsoluteBoundingBox != nil {
		b := node.AbsoluteBoundingBox
		n.BoundingBox = &BoundingBox{X: b.X, Y: b.Y, Width: b.Width, Height: b.Height}
	}

	if node.Type == "TEXT" {
		n.Text = node.Characters
	}
	if ts := buildTextStyle(node.Style); ts != nil {
		n.TextStyle = vars.ref("style", *ts)
	}

	if fills := buildFills(node.Fills); len(fills) > 0 {
		n.Fills = vars.ref("fill", fills)
	}
	if strokes := buildStrokes(node); strokes != nil {
		n.Strokes = vars.ref("stroke", *strokes)
	}
	if effects := buildEffects(node.Effects); effects != nil {
		n.Effects = vars.ref("effect", *effects)
	}
	if layout := buildLayout(node); layout != nil {
		n.Layout = vars.ref("layout", *layout)
	}

	if node.Opacity != nil && *node.Opacity != 1 {
		n.Opacity = *node.Opacity
	}
	n.BorderRadius = borderRadius(node)

	for i := range node.Children {
		if child := simplifyNode(&node.Children[i], vars); child != nil {
			n.Children = append(n.Children, child)
		}
	}

	return n
}
