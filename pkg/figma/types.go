package figma

// FileResponse is the body of GET /files/{key}.
// It carries the file metadata, the document tree and the published components and styles.
type FileResponse struct {
	Name          string               `json:"name"`
	Role          string               `json:"role,omitempty"`
	LastModified  string               `json:"lastModified"`
	EditorType    string               `json:"editorType,omitempty"`
	ThumbnailURL  string               `json:"thumbnailUrl"`
	Version       string               `json:"version"`
	Document      Node                 `json:"document"`
	Components    map[string]Component `json:"components,omitempty"`
	Styles        map[string]Style     `json:"styles,omitempty"`
	SchemaVersion int                  `json:"schemaVersion"`
}

// NodesResponse is the body of GET /files/{key}/nodes.
// Nodes maps each requested node id to its subtree; a requested id the file
// does not contain maps to null.
type NodesResponse struct {
	Name         string               `json:"name"`
	Role         string               `json:"role,omitempty"`
	LastModified string               `json:"lastModified"`
	EditorType   string               `json:"editorType,omitempty"`
	ThumbnailURL string               `json:"thumbnailUrl"`
	Version      string               `json:"version"`
	Nodes        map[string]*NodeData `json:"nodes"`
}

// NodeData wraps a requested node with the components and styles it references.
type NodeData struct {
	Document   Node                 `json:"document"`
	Components map[string]Component `json:"components,omitempty"`
	Styles     map[string]Style     `json:"styles,omitempty"`
}

// ImagesResponse is the body of GET /images/{key}.
// Images maps node ids to rendered image URLs; a node that failed to render maps to null.
type ImagesResponse struct {
	Err    string             `json:"err"`
	Status int                `json:"status,omitempty"`
	Images map[string]*string `json:"images"`
}

// ErrorResponse is the body Figma answers with on a non-2xx status.
type ErrorResponse struct {
	Status int    `json:"status"`
	Err    string `json:"err"`
}

// Component is a reusable element definition.
type Component struct {
	Key         string `json:"key"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Style is a published style: FILL, TEXT, EFFECT or GRID.
type Style struct {
	Key         string `json:"key"`
	Name        string `json:"name"`
	Description string `json:"description"`
	StyleType   string `json:"styleType"`
}

// Node is a single element of the document tree.
type Node struct {
	ID                    string            `json:"id"`
	Name                  string            `json:"name"`
	Type                  string            `json:"type"`
	Visible               *bool             `json:"visible,omitempty"`
	Children              []Node            `json:"children,omitempty"`
	BackgroundColor       *Color            `json:"backgroundColor,omitempty"`
	Fills                 []Paint           `json:"fills,omitempty"`
	Strokes               []Paint           `json:"strokes,omitempty"`
	StrokeWeight          float64           `json:"strokeWeight,omitempty"`
	CornerRadius          float64           `json:"cornerRadius,omitempty"`
	RectangleCornerRadii  []float64         `json:"rectangleCornerRadii,omitempty"`
	Opacity               *float64          `json:"opacity,omitempty"`
	Effects               []Effect          `json:"effects,omitempty"`
	Characters            string            `json:"characters,omitempty"`
	Style                 *TypeStyle        `json:"style,omitempty"`
	AbsoluteBoundingBox   *Rectangle        `json:"absoluteBoundingBox,omitempty"`
	Constraints           *LayoutConstraint `json:"constraints,omitempty"`
	ComponentID           string            `json:"componentId,omitempty"`
	ExportSettings        []ExportSetting   `json:"exportSettings,omitempty"`
	LayoutMode            string            `json:"layoutMode,omitempty"`
	LayoutWrap            string            `json:"layoutWrap,omitempty"`
	PrimaryAxisSizingMode string            `json:"primaryAxisSizingMode,omitempty"`
	CounterAxisSizingMode string            `json:"counterAxisSizingMode,omitempty"`
	PrimaryAxisAlignItems string            `json:"primaryAxisAlignItems,omitempty"`
	CounterAxisAlignItems string            `json:"counterAxisAlignItems,omitempty"`
	PaddingLeft           float64           `json:"paddingLeft,omitempty"`
	PaddingRight          float64           `json:"paddingRight,omitempty"`
	PaddingTop            float64           `json:"paddingTop,omitempty"`
	PaddingBottom         float64           `json:"paddingBottom,omitempty"`
	ItemSpacing           float64           `json:"itemSpacing,omitempty"`
}

// IsVisible reports whether the node is rendered. Figma omits the field when true.
func (n *Node) IsVisible() bool {
	return n.Visible == nil || *n.Visible
}

// Color is an RGBA color with channels in the 0..1 range.
type Color struct {
	R float64 `json:"r"`
	G float64 `json:"g"`
	B float64 `json:"b"`
	A float64 `json:"a"`
}

// ColorStop is a single stop of a gradient paint.
type ColorStop struct {
	Position float64 `json:"position"`
	Color    Color   `json:"color"`
}

// Paint is a fill or stroke: SOLID, GRADIENT_*, IMAGE, ...
type Paint struct {
	Type          string      `json:"type"`
	Visible       *bool       `json:"visible,omitempty"`
	Opacity       *float64    `json:"opacity,omitempty"`
	Color         *Color      `json:"color,omitempty"`
	GradientStops []ColorStop `json:"gradientStops,omitempty"`
	ImageRef      string      `json:"imageRef,omitempty"`
	ScaleMode     string      `json:"scaleMode,omitempty"`
}

// IsVisible reports whether the paint is applied.
func (p *Paint) IsVisible() bool {
	return p.Visible == nil || *p.Visible
}

// Effect is a shadow or blur applied to a node.
type Effect struct {
	Type      string  `json:"type"`
	Visible   *bool   `json:"visible,omitempty"`
	Radius    float64 `json:"radius,omitempty"`
	Color     *Color  `json:"color,omitempty"`
	Offset    *Vector `json:"offset,omitempty"`
	Spread    float64 `json:"spread,omitempty"`
	BlendMode string  `json:"blendMode,omitempty"`
}

// IsVisible reports whether the effect is applied.
func (e *Effect) IsVisible() bool {
	return e.Visible == nil || *e.Visible
}

// Vector is a 2D offset.
type Vector struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// TypeStyle holds the text styling of a TEXT node.
type TypeStyle struct {
	FontFamily          string  `json:"fontFamily"`
	FontPostScriptName  string  `json:"fontPostScriptName,omitempty"`
	FontWeight          float64 `json:"fontWeight"`
	FontSize            float64 `json:"fontSize"`
	LineHeightPx        float64 `json:"lineHeightPx"`
	LineHeightPercent   float64 `json:"lineHeightPercent,omitempty"`
	LetterSpacing       float64 `json:"letterSpacing"`
	TextCase            string  `json:"textCase,omitempty"`
	TextAlignHorizontal string  `json:"textAlignHorizontal"`
	TextAlignVertical   string  `json:"textAlignVertical"`
}

// Rectangle is an absolute position and size on the canvas.
type Rectangle struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// LayoutConstraint defines how a node behaves when its parent is resized.
type LayoutConstraint struct {
	Vertical   string `json:"vertical"`
	Horizontal string `json:"horizontal"`
}

// ExportSetting is an export preset the designer attached to a node.
type ExportSetting struct {
	Format     string `json:"format"`
	Suffix     string `json:"suffix"`
	Constraint struct {
		Type  string  `json:"type"`
		Value float64 `json:"value"`
	} `json:"constraint"`
}
