package figmacontext

import (
	"context"
	"net/http"
	"strings"

	"github.com/hyp3rd/ewrap"

	"github.com/kataras/figma-context/pkg/client"
	"github.com/kataras/figma-context/pkg/figma"
	"github.com/kataras/figma-context/pkg/formatter"
	"github.com/kataras/figma-context/pkg/imager"
	"github.com/kataras/figma-context/pkg/simplify"
)

// Version is the current release.
const Version = "0.3.0"

// Options configures a fetch.
type Options struct {
	AccessToken   string
	BaseURL       string           // empty = client.DefaultBaseURL
	FileURL       string           // Figma file URL
	FileKey       string           // used when FileURL is empty
	NodeIDs       []string         // empty = node ids of the URL, or the entire file
	Depth         int              // 0 = let Figma decide
	Debug         bool             // dump raw and simplified payloads
	DebugLogDir   string           // empty = client.DefaultDebugDir
	Format        formatter.Format // empty = YAML
	ExportImages  bool
	ImageDir      string // empty = imager.DefaultOutputDir
	ImageMaxWidth int    // 0 = keep rendered size
	HTTPClient    *http.Client
	Logger        Logger // nil = no logging
}

// Logger receives progress messages. A nil Logger means silent operation.
type Logger = client.Logger

// Result contains the fetch output.
type Result struct {
	Design   *simplify.Design
	FileKey  string
	FileName string                 // Figma file name
	Output   string                 // Design rendered in Options.Format
	Assets   []imager.ExportedAsset // exported images, when requested
}

func (o *Options) logInfo(f string, a ...any) {
	if o.Logger != nil {
		o.Logger.Infof(f, a...)
	}
}

func (o *Options) logWarn(f string, a ...any) {
	if o.Logger != nil {
		o.Logger.Warnf(f, a...)
	}
}

// NewClient builds the API client described by opts.
func NewClient(opts Options) *client.Client {
	clientOpts := []client.Option{
		client.WithBaseURL(opts.BaseURL),
		client.WithHTTPClient(opts.HTTPClient),
		client.WithLogger(opts.Logger),
	}
	if opts.Debug {
		clientOpts = append(clientOpts, client.WithDebug(opts.DebugLogDir))
	}

	return client.New(opts.AccessToken, clientOpts...)
}

// Run fetches the design addressed by opts, renders it and optionally
// exports node images.
func Run(ctx context.Context, opts Options) (*Result, error) {
	if opts.Format == "" {
		opts.Format = formatter.YAML
	}
	if opts.ImageDir == "" {
		opts.ImageDir = imager.DefaultOutputDir
	}

	if strings.TrimSpace(opts.AccessToken) == "" {
		return nil, figma.ErrEmptyToken
	}

	fileKey, targetNodeIDs, err := resolveTarget(&opts)
	if err != nil {
		return nil, err
	}
	opts.logInfo("File key: %s", fileKey)

	c := NewClient(opts)

	var design *simplify.Design
	if len(targetNodeIDs) > 0 {
		opts.logInfo("Fetching %d node(s) from Figma...", len(targetNodeIDs))
		design, err = c.FetchNode(ctx, fileKey, strings.Join(targetNodeIDs, ","), opts.Depth)
		if err != nil {
			return nil, ewrap.Wrap(err, "fetch nodes")
		}
	} else {
		opts.logInfo("Fetching entire file from Figma...")
		design, err = c.FetchFile(ctx, fileKey, opts.Depth)
		if err != nil {
			return nil, ewrap.Wrap(err, "fetch file")
		}
	}
	opts.logInfo("File: %s", design.Name)

	output, err := formatter.Render(design, opts.Format)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Design:   design,
		FileKey:  fileKey,
		FileName: design.Name,
		Output:   output,
	}

	if opts.ExportImages {
		assets, err := exportImages(ctx, &opts, c, fileKey, design, targetNodeIDs)
		if err != nil {
			return nil, err
		}
		result.Assets = assets
	}

	return result, nil
}

// resolveTarget returns the file key and the node ids to fetch.
// Explicit node ids win over the ones found in the URL.
func resolveTarget(opts *Options) (string, []string, error) {
	if opts.FileURL == "" {
		if opts.FileKey == "" {
			return "", nil, ewrap.Wrap(figma.ErrInvalidURL, "a file URL or file key is required")
		}

		return opts.FileKey, normalizeAll(opts.NodeIDs), nil
	}

	fileKey, err := figma.ExtractFileKey(opts.FileURL)
	if err != nil {
		return "", nil, ewrap.Wrap(err, "extract file key")
	}

	if len(opts.NodeIDs) > 0 {
		opts.logInfo("Using %d explicit node ID(s)", len(opts.NodeIDs))
		return fileKey, normalizeAll(opts.NodeIDs), nil
	}

	nodeIDs, err := figma.ExtractNodeIDs(opts.FileURL)
	if err != nil {
		return "", nil, ewrap.Wrap(err, "extract node IDs from URL")
	}
	if len(nodeIDs) > 0 {
		opts.logInfo("Found %d node(s) in URL", len(nodeIDs))
	} else {
		opts.logInfo("No node IDs found, will fetch entire file")
	}

	return fileKey, nodeIDs, nil
}

// exportImages renders the target nodes, or the designer-marked exportable
// nodes when the whole file was fetched.
func exportImages(ctx context.Context, opts *Options, c *client.Client, fileKey string, design *simplify.Design, targetNodeIDs []string) ([]imager.ExportedAsset, error) {
	nodes := make(map[string]string)
	if len(targetNodeIDs) > 0 {
		names := nodeNames(design.Nodes)
		for _, id := range targetNodeIDs {
			nodes[id] = names[id]
		}
	} else {
		nodes = imager.CollectExportableNodes(design.Nodes)
	}

	if len(nodes) == 0 {
		opts.logInfo("No exportable nodes")
		return nil, nil
	}

	opts.logInfo("Exporting %d image(s) to %s...", len(nodes), opts.ImageDir)
	result, err := imager.Export(ctx, c, fileKey, nodes, imager.ExportConfig{
		OutputDir: opts.ImageDir,
		MaxWidth:  opts.ImageMaxWidth,
	})
	if err != nil {
		return nil, ewrap.Wrap(err, "export images")
	}

	for _, exportErr := range result.Errors {
		opts.logWarn("%v", exportErr)
	}
	opts.logInfo("Exported %d image(s)", len(result.Assets))

	return result.Assets, nil
}

func nodeNames(nodes []*simplify.Node) map[string]string {
	names := make(map[string]string)
	var walk func([]*simplify.Node)
	walk = func(nodes []*simplify.Node) {
		for _, n := range nodes {
			names[n.ID] = n.Name
			walk(n.Children)
		}
	}
	walk(nodes)

	return names
}

func normalizeAll(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, figma.NormalizeNodeID(id))
	}

	return out
}

// ParseNodeIDs parses a comma-separated string of node IDs and returns a slice.
func ParseNodeIDs(nodeIDsStr string) []string {
	parts := strings.Split(nodeIDsStr, ",")
	result := make([]string, 0, len(parts))

	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
