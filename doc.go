// Package figmacontext fetches Figma designs through the Figma REST API and
// turns them into a compact, deduplicated design description suited for
// feeding into code generators and language models.
//
// The CLI lives in cmd/figma-context; this root package exposes the same
// pipeline as a Go API so that callers can embed it in their own tools
// without shelling out. The building blocks live under pkg/: the API
// client in pkg/client, the response types and error kinds in pkg/figma,
// the simplifier in pkg/simplify, the renderers in pkg/formatter and the
// image exporter in pkg/imager.
//
// # Import
//
// The module path contains a hyphen but Go package names cannot, so the
// package is named figmacontext:
//
//	import "github.com/kataras/figma-context" // package figmacontext
//
// # Quick start
//
//	result, err := figmacontext.Run(ctx, figmacontext.Options{
//	    AccessToken: os.Getenv("FIGMA_API_KEY"),
//	    FileURL:     "https://www.figma.com/design/ABC123/My-Design?node-id=1-2",
//	    Format:      formatter.YAML,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile("design.yaml", []byte(result.Output), 0644)
//
// # Errors
//
// API failures are reported as *figma.Error. Use figma.IsRemote,
// figma.IsTransport and figma.IsNotFound, or errors.As, to tell them apart.
// Requests are never retried.
//
// # Logging
//
// Pass a [Logger] implementation in [Options.Logger] to receive progress
// messages. A nil Logger silences all output. pkg/logging adapts a zerolog
// logger to this interface.
//
// # Image export
//
// When [Options.ExportImages] is true the targeted nodes, or the nodes that
// carry Figma export settings when the whole file is fetched, are rendered
// as PNG and written to [Options.ImageDir], downsized to
// [Options.ImageMaxWidth] when set.
package figmacontext
