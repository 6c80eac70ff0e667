package imager

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/disintegration/imaging"
	"github.com/hyp3rd/ewrap"

	"github.com/kataras/figma-context/pkg/simplify"
)

// Renderer resolves and downloads rendered node images. *client.Client implements it.
type Renderer interface {
	FetchImageURL(ctx context.Context, fileKey, nodeID string) (string, error)
	FetchImageBase64(ctx context.Context, imageURL string) (string, error)
}

// ExportConfig holds configuration for image export.
type ExportConfig struct {
	OutputDir string // local directory, default "figma-assets"
	MaxWidth  int    // downsize wider images to this width; 0 keeps the original size
}

// ExportedAsset represents a single exported image file.
type ExportedAsset struct {
	NodeID   string
	NodeName string
	FileName string
	Width    int
	Height   int
}

// ExportResult holds the results of an image export operation.
type ExportResult struct {
	Assets []ExportedAsset
	Errors []error // non-fatal per-node failures
}

const maxParallelDownloads = 5

// DefaultOutputDir is used when ExportConfig.OutputDir is empty.
const DefaultOutputDir = "figma-assets"

// CollectExportableNodes walks the node trees and returns a map of nodeID -> nodeName
// for nodes that have export settings defined by the designer.
func CollectExportableNodes(roots []*simplify.Node) map[string]string {
	nodes := make(map[string]string)
	for _, root := range roots {
		collectExportable(root, nodes)
	}
	return nodes
}

func collectExportable(node *simplify.Node, nodes map[string]string) {
	if node.Exportable {
		nodes[node.ID] = node.Name
	}
	for _, child := range node.Children {
		collectExportable(child, nodes)
	}
}

// Export renders every node as PNG and writes it into config.OutputDir.
// Nodes are rendered concurrently; a failing node is recorded in the result
// and does not stop the others.
func Export(ctx context.Context, r Renderer, fileKey string, nodes map[string]string, config ExportConfig) (*ExportResult, error) {
	if config.OutputDir == "" {
		config.OutputDir = DefaultOutputDir
	}

	if err := os.MkdirAll(config.OutputDir, 0o755); err != nil {
		return nil, ewrap.Wrapf(err, "failed to create output directory %q", config.OutputDir)
	}

	result := &ExportResult{}
	fileNames := assignFileNames(nodes)

	var (
		wg  sync.WaitGroup
		mu  sync.Mutex
		sem = make(chan struct{}, maxParallelDownloads)
	)

	for nodeID, nodeName := range nodes {
		wg.Add(1)
		go func(nID, name, fileName string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			w, h, err := renderNode(ctx, r, fileKey, nID, filepath.Join(config.OutputDir, fileName), config.MaxWidth)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				result.Errors = append(result.Errors, ewrap.Wrapf(err, "failed to export %s (%s)", name, nID))
				return
			}

			result.Assets = append(result.Assets, ExportedAsset{
				NodeID:   nID,
				NodeName: name,
				FileName: fileName,
				Width:    w,
				Height:   h,
			})
		}(nodeID, nodeName, fileNames[nodeID])
	}

	wg.Wait()

	return result, nil
}

// assignFileNames gives every node a distinct file name. Nodes are visited in
// id order so the same input always yields the same names; a taken name gets
// the first free -2, -3, ... suffix.
func assignFileNames(nodes map[string]string) map[string]string {
	ids := make([]string, 0, len(nodes))
	for id := range nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	used := make(map[string]bool, len(ids))
	names := make(map[string]string, len(ids))

	for _, id := range ids {
		fileName := buildFileName(nodes[id], id)
		if used[fileName] {
			ext := filepath.Ext(fileName)
			base := strings.TrimSuffix(fileName, ext)
			for n := 2; ; n++ {
				candidate := fmt.Sprintf("%s-%d%s", base, n, ext)
				if !used[candidate] {
					fileName = candidate
					break
				}
			}
		}
		used[fileName] = true
		names[id] = fileName
	}

	return names
}

// renderNode fetches the rendered image of a node and saves it to destPath,
// returning the dimensions of the written image.
func renderNode(ctx context.Context, r Renderer, fileKey, nodeID, destPath string, maxWidth int) (int, int, error) {
	imageURL, err := r.FetchImageURL(ctx, fileKey, nodeID)
	if err != nil {
		return 0, 0, err
	}

	encoded, err := r.FetchImageBase64(ctx, imageURL)
	if err != nil {
		return 0, 0, err
	}

	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return 0, 0, ewrap.Wrap(err, "failed to decode image payload")
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return 0, 0, ewrap.Wrap(err, "failed to decode image")
	}

	if maxWidth <= 0 || img.Bounds().Dx() <= maxWidth {
		if err := os.WriteFile(destPath, data, 0o644); err != nil {
			return 0, 0, ewrap.Wrapf(err, "failed to write file %q", destPath)
		}
		return img.Bounds().Dx(), img.Bounds().Dy(), nil
	}

	img = imaging.Resize(img, maxWidth, 0, imaging.Lanczos)
	if err := imaging.Save(img, destPath); err != nil {
		return 0, 0, ewrap.Wrapf(err, "failed to write file %q", destPath)
	}

	return img.Bounds().Dx(), img.Bounds().Dy(), nil
}

// buildFileName creates a sanitized .png filename from a node name,
// falling back to the node id when the name is empty.
func buildFileName(nodeName, nodeID string) string {
	name := toKebabCase(nodeName)
	if name == "" {
		name = toKebabCase(strings.NewReplacer(":", "-", ";", "-").Replace(nodeID))
	}
	if name == "" {
		name = "asset"
	}

	return name + ".png"
}

// toKebabCase converts a string to kebab-case format (lowercase with hyphens).
func toKebabCase(s string) string {
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, " ", "-")
	s = strings.ReplaceAll(s, "_", "-")

	var result strings.Builder
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' {
			result.WriteRune(r)
		}
	}

	return result.String()
}
