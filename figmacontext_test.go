package figmacontext

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kataras/figma-context/pkg/figma"
	"github.com/kataras/figma-context/pkg/formatter"
)

const testFileJSON = `{
  "name": "Landing",
  "lastModified": "2026-01-02T03:04:05Z",
  "thumbnailUrl": "https://thumb.example.com/x.png",
  "document": {
    "id": "0:0", "name": "Document", "type": "DOCUMENT",
    "children": [{
      "id": "0:1", "name": "Page 1", "type": "CANVAS",
      "children": [
        {
          "id": "1:2", "name": "Hero", "type": "FRAME",
          "absoluteBoundingBox": {"x": 0, "y": 0, "width": 8, "height": 4},
          "exportSettings": [{"format": "PNG", "suffix": "", "constraint": {"type": "SCALE", "value": 1}}],
          "fills": [{"type": "SOLID", "color": {"r": 1, "g": 0, "b": 0, "a": 1}}]
        },
        {"id": "1:3", "name": "Footer", "type": "FRAME"}
      ]
    }]
  }
}`

const testNodesJSON = `{
  "name": "Landing",
  "lastModified": "2026-01-02T03:04:05Z",
  "nodes": {
    "1:2": {"document": {"id": "1:2", "name": "Hero", "type": "FRAME",
      "fills": [{"type": "SOLID", "color": {"r": 1, "g": 0, "b": 0, "a": 1}}]}}
  }
}`

// fakeFigma serves the file, nodes, images and CDN endpoints for file key ABC123.
type fakeFigma struct {
	*httptest.Server

	mu       sync.Mutex
	requests []*http.Request
	status   int
}

func newFakeFigma(t *testing.T) *fakeFigma {
	t.Helper()

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewNRGBA(image.Rect(0, 0, 8, 4))))
	pngData := buf.Bytes()

	f := &fakeFigma{status: http.StatusOK}
	f.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.requests = append(f.requests, r.Clone(context.Background()))
		status := f.status
		f.mu.Unlock()

		if status != http.StatusOK {
			w.WriteHeader(status)
			w.Write([]byte(`{"status":403,"err":"Invalid token"}`))
			return
		}

		switch {
		case r.URL.Path == "/files/ABC123":
			w.Write([]byte(testFileJSON))
		case r.URL.Path == "/files/ABC123/nodes":
			w.Write([]byte(testNodesJSON))
		case r.URL.Path == "/images/ABC123":
			id := r.URL.Query().Get("ids")
			body, _ := json.Marshal(map[string]any{
				"images": map[string]string{id: f.URL + "/cdn/" + strings.ReplaceAll(id, ":", "-") + ".png"},
			})
			w.Write(body)
		case strings.HasPrefix(r.URL.Path, "/cdn/"):
			w.Header().Set("Content-Type", "image/png")
			w.Write(pngData)
		default:
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"status":404,"err":"Not found"}`))
		}
	}))
	t.Cleanup(f.Close)

	return f
}

func (f *fakeFigma) paths() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	paths := make([]string, 0, len(f.requests))
	for _, r := range f.requests {
		paths = append(paths, r.URL.RequestURI())
	}

	return paths
}

func (f *fakeFigma) options() Options {
	return Options{
		AccessToken: "figd_test",
		BaseURL:     f.URL,
	}
}

func TestRunNodeFromURL(t *testing.T) {
	srv := newFakeFigma(t)

	opts := srv.options()
	opts.FileURL = "https://www.figma.com/design/ABC123/Landing?node-id=1-2"
	opts.Format = formatter.JSON

	result, err := Run(context.Background(), opts)
	require.NoError(t, err)

	assert.Equal(t, "ABC123", result.FileKey)
	assert.Equal(t, "Landing", result.FileName)
	require.Len(t, result.Design.Nodes, 1)
	assert.Equal(t, "Hero", result.Design.Nodes[0].Name)
	assert.Contains(t, result.Output, `"name": "Hero"`)
	assert.Empty(t, result.Assets)

	assert.Equal(t, []string{"/files/ABC123/nodes?ids=1:2"}, srv.paths())
}

func TestRunExplicitNodeIDsWin(t *testing.T) {
	srv := newFakeFigma(t)

	opts := srv.options()
	opts.FileURL = "https://www.figma.com/design/ABC123/Landing?node-id=9-9"
	opts.NodeIDs = []string{"1-2", "1:3"}
	opts.Depth = 2

	_, err := Run(context.Background(), opts)
	require.NoError(t, err)

	assert.Equal(t, []string{"/files/ABC123/nodes?ids=1:2,1:3&depth=2"}, srv.paths())
}

func TestRunFileKeyWithoutURL(t *testing.T) {
	srv := newFakeFigma(t)

	opts := srv.options()
	opts.FileKey = "ABC123"

	result, err := Run(context.Background(), opts)
	require.NoError(t, err)

	assert.Equal(t, []string{"/files/ABC123"}, srv.paths())
	// default format is YAML
	assert.Contains(t, result.Output, "name: Landing")
	require.Len(t, result.Design.Nodes, 1)
	assert.Len(t, result.Design.Nodes[0].Children, 2)
}

func TestRunExportsMarkedNodes(t *testing.T) {
	srv := newFakeFigma(t)
	dir := filepath.Join(t.TempDir(), "assets")

	opts := srv.options()
	opts.FileURL = "https://www.figma.com/file/ABC123/Landing"
	opts.ExportImages = true
	opts.ImageDir = dir

	result, err := Run(context.Background(), opts)
	require.NoError(t, err)

	require.Len(t, result.Assets, 1)
	assert.Equal(t, "1:2", result.Assets[0].NodeID)
	assert.Equal(t, "hero.png", result.Assets[0].FileName)

	_, err = os.Stat(filepath.Join(dir, "hero.png"))
	assert.NoError(t, err)

	for _, p := range srv.paths() {
		assert.NotContains(t, p, "1:3", "footer has no export settings")
	}
}

func TestRunExportsTargetNodes(t *testing.T) {
	srv := newFakeFigma(t)
	dir := t.TempDir()

	opts := srv.options()
	opts.FileURL = "https://www.figma.com/design/ABC123/Landing?node-id=1-2"
	opts.ExportImages = true
	opts.ImageDir = dir

	result, err := Run(context.Background(), opts)
	require.NoError(t, err)

	require.Len(t, result.Assets, 1)
	assert.Equal(t, "Hero", result.Assets[0].NodeName)
	assert.Equal(t, 8, result.Assets[0].Width)
}

func TestRunErrors(t *testing.T) {
	srv := newFakeFigma(t)

	t.Run("empty token", func(t *testing.T) {
		opts := srv.options()
		opts.AccessToken = " "
		opts.FileKey = "ABC123"

		_, err := Run(context.Background(), opts)
		assert.ErrorIs(t, err, figma.ErrEmptyToken)
	})

	t.Run("invalid url", func(t *testing.T) {
		opts := srv.options()
		opts.FileURL = "https://example.com/design/ABC123"

		_, err := Run(context.Background(), opts)
		assert.ErrorIs(t, err, figma.ErrInvalidURL)
	})

	t.Run("no target", func(t *testing.T) {
		_, err := Run(context.Background(), srv.options())
		assert.ErrorIs(t, err, figma.ErrInvalidURL)
	})

	t.Run("remote error", func(t *testing.T) {
		srv.mu.Lock()
		srv.status = http.StatusForbidden
		srv.mu.Unlock()
		t.Cleanup(func() {
			srv.mu.Lock()
			srv.status = http.StatusOK
			srv.mu.Unlock()
		})

		opts := srv.options()
		opts.FileKey = "ABC123"

		_, err := Run(context.Background(), opts)
		require.Error(t, err)
		assert.True(t, figma.IsRemote(err))

		apiErr, ok := figma.AsError(err)
		require.True(t, ok)
		assert.Equal(t, http.StatusForbidden, apiErr.Status)
		assert.Equal(t, "Invalid token", apiErr.Message)
	})

	t.Run("unknown format", func(t *testing.T) {
		opts := srv.options()
		opts.FileKey = "ABC123"
		opts.Format = "xml"

		_, err := Run(context.Background(), opts)
		assert.ErrorIs(t, err, formatter.ErrUnknownFormat)
	})
}

func TestParseNodeIDs(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"1:2", []string{"1:2"}},
		{"1:2, 3-4 ,", []string{"1:2", "3-4"}},
		{"", []string{}},
		{" , ", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseNodeIDs(tt.input))
		})
	}
}
