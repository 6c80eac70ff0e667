package client

import (
	"bytes"
	"os"
	"path/filepath"

	"github.com/goccy/go-json"
	"github.com/hyp3rd/ewrap"
)

const (
	rawDebugFile        = "figma-raw.json"
	simplifiedDebugFile = "figma-simplified.json"
)

// writeDebug dumps the payloads of a fetch when debug logging is enabled.
// Failures are logged and never returned to the caller of the fetch.
func (c *Client) writeDebug(raw []byte, simplified any) {
	if !c.debug {
		return
	}

	if err := writeDebugLogs(c.debugDir, raw, simplified); err != nil {
		c.infof("Failed to write debug logs to %s: %v", c.debugDir, err)
	}
}

// writeDebugLogs writes the indented raw response and the simplified design
// into dir, creating it if needed.
func writeDebugLogs(dir string, raw []byte, simplified any) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return ewrap.Wrap(err, "failed to create debug log directory")
	}

	var indented bytes.Buffer
	if err := json.Indent(&indented, raw, "", "  "); err != nil {
		indented.Reset()
		indented.Write(raw)
	}

	if err := os.WriteFile(filepath.Join(dir, rawDebugFile), indented.Bytes(), 0o644); err != nil {
		return ewrap.Wrap(err, "failed to write raw payload")
	}

	data, err := json.MarshalIndent(simplified, "", "  ")
	if err != nil {
		return ewrap.Wrap(err, "failed to marshal simplified design")
	}

	if err := os.WriteFile(filepath.Join(dir, simplifiedDebugFile), data, 0o644); err != nil {
		return ewrap.Wrap(err, "failed to write simplified payload")
	}

	return nil
}
