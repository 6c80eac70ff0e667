package figma

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/hyp3rd/ewrap"
)

// Anchored so that look-alike hosts and paths cannot slip through.
var (
	fileKeyPattern   = regexp.MustCompile(`^https?://(?:www\.)?figma\.com/(?:file|design|proto)/([A-Za-z0-9]+)(?:[/?#]|$)`)
	nodeQueryPattern = regexp.MustCompile(`[?&]node-id=([^&#]*)`)
	nodePathPattern  = regexp.MustCompile(`/nodes/([^?#]+)`)
)

// NormalizeNodeID converts the hyphenated node id form used in Figma URLs to
// the colon form the API expects. Only the first hyphen is replaced.
func NormalizeNodeID(nodeID string) string {
	return strings.Replace(nodeID, "-", ":", 1)
}

// ExtractFileKey extracts the file key from a Figma URL.
// Supports /file/, /design/ and /proto/ URLs (e.g. figma.com/design/ABC123/Design-Name).
func ExtractFileKey(figmaURL string) (string, error) {
	matches := fileKeyPattern.FindStringSubmatch(figmaURL)
	if len(matches) < 2 {
		return "", ewrap.Wrap(ErrInvalidURL, "must be a figma.com URL with a /file/, /design/ or /proto/ path")
	}

	return matches[1], nil
}

// ExtractNodeIDs returns the node ids referenced by a Figma URL, in the
// API's colon form. It understands the node-id query parameter, the hash
// fragment form (#123:456) and the /nodes/ path form. Multiple ids are comma
// separated. An URL without node ids yields an empty slice.
func ExtractNodeIDs(figmaURL string) ([]string, error) {
	raw := ""

	switch {
	case nodeQueryPattern.MatchString(figmaURL):
		raw = nodeQueryPattern.FindStringSubmatch(figmaURL)[1]
	case nodePathPattern.MatchString(figmaURL):
		raw = nodePathPattern.FindStringSubmatch(figmaURL)[1]
	default:
		if i := strings.IndexByte(figmaURL, '#'); i >= 0 {
			raw = figmaURL[i+1:]
		}
	}

	if raw == "" {
		return []string{}, nil
	}

	decoded, err := url.QueryUnescape(raw)
	if err != nil {
		return nil, ewrap.Wrapf(ErrInvalidURL, "node-id %q", raw)
	}

	ids := make([]string, 0)
	for _, part := range strings.Split(decoded, ",") {
		id := strings.TrimSpace(part)
		if id == "" {
			continue
		}
		ids = append(ids, NormalizeNodeID(id))
	}

	return deduplicateNodeIDs(ids), nil
}

// deduplicateNodeIDs removes repeated ids, keeping the first occurrence order.
func deduplicateNodeIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	result := make([]string, 0, len(ids))

	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		result = append(result, id)
	}

	return result
}
