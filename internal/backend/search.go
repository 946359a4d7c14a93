package backend

import (
	"context"
	"net/http"
	"net/url"
)

// SearchResult is one full-text search hit from the backend's index.
type SearchResult struct {
	ID       string                 `json:"id"`
	Content  string                 `json:"content"`
	Metadata map[string]interface{} `json:"metadata"`
}

// Search runs a full-text query against the backend's search index.
func (c *Client) Search(ctx context.Context, query string) ([]SearchResult, error) {
	params := url.Values{"q": []string{query}}

	var out []SearchResult
	if err := c.doJSON(ctx, http.MethodGet, "/api/search", params, nil, &out, "search"); err != nil {
		return nil, err
	}
	if out == nil {
		out = []SearchResult{}
	}
	return out, nil
}
