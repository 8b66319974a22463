// Package enrichment provides an optional TMDb-backed lookup the
// Season handler may call when synthesising a stub show
// (§4.D) and the remote payload is thin on year/artwork. It is never
// required for correctness — a handler that skips enrichment still
// produces a valid stub, per the original's "fields absent on the
// season are left zero-valued" rule (SPEC_FULL §6 supplement).
package enrichment

import (
	"context"
	"fmt"

	tmdb "github.com/cyruzin/golang-tmdb"
)

// ShowEnrichment is the subset of a TMDb show result a stub show can
// use to fill in fields the remote season payload left empty.
type ShowEnrichment struct {
	Year      int
	PosterURL string
	Overview  string
}

// Client wraps a golang-tmdb client, scoped to the single lookup the
// Season handler needs: search by title, take the best match.
type Client struct {
	api *tmdb.Client
}

// NewClient constructs an enrichment Client for the given TMDb API
// key. Returns an error if the key is empty or the SDK rejects it.
func NewClient(apiKey string) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("tmdb enrichment: empty api key")
	}
	api, err := tmdb.Init(apiKey)
	if err != nil {
		return nil, fmt.Errorf("tmdb enrichment: init: %w", err)
	}
	return &Client{api: api}, nil
}

const posterBaseURL = "https://image.tmdb.org/t/p/w342"

// LookupShow searches TMDb for title and returns enrichment fields
// from the top result, or (nil, nil) if TMDb has no match — a miss is
// not an error, since enrichment is best-effort.
func (c *Client) LookupShow(ctx context.Context, title string) (*ShowEnrichment, error) {
	results, err := c.api.GetSearchTVShow(title, map[string]string{})
	if err != nil {
		return nil, fmt.Errorf("tmdb enrichment: search %q: %w", title, err)
	}
	if results == nil || len(results.Results) == 0 {
		return nil, nil
	}
	top := results.Results[0]
	enrichment := &ShowEnrichment{Overview: top.Overview}
	if len(top.FirstAirDate) >= 4 {
		fmt.Sscanf(top.FirstAirDate[:4], "%d", &enrichment.Year)
	}
	if top.PosterPath != "" {
		enrichment.PosterURL = posterBaseURL + top.PosterPath
	}
	return enrichment, nil
}
