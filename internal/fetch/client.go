// Package fetch retrieves scripture passages from bible-api.com and
// discovers per-book chapter and verse bounds, pacing probe sequences
// to respect the service's rate limits.
package fetch

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/charmbracelet/log"

	"github.com/mesh-intelligence/concord/pkg/types"
)

const defaultBaseURL = "http://bible-api.com"

// Fetcher retrieves a passage payload. verses may be a single number,
// a range like "1-5", or empty for a whole chapter; translation may be
// empty for the service default.
type Fetcher interface {
	Fetch(book string, chapter int, verses, translation string) (*types.VersePayload, error)
}

// Client is a Fetcher backed by bible-api.com.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient returns a Client with a 10s request timeout. An empty
// baseURL uses the public service.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// Fetch retrieves the referenced passage.
func (c *Client) Fetch(book string, chapter int, verses, translation string) (*types.VersePayload, error) {
	ref := fmt.Sprintf("%s+%d", book, chapter)
	if verses != "" {
		ref += ":" + verses
	}
	u := c.baseURL + "/" + url.PathEscape(ref)
	if translation != "" {
		u += "?translation=" + url.QueryEscape(translation)
	}
	return c.get(u)
}

// Random retrieves a random verse, optionally for one translation.
func (c *Client) Random(translation string) (*types.VersePayload, error) {
	u := c.baseURL + "/?random=verse"
	if translation != "" {
		u += "&translation=" + url.QueryEscape(translation)
	}
	return c.get(u)
}

func (c *Client) get(u string) (*types.VersePayload, error) {
	log.Debug("fetching", "url", u)
	resp, err := c.http.Get(u)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", u, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching %s: unexpected status %d", u, resp.StatusCode)
	}

	var payload types.VersePayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decoding response from %s: %w", u, err)
	}
	log.Info("fetched passage", "reference", payload.Reference, "verses", len(payload.Verses))
	return &payload, nil
}
