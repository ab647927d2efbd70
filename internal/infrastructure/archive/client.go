// Package archive implements the digitized-book catalog client against
// the Internet Archive advanced-search API.
package archive

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/ersonp/historia/internal/domain/ports"
	"github.com/ersonp/historia/internal/infrastructure/config"
)

// ErrNotConfigured reports that the client was built without a base URL.
var ErrNotConfigured = errors.New("archive: base url is required")

// userAgent identifies catalog requests.
const userAgent = "historia/1.0 (historical-knowledge-ingestion)"

// Client implements ports.CatalogSearcher against the advanced-search
// endpoint. Configuration problems surface at construction, not on the
// first search deep inside an ingestion run.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a catalog client from configuration.
func NewClient(cfg config.ArchiveConfig) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, ErrNotConfigured
	}
	if _, err := url.Parse(cfg.BaseURL); err != nil {
		return nil, fmt.Errorf("parsing archive base url: %w", err)
	}

	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: cfg.BaseURL,
		http:    &http.Client{Timeout: timeout},
	}, nil
}

// searchResponse mirrors the advanced-search JSON envelope. Creator can be
// a string or an array of strings depending on the record.
type searchResponse struct {
	Response struct {
		Docs []searchDoc `json:"docs"`
	} `json:"response"`
}

type searchDoc struct {
	Identifier string      `json:"identifier"`
	Title      string      `json:"title"`
	Creator    stringOrSet `json:"creator"`
	Date       string      `json:"date"`
	Language   stringOrSet `json:"language"`
}

// stringOrSet decodes a JSON member that is either a string or an array
// of strings, keeping the first value.
type stringOrSet string

func (s *stringOrSet) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*s = stringOrSet(single)
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return err
	}
	if len(many) > 0 {
		*s = stringOrSet(many[0])
	}
	return nil
}

// Search runs a catalog query and returns at most limit items.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]ports.CatalogItem, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("fl[]", "identifier,title,creator,date,language")
	params.Set("rows", strconv.Itoa(limit))
	params.Set("output", "json")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating search request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("searching catalog: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("catalog search: HTTP %d", resp.StatusCode)
	}

	var decoded searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decoding search response: %w", err)
	}

	items := make([]ports.CatalogItem, 0, len(decoded.Response.Docs))
	for _, doc := range decoded.Response.Docs {
		if doc.Identifier == "" {
			continue
		}
		items = append(items, ports.CatalogItem{
			Identifier: doc.Identifier,
			Title:      doc.Title,
			Creator:    string(doc.Creator),
			Date:       doc.Date,
			Language:   string(doc.Language),
		})
	}
	return items, nil
}
