package archive

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ersonp/historia/internal/infrastructure/config"
)

func TestNewClient_RequiresBaseURL(t *testing.T) {
	_, err := NewClient(config.ArchiveConfig{})
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestClient_Search(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "herodotus histories", r.URL.Query().Get("q"))
		assert.Equal(t, "5", r.URL.Query().Get("rows"))
		assert.Equal(t, "json", r.URL.Query().Get("output"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"response": {
				"docs": [
					{
						"identifier": "historiesofherodo01hero",
						"title": "The histories of Herodotus",
						"creator": ["Herodotus", "Macaulay, G. C."],
						"date": "1890-01-01T00:00:00Z",
						"language": "eng"
					},
					{
						"identifier": "herodotusgreek02hero",
						"title": "Herodotus, Greek text",
						"creator": "Herodotus",
						"language": ["grc", "eng"]
					},
					{"title": "no identifier, dropped"}
				]
			}
		}`))
	}))
	defer srv.Close()

	c, err := NewClient(config.ArchiveConfig{BaseURL: srv.URL, TimeoutSeconds: 5})
	require.NoError(t, err)

	items, err := c.Search(context.Background(), "herodotus histories", 5)
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, "historiesofherodo01hero", items[0].Identifier)
	assert.Equal(t, "Herodotus", items[0].Creator)
	assert.Equal(t, "eng", items[0].Language)
	assert.Equal(t, "grc", items[1].Language)
}

func TestClient_SearchHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream broken", http.StatusBadGateway)
	}))
	defer srv.Close()

	c, err := NewClient(config.ArchiveConfig{BaseURL: srv.URL})
	require.NoError(t, err)

	_, err = c.Search(context.Background(), "anything", 1)
	assert.ErrorContains(t, err, "HTTP 502")
}
