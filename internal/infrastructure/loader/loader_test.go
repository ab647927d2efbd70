package loader

import (
	"compress/gzip"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "places.json"), []byte("[]"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "places.json.gz"), []byte("x"), 0o644))

	t.Run("prefers earlier pattern", func(t *testing.T) {
		path, err := FindFile(dir, "*.json.gz", "*.json")
		require.NoError(t, err)
		assert.True(t, strings.HasSuffix(path, "places.json.gz"))
	})

	t.Run("falls through to later pattern", func(t *testing.T) {
		path, err := FindFile(dir, "*.csv", "*.json")
		require.NoError(t, err)
		assert.True(t, strings.HasSuffix(path, "places.json"))
	})

	t.Run("nothing matches", func(t *testing.T) {
		_, err := FindFile(dir, "*.xml")
		var notFound *ErrNoDataFile
		require.ErrorAs(t, err, &notFound)
		assert.Equal(t, dir, notFound.Dir)
	})
}

func TestOpen_Gzip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.json.gz")

	f, err := os.Create(path)
	require.NoError(t, err)
	gz := gzip.NewWriter(f)
	_, err = gz.Write([]byte(`{"ok":true}`))
	require.NoError(t, err)
	require.NoError(t, gz.Close())
	require.NoError(t, f.Close())

	r, err := Open(path)
	require.NoError(t, err)
	defer r.Close()

	var v map[string]any
	require.NoError(t, json.NewDecoder(r).Decode(&v))
	assert.Equal(t, true, v["ok"])
}

func TestStreamArray(t *testing.T) {
	collect := func(doc string) ([]string, error) {
		var ids []string
		err := StreamArray(strings.NewReader(doc), func(raw json.RawMessage) error {
			var el struct {
				ID string `json:"id"`
			}
			if err := json.Unmarshal(raw, &el); err != nil {
				return err
			}
			ids = append(ids, el.ID)
			return nil
		})
		return ids, err
	}

	t.Run("top-level array", func(t *testing.T) {
		ids, err := collect(`[{"id":"a"},{"id":"b"}]`)
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b"}, ids)
	})

	t.Run("graph member", func(t *testing.T) {
		ids, err := collect(`{"@context":{"skip":"me"},"@graph":[{"id":"a"},{"id":"b"},{"id":"c"}]}`)
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b", "c"}, ids)
	})

	t.Run("object without graph member", func(t *testing.T) {
		_, err := collect(`{"items":[{"id":"a"}]}`)
		assert.Error(t, err)
	})

	t.Run("callback error stops the stream", func(t *testing.T) {
		stop := errors.New("stop")
		count := 0
		err := StreamArray(strings.NewReader(`[{},{},{}]`), func(json.RawMessage) error {
			count++
			return stop
		})
		assert.ErrorIs(t, err, stop)
		assert.Equal(t, 1, count)
	})
}

func TestDecodeGeneric(t *testing.T) {
	m, err := DecodeGeneric(json.RawMessage(`{
		"start": -600,
		"ratio": 0.95,
		"nested": {"end": 640},
		"list": [1, 2.5]
	}`))
	require.NoError(t, err)

	assert.Equal(t, float64(-600), m["start"])
	assert.Equal(t, 0.95, m["ratio"])
	assert.Equal(t, float64(640), m["nested"].(map[string]any)["end"])
	assert.Equal(t, []any{float64(1), 2.5}, m["list"])
}
