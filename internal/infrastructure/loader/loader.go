// Package loader reads large source datasets incrementally: file
// discovery, transparent gzip, and token-level JSON streaming so a
// multi-gigabyte dump never has to fit in memory.
package loader

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ErrNoDataFile reports that none of the expected data files exist in the
// searched directory. It carries enough context for an actionable message.
type ErrNoDataFile struct {
	Dir      string
	Patterns []string
}

func (e *ErrNoDataFile) Error() string {
	return fmt.Sprintf("no data file matching %s in %s", strings.Join(e.Patterns, ", "), e.Dir)
}

// FindFile returns the first file in dir matching one of the glob
// patterns, in pattern order. Patterns earlier in the list are preferred
// sources (typically the compressed variant).
func FindFile(dir string, patterns ...string) (string, error) {
	for _, pattern := range patterns {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return "", fmt.Errorf("globbing %q: %w", pattern, err)
		}
		if len(matches) > 0 {
			return matches[0], nil
		}
	}
	return "", &ErrNoDataFile{Dir: dir, Patterns: patterns}
}

// Open opens a data file with transparent gzip decompression based on the
// file extension. The returned closer closes both layers.
func Open(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	if !strings.HasSuffix(path, ".gz") {
		return f, nil
	}
	gz, err := gzip.NewReader(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("opening gzip stream %s: %w", path, err)
	}
	return &gzipFile{gz: gz, file: f}, nil
}

type gzipFile struct {
	gz   *gzip.Reader
	file *os.File
}

func (g *gzipFile) Read(p []byte) (int, error) {
	return g.gz.Read(p)
}

func (g *gzipFile) Close() error {
	gzErr := g.gz.Close()
	if err := g.file.Close(); err != nil {
		return err
	}
	return gzErr
}

// StreamArray decodes a JSON document one element at a time and calls fn
// for each. The document is either a top-level array or an object whose
// "@graph" member holds the array. Elements are handed over raw so the
// caller picks typed or generic decoding per element. fn returning an
// error stops the stream.
func StreamArray(r io.Reader, fn func(json.RawMessage) error) error {
	dec := json.NewDecoder(r)

	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("reading document start: %w", err)
	}

	switch delim, ok := tok.(json.Delim); {
	case ok && delim == '[':
		return streamElements(dec, fn)
	case ok && delim == '{':
		return streamGraphMember(dec, fn)
	default:
		return fmt.Errorf("unexpected document start %v, want array or object", tok)
	}
}

// streamGraphMember scans an object's members for "@graph" and streams its
// array. Other members are skipped without buffering their values.
func streamGraphMember(dec *json.Decoder, fn func(json.RawMessage) error) error {
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("reading member name: %w", err)
		}
		name, ok := tok.(string)
		if !ok {
			return fmt.Errorf("unexpected token %v, want member name", tok)
		}

		if name != "@graph" {
			var skip json.RawMessage
			if err := dec.Decode(&skip); err != nil {
				return fmt.Errorf("skipping member %q: %w", name, err)
			}
			continue
		}

		tok, err = dec.Token()
		if err != nil {
			return fmt.Errorf("reading @graph start: %w", err)
		}
		if delim, ok := tok.(json.Delim); !ok || delim != '[' {
			return fmt.Errorf("unexpected @graph start %v, want array", tok)
		}
		return streamElements(dec, fn)
	}
	return fmt.Errorf("document has no @graph member")
}

func streamElements(dec *json.Decoder, fn func(json.RawMessage) error) error {
	for dec.More() {
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("decoding element: %w", err)
		}
		if err := fn(raw); err != nil {
			return err
		}
	}
	return nil
}

// DecodeGeneric decodes a raw element into a generic map, keeping numbers
// as json.Number so arbitrary-precision source values survive the decode,
// then normalizes them to float64 for uniform downstream handling.
func DecodeGeneric(raw json.RawMessage) (map[string]any, error) {
	dec := json.NewDecoder(strings.NewReader(string(raw)))
	dec.UseNumber()

	var m map[string]any
	if err := dec.Decode(&m); err != nil {
		return nil, fmt.Errorf("decoding element: %w", err)
	}
	normalized, _ := Normalize(m).(map[string]any)
	return normalized, nil
}

// Normalize walks a generic decoded value and converts every json.Number
// to float64, recursing into maps and slices.
func Normalize(v any) any {
	switch t := v.(type) {
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return t.String()
		}
		return f
	case map[string]any:
		for k, val := range t {
			t[k] = Normalize(val)
		}
		return t
	case []any:
		for i, val := range t {
			t[i] = Normalize(val)
		}
		return t
	default:
		return v
	}
}
