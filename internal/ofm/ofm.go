// Package ofm reads the output file map: the JSON document mapping
// each input path (and the empty string for whole-module outputs) to a
// {FileType-name: output-path} object. Lookups go through
// gjson so a driver invocation that only needs one key (where does
// a.swift's object go) never decodes the whole document.
package ofm

import (
	"fmt"
	"os"

	"github.com/tidwall/gjson"

	"github.com/detentsh/driver/internal/filetype"
)

// Map is a parsed-enough output file map: the raw JSON is kept and
// queried lazily per (input, FileType) pair.
type Map struct {
	raw []byte
}

// InvalidError is raised when the file at path is not a JSON object.
type InvalidError struct {
	Path string
}

func (e *InvalidError) Error() string {
	return fmt.Sprintf("ofm: %s is not a JSON object", e.Path)
}

// Load reads and validates the output file map at path.
func Load(path string) (*Map, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- path comes from the -output-file-map flag
	if err != nil {
		return nil, fmt.Errorf("ofm: reading %s: %w", path, err)
	}
	return Parse(data, path)
}

// Parse validates raw as an output file map. name is used in error
// messages only.
func Parse(raw []byte, name string) (*Map, error) {
	if !gjson.ValidBytes(raw) || !gjson.ParseBytes(raw).IsObject() {
		return nil, &InvalidError{Path: name}
	}
	return &Map{raw: raw}, nil
}

// Output returns the configured output path for (input, ft), or
// ("", false) when the map has no entry, in which case the planner
// falls back to default-path derivation. The FileType key is its display
// name, the same string the progress stream reports.
func (m *Map) Output(input string, ft filetype.FileType) (string, bool) {
	if m == nil {
		return "", false
	}
	var entry gjson.Result
	if input == "" {
		// gjson's path syntax cannot address an empty-string key, so the
		// whole-module entry is found by scanning top-level keys.
		gjson.ParseBytes(m.raw).ForEach(func(key, value gjson.Result) bool {
			if key.String() == "" {
				entry = value
				return false
			}
			return true
		})
	} else {
		entry = gjson.GetBytes(m.raw, escapeKey(input))
	}
	if !entry.IsObject() {
		return "", false
	}
	v := entry.Get(escapeKey(ft.DisplayName()))
	if !v.Exists() {
		return "", false
	}
	return v.String(), true
}

// WholeModuleOutput returns the whole-module output for ft, stored
// under the empty-string key.
func (m *Map) WholeModuleOutput(ft filetype.FileType) (string, bool) {
	return m.Output("", ft)
}

// Entries returns every input-path key in the map, in document order.
// The empty whole-module key is included when present.
func (m *Map) Entries() []string {
	if m == nil {
		return nil
	}
	var keys []string
	gjson.ParseBytes(m.raw).ForEach(func(key, _ gjson.Result) bool {
		keys = append(keys, key.String())
		return true
	})
	return keys
}

// escapeKey protects the gjson path syntax characters that can appear
// in real file paths ('.' in every extension, '*' and '?' in odd but
// legal filenames).
func escapeKey(key string) string {
	out := make([]byte, 0, len(key))
	for i := 0; i < len(key); i++ {
		switch key[i] {
		case '.', '*', '?', '\\', '|', '#', '@':
			out = append(out, '\\')
		}
		out = append(out, key[i])
	}
	return string(out)
}
