package propmap

import (
	"fmt"
	"sort"
	"strings"
)

// FormatError reports malformed INI text or a duplicate key (spec.md
// §4.7/§7's PropertyMapFormatError): importing one must leave the
// allocator's existing state untouched.
type FormatError struct {
	Line int
	Text string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("property map: line %d: %s", e.Line, e.Text)
}

// Map is an original-name -> renamed-name mapping, loaded from or about
// to be serialized to the persistent property-map file. It keeps no
// order of its own; Serialize writes the entries sorted by original name.
type Map struct {
	entries map[string]string
}

func NewMap() *Map { return &Map{entries: map[string]string{}} }

// Parse decodes UTF-8 INI text: `key=value` pairs, comment lines
// starting with `#` or `;`, blank lines ignored, surrounding whitespace
// trimmed. A duplicate key is an error, and so is a renamed value that
// collides with another key's renamed value or with a reserved word
// (spec.md §3: "duplicates of the renamed value across different keys
// are errors") — both checked line by line so the reported Line always
// names the entry that introduced the collision.
func Parse(data []byte) (*Map, error) {
	m := NewMap()
	seenValues := map[string]string{}
	lines := strings.Split(string(data), "\n")
	for i, raw := range lines {
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, ";") {
			continue
		}
		eq := strings.IndexByte(line, '=')
		if eq < 0 {
			return nil, &FormatError{Line: i + 1, Text: "missing '=' in " + line}
		}
		key := strings.TrimSpace(line[:eq])
		value := strings.TrimSpace(line[eq+1:])
		if key == "" {
			return nil, &FormatError{Line: i + 1, Text: "empty key"}
		}
		if _, exists := m.entries[key]; exists {
			return nil, &FormatError{Line: i + 1, Text: fmt.Sprintf("duplicate key %q", key)}
		}
		if reserved[value] {
			return nil, &FormatError{Line: i + 1, Text: fmt.Sprintf("renamed value %q collides with a reserved word", value)}
		}
		if other, exists := seenValues[value]; exists {
			return nil, &FormatError{Line: i + 1, Text: fmt.Sprintf("renamed value %q duplicates the value already assigned to key %q", value, other)}
		}
		seenValues[value] = key
		m.entries[key] = value
	}
	return m, nil
}

// Get returns the renamed name for an original name, if one is mapped.
func (m *Map) Get(original string) (string, bool) {
	v, ok := m.entries[original]
	return v, ok
}

// Set records original -> renamed. Callers (the allocator) are
// responsible for ensuring renamed is not already in use by another key.
func (m *Map) Set(original, renamed string) {
	m.entries[original] = renamed
}

// HasValue reports whether renamed is already assigned to some key.
func (m *Map) HasValue(renamed string) bool {
	for _, v := range m.entries {
		if v == renamed {
			return true
		}
	}
	return false
}

// Serialize emits entries sorted by key, one `key=value` per line, LF
// line endings, trailing newline — spec.md §4.7's deterministic output
// requirement, so the file is stable under version control.
func (m *Map) Serialize() []byte {
	keys := make([]string, 0, len(m.entries))
	for k := range m.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	for _, k := range keys {
		sb.WriteString(k)
		sb.WriteByte('=')
		sb.WriteString(m.entries[k])
		sb.WriteByte('\n')
	}
	return []byte(sb.String())
}
