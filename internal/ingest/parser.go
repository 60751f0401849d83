package ingest

import (
	"bytes"
	domainerr "chainpress/internal/domain/errors"
	"fmt"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
	"math"
	"strconv"
	"strings"
	"time"
)

type fenceFormat int

const (
	formatYAML fenceFormat = iota
	formatTOML
)

var utf8BOM = []byte("\xef\xbb\xbf")

// Metadata is the decoded frontmatter block.
type Metadata map[string]any

// ParseFrontMatter splits raw into its metadata block and the markdown body.
// YAML blocks are fenced by "---" lines and TOML blocks by "+++" lines. Text
// without an opening fence is all body. An opening fence that is never
// closed is a MalformedFrontmatterError.
func ParseFrontMatter(raw []byte) (Metadata, []byte, error) {
	norm := bytes.TrimPrefix(raw, utf8BOM)
	// unify line endings
	norm = bytes.ReplaceAll(norm, []byte("\r\n"), []byte("\n"))
	norm = bytes.ReplaceAll(norm, []byte("\r"), []byte("\n"))

	firstLine, rest, _ := bytes.Cut(norm, []byte("\n"))
	var (
		sep    string
		format fenceFormat
	)
	switch string(bytes.TrimRight(firstLine, " \t")) {
	case "---":
		sep, format = "---", formatYAML
	case "+++":
		sep, format = "+++", formatTOML
	default:
		return Metadata{}, norm, nil
	}

	block, body, ok := splitFence(rest, sep)
	if !ok {
		return nil, nil, domainerr.MalformedFrontmatterError{Reason: "opening " + sep + " is never closed"}
	}

	meta := Metadata{}
	if len(bytes.TrimSpace(block)) > 0 {
		var err error
		switch format {
		case formatTOML:
			err = toml.Unmarshal(block, &meta)
		default:
			err = yaml.Unmarshal(block, &meta)
		}
		if err != nil {
			return nil, nil, domainerr.MalformedFrontmatterError{Reason: "decode block", Cause: err}
		}
		if meta == nil {
			meta = Metadata{}
		}
	}
	return meta, bytes.TrimLeft(body, "\n"), nil
}

// splitFence finds the first line of rest equal to sep and returns the text
// before it and the text after it.
func splitFence(rest []byte, sep string) ([]byte, []byte, bool) {
	pos := 0
	for pos <= len(rest) {
		end := bytes.IndexByte(rest[pos:], '\n')
		var line []byte
		next := len(rest) + 1
		if end < 0 {
			line = rest[pos:]
		} else {
			line = rest[pos : pos+end]
			next = pos + end + 1
		}
		if string(bytes.TrimRight(line, " \t")) == sep {
			block := rest[:pos]
			if next > len(rest) {
				return block, nil, true
			}
			return block, rest[next:], true
		}
		if end < 0 {
			break
		}
		pos = next
	}
	return nil, nil, false
}

func (m Metadata) lookup(keys ...string) (any, bool) {
	for _, k := range keys {
		if v, ok := m[k]; ok && v != nil {
			return v, true
		}
	}
	for _, k := range keys {
		for mk, v := range m {
			if v != nil && strings.EqualFold(mk, k) {
				return v, true
			}
		}
	}
	return nil, false
}

// String returns the first of keys that holds a scalar, as trimmed text.
func (m Metadata) String(keys ...string) (string, bool) {
	v, ok := m.lookup(keys...)
	if !ok {
		return "", false
	}
	s, ok := scalarString(v)
	if !ok || s == "" {
		return "", false
	}
	return s, true
}

// Strings returns a list value. A single scalar is read as a comma
// separated list. The result is never nil.
func (m Metadata) Strings(keys ...string) []string {
	out := []string{}
	v, ok := m.lookup(keys...)
	if !ok {
		return out
	}
	switch t := v.(type) {
	case []string:
		for _, s := range t {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
	case []any:
		for _, item := range t {
			if s, ok := scalarString(item); ok && s != "" {
				out = append(out, s)
			}
		}
	default:
		if s, ok := scalarString(v); ok {
			for _, part := range strings.Split(s, ",") {
				if part = strings.TrimSpace(part); part != "" {
					out = append(out, part)
				}
			}
		}
	}
	return out
}

func (m Metadata) Int(keys ...string) (int, bool) {
	f, ok := m.Float(keys...)
	if !ok || f != math.Trunc(f) {
		return 0, false
	}
	return int(f), true
}

func (m Metadata) Float(keys ...string) (float64, bool) {
	v, ok := m.lookup(keys...)
	if !ok {
		return 0, false
	}
	switch t := v.(type) {
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case uint64:
		return float64(t), true
	case float64:
		return t, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		return f, err == nil
	}
	return 0, false
}

// Time reads a date value. Decoders may hand back time.Time, a TOML local
// date or plain text.
func (m Metadata) Time(keys ...string) (time.Time, bool) {
	v, ok := m.lookup(keys...)
	if !ok {
		return time.Time{}, false
	}
	if t, ok := v.(time.Time); ok {
		return t, !t.IsZero()
	}
	s, ok := scalarString(v)
	if !ok {
		return time.Time{}, false
	}
	t := ParseTime(s)
	return t, !t.IsZero()
}

func scalarString(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t), true
	case bool:
		return strconv.FormatBool(t), true
	case int:
		return strconv.Itoa(t), true
	case int64:
		return strconv.FormatInt(t, 10), true
	case uint64:
		return strconv.FormatUint(t, 10), true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case time.Time:
		return t.Format(time.DateOnly), true
	case fmt.Stringer:
		return strings.TrimSpace(t.String()), true
	}
	return "", false
}

func ParseTime(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range []string{
		time.RFC3339,
		time.DateOnly,
		"2006-01-02 15:04",
		time.DateTime,
		"2006-01-02T15:04:05",
		"2006/01/02",
	} {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t
		}
	}
	return time.Time{}
}
