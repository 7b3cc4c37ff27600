// Package codec reads and writes the task file format: a pretty-printed
// array of flat records with four fields in fixed order.
//
//	[
//	  { "id": 1, "title": "buy milk", "description": "", "status": "NEW" },
//	  { "id": 2, "title": "call \"Bob\"", "description": "a\nb", "status": "DONE" }
//	]
//
// The parser is tolerant: unknown keys and values that fail to parse are
// skipped, and records with neither a positive id nor a title are dropped.
package codec

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mauzec/tasktracker/internal/core"
)

const (
	recordIndent    = "  "
	recordSeparator = ",\n"
)

var escaper = strings.NewReplacer(
	`\`, `\\`,
	`"`, `\"`,
	"\n", `\n`,
	"\r", "",
)

// Encode serializes tasks in the given order. An empty slice encodes as
// an array with an empty body line.
func Encode(tasks []*core.Task) []byte {
	var b strings.Builder
	b.WriteString("[\n")
	for i, t := range tasks {
		b.WriteString(recordIndent)
		b.WriteString(EncodeRecord(t))
		if i < len(tasks)-1 {
			b.WriteString(recordSeparator)
		}
	}
	b.WriteString("\n]")
	return []byte(b.String())
}

// EncodeRecord formats one task as a single-line record.
func EncodeRecord(t *core.Task) string {
	return fmt.Sprintf(
		`{ "id": %d, "title": "%s", "description": "%s", "status": "%s" }`,
		t.ID,
		escape(t.Title),
		escape(t.Description),
		t.Status,
	)
}

// Decode parses the whole file content. It never fails: malformed input
// yields whatever records could be recovered.
func Decode(data []byte) []*core.Task {
	tasks := make([]*core.Task, 0)

	content := strings.TrimSpace(string(data))
	if content == "" || content == "[]" {
		return tasks
	}
	if strings.HasPrefix(content, "[") && strings.HasSuffix(content, "]") {
		content = strings.TrimSpace(content[1 : len(content)-1])
	}
	if content == "" {
		return tasks
	}

	for _, rec := range splitRecords(content) {
		if t, ok := DecodeRecord(rec); ok {
			tasks = append(tasks, t)
		}
	}
	return tasks
}

// DecodeRecord parses one record. ok is false when the record carries
// neither a positive id nor a non-empty title.
func DecodeRecord(rec string) (*core.Task, bool) {
	rec = strings.TrimSpace(rec)
	rec = strings.TrimPrefix(rec, "{")
	rec = strings.TrimSuffix(rec, "}")
	rec = strings.TrimSpace(rec)
	if rec == "" {
		return nil, false
	}

	t := core.NewTask("", "")
	for _, field := range splitFields(rec) {
		key, value, found := strings.Cut(field, ":")
		if !found {
			continue
		}
		key = strings.ReplaceAll(strings.TrimSpace(key), `"`, "")
		value = unescape(unquote(strings.TrimSpace(value)))

		switch key {
		case "id":
			if id, err := strconv.ParseInt(value, 10, 32); err == nil {
				t.ID = int(id)
			}
		case "title":
			t.Title = value
		case "description":
			t.Description = value
		case "status":
			if st, ok := core.ParseTaskStatus(value); ok {
				t.Status = st
			}
		}
	}

	if t.ID > 0 || t.Title != "" {
		return t, true
	}
	return nil, false
}

// splitRecords cuts the array body on `}` ws* `,` ws* `{` boundaries that
// sit outside quoted strings. Quote state only matters inside the record
// being cut: if the body ends with a quote left open, a stray quote has
// swallowed the boundaries after the last cut, and that tail is split on
// every boundary instead.
func splitRecords(s string) []string {
	var (
		recs    []string
		start   int
		inQuote bool
	)
	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case inQuote && c == '\\':
			i++
		case c == '"':
			inQuote = !inQuote
		case !inQuote && c == '}':
			if next, ok := nextRecordStart(s, i+1); ok {
				recs = append(recs, s[start:i+1])
				start = next
				i = next - 1
			}
		}
	}
	if inQuote {
		return append(recs, splitOnBoundaries(s[start:])...)
	}
	return append(recs, s[start:])
}

// splitOnBoundaries cuts s on every record boundary, quoted or not.
func splitOnBoundaries(s string) []string {
	var (
		recs  []string
		start int
	)
	for i := 0; i < len(s); i++ {
		if s[i] != '}' {
			continue
		}
		if next, ok := nextRecordStart(s, i+1); ok {
			recs = append(recs, s[start:i+1])
			start = next
			i = next - 1
		}
	}
	return append(recs, s[start:])
}

// nextRecordStart reports the index of the `{` that follows a record
// separator beginning at from.
func nextRecordStart(s string, from int) (int, bool) {
	i := skipSpace(s, from)
	if i >= len(s) || s[i] != ',' {
		return 0, false
	}
	i = skipSpace(s, i+1)
	if i >= len(s) || s[i] != '{' {
		return 0, false
	}
	return i, true
}

func skipSpace(s string, i int) int {
	for i < len(s) && isSpace(s[i]) {
		i++
	}
	return i
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

// splitFields splits a record body on commas outside quoted strings.
func splitFields(s string) []string {
	var (
		fields  []string
		start   int
		inQuote bool
	)
	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case inQuote && c == '\\':
			i++
		case c == '"':
			inQuote = !inQuote
		case !inQuote && c == ',':
			fields = append(fields, s[start:i])
			start = i + 1
		}
	}
	return append(fields, s[start:])
}

func unquote(v string) string {
	if len(v) >= 2 && v[0] == '"' && v[len(v)-1] == '"' {
		return v[1 : len(v)-1]
	}
	return v
}

func escape(raw string) string {
	return escaper.Replace(raw)
}

// unescape reverses escape in one left-to-right pass, so `\\n` becomes a
// backslash followed by n rather than a backslash and a newline.
// Unknown escapes are kept verbatim.
func unescape(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '\\' && i+1 < len(s) {
			switch s[i+1] {
			case '"':
				b.WriteByte('"')
				i++
				continue
			case 'n':
				b.WriteByte('\n')
				i++
				continue
			case '\\':
				b.WriteByte('\\')
				i++
				continue
			}
		}
		b.WriteByte(c)
	}
	return b.String()
}
