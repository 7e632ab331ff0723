package batch

import "strings"

// Plan file syntax: one entry per line, fields in the order text, voice,
// output, separated by pipes. Blank lines and lines starting with # are
// comments.
const (
	fieldSeparator = " | "
	commentPrefix  = "#"
)

// Encode serializes entries to the line-oriented plan format. Trailing empty
// fields are omitted; embedded backslashes, newlines, and pipes are escaped
// so Decode reproduces the original triples exactly.
func Encode(entries []TaskEntry) string {
	if len(entries) == 0 {
		return ""
	}

	lines := make([]string, 0, len(entries))

	for _, entry := range entries {
		fields := []string{
			escapeField(entry.Text),
			escapeField(entry.Voice),
			escapeField(entry.Output),
		}

		for len(fields) > 1 && fields[len(fields)-1] == "" {
			fields = fields[:len(fields)-1]
		}

		lines = append(lines, strings.Join(fields, fieldSeparator))
	}

	return strings.Join(lines, "\n") + "\n"
}

// Decode parses plan-file content. Comment and blank lines are skipped, as is
// any line whose three fields are all empty after unescaping.
func Decode(content string) []TaskEntry {
	var entries []TaskEntry

	for _, rawLine := range strings.Split(content, "\n") {
		line := strings.TrimSpace(rawLine)
		if line == "" || strings.HasPrefix(line, commentPrefix) {
			continue
		}

		parts := splitEscaped(line)

		fields := make([]string, 3)
		for i := 0; i < len(parts) && i < len(fields); i++ {
			fields[i] = strings.TrimSpace(unescapeField(parts[i]))
		}

		if fields[0] == "" && fields[1] == "" && fields[2] == "" {
			continue
		}

		entries = append(entries, TaskEntry{
			Text:   fields[0],
			Voice:  fields[1],
			Output: fields[2],
		})
	}

	return entries
}

// escapeField encodes a field for the plan format: backslash, newline, and
// pipe are the only characters that need escaping.
func escapeField(value string) string {
	var builder strings.Builder

	builder.Grow(len(value))

	for _, ch := range value {
		switch ch {
		case '\n':
			builder.WriteString(`\n`)
		case '\\':
			builder.WriteString(`\\`)
		case '|':
			builder.WriteString(`\|`)
		default:
			builder.WriteRune(ch)
		}
	}

	return builder.String()
}

// unescapeField reverses escapeField. Unknown escapes decode to the escaped
// character itself, so hand-edited files with stray backslashes stay usable.
func unescapeField(value string) string {
	var builder strings.Builder

	builder.Grow(len(value))

	for i := 0; i < len(value); i++ {
		ch := value[i]

		if ch == '\\' && i+1 < len(value) {
			next := value[i+1]
			if next == 'n' {
				builder.WriteByte('\n')
			} else {
				builder.WriteByte(next)
			}

			i++

			continue
		}

		builder.WriteByte(ch)
	}

	return builder.String()
}

// splitEscaped splits a line on unescaped pipes only, keeping the escape
// sequences intact for unescapeField.
func splitEscaped(line string) []string {
	var (
		fields  []string
		current strings.Builder
		escaped bool
	)

	for i := 0; i < len(line); i++ {
		ch := line[i]

		if escaped {
			current.WriteByte(ch)

			escaped = false

			continue
		}

		switch ch {
		case '\\':
			current.WriteByte(ch)

			escaped = true
		case '|':
			fields = append(fields, current.String())
			current.Reset()
		default:
			current.WriteByte(ch)
		}
	}

	fields = append(fields, current.String())

	return fields
}
