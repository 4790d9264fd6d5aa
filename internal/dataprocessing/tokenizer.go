package dataprocessing

import "strings"

// TokenizeRow splits one CSV line into trimmed fields.
//
// A double quote toggles quoted mode; inside quotes a doubled quote is a
// literal quote. Commas separate fields only outside quotes. An unterminated
// quote swallows the rest of the line into the current field.
func TokenizeRow(line string) []string {
	var (
		fields   []string
		field    strings.Builder
		inQuotes bool
	)

	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case c == '"':
			if inQuotes && i+1 < len(line) && line[i+1] == '"' {
				field.WriteByte('"')
				i++
				continue
			}
			inQuotes = !inQuotes
		case c == ',' && !inQuotes:
			fields = append(fields, strings.TrimSpace(field.String()))
			field.Reset()
		default:
			field.WriteByte(c)
		}
	}

	return append(fields, strings.TrimSpace(field.String()))
}

// cell returns row[i] trimmed, or "" when the row is too short
func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}
