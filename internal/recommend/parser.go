package recommend

import (
	"strings"

	"github.com/axpress-labs/scholard/models"
)

// Parse extracts recommendation items from the model's free-text reply.
// It is a best-effort line-oriented scanner, not a strict grammar: it keeps
// every block that has a title and at least one of authors, year or
// identifier, drops the rest, and never fails on malformed input.
func Parse(text string) []models.Recommendation {
	var items []models.Recommendation
	var cur models.Recommendation
	open := false

	flush := func() {
		if open && keep(cur) {
			items = append(items, normalize(cur))
		}
		cur = models.Recommendation{}
		open = false
	}

	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			flush()
			continue
		}

		numbered := false
		if rest, ok := stripItemNumber(line); ok {
			flush()
			line = rest
			numbered = true
			open = true
		}

		switch key, value := splitField(line); key {
		case "title":
			// A stray Title line starts a new block when one is open.
			if !numbered && cur.Title != "" {
				flush()
			}
			open = true
			cur.Title = value
		case "authors", "author":
			open = true
			cur.Authors = value
		case "year":
			open = true
			cur.Year = value
		case "identifier", "id", "arxiv":
			open = true
			cur.Identifier = value
		default:
			// A numbered line without a field prefix is treated as a title.
			if numbered && cur.Title == "" {
				cur.Title = line
			}
		}
	}
	flush()
	return items
}

// keep reports whether a parsed block is complete enough to survive:
// a title plus at least one corroborating field.
func keep(r models.Recommendation) bool {
	if strings.TrimSpace(r.Title) == "" {
		return false
	}
	return r.Authors != "" || r.Year != "" || r.Identifier != ""
}

func normalize(r models.Recommendation) models.Recommendation {
	r.Title = strings.Trim(strings.TrimSpace(r.Title), `"`)
	r.Authors = strings.TrimSpace(r.Authors)
	r.Year = strings.TrimSpace(r.Year)
	r.Identifier = strings.TrimSpace(strings.TrimPrefix(strings.TrimPrefix(r.Identifier, "arXiv:"), "arxiv:"))
	return r
}

// stripItemNumber removes a leading "1." / "2)" style list marker.
func stripItemNumber(line string) (string, bool) {
	i := 0
	for i < len(line) && line[i] >= '0' && line[i] <= '9' {
		i++
	}
	if i == 0 || i >= len(line) {
		return line, false
	}
	if line[i] != '.' && line[i] != ')' {
		return line, false
	}
	return strings.TrimSpace(line[i+1:]), true
}

// splitField splits "Key: value" into a lowercase key and trimmed value.
func splitField(line string) (string, string) {
	idx := strings.Index(line, ":")
	if idx <= 0 {
		return "", ""
	}
	key := strings.ToLower(strings.TrimSpace(line[:idx]))
	value := strings.TrimSpace(line[idx+1:])
	// "arXiv:2304.04949" has the id itself after the colon.
	if key == "arxiv" {
		return key, value
	}
	if strings.ContainsAny(key, " \t") {
		return "", ""
	}
	return key, value
}
