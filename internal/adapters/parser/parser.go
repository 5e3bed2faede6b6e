// Package parser extracts the description and input parameters of a component
// document without evaluating the full YAML grammar.
package parser

import (
	"strings"

	"go.trai.ch/compass/internal/core/domain"
)

const (
	// delimiter separates the spec section from the job definitions.
	delimiter = "---"
	// declaration is the top-level key that marks a document as a component.
	declaration = "spec"
	// defaultType is assigned to inputs that do not declare a type.
	defaultType = "string"
)

// Parser implements ports.SpecParser.
type Parser struct{}

// New creates a Parser.
func New() *Parser {
	return &Parser{}
}

// Parse extracts the spec of raw. Failures are reported as *domain.ParseError.
func (p *Parser) Parse(raw []byte) (domain.ParsedSpec, error) {
	lines := specSection(string(raw))

	spec := domain.ParsedSpec{
		IsValidComponent: hasDeclaration(lines),
		Description:      description(lines),
		Parameters:       []domain.ComponentParameter{},
	}
	if !spec.IsValidComponent {
		return spec, nil
	}

	sc := newInputScanner()
	for _, l := range lines {
		if err := sc.feed(l); err != nil {
			return domain.ParsedSpec{}, domain.NewParseError(err.Error(), raw, err)
		}
	}
	if err := sc.finish(); err != nil {
		return domain.ParsedSpec{}, domain.NewParseError(err.Error(), raw, err)
	}

	if sc.foundBlock {
		spec.Parameters = sc.params
		return spec, nil
	}

	params, err := legacyVariables(lines)
	if err != nil {
		return domain.ParsedSpec{}, domain.NewParseError(err.Error(), raw, err)
	}
	spec.Parameters = params
	return spec, nil
}

// TryParse is the non-failing variant of Parse.
func (p *Parser) TryParse(raw []byte) domain.ParseResult {
	spec, err := p.Parse(raw)
	return domain.ParseResult{Spec: spec, Err: err}
}

// ParseBatch parses every document independently; one failure never affects the others.
func (p *Parser) ParseBatch(docs [][]byte) []domain.ParseResult {
	results := make([]domain.ParseResult, len(docs))
	for i, doc := range docs {
		results[i] = p.TryParse(doc)
	}
	return results
}

// line is a single source line split into indentation and content.
type line struct {
	num    int
	indent int
	text   string
	tabbed bool
}

func (l line) blank() bool   { return l.text == "" }
func (l line) comment() bool { return strings.HasPrefix(l.text, "#") }

// specSection returns the lines preceding the first delimiter line.
func specSection(raw string) []line {
	raw = strings.TrimPrefix(raw, "\ufeff")
	rawLines := strings.Split(strings.ReplaceAll(raw, "\r\n", "\n"), "\n")

	lines := make([]line, 0, len(rawLines))
	for i, r := range rawLines {
		r = strings.TrimRight(r, " \t\r")
		if r == delimiter {
			break
		}
		content := strings.TrimLeft(r, " \t")
		indentPart := r[:len(r)-len(content)]
		lines = append(lines, line{
			num:    i + 1,
			indent: len(indentPart),
			text:   content,
			tabbed: strings.Contains(indentPart, "\t"),
		})
	}
	return lines
}

// hasDeclaration reports whether a top-level spec key is present.
func hasDeclaration(lines []line) bool {
	for _, l := range lines {
		if l.indent != 0 || l.blank() || l.comment() {
			continue
		}
		if key, value, ok := splitKey(l.text); ok && key == declaration && value == "" {
			return true
		}
	}
	return false
}

// splitKey splits "key: value" into its parts. Values keep their raw YAML form,
// including trailing comments. ok is false for lines that are not mapping entries.
func splitKey(text string) (key, value string, ok bool) {
	if strings.HasPrefix(text, "- ") || text == "-" {
		return "", "", false
	}

	idx := keyEnd(text)
	if idx < 0 {
		return "", "", false
	}

	key = unquote(text[:idx])
	value = strings.TrimSpace(text[idx+1:])
	if strings.HasPrefix(value, "#") {
		value = ""
	}
	return key, value, key != ""
}

// keyEnd returns the index of the colon terminating a mapping key, skipping quoted keys.
func keyEnd(text string) int {
	if text == "" {
		return -1
	}

	start := 0
	if q := text[0]; q == '"' || q == '\'' {
		end := strings.IndexByte(text[1:], q)
		if end < 0 {
			return -1
		}
		start = end + 2
	}

	for i := start; i < len(text); i++ {
		if text[i] != ':' {
			continue
		}
		if i == len(text)-1 || text[i+1] == ' ' || text[i+1] == '\t' {
			return i
		}
	}
	return -1
}

func unquote(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && (s[0] == '"' || s[0] == '\'') && s[len(s)-1] == s[0] {
		return s[1 : len(s)-1]
	}
	return s
}
