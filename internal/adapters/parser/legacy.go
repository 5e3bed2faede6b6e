package parser

import (
	"fmt"

	"go.trai.ch/compass/internal/core/domain"
)

const variablesKey = "variables"

// legacyVariables reads a flat variables block of "NAME: literal" pairs.
// The expanded form with value and description keys is accepted as well.
// Every variable is optional and typed as a string.
func legacyVariables(lines []line) ([]domain.ComponentParameter, error) {
	params := []domain.ComponentParameter{}

	start := -1
	blockIndent := 0
	for i, l := range lines {
		if l.blank() || l.comment() {
			continue
		}
		if key, value, ok := splitKey(l.text); ok && key == variablesKey && value == "" {
			start, blockIndent = i+1, l.indent
			break
		}
	}
	if start < 0 {
		return params, nil
	}

	entryIndent := -1
	var current *domain.ComponentParameter
	flush := func() {
		if current != nil {
			params = append(params, *current)
			current = nil
		}
	}

	for _, l := range lines[start:] {
		if l.blank() || l.comment() {
			continue
		}
		if l.indent <= blockIndent {
			break
		}
		if entryIndent < 0 {
			entryIndent = l.indent
		}

		key, value, ok := splitKey(l.text)
		if !ok {
			continue
		}

		if l.indent == entryIndent {
			flush()
			current = &domain.ComponentParameter{Name: key, Type: defaultType}
			if value != "" {
				v, err := decodeScalar(value)
				if err != nil {
					return nil, fmt.Errorf("line %d: invalid value for variable %q: %w", l.num, key, err)
				}
				current.Default = &v
			}
			continue
		}

		if current == nil || l.indent < entryIndent {
			continue
		}

		v, err := decodeScalar(value)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid %s for variable %q: %w", l.num, key, current.Name, err)
		}
		switch key {
		case "value":
			current.Default = &v
		case "description":
			current.Description = v
		case "options":
			opts, err := decodeList(value)
			if err != nil {
				return nil, fmt.Errorf("line %d: invalid options for variable %q: %w", l.num, current.Name, err)
			}
			current.Options = opts
		}
	}
	flush()

	return params, nil
}
