package parser

import "strings"

// boilerplate lists comment fragments that never describe a component.
var boilerplate = []string{
	"yaml-language-server",
	"$schema",
	"noinspection",
	"shellcheck",
	"prettier-ignore",
	"editorconfig",
	"vim:",
	"-*-",
	"@format",
	"copyright",
	"spdx-license-identifier",
	"code generated",
	"do not edit",
}

// description returns the first meaningful comment of the spec section.
func description(lines []line) string {
	for _, l := range lines {
		if !l.comment() {
			continue
		}
		text := strings.TrimSpace(strings.TrimLeft(l.text, "#"))
		if text == "" || isBoilerplate(text) {
			continue
		}
		return text
	}
	return ""
}

func isBoilerplate(text string) bool {
	lower := strings.ToLower(text)
	for _, b := range boilerplate {
		if strings.Contains(lower, b) {
			return true
		}
	}
	return false
}
