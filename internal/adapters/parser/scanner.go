package parser

import (
	"fmt"
	"strings"

	"go.trai.ch/compass/internal/core/domain"
)

// scanState is a state of the inputs block scanner.
type scanState int

const (
	// stateOutsideBlock is active until the inputs key of the spec block is seen.
	stateOutsideBlock scanState = iota
	// stateInRecordHeader is active after the inputs key or a record header line.
	stateInRecordHeader
	// stateInRecordField is active while reading the fields of a record.
	stateInRecordField
)

func (s scanState) String() string {
	switch s {
	case stateOutsideBlock:
		return "outside-block"
	case stateInRecordHeader:
		return "in-record-header"
	case stateInRecordField:
		return "in-record-field"
	default:
		return fmt.Sprintf("scanState(%d)", int(s))
	}
}

const (
	inputsKey = "inputs"

	minHeaderOffset = 2
	maxHeaderOffset = 4
)

// record accumulates the fields of one input declaration.
type record struct {
	name        string
	description string
	typ         string
	def         *string
	options     []string
}

func (r *record) parameter() domain.ComponentParameter {
	typ := r.typ
	if typ == "" {
		typ = defaultType
	}
	return domain.ComponentParameter{
		Name:        r.name,
		Description: r.description,
		Required:    r.def == nil,
		Type:        typ,
		Default:     r.def,
		Options:     r.options,
	}
}

// multiline collects a block scalar or block sequence spanning several lines.
// indent is the indentation of the field key.
type multiline struct {
	field  string
	style  byte // '|', '>' or '-'
	indent int
	lines  []line
}

// accepts reports whether l continues the block. A block sequence may sit at
// the indentation of its key, as in "options:\n- a\n- b".
func (m *multiline) accepts(l line) bool {
	if l.blank() || l.indent > m.indent {
		return true
	}
	return m.style == '-' && l.indent == m.indent && isSequenceItem(l.text)
}

func isSequenceItem(text string) bool {
	return text == "-" || strings.HasPrefix(text, "- ")
}

// inputScanner is a line driven state machine over the spec section.
//
// Indentation is measured relative to the inputs key: record headers sit two to
// four columns deeper, fields deeper still. A line at or above the indentation of
// the inputs key ends the block.
type inputScanner struct {
	state scanState

	inSpec          bool
	specChildIndent int

	blockIndent  int
	headerIndent int
	fieldIndent  int

	current *record
	pending *multiline

	foundBlock bool
	params     []domain.ComponentParameter
}

func newInputScanner() *inputScanner {
	return &inputScanner{
		state:  stateOutsideBlock,
		params: []domain.ComponentParameter{},
	}
}

// feed advances the scanner by one line.
func (s *inputScanner) feed(l line) error {
	switch s.state {
	case stateOutsideBlock:
		return s.outside(l)
	case stateInRecordHeader, stateInRecordField:
		return s.inBlock(l)
	default:
		return fmt.Errorf("line %d: unexpected scanner state %s", l.num, s.state)
	}
}

// finish flushes the open record at the end of the spec section.
func (s *inputScanner) finish() error {
	if s.state == stateOutsideBlock {
		return nil
	}
	return s.closeBlock()
}

func (s *inputScanner) outside(l line) error {
	if l.blank() || l.comment() {
		return nil
	}

	if l.indent == 0 {
		key, value, ok := splitKey(l.text)
		s.inSpec = ok && key == declaration && value == ""
		s.specChildIndent = 0
		return nil
	}

	if !s.inSpec || s.foundBlock {
		return nil
	}
	if s.specChildIndent == 0 {
		s.specChildIndent = l.indent
	}
	if l.indent != s.specChildIndent {
		return nil
	}

	if key, value, ok := splitKey(l.text); ok && key == inputsKey && value == "" {
		s.foundBlock = true
		s.blockIndent = l.indent
		s.headerIndent = 0
		s.state = stateInRecordHeader
	}
	return nil
}

func (s *inputScanner) inBlock(l line) error {
	if s.pending != nil {
		if s.pending.accepts(l) {
			s.pending.add(l)
			return nil
		}
		if err := s.closePending(); err != nil {
			return err
		}
	}

	if l.blank() || l.comment() {
		return nil
	}

	if l.tabbed {
		return fmt.Errorf("line %d: tab characters are not allowed in indentation", l.num)
	}

	if l.indent <= s.blockIndent {
		if err := s.closeBlock(); err != nil {
			return err
		}
		return s.outside(l)
	}

	if s.isHeader(l) {
		s.flush()
		s.headerIndent = l.indent
		s.fieldIndent = 0
		key, _, _ := splitKey(l.text)
		s.current = &record{name: key}
		s.state = stateInRecordHeader
		return nil
	}

	if s.current == nil || l.indent <= s.headerIndent {
		return nil
	}

	if s.fieldIndent == 0 {
		s.fieldIndent = l.indent
	}
	if l.indent != s.fieldIndent {
		return nil
	}

	s.state = stateInRecordField
	return s.field(l)
}

// isHeader reports whether l starts a new record: an identifier followed by a bare colon,
// two to four columns below the inputs key, aligned with the previous header.
func (s *inputScanner) isHeader(l line) bool {
	offset := l.indent - s.blockIndent
	if offset < minHeaderOffset || offset > maxHeaderOffset {
		return false
	}
	if s.headerIndent != 0 && l.indent != s.headerIndent {
		return false
	}

	key, value, ok := splitKey(l.text)
	return ok && value == "" && isIdentifier(key)
}

func (s *inputScanner) field(l line) error {
	key, value, ok := splitKey(l.text)
	if !ok {
		return nil
	}

	switch key {
	case "description", "default", "type":
		if style := blockStyle(value); style != 0 {
			s.pending = &multiline{field: key, style: style, indent: l.indent}
			return nil
		}
	case "options":
		if value == "" {
			s.pending = &multiline{field: key, style: '-', indent: l.indent}
			return nil
		}
	default:
		return nil
	}

	return s.assign(l.num, key, value)
}

// assign stores a single-line field value on the current record.
func (s *inputScanner) assign(num int, key, value string) error {
	switch key {
	case "options":
		opts, err := decodeList(value)
		if err != nil {
			return fmt.Errorf("line %d: invalid options for input %q: %w", num, s.current.name, err)
		}
		s.current.options = opts
		return nil
	}

	decoded, err := decodeScalar(value)
	if err != nil {
		return fmt.Errorf("line %d: invalid %s for input %q: %w", num, key, s.current.name, err)
	}

	switch key {
	case "description":
		s.current.description = decoded
	case "default":
		s.current.def = &decoded
	case "type":
		s.current.typ = decoded
	}
	return nil
}

func (s *inputScanner) closePending() error {
	p := s.pending
	s.pending = nil
	if s.current == nil {
		return nil
	}

	if p.field == "options" {
		items, err := p.items()
		if err != nil {
			return fmt.Errorf("invalid options for input %q: %w", s.current.name, err)
		}
		s.current.options = items
		return nil
	}

	text := p.text()
	switch p.field {
	case "description":
		s.current.description = text
	case "default":
		s.current.def = &text
	case "type":
		s.current.typ = strings.TrimSpace(text)
	}
	return nil
}

func (s *inputScanner) closeBlock() error {
	if s.pending != nil {
		if err := s.closePending(); err != nil {
			return err
		}
	}
	s.flush()
	s.state = stateOutsideBlock
	return nil
}

func (s *inputScanner) flush() {
	if s.current == nil {
		return
	}
	s.params = append(s.params, s.current.parameter())
	s.current = nil
}

func (m *multiline) add(l line) {
	m.lines = append(m.lines, l)
}

// text joins a block scalar using clip chomping. Indentation beyond that of
// the first content line is kept.
func (m *multiline) text() string {
	lines := m.lines
	for len(lines) > 0 && lines[len(lines)-1].blank() {
		lines = lines[:len(lines)-1]
	}
	if len(lines) == 0 {
		return ""
	}

	base := 0
	for _, l := range lines {
		if !l.blank() {
			base = l.indent
			break
		}
	}
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		if l.blank() {
			out = append(out, "")
			continue
		}
		out = append(out, strings.Repeat(" ", max(l.indent-base, 0))+l.text)
	}

	if m.style == '>' {
		return strings.Join(out, " ")
	}
	return strings.Join(out, "\n")
}

// items decodes the entries of a block sequence.
func (m *multiline) items() ([]string, error) {
	items := make([]string, 0, len(m.lines))
	for _, l := range m.lines {
		if l.blank() || l.comment() || !isSequenceItem(l.text) {
			continue
		}
		v, err := decodeScalar(strings.TrimSpace(strings.TrimPrefix(l.text, "-")))
		if err != nil {
			return nil, err
		}
		items = append(items, v)
	}
	return items, nil
}

// blockStyle returns the block scalar indicator of value, or zero for inline values.
func blockStyle(value string) byte {
	if value == "" {
		return 0
	}
	switch value[0] {
	case '|', '>':
		rest := strings.TrimLeft(value[1:], "+-0123456789")
		if rest == "" || strings.HasPrefix(strings.TrimSpace(rest), "#") {
			return value[0]
		}
	}
	return 0
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && (r == '-' || r == '.' || r >= '0' && r <= '9'):
		default:
			return false
		}
	}
	return true
}
