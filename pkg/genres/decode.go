package genres

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/agentstation/reelmap/pkg/errors"
)

// maxDepth bounds container nesting.
const maxDepth = 64

// Decode parses text as a single Python literal.
// The returned error is a *errors.ParseError carrying the byte offset.
func Decode(text string) (Value, error) {
	d := &decoder{src: text}
	d.skipSpace()
	v, err := d.value(0)
	if err != nil {
		return nil, err
	}
	d.skipSpace()
	if d.pos != len(d.src) {
		return nil, d.fail("unexpected trailing input")
	}
	return v, nil
}

// Parse decodes text, returning Opaque instead of an error.
func Parse(text string) Value {
	v, err := Decode(text)
	if err != nil {
		return Opaque{Text: text, Err: err}
	}
	return v
}

type decoder struct {
	src string
	pos int
}

func (d *decoder) fail(msg string, args ...any) error {
	return &errors.ParseError{
		Format:  "literal",
		Column:  d.pos,
		Message: fmt.Sprintf(msg, args...),
	}
}

func (d *decoder) skipSpace() {
	for d.pos < len(d.src) {
		switch d.src[d.pos] {
		case ' ', '\t', '\n', '\r', '\f', '\v':
			d.pos++
		default:
			return
		}
	}
}

func (d *decoder) peek() byte {
	if d.pos >= len(d.src) {
		return 0
	}
	return d.src[d.pos]
}

func (d *decoder) value(depth int) (Value, error) {
	if depth > maxDepth {
		return nil, d.fail("nesting too deep")
	}
	if d.pos >= len(d.src) {
		return nil, d.fail("unexpected end of input")
	}

	switch c := d.peek(); {
	case c == '[':
		return d.sequence(']', depth)
	case c == '(':
		return d.sequence(')', depth)
	case c == '{':
		return d.braces(depth)
	case c == '\'' || c == '"':
		return d.stringLit()
	case c == '-' || c == '+' || c == '.' || (c >= '0' && c <= '9'):
		return d.number()
	case isIdentStart(c):
		return d.word()
	default:
		return nil, d.fail("unexpected character %q", c)
	}
}

// sequence decodes a list or tuple body after the opening bracket.
func (d *decoder) sequence(closer byte, depth int) (Value, error) {
	d.pos++
	items := List{}
	for {
		d.skipSpace()
		if d.peek() == closer {
			d.pos++
			return items, nil
		}
		item, err := d.value(depth + 1)
		if err != nil {
			return nil, err
		}
		items = append(items, item)

		d.skipSpace()
		switch d.peek() {
		case ',':
			d.pos++
		case closer:
			d.pos++
			return items, nil
		default:
			return nil, d.fail("expected ',' or %q", closer)
		}
	}
}

// braces decodes a dict, or a set when the first element has no colon.
func (d *decoder) braces(depth int) (Value, error) {
	d.pos++
	d.skipSpace()
	if d.peek() == '}' {
		d.pos++
		return Record{}, nil
	}

	first, err := d.value(depth + 1)
	if err != nil {
		return nil, err
	}
	d.skipSpace()
	if d.peek() != ':' {
		return d.setRest(first, depth)
	}

	rec := Record{}
	key := first
	for {
		d.pos++ // ':'
		d.skipSpace()
		val, err := d.value(depth + 1)
		if err != nil {
			return nil, err
		}
		if s, ok := key.(Scalar); ok && s.Kind == KindString {
			rec[s.Text] = val
		}

		d.skipSpace()
		switch d.peek() {
		case ',':
			d.pos++
		case '}':
			d.pos++
			return rec, nil
		default:
			return nil, d.fail("expected ',' or '}'")
		}

		d.skipSpace()
		if d.peek() == '}' {
			d.pos++
			return rec, nil
		}
		if key, err = d.value(depth + 1); err != nil {
			return nil, err
		}
		d.skipSpace()
		if d.peek() != ':' {
			return nil, d.fail("expected ':'")
		}
	}
}

func (d *decoder) setRest(first Value, depth int) (Value, error) {
	items := List{first}
	for {
		d.skipSpace()
		switch d.peek() {
		case '}':
			d.pos++
			return items, nil
		case ',':
			d.pos++
		default:
			return nil, d.fail("expected ',' or '}'")
		}
		d.skipSpace()
		if d.peek() == '}' {
			d.pos++
			return items, nil
		}
		item, err := d.value(depth + 1)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
}

// stringLit decodes one or more adjacent string literals, which concatenate.
func (d *decoder) stringLit() (Value, error) {
	var sb strings.Builder
	for {
		s, err := d.quoted()
		if err != nil {
			return nil, err
		}
		sb.WriteString(s)

		mark := d.pos
		d.skipSpace()
		if c := d.peek(); c != '\'' && c != '"' {
			d.pos = mark
			return Scalar{Kind: KindString, Text: sb.String()}, nil
		}
	}
}

func (d *decoder) quoted() (string, error) {
	quote := d.src[d.pos]
	start := d.pos
	d.pos++

	var sb strings.Builder
	for d.pos < len(d.src) {
		c := d.src[d.pos]
		switch {
		case c == quote:
			d.pos++
			return sb.String(), nil
		case c == '\n':
			return "", d.fail("newline in string literal")
		case c == '\\':
			if err := d.escape(&sb); err != nil {
				return "", err
			}
		default:
			sb.WriteByte(c)
			d.pos++
		}
	}
	d.pos = start
	return "", d.fail("unterminated string")
}

func (d *decoder) escape(sb *strings.Builder) error {
	d.pos++ // backslash
	if d.pos >= len(d.src) {
		return d.fail("unterminated escape")
	}
	c := d.src[d.pos]
	d.pos++
	switch c {
	case '\\', '\'', '"':
		sb.WriteByte(c)
	case 'n':
		sb.WriteByte('\n')
	case 't':
		sb.WriteByte('\t')
	case 'r':
		sb.WriteByte('\r')
	case '0':
		sb.WriteByte(0)
	case '\n':
		// line continuation
	case 'x':
		return d.hexRune(sb, 2)
	case 'u':
		return d.hexRune(sb, 4)
	case 'U':
		return d.hexRune(sb, 8)
	default:
		sb.WriteByte('\\')
		sb.WriteByte(c)
	}
	return nil
}

func (d *decoder) hexRune(sb *strings.Builder, width int) error {
	if d.pos+width > len(d.src) {
		return d.fail("truncated escape")
	}
	code, err := strconv.ParseUint(d.src[d.pos:d.pos+width], 16, 32)
	if err != nil || !utf8.ValidRune(rune(code)) {
		return d.fail("invalid escape")
	}
	sb.WriteRune(rune(code))
	d.pos += width
	return nil
}

func (d *decoder) number() (Value, error) {
	start := d.pos
	if c := d.peek(); c == '-' || c == '+' {
		d.pos++
	}
	isFloat := false
scan:
	for d.pos < len(d.src) {
		c := d.src[d.pos]
		switch {
		case c >= '0' && c <= '9', c == '_':
		case c == '.', c == 'e', c == 'E':
			isFloat = true
		case (c == '-' || c == '+') && (d.src[d.pos-1] == 'e' || d.src[d.pos-1] == 'E'):
		default:
			break scan
		}
		d.pos++
	}
	text := d.src[start:d.pos]
	clean := strings.ReplaceAll(text, "_", "")
	if isFloat {
		if _, err := strconv.ParseFloat(clean, 64); err != nil {
			d.pos = start
			return nil, d.fail("invalid number %q", text)
		}
		return Scalar{Kind: KindFloat, Text: clean}, nil
	}
	if _, err := strconv.ParseInt(clean, 10, 64); err != nil {
		if _, ferr := strconv.ParseFloat(clean, 64); ferr != nil {
			d.pos = start
			return nil, d.fail("invalid number %q", text)
		}
	}
	return Scalar{Kind: KindInt, Text: clean}, nil
}

// word decodes True, False, None, or a prefixed string such as u'...'.
func (d *decoder) word() (Value, error) {
	start := d.pos
	for d.pos < len(d.src) && isIdentPart(d.src[d.pos]) {
		d.pos++
	}
	ident := d.src[start:d.pos]

	switch ident {
	case "True", "False":
		return Scalar{Kind: KindBool, Text: ident}, nil
	case "None":
		return Scalar{Kind: KindNone, Text: ident}, nil
	}

	if c := d.peek(); (c == '\'' || c == '"') && isStringPrefix(ident) {
		if strings.ContainsAny(ident, "rR") {
			return d.raw()
		}
		return d.stringLit()
	}
	d.pos = start
	return nil, d.fail("unexpected name %q", ident)
}

// raw decodes a raw string literal, where backslashes are kept verbatim.
func (d *decoder) raw() (Value, error) {
	quote := d.src[d.pos]
	start := d.pos
	d.pos++
	for d.pos < len(d.src) {
		c := d.src[d.pos]
		if c == '\\' && d.pos+1 < len(d.src) {
			d.pos += 2
			continue
		}
		if c == quote {
			text := d.src[start+1 : d.pos]
			d.pos++
			return Scalar{Kind: KindString, Text: text}, nil
		}
		d.pos++
	}
	d.pos = start
	return nil, d.fail("unterminated string")
}

func isStringPrefix(ident string) bool {
	switch strings.ToLower(ident) {
	case "u", "r":
		return true
	}
	return false
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}
