// Package genres turns the serialized genre field of the movies metadata
// catalog into a list of genre names.
//
// The field holds a Python literal such as
//
//	[{'id': 18, 'name': 'Drama'}, {'id': 80, 'name': 'Crime'}]
//
// The text is decoded into a Value, a closed set of variants (List, Record,
// Scalar, Opaque). Anything that cannot be decoded becomes Opaque, so callers
// pattern-match on the variant instead of probing for attributes.
package genres

import "strings"

// Value is a decoded literal.
type Value interface {
	isValue()
}

// List is a decoded list, tuple or set, in input order.
type List []Value

// Record is a decoded dict. Only string keys are retained.
type Record map[string]Value

// ScalarKind identifies the type of a Scalar.
type ScalarKind int

// Scalar kinds.
const (
	KindString ScalarKind = iota
	KindInt
	KindFloat
	KindBool
	KindNone
)

// Scalar is a decoded string, number, boolean or None.
// Text holds the unquoted string contents or the literal source of the token.
type Scalar struct {
	Kind ScalarKind
	Text string
}

// Opaque is text that could not be decoded.
type Opaque struct {
	Text string
	Err  error
}

func (List) isValue()   {}
func (Record) isValue() {}
func (Scalar) isValue() {}
func (Opaque) isValue() {}

// Str returns the string held by a record field.
// ok is false when the field is absent or is not a string.
func (r Record) Str(key string) (string, bool) {
	v, found := r[key]
	if !found {
		return "", false
	}
	s, isScalar := v.(Scalar)
	if !isScalar || s.Kind != KindString {
		return "", false
	}
	return s.Text, true
}

// Name returns the record's non-empty "name" field.
func (r Record) Name() (string, bool) {
	name, ok := r.Str("name")
	if !ok || name == "" {
		return "", false
	}
	return name, true
}

// IsBlank reports whether the text carries nothing to decode.
func IsBlank(text string) bool {
	return strings.TrimSpace(text) == ""
}
