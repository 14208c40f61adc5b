package codec

import (
	"fmt"
	"strconv"
	"strings"
)

// Value is a parsed literal: either a number or a list of values.
type Value struct {
	Number float64
	Token  string // Source text of a number, used for exact integer parsing
	List   []Value
	IsList bool
}

// Parse parses a single literal-list value. Surrounding whitespace is
// ignored; anything after the value is an error.
func Parse(text string) (Value, error) {
	p := &parser{src: text}
	p.skipSpace()
	v, err := p.value()
	if err != nil {
		return Value{}, err
	}
	p.skipSpace()
	if p.pos != len(p.src) {
		return Value{}, p.errorf("unexpected %q after value", p.src[p.pos:])
	}
	return v, nil
}

type parser struct {
	src string
	pos int
}

func (p *parser) errorf(format string, args ...any) error {
	return fmt.Errorf("%w: offset %d: %s", ErrMalformed, p.pos, fmt.Sprintf(format, args...))
}

func (p *parser) skipSpace() {
	for p.pos < len(p.src) {
		switch p.src[p.pos] {
		case ' ', '\t', '\n', '\r':
			p.pos++
		default:
			return
		}
	}
}

func (p *parser) value() (Value, error) {
	if p.pos >= len(p.src) {
		return Value{}, p.errorf("unexpected end of input")
	}
	switch c := p.src[p.pos]; c {
	case '[':
		return p.list(']')
	case '(':
		return p.list(')')
	default:
		return p.number()
	}
}

func (p *parser) list(closing byte) (Value, error) {
	p.pos++ // opening bracket
	v := Value{IsList: true, List: []Value{}}
	for {
		p.skipSpace()
		if p.pos >= len(p.src) {
			return Value{}, p.errorf("missing %q", closing)
		}
		if p.src[p.pos] == closing {
			p.pos++
			return v, nil
		}
		item, err := p.value()
		if err != nil {
			return Value{}, err
		}
		v.List = append(v.List, item)

		p.skipSpace()
		if p.pos >= len(p.src) {
			return Value{}, p.errorf("missing %q", closing)
		}
		switch p.src[p.pos] {
		case ',':
			p.pos++
		case closing:
			p.pos++
			return v, nil
		default:
			return Value{}, p.errorf("expected ',' or %q, got %q", closing, p.src[p.pos])
		}
	}
}

func (p *parser) number() (Value, error) {
	start := p.pos
	for p.pos < len(p.src) && isNumberByte(p.src[p.pos]) {
		p.pos++
	}
	tok := p.src[start:p.pos]
	if tok == "" {
		return Value{}, p.errorf("unexpected %q", p.src[p.pos])
	}
	f, err := strconv.ParseFloat(tok, 64)
	if err != nil {
		p.pos = start
		return Value{}, p.errorf("invalid number %q", tok)
	}
	return Value{Number: f, Token: tok}, nil
}

func isNumberByte(c byte) bool {
	switch {
	case c >= '0' && c <= '9':
		return true
	case c == '.' || c == '+' || c == '-' || c == 'e' || c == 'E':
		return true
	}
	return false
}

// Int returns v as an exact integer. Integral floats such as "3.0" are
// accepted; fractional values are not.
func (v Value) Int() (int, error) {
	if v.IsList {
		return 0, fmt.Errorf("%w: expected number, got list", ErrMalformed)
	}
	if !strings.ContainsAny(v.Token, ".eE") {
		n, err := strconv.Atoi(v.Token)
		if err != nil {
			return 0, fmt.Errorf("%w: invalid integer %q", ErrMalformed, v.Token)
		}
		return n, nil
	}
	n := int(v.Number)
	if float64(n) != v.Number {
		return 0, fmt.Errorf("%w: %s is not an integer", ErrMalformed, v.Token)
	}
	return n, nil
}

// Floats returns the elements of a flat numeric list.
func (v Value) Floats() ([]float64, error) {
	if !v.IsList {
		return nil, fmt.Errorf("%w: expected list, got number", ErrMalformed)
	}
	out := make([]float64, len(v.List))
	for i, item := range v.List {
		if item.IsList {
			return nil, fmt.Errorf("%w: item %d: expected number, got list", ErrMalformed, i)
		}
		out[i] = item.Number
	}
	return out, nil
}

// Ints returns the elements of a flat integer list.
func (v Value) Ints() ([]int, error) {
	if !v.IsList {
		return nil, fmt.Errorf("%w: expected list, got number", ErrMalformed)
	}
	out := make([]int, len(v.List))
	for i, item := range v.List {
		n, err := item.Int()
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		out[i] = n
	}
	return out, nil
}

// Items returns the elements of a list value.
func (v Value) Items() ([]Value, error) {
	if !v.IsList {
		return nil, fmt.Errorf("%w: expected list, got number", ErrMalformed)
	}
	return v.List, nil
}
