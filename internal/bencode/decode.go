package bencode

import (
	"fmt"
	"strconv"
)

// SyntaxError describes malformed bencoded input.
type SyntaxError struct {
	Offset int
	Msg    string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("bencode: %s at offset %d", e.Msg, e.Offset)
}

// Decode parses a single bencoded value into generic Go values: int64,
// string, []any and map[string]any.
func Decode(data []byte) (any, error) {
	d := decoder{data: data}
	v, err := d.value()
	if err != nil {
		return nil, err
	}
	if d.pos != len(d.data) {
		return nil, &SyntaxError{Offset: d.pos, Msg: "trailing data"}
	}
	return v, nil
}

type decoder struct {
	data []byte
	pos  int
}

func (d *decoder) fail(msg string) error {
	return &SyntaxError{Offset: d.pos, Msg: msg}
}

func (d *decoder) value() (any, error) {
	if d.pos >= len(d.data) {
		return nil, d.fail("unexpected end of input")
	}

	switch c := d.data[d.pos]; {
	case c == 'i':
		return d.integer()
	case c == 'l':
		return d.list()
	case c == 'd':
		return d.dict()
	case c >= '0' && c <= '9':
		return d.string()
	default:
		return nil, d.fail(fmt.Sprintf("invalid character %q", c))
	}
}

func (d *decoder) until(delim byte) (string, error) {
	start := d.pos
	for d.pos < len(d.data) {
		if d.data[d.pos] == delim {
			s := string(d.data[start:d.pos])
			d.pos++
			return s, nil
		}
		d.pos++
	}
	return "", d.fail(fmt.Sprintf("missing %q", delim))
}

func (d *decoder) integer() (any, error) {
	d.pos++ // 'i'
	start := d.pos
	raw, err := d.until('e')
	if err != nil {
		return nil, err
	}
	if raw == "-0" || (len(raw) > 1 && raw[0] == '0') || (len(raw) > 2 && raw[:2] == "-0") {
		return nil, &SyntaxError{Offset: start, Msg: "invalid integer " + raw}
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, &SyntaxError{Offset: start, Msg: "invalid integer " + raw}
	}
	return n, nil
}

func (d *decoder) string() (string, error) {
	start := d.pos
	raw, err := d.until(':')
	if err != nil {
		return "", err
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 || (len(raw) > 1 && raw[0] == '0') {
		return "", &SyntaxError{Offset: start, Msg: "invalid string length " + raw}
	}
	if n > len(d.data)-d.pos {
		return "", d.fail("string exceeds input")
	}
	s := string(d.data[d.pos : d.pos+n])
	d.pos += n
	return s, nil
}

func (d *decoder) list() (any, error) {
	d.pos++ // 'l'
	list := []any{}
	for {
		if d.pos >= len(d.data) {
			return nil, d.fail("unterminated list")
		}
		if d.data[d.pos] == 'e' {
			d.pos++
			return list, nil
		}
		v, err := d.value()
		if err != nil {
			return nil, err
		}
		list = append(list, v)
	}
}

func (d *decoder) dict() (any, error) {
	d.pos++ // 'd'
	dict := map[string]any{}
	for {
		if d.pos >= len(d.data) {
			return nil, d.fail("unterminated dictionary")
		}
		if d.data[d.pos] == 'e' {
			d.pos++
			return dict, nil
		}
		if c := d.data[d.pos]; c < '0' || c > '9' {
			return nil, d.fail("dictionary key must be a string")
		}
		key, err := d.string()
		if err != nil {
			return nil, err
		}
		v, err := d.value()
		if err != nil {
			return nil, err
		}
		dict[key] = v
	}
}
