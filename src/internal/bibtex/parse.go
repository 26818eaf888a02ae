package bibtex

import (
	"errors"
	"fmt"
	"strings"
)

// ErrSyntax is wrapped by every error Parse returns.
var ErrSyntax = errors.New("bibtex syntax error")

// Parse reads all entries in s, in input order.
//
// Text outside entries is ignored, as are @comment and @preamble blocks.
// Entry types and field names are lowercased. Values may be braced, quoted
// or bare; bare names defined earlier by @string are expanded and parts may
// be joined with '#'. Line breaks inside values become spaces.
func Parse(s string) ([]Entry, error) {
	p := &parser{s: s, macros: map[string]string{}}
	var out []Entry
	for {
		p.skipWS()
		if p.eof() {
			break
		}
		if p.s[p.i] != '@' {
			p.i++
			continue
		}
		p.i++
		p.skipWS()
		typ := strings.ToLower(p.ident())
		p.skipWS()
		if typ == "" || p.eof() || (p.s[p.i] != '{' && p.s[p.i] != '(') {
			// a stray '@' in free text
			continue
		}
		open := p.s[p.i]
		closer := byte('}')
		if open == '(' {
			closer = ')'
		}
		p.i++
		switch typ {
		case "comment", "preamble":
			if err := p.skipBlock(typ, open, closer); err != nil {
				return nil, err
			}
		case "string":
			if err := p.stringDef(closer); err != nil {
				return nil, err
			}
		default:
			e, err := p.entry(typ, closer)
			if err != nil {
				return nil, err
			}
			out = append(out, e)
		}
	}
	return out, nil
}

type parser struct {
	s      string
	i      int
	macros map[string]string
}

func (p *parser) eof() bool { return p.i >= len(p.s) }

func (p *parser) errorf(format string, args ...any) error {
	line := 1 + strings.Count(p.s[:min(p.i, len(p.s))], "\n")
	return fmt.Errorf("%w: line %d: %s", ErrSyntax, line, fmt.Sprintf(format, args...))
}

// skipWS skips whitespace and '%' line comments.
func (p *parser) skipWS() {
	for !p.eof() {
		if p.s[p.i] == '%' {
			for !p.eof() && p.s[p.i] != '\n' {
				p.i++
			}
			continue
		}
		if strings.IndexByte(" \t\r\n", p.s[p.i]) < 0 {
			return
		}
		p.i++
	}
}

func (p *parser) ident() string {
	start := p.i
	for !p.eof() && isLetter(p.s[p.i]) {
		p.i++
	}
	return p.s[start:p.i]
}

func (p *parser) name() string {
	start := p.i
	for !p.eof() && isNameChar(p.s[p.i]) {
		p.i++
	}
	return p.s[start:p.i]
}

func (p *parser) skipBlock(typ string, open, closer byte) error {
	start := p.i
	depth := 1
	for !p.eof() {
		switch p.s[p.i] {
		case open:
			depth++
		case closer:
			depth--
			if depth == 0 {
				p.i++
				return nil
			}
		}
		p.i++
	}
	p.i = start
	return p.errorf("unterminated @%s", typ)
}

func (p *parser) stringDef(closer byte) error {
	p.skipWS()
	name, val, err := p.assignment()
	if err != nil {
		return err
	}
	p.skipWS()
	if p.eof() || p.s[p.i] != closer {
		return p.errorf("expected '%c' after @string %q", closer, name)
	}
	p.i++
	p.macros[name] = val
	return nil
}

func (p *parser) entry(typ string, closer byte) (Entry, error) {
	p.skipWS()
	start := p.i
	for !p.eof() && p.s[p.i] != ',' && p.s[p.i] != closer {
		p.i++
	}
	if p.eof() {
		p.i = start
		return Entry{}, p.errorf("unterminated @%s entry", typ)
	}
	key := strings.TrimSpace(p.s[start:p.i])
	if key == "" {
		return Entry{}, p.errorf("missing key in @%s entry", typ)
	}
	e := Entry{Class: typ, Key: key}
	if p.s[p.i] == closer {
		p.i++
		return e, nil
	}
	p.i++ // comma after key
	for {
		p.skipWS()
		if p.eof() {
			return Entry{}, p.errorf("unexpected end of input in entry %q", key)
		}
		if p.s[p.i] == closer {
			p.i++
			return e, nil
		}
		name, val, err := p.assignment()
		if err != nil {
			return Entry{}, err
		}
		e.Fields.Set(name, val)
		p.skipWS()
		if p.eof() {
			return Entry{}, p.errorf("unexpected end of input in entry %q", key)
		}
		switch p.s[p.i] {
		case ',':
			p.i++
		case closer:
			p.i++
			return e, nil
		default:
			return Entry{}, p.errorf("expected ',' or '%c' after field %q in entry %q", closer, name, key)
		}
	}
}

// assignment reads `name = value`.
func (p *parser) assignment() (string, string, error) {
	name := strings.ToLower(p.name())
	if name == "" {
		return "", "", p.errorf("expected field name")
	}
	p.skipWS()
	if p.eof() || p.s[p.i] != '=' {
		return "", "", p.errorf("expected '=' after %q", name)
	}
	p.i++
	val, err := p.value()
	if err != nil {
		return "", "", err
	}
	return name, val, nil
}

func (p *parser) value() (string, error) {
	var b strings.Builder
	for {
		p.skipWS()
		if p.eof() {
			return "", p.errorf("expected value")
		}
		part, err := p.part()
		if err != nil {
			return "", err
		}
		b.WriteString(part)
		p.skipWS()
		if !p.eof() && p.s[p.i] == '#' {
			p.i++
			continue
		}
		return clean(b.String()), nil
	}
}

func (p *parser) part() (string, error) {
	switch c := p.s[p.i]; c {
	case '{':
		return p.delimited('}')
	case '"':
		return p.delimited('"')
	default:
		tok := p.name()
		if tok == "" {
			return "", p.errorf("unexpected %q in value", c)
		}
		if v, ok := p.macros[strings.ToLower(tok)]; ok {
			return v, nil
		}
		return tok, nil
	}
}

// delimited reads a value opened at p.i and closed by end at brace depth zero.
func (p *parser) delimited(end byte) (string, error) {
	start := p.i
	p.i++
	vstart := p.i
	depth := 0
	for !p.eof() {
		c := p.s[p.i]
		switch {
		case c == '\\':
			p.i += 2
			continue
		case c == end && depth == 0:
			v := p.s[vstart:p.i]
			p.i++
			return v, nil
		case c == '{':
			depth++
		case c == '}':
			depth--
		}
		p.i++
	}
	p.i = start
	return "", p.errorf("unterminated value")
}

func clean(s string) string {
	s = strings.ReplaceAll(s, "\r\n", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.ReplaceAll(s, "\r", " ")
	return strings.TrimSpace(s)
}

func isLetter(c byte) bool { return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') }

func isNameChar(c byte) bool {
	return isLetter(c) || ('0' <= c && c <= '9') || strings.IndexByte("_-:.+/", c) >= 0
}
