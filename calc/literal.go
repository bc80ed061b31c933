package calc

import (
	"strconv"
	"strings"
	"unicode"
)

// parseLiteral parses a complete literal value expression: numbers, quoted
// text, True/False/None, lists like [1, 'a', [2]], and mappings like
// {'a': 1}. The whole input must be consumed.
func parseLiteral(s string) (Value, error) {
	p := &litParser{src: s}
	v, err := p.parseValue()
	if err != nil {
		return noValue, err
	}
	p.skipSpace()
	if p.pos != len(p.src) {
		return noValue, syntaxErrorf("unexpected text %q after literal",
			p.src[p.pos:])
	}
	return v, nil
}

type litParser struct {
	src string
	pos int
}

func (p *litParser) skipSpace() {
	for p.pos < len(p.src) && unicode.IsSpace(rune(p.src[p.pos])) {
		p.pos++
	}
}

func (p *litParser) peek() byte {
	if p.pos >= len(p.src) {
		return 0
	}
	return p.src[p.pos]
}

func (p *litParser) parseValue() (Value, error) {
	p.skipSpace()
	switch c := p.peek(); {
	case c == 0:
		return noValue, syntaxErrorf("empty expression")
	case c == '\'' || c == '"':
		return p.parseString(c)
	case c == '[':
		return p.parseList()
	case c == '{':
		return p.parseMap()
	case c == '-' || c == '+' || c == '.' || c >= '0' && c <= '9':
		return p.parseNumber()
	default:
		return p.parseName()
	}
}

func (p *litParser) parseString(quote byte) (Value, error) {
	p.pos++ // opening quote
	var b strings.Builder
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		switch c {
		case quote:
			p.pos++
			return FromString(b.String()), nil
		case '\\':
			p.pos++
			if p.pos >= len(p.src) {
				return noValue, syntaxErrorf("unterminated escape in string")
			}
			switch esc := p.src[p.pos]; esc {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			case '\\', '\'', '"':
				b.WriteByte(esc)
			default:
				return noValue, syntaxErrorf("unknown escape %q in string",
					string(esc))
			}
			p.pos++
		default:
			b.WriteByte(c)
			p.pos++
		}
	}
	return noValue, syntaxErrorf("unterminated string")
}

func (p *litParser) parseNumber() (Value, error) {
	start := p.pos
	if c := p.peek(); c == '-' || c == '+' {
		p.pos++
	}
	isFloat := false
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		switch {
		case c >= '0' && c <= '9':
			p.pos++
		case c == '.':
			isFloat = true
			p.pos++
		case c == 'e' || c == 'E':
			isFloat = true
			p.pos++
			if n := p.peek(); n == '-' || n == '+' {
				p.pos++
			}
		default:
			goto done
		}
	}
done:
	text := p.src[start:p.pos]
	if !isFloat {
		if i, err := strconv.ParseInt(text, 10, 64); err == nil {
			return FromInt(i), nil
		}
		// Out-of-range integers fall through to float parsing.
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return noValue, syntaxErrorf("bad number %q", text)
	}
	return FromFloat(f), nil
}

func (p *litParser) parseList() (Value, error) {
	p.pos++ // '['
	items := []Value{}
	for {
		p.skipSpace()
		if p.peek() == ']' {
			p.pos++
			return FromList(items), nil
		}
		item, err := p.parseValue()
		if err != nil {
			return noValue, err
		}
		items = append(items, item)
		p.skipSpace()
		switch p.peek() {
		case ',':
			p.pos++
		case ']':
			p.pos++
			return FromList(items), nil
		default:
			return noValue, syntaxErrorf("expected ',' or ']' in list")
		}
	}
}

func (p *litParser) parseMap() (Value, error) {
	p.pos++ // '{'
	m := map[string]Value{}
	for {
		p.skipSpace()
		if p.peek() == '}' {
			p.pos++
			return FromMap(m), nil
		}
		quote := p.peek()
		if quote != '\'' && quote != '"' {
			return noValue, syntaxErrorf("mapping keys must be quoted text")
		}
		key, err := p.parseString(quote)
		if err != nil {
			return noValue, err
		}
		p.skipSpace()
		if p.peek() != ':' {
			return noValue, syntaxErrorf("expected ':' after mapping key")
		}
		p.pos++
		val, err := p.parseValue()
		if err != nil {
			return noValue, err
		}
		m[key.Text()] = val
		p.skipSpace()
		switch p.peek() {
		case ',':
			p.pos++
		case '}':
			p.pos++
			return FromMap(m), nil
		default:
			return noValue, syntaxErrorf("expected ',' or '}' in mapping")
		}
	}
}

func (p *litParser) parseName() (Value, error) {
	start := p.pos
	for p.pos < len(p.src) {
		c := rune(p.src[p.pos])
		if unicode.IsLetter(c) || unicode.IsDigit(c) || c == '_' {
			p.pos++
		} else {
			break
		}
	}
	switch name := p.src[start:p.pos]; name {
	case "True":
		return FromBool(true), nil
	case "False":
		return FromBool(false), nil
	case "None":
		return Null, nil
	case "":
		return noValue, syntaxErrorf("unexpected character %q",
			string(p.src[p.pos]))
	default:
		return noValue, syntaxErrorf("unknown name %q", name)
	}
}

// isIdentifier reports whether s is a plain variable name: a letter or
// underscore followed by letters, digits or underscores.
func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if unicode.IsLetter(r) || r == '_' {
			continue
		}
		if i > 0 && unicode.IsDigit(r) {
			continue
		}
		return false
	}
	return true
}

// splitAssignment recognizes variable-assignment syntax: an identifier, a
// single '=', and a non-empty right-hand side. Comparison operators like
// '==' and '<=' are not assignments.
func splitAssignment(text string) (name, expr string, ok bool) {
	idx := strings.IndexByte(text, '=')
	if idx <= 0 || idx == len(text)-1 {
		return "", "", false
	}
	if text[idx+1] == '=' {
		return "", "", false
	}
	if prev := text[idx-1]; prev == '!' || prev == '<' || prev == '>' {
		return "", "", false
	}
	name = strings.TrimSpace(text[:idx])
	expr = strings.TrimSpace(text[idx+1:])
	if !isIdentifier(name) || expr == "" {
		return "", "", false
	}
	return name, expr, true
}
