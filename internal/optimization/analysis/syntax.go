package analysis

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// normalize rewrites objective text into govaluate syntax with every
// operation parenthesised, so govaluate's own precedence never applies.
//
// Grammar, loosest binding first:
//
//	comparison := sum [("<" | "<=" | ">" | ">=" | "==" | "!=") sum]
//	sum        := product {("+" | "-") product}
//	product    := unary {("*" | "/" | "%") unary}
//	unary      := ("-" | "+") unary | power
//	power      := primary [("^" | "**") unary]
//	primary    := number | name | name "(" [comparison {"," comparison}] ")" | "(" comparison ")"
//
// Powers group right to left and bind tighter than a leading minus, so
// -x^2 is -(x^2) and 2^3^2 is 2^(3^2). Numbers in scientific notation are
// expanded to plain decimals.
func normalize(text string) (string, error) {
	toks, err := lex(text)
	if err != nil {
		return "", err
	}
	p := &parser{toks: toks}
	out, err := p.comparison()
	if err != nil {
		return "", err
	}
	if t := p.peek(); t.kind != tokEOF {
		return "", fmt.Errorf("unexpected %q at offset %d", t.text, t.pos)
	}
	return out, nil
}

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokNumber
	tokName
	tokOp
	tokLParen
	tokRParen
	tokComma
)

type token struct {
	kind tokenKind
	text string
	pos  int
}

var twoCharOps = []string{"**", "<=", ">=", "==", "!="}

func lex(text string) ([]token, error) {
	var toks []token
	rs := []rune(text)
	for i := 0; i < len(rs); {
		r := rs[i]
		switch {
		case unicode.IsSpace(r):
			i++
		case unicode.IsDigit(r) || (r == '.' && i+1 < len(rs) && unicode.IsDigit(rs[i+1])):
			n := scanNumber(rs, i)
			lit := string(rs[i:n])
			v, err := strconv.ParseFloat(lit, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid number %q at offset %d", lit, i)
			}
			toks = append(toks, token{kind: tokNumber, text: strconv.FormatFloat(v, 'f', -1, 64), pos: i})
			i = n
		case unicode.IsLetter(r) || r == '_':
			n := i + 1
			for n < len(rs) && (unicode.IsLetter(rs[n]) || unicode.IsDigit(rs[n]) || rs[n] == '_') {
				n++
			}
			toks = append(toks, token{kind: tokName, text: string(rs[i:n]), pos: i})
			i = n
		case r == '(':
			toks = append(toks, token{kind: tokLParen, text: "(", pos: i})
			i++
		case r == ')':
			toks = append(toks, token{kind: tokRParen, text: ")", pos: i})
			i++
		case r == ',':
			toks = append(toks, token{kind: tokComma, text: ",", pos: i})
			i++
		default:
			op := ""
			if i+1 < len(rs) {
				for _, candidate := range twoCharOps {
					if string(rs[i:i+2]) == candidate {
						op = candidate
						break
					}
				}
			}
			if op == "" && strings.ContainsRune("+-*/%^<>", r) {
				op = string(r)
			}
			if op == "" {
				return nil, fmt.Errorf("unexpected character %q at offset %d", r, i)
			}
			toks = append(toks, token{kind: tokOp, text: op, pos: i})
			i += len(op)
		}
	}
	return append(toks, token{kind: tokEOF, pos: len(rs)}), nil
}

// scanNumber returns the end of the number starting at i: digits, an
// optional fraction and an optional exponent. An "e" not followed by digits
// is left for the name scanner.
func scanNumber(rs []rune, i int) int {
	digits := func(j int) int {
		for j < len(rs) && unicode.IsDigit(rs[j]) {
			j++
		}
		return j
	}
	n := digits(i)
	if n < len(rs) && rs[n] == '.' {
		n = digits(n + 1)
	}
	if n < len(rs) && (rs[n] == 'e' || rs[n] == 'E') {
		j := n + 1
		if j < len(rs) && (rs[j] == '+' || rs[j] == '-') {
			j++
		}
		if j < len(rs) && unicode.IsDigit(rs[j]) {
			n = digits(j)
		}
	}
	return n
}

type parser struct {
	toks []token
	pos  int
}

func (p *parser) peek() token { return p.toks[p.pos] }

func (p *parser) next() token {
	t := p.toks[p.pos]
	if t.kind != tokEOF {
		p.pos++
	}
	return t
}

// accept consumes the next token if it is one of ops.
func (p *parser) accept(ops ...string) (string, bool) {
	t := p.peek()
	if t.kind != tokOp {
		return "", false
	}
	for _, op := range ops {
		if t.text == op {
			p.next()
			return op, true
		}
	}
	return "", false
}

func (p *parser) comparison() (string, error) {
	left, err := p.sum()
	if err != nil {
		return "", err
	}
	if op, ok := p.accept("<", "<=", ">", ">=", "==", "!="); ok {
		right, err := p.sum()
		if err != nil {
			return "", err
		}
		return "(" + left + " " + op + " " + right + ")", nil
	}
	return left, nil
}

func (p *parser) sum() (string, error) {
	left, err := p.product()
	if err != nil {
		return "", err
	}
	for {
		op, ok := p.accept("+", "-")
		if !ok {
			return left, nil
		}
		right, err := p.product()
		if err != nil {
			return "", err
		}
		left = "(" + left + " " + op + " " + right + ")"
	}
}

func (p *parser) product() (string, error) {
	left, err := p.unary()
	if err != nil {
		return "", err
	}
	for {
		op, ok := p.accept("*", "/", "%")
		if !ok {
			return left, nil
		}
		right, err := p.unary()
		if err != nil {
			return "", err
		}
		left = "(" + left + " " + op + " " + right + ")"
	}
}

func (p *parser) unary() (string, error) {
	if op, ok := p.accept("-", "+"); ok {
		operand, err := p.unary()
		if err != nil {
			return "", err
		}
		if op == "+" {
			return operand, nil
		}
		return "(0 - " + operand + ")", nil
	}
	return p.power()
}

func (p *parser) power() (string, error) {
	base, err := p.primary()
	if err != nil {
		return "", err
	}
	if _, ok := p.accept("^", "**"); ok {
		exp, err := p.unary()
		if err != nil {
			return "", err
		}
		return "(" + base + " ** " + exp + ")", nil
	}
	return base, nil
}

func (p *parser) primary() (string, error) {
	t := p.next()
	switch t.kind {
	case tokNumber:
		return t.text, nil
	case tokName:
		if p.peek().kind != tokLParen {
			return t.text, nil
		}
		p.next()
		var args []string
		if p.peek().kind != tokRParen {
			for {
				arg, err := p.comparison()
				if err != nil {
					return "", err
				}
				args = append(args, arg)
				if p.peek().kind != tokComma {
					break
				}
				p.next()
			}
		}
		if err := p.expect(tokRParen); err != nil {
			return "", err
		}
		return t.text + "(" + strings.Join(args, ", ") + ")", nil
	case tokLParen:
		inner, err := p.comparison()
		if err != nil {
			return "", err
		}
		if err := p.expect(tokRParen); err != nil {
			return "", err
		}
		return "(" + inner + ")", nil
	case tokEOF:
		return "", fmt.Errorf("unexpected end of expression")
	default:
		return "", fmt.Errorf("unexpected %q at offset %d", t.text, t.pos)
	}
}

func (p *parser) expect(kind tokenKind) error {
	t := p.next()
	if t.kind != kind {
		if t.kind == tokEOF {
			return fmt.Errorf("unexpected end of expression")
		}
		return fmt.Errorf("unexpected %q at offset %d", t.text, t.pos)
	}
	return nil
}
