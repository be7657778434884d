package typeexpr

import (
	"errors"
	"fmt"
	"strings"
)

// ErrEmpty is returned for a blank expression.
var ErrEmpty = errors.New("empty type expression")

// maxDepth bounds nesting so hostile input cannot exhaust the stack.
const maxDepth = 64

// SyntaxError describes where a type expression stopped making sense.
type SyntaxError struct {
	Expr string
	Pos  int
	Msg  string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("type %q: %s at offset %d", e.Expr, e.Msg, e.Pos)
}

// Parse parses a full type expression.
func Parse(expr string) (Node, error) {
	src := strings.TrimSpace(expr)
	if src == "" {
		return nil, ErrEmpty
	}

	toks, err := Tokenize(src)
	if err != nil {
		return nil, &SyntaxError{Expr: src, Msg: err.Error()}
	}

	p := &parser{src: src, toks: toks}

	n, err := p.parseUnion()
	if err != nil {
		return nil, err
	}

	if tok := p.peek(); tok.Kind != TokEOF {
		return nil, p.errorf(tok, "unexpected %s", tok.Kind)
	}

	return n, nil
}

// ParseLenient is Parse with a fallback: malformed input becomes a single
// Named node holding the trimmed input verbatim. The bool is false when the
// fallback was taken. A blank expression yields nil.
func ParseLenient(expr string) (Node, bool) {
	n, err := Parse(expr)
	if err == nil {
		return n, true
	}

	src := strings.TrimSpace(expr)
	if src == "" {
		return nil, false
	}

	return &Named{Name: src}, false
}

type parser struct {
	src   string
	toks  []Token
	pos   int
	depth int
}

func (p *parser) peek() Token {
	return p.toks[p.pos]
}

func (p *parser) next() Token {
	tok := p.toks[p.pos]
	if tok.Kind != TokEOF {
		p.pos++
	}

	return tok
}

func (p *parser) accept(kind TokenKind) bool {
	if p.peek().Kind == kind {
		p.pos++
		return true
	}

	return false
}

func (p *parser) expect(kind TokenKind) error {
	if tok := p.peek(); tok.Kind != kind {
		return p.errorf(tok, "expected %s, found %s", kind, tok.Kind)
	}

	p.pos++

	return nil
}

func (p *parser) errorf(tok Token, format string, args ...any) error {
	return &SyntaxError{Expr: p.src, Pos: tok.Pos, Msg: fmt.Sprintf(format, args...)}
}

func (p *parser) enter() error {
	p.depth++
	if p.depth > maxDepth {
		return p.errorf(p.peek(), "nesting deeper than %d", maxDepth)
	}

	return nil
}

func (p *parser) leave() {
	p.depth--
}

// union = postfix { "|" postfix }
func (p *parser) parseUnion() (Node, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	first, err := p.parsePostfix()
	if err != nil {
		return nil, err
	}

	if p.peek().Kind != TokPipe {
		return first, nil
	}

	u := &Union{Members: []Node{first}}

	for p.accept(TokPipe) {
		m, err := p.parsePostfix()
		if err != nil {
			return nil, err
		}

		u.Members = append(u.Members, m)
	}

	return u, nil
}

// postfix = prefix { "[" [number] "]" | "?" }
func (p *parser) parsePostfix() (Node, error) {
	n, err := p.parsePrefix()
	if err != nil {
		return nil, err
	}

	for {
		switch p.peek().Kind {
		case TokLBrack:
			p.next()
			p.accept(TokNumber)

			if err := p.expect(TokRBrack); err != nil {
				return nil, err
			}

			n = &Array{Elem: n}

		case TokQuestion:
			p.next()

			n = &Optional{Elem: n}

		default:
			return n, nil
		}
	}
}

// prefix = "[" "]" prefix | primary
func (p *parser) parsePrefix() (Node, error) {
	if p.peek().Kind != TokLBrack {
		return p.parsePrimary()
	}

	p.next()

	if err := p.expect(TokRBrack); err != nil {
		return nil, err
	}

	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	elem, err := p.parsePrefix()
	if err != nil {
		return nil, err
	}

	return &Array{Elem: elem}, nil
}

// primary = ident [ "<" union { "," union } ">" ] | "(" union ")"
func (p *parser) parsePrimary() (Node, error) {
	tok := p.next()

	switch tok.Kind {
	case TokIdent:
		n := &Named{Name: tok.Text}
		if !p.accept(TokLAngle) {
			return n, nil
		}

		for {
			arg, err := p.parseUnion()
			if err != nil {
				return nil, err
			}

			n.Args = append(n.Args, arg)

			if !p.accept(TokComma) {
				break
			}
		}

		if err := p.expect(TokRAngle); err != nil {
			return nil, err
		}

		return n, nil

	case TokLParen:
		inner, err := p.parseUnion()
		if err != nil {
			return nil, err
		}

		if err := p.expect(TokRParen); err != nil {
			return nil, err
		}

		return inner, nil

	default:
		return nil, p.errorf(tok, "expected type, found %s", tok.Kind)
	}
}
