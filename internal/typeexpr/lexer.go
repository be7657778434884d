package typeexpr

import (
	"fmt"
	"strings"
)

// TokenKind identifies a lexical token.
type TokenKind int

const (
	TokEOF TokenKind = iota
	TokIdent
	TokLAngle
	TokRAngle
	TokComma
	TokLBrack
	TokRBrack
	TokLParen
	TokRParen
	TokPipe
	TokQuestion
	TokNumber
)

func (k TokenKind) String() string {
	switch k {
	case TokEOF:
		return "end of input"
	case TokIdent:
		return "identifier"
	case TokLAngle:
		return `"<"`
	case TokRAngle:
		return `">"`
	case TokComma:
		return `","`
	case TokLBrack:
		return `"["`
	case TokRBrack:
		return `"]"`
	case TokLParen:
		return `"("`
	case TokRParen:
		return `")"`
	case TokPipe:
		return `"|"`
	case TokQuestion:
		return `"?"`
	case TokNumber:
		return "number"
	default:
		return "unknown token"
	}
}

// Token is a lexeme with its byte offset in the input.
type Token struct {
	Kind TokenKind
	Text string
	Pos  int
}

// Tokenize splits a type expression into tokens. The union keyword "or" is
// returned as TokPipe. The result always ends with TokEOF.
func Tokenize(s string) ([]Token, error) {
	var toks []Token

	for i := 0; i < len(s); {
		c := s[i]

		switch {
		case c == ' ' || c == '\t':
			i++

		case c == '*' || c == '&':
			// pointer/reference sigils carry no meaning here
			i++

		case isIdentStart(c):
			start := i
			for i < len(s) && isIdentPart(s[i]) {
				i++
			}

			word := s[start:i]
			if strings.EqualFold(word, "or") {
				toks = append(toks, Token{Kind: TokPipe, Text: word, Pos: start})
			} else {
				toks = append(toks, Token{Kind: TokIdent, Text: word, Pos: start})
			}

		case isDigit(c):
			start := i
			for i < len(s) && isDigit(s[i]) {
				i++
			}

			toks = append(toks, Token{Kind: TokNumber, Text: s[start:i], Pos: start})

		default:
			kind, ok := punct[c]
			if !ok {
				return nil, fmt.Errorf("unexpected character %q at offset %d", c, i)
			}

			toks = append(toks, Token{Kind: kind, Text: string(c), Pos: i})
			i++
		}
	}

	return append(toks, Token{Kind: TokEOF, Pos: len(s)}), nil
}

var punct = map[byte]TokenKind{
	'<': TokLAngle,
	'>': TokRAngle,
	',': TokComma,
	'[': TokLBrack,
	']': TokRBrack,
	'(': TokLParen,
	')': TokRParen,
	'|': TokPipe,
	'?': TokQuestion,
}

func isIdentStart(c byte) bool {
	return c == '_' || c == '$' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || isDigit(c) || c == '.'
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
