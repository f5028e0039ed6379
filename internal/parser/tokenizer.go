// Package parser implements the equation/expression grammar of spec §6: a
// small tokenizer plus a recursive-descent parser that builds the
// pkg/circuit parse trees directly, the way retrieve_var/parse_line do in
// original_source/circuit.c, rewritten as an idiomatic Go lexer+parser pair
// (the split the teacher's own pkg/graft/tokenizer_enhanced.go and
// parse_opcall.go use, though the grammar here is arithmetic-only).
package parser

import (
	"fmt"
	"strconv"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokNum
	tokVar
	tokPlus
	tokStar
	tokMinus
	tokLParen
	tokRParen
	tokEquals
)

type token struct {
	kind tokenKind
	num  int64
	v    int
}

// lexer turns an equation/expression line into tokens on demand.
type lexer struct {
	src []byte
	pos int
}

func newLexer(s string) *lexer {
	return &lexer{src: []byte(s)}
}

func (l *lexer) skipSpace() {
	for l.pos < len(l.src) && isSpace(l.src[l.pos]) {
		l.pos++
	}
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

// next returns the next token, consuming it from the stream.
func (l *lexer) next() (token, error) {
	l.skipSpace()
	if l.pos >= len(l.src) {
		return token{kind: tokEOF}, nil
	}

	c := l.src[l.pos]
	switch {
	case c == '+':
		l.pos++
		return token{kind: tokPlus}, nil
	case c == '*':
		l.pos++
		return token{kind: tokStar}, nil
	case c == '-':
		l.pos++
		return token{kind: tokMinus}, nil
	case c == '(':
		l.pos++
		return token{kind: tokLParen}, nil
	case c == ')':
		l.pos++
		return token{kind: tokRParen}, nil
	case c == '=':
		l.pos++
		return token{kind: tokEquals}, nil
	case c == 'x' && l.pos+1 < len(l.src) && l.src[l.pos+1] == '[':
		l.pos += 2
		start := l.pos
		for l.pos < len(l.src) && isDigit(l.src[l.pos]) {
			l.pos++
		}
		if start == l.pos {
			return token{}, fmt.Errorf("malformed variable reference at offset %d", start)
		}
		v, err := strconv.Atoi(string(l.src[start:l.pos]))
		if err != nil {
			return token{}, fmt.Errorf("malformed variable index: %w", err)
		}
		if l.pos >= len(l.src) || l.src[l.pos] != ']' {
			return token{}, fmt.Errorf("unterminated x[...] reference at offset %d", start)
		}
		l.pos++
		return token{kind: tokVar, v: v}, nil
	case isDigit(c):
		start := l.pos
		for l.pos < len(l.src) && isDigit(l.src[l.pos]) {
			l.pos++
		}
		n, err := strconv.ParseInt(string(l.src[start:l.pos]), 10, 64)
		if err != nil {
			return token{}, fmt.Errorf("malformed integer literal: %w", err)
		}
		return token{kind: tokNum, num: n}, nil
	default:
		return token{}, fmt.Errorf("unrecognized character %q at offset %d", c, l.pos)
	}
}
