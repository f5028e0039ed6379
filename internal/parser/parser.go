package parser

import (
	"fmt"

	"github.com/wayneeseguin/circuiteval/pkg/circuit"
)

// IDGen hands out forest-wide unique node sequence numbers, satisfied by
// (*circuit.Registry).NextID.
type IDGen func() int

// parser is a standard precedence-climbing recursive-descent parser over
// the four-shape grammar of spec §3: expr := term (('+') term)*, term :=
// factor (('*') factor)*, factor := '-' factor | primary, primary := NUM |
// 'x' '[' NUM ']' | '(' expr ')'. This is the idiomatic rendition of the
// grammar spec.md §6 describes; it does not replicate circuit.c's own
// single-pass stack-threaded parse_line, whose left/right wiring is an
// implementation detail of the C source, not an externally observable
// behavior (spec §8's scenarios pin down only the resulting values).
type parser struct {
	lx  *lexer
	ids IDGen
	tok token
}

func newParser(s string, ids IDGen) (*parser, error) {
	p := &parser{lx: newLexer(s), ids: ids}
	if err := p.advance(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *parser) advance() error {
	t, err := p.lx.next()
	if err != nil {
		return err
	}
	p.tok = t
	return nil
}

func (p *parser) expect(k tokenKind, what string) error {
	if p.tok.kind != k {
		return fmt.Errorf("expected %s", what)
	}
	return p.advance()
}

// ParseEquation parses a full equation right-hand side: a line already
// stripped of its label, of the shape `x[v] = <expr>`. It returns the
// defined variable index and the expression's parse tree, or an error for
// any malformed input — per SPEC_FULL.md §3, the caller treats this as a
// fatal parse error that aborts the whole run, matching circuit.c's
// looming_doom("PARSE ERR").
func ParseEquation(ids IDGen, line string) (int, *circuit.Node, error) {
	p, err := newParser(line, ids)
	if err != nil {
		return 0, nil, err
	}
	if p.tok.kind != tokVar {
		return 0, nil, fmt.Errorf("equation must start with x[v]")
	}
	v := p.tok.v
	if err := p.advance(); err != nil {
		return 0, nil, err
	}
	if err := p.expect(tokEquals, "'='"); err != nil {
		return 0, nil, err
	}
	root, err := p.parseExpr()
	if err != nil {
		return 0, nil, err
	}
	if p.tok.kind != tokEOF {
		return 0, nil, fmt.Errorf("unexpected trailing input after expression")
	}
	return v, root, nil
}

// ParseExpr parses a bare expression with no leading `x[v] =`. Nothing in
// this repository calls it; ParseEquation parses its right-hand side with
// the same grammar through parseExpr.
func ParseExpr(ids IDGen, s string) (*circuit.Node, error) {
	p, err := newParser(s, ids)
	if err != nil {
		return nil, err
	}
	root, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if p.tok.kind != tokEOF {
		return nil, fmt.Errorf("unexpected trailing input after expression")
	}
	return root, nil
}

func (p *parser) parseExpr() (*circuit.Node, error) {
	left, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	for p.tok.kind == tokPlus {
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		left = circuit.BinaryNode(p.ids(), '+', left, right)
	}
	return left, nil
}

func (p *parser) parseTerm() (*circuit.Node, error) {
	left, err := p.parseFactor()
	if err != nil {
		return nil, err
	}
	for p.tok.kind == tokStar {
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseFactor()
		if err != nil {
			return nil, err
		}
		left = circuit.BinaryNode(p.ids(), '*', left, right)
	}
	return left, nil
}

func (p *parser) parseFactor() (*circuit.Node, error) {
	if p.tok.kind == tokMinus {
		if err := p.advance(); err != nil {
			return nil, err
		}
		operand, err := p.parseFactor()
		if err != nil {
			return nil, err
		}
		return circuit.UnaryNode(p.ids(), operand), nil
	}
	return p.parsePrimary()
}

func (p *parser) parsePrimary() (*circuit.Node, error) {
	switch p.tok.kind {
	case tokNum:
		n := circuit.NumNode(p.ids(), p.tok.num)
		if err := p.advance(); err != nil {
			return nil, err
		}
		return n, nil
	case tokVar:
		n := circuit.VarNode(p.ids(), p.tok.v)
		if err := p.advance(); err != nil {
			return nil, err
		}
		return n, nil
	case tokLParen:
		if err := p.advance(); err != nil {
			return nil, err
		}
		inner, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if err := p.expect(tokRParen, "')'"); err != nil {
			return nil, err
		}
		return inner, nil
	default:
		return nil, fmt.Errorf("expected a number, x[v], '-', or '('")
	}
}
