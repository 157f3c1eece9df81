package expr

import "fmt"

// node is a parsed expression fragment.
type node interface {
	eval(env *environment) (float64, error)
}

type numberNode struct {
	val float64
}

type varNode struct {
	name string
	pos  int
}

type unaryNode struct {
	op      tokenKind
	operand node
}

type binaryNode struct {
	op       tokenKind
	lhs, rhs node
	pos      int
}

type callNode struct {
	name string
	args []node
	pos  int
}

// parser is a recursive-descent parser over the restricted grammar:
//
//	sum     := product (("+" | "-") product)*
//	product := unary (("*" | "/" | "//" | "%") unary)*
//	unary   := ("+" | "-") unary | power
//	power   := primary ("**" unary)?
//	primary := NUMBER | IDENT | IDENT "(" sum ("," sum)* ")" | "(" sum ")"
//
// Anything else is a hard rejection. Recursion depth is bounded so a
// pathological input cannot exhaust the stack.
type parser struct {
	lex      *lexer
	cur      token
	depth    int
	maxDepth int
}

func parse(input string, maxDepth int) (node, error) {
	p := &parser{lex: &lexer{input: input}, maxDepth: maxDepth}
	if err := p.advance(); err != nil {
		return nil, err
	}
	if p.cur.kind == tokEOF {
		return nil, ErrEmptyExpression
	}
	n, err := p.parseSum()
	if err != nil {
		return nil, err
	}
	if p.cur.kind != tokEOF {
		return nil, fmt.Errorf("%w: unexpected %q at position %d", ErrDisallowedSyntax, p.cur.text, p.cur.pos)
	}
	return n, nil
}

func (p *parser) advance() error {
	tok, err := p.lex.next()
	if err != nil {
		return err
	}
	p.cur = tok
	return nil
}

func (p *parser) enter() error {
	p.depth++
	if p.depth > p.maxDepth {
		return fmt.Errorf("%w: exceeds %d levels", ErrDepthExceeded, p.maxDepth)
	}
	return nil
}

func (p *parser) leave() {
	p.depth--
}

func (p *parser) parseSum() (node, error) {
	lhs, err := p.parseProduct()
	if err != nil {
		return nil, err
	}
	for p.cur.kind == tokPlus || p.cur.kind == tokMinus {
		op, pos := p.cur.kind, p.cur.pos
		if err := p.advance(); err != nil {
			return nil, err
		}
		rhs, err := p.parseProduct()
		if err != nil {
			return nil, err
		}
		lhs = &binaryNode{op: op, lhs: lhs, rhs: rhs, pos: pos}
	}
	return lhs, nil
}

func (p *parser) parseProduct() (node, error) {
	lhs, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.cur.kind == tokStar || p.cur.kind == tokSlash || p.cur.kind == tokSlashSlash || p.cur.kind == tokPercent {
		op, pos := p.cur.kind, p.cur.pos
		if err := p.advance(); err != nil {
			return nil, err
		}
		rhs, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		lhs = &binaryNode{op: op, lhs: lhs, rhs: rhs, pos: pos}
	}
	return lhs, nil
}

func (p *parser) parseUnary() (node, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	if p.cur.kind == tokPlus || p.cur.kind == tokMinus {
		op := p.cur.kind
		if err := p.advance(); err != nil {
			return nil, err
		}
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &unaryNode{op: op, operand: operand}, nil
	}
	return p.parsePower()
}

func (p *parser) parsePower() (node, error) {
	base, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	if p.cur.kind == tokStarStar {
		pos := p.cur.pos
		if err := p.advance(); err != nil {
			return nil, err
		}
		// Exponentiation is right-associative and binds tighter than a
		// leading unary minus but looser than one on its right operand.
		exp, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &binaryNode{op: tokStarStar, lhs: base, rhs: exp, pos: pos}, nil
	}
	return base, nil
}

func (p *parser) parsePrimary() (node, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	switch p.cur.kind {
	case tokNumber:
		n := &numberNode{val: p.cur.num}
		if err := p.advance(); err != nil {
			return nil, err
		}
		return n, nil

	case tokIdent:
		name, pos := p.cur.text, p.cur.pos
		if err := p.advance(); err != nil {
			return nil, err
		}
		if p.cur.kind != tokLParen {
			return &varNode{name: name, pos: pos}, nil
		}
		// Function call. The name is checked against the allow-list at
		// evaluation time so the error carries the resolved context.
		if err := p.advance(); err != nil {
			return nil, err
		}
		var args []node
		if p.cur.kind != tokRParen {
			for {
				arg, err := p.parseSum()
				if err != nil {
					return nil, err
				}
				args = append(args, arg)
				if p.cur.kind != tokComma {
					break
				}
				if err := p.advance(); err != nil {
					return nil, err
				}
			}
		}
		if p.cur.kind != tokRParen {
			return nil, fmt.Errorf("%w: expected ')' at position %d", ErrDisallowedSyntax, p.cur.pos)
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &callNode{name: name, args: args, pos: pos}, nil

	case tokLParen:
		if err := p.advance(); err != nil {
			return nil, err
		}
		inner, err := p.parseSum()
		if err != nil {
			return nil, err
		}
		if p.cur.kind != tokRParen {
			return nil, fmt.Errorf("%w: expected ')' at position %d", ErrDisallowedSyntax, p.cur.pos)
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		return inner, nil

	default:
		return nil, fmt.Errorf("%w: unexpected %q at position %d", ErrDisallowedSyntax, p.cur.text, p.cur.pos)
	}
}
