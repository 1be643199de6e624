// Package parser implements the recursive-descent parser described in
// spec.md §4.2: it consumes a token.Queue and produces an ordered list of
// top-level statement ast.Node values plus a populated symtable.Table.
package parser

import (
	"github.com/HarumiKiyama/chibicc-rust/internal/ast"
	"github.com/HarumiKiyama/chibicc-rust/internal/cerr"
	"github.com/HarumiKiyama/chibicc-rust/internal/symtable"
	"github.com/HarumiKiyama/chibicc-rust/internal/token"
)

// Parser holds parse-time state: the token queue it consumes and the
// symbol table it builds up as declarations are seen. It is single-use —
// create one per compilation via New.
type Parser struct {
	tokens *token.Queue
	table  *symtable.Table
}

// New creates a Parser over tokens.
func New(tokens *token.Queue) *Parser {
	return &Parser{tokens: tokens, table: symtable.New()}
}

// Parse runs the parser to completion, returning the top-level statement
// list and the symbol table (with insertion order recorded, offsets not
// yet finalized), or the first syntax error encountered.
func (p *Parser) Parse() ([]*ast.Node, *symtable.Table, error) {
	var stmts []*ast.Node
	for !p.tokens.AtEOF() {
		s, err := p.stmt()
		if err != nil {
			return nil, nil, err
		}
		stmts = append(stmts, s)
	}
	return stmts, p.table, nil
}

// expect consumes literal or fails with a syntax error.
func (p *Parser) expect(literal string) error {
	if p.tokens.Consume(literal) {
		return nil
	}
	return cerr.New(cerr.Parse, "expected %q but got %q", literal, p.tokens.Front().Literal)
}

// consumeIdent consumes and returns the front token's literal if it is an
// Identifier, else leaves the queue untouched.
func (p *Parser) consumeIdent() (string, bool) {
	t := p.tokens.Front()
	if t.Kind != token.Identifier {
		return "", false
	}
	p.tokens.PopFront()
	return t.Literal, true
}

// stmt = "return" expr ";"
//      | "if" "(" expr ")" stmt ("else" stmt)?
//      | "for" "(" expr-stmt expr? ";" expr? ")" stmt
//      | "while" "(" expr ")" stmt
//      | "{" compound-stmt
//      | expr-stmt
func (p *Parser) stmt() (*ast.Node, error) {
	switch {
	case p.tokens.Consume("return"):
		e, err := p.expr()
		if err != nil {
			return nil, err
		}
		if err := p.expect(";"); err != nil {
			return nil, err
		}
		return &ast.Node{Kind: ast.Return, Lhs: e}, nil

	case p.tokens.Consume("if"):
		return p.ifStmt()

	case p.tokens.Consume("for"):
		return p.forStmt()

	case p.tokens.Consume("while"):
		return p.whileStmt()

	case p.tokens.Consume("{"):
		return p.compoundStmt()

	default:
		return p.exprStmt()
	}
}

func (p *Parser) ifStmt() (*ast.Node, error) {
	if err := p.expect("("); err != nil {
		return nil, err
	}
	cond, err := p.expr()
	if err != nil {
		return nil, err
	}
	if err := p.expect(")"); err != nil {
		return nil, err
	}
	then, err := p.stmt()
	if err != nil {
		return nil, err
	}
	node := &ast.Node{Kind: ast.If, Cond: cond, Then: then}
	if p.tokens.Consume("else") {
		els, err := p.stmt()
		if err != nil {
			return nil, err
		}
		node.Els = els
	}
	return node, nil
}

func (p *Parser) forStmt() (*ast.Node, error) {
	if err := p.expect("("); err != nil {
		return nil, err
	}

	init, err := p.exprStmt()
	if err != nil {
		return nil, err
	}

	var cond *ast.Node
	if !p.tokens.Consume(";") {
		cond, err = p.expr()
		if err != nil {
			return nil, err
		}
		if err := p.expect(";"); err != nil {
			return nil, err
		}
	}

	var inc *ast.Node
	if !p.tokens.Consume(")") {
		inc, err = p.expr()
		if err != nil {
			return nil, err
		}
		if err := p.expect(")"); err != nil {
			return nil, err
		}
	}

	then, err := p.stmt()
	if err != nil {
		return nil, err
	}

	return &ast.Node{Kind: ast.For, Init: init, Cond: cond, Inc: inc, Then: then}, nil
}

func (p *Parser) whileStmt() (*ast.Node, error) {
	if err := p.expect("("); err != nil {
		return nil, err
	}
	cond, err := p.expr()
	if err != nil {
		return nil, err
	}
	if err := p.expect(")"); err != nil {
		return nil, err
	}
	then, err := p.stmt()
	if err != nil {
		return nil, err
	}
	return &ast.Node{Kind: ast.For, Cond: cond, Then: then}, nil
}

// compound-stmt = (declaration | stmt)* "}"
func (p *Parser) compoundStmt() (*ast.Node, error) {
	var stmts []*ast.Node
	for !p.tokens.Consume("}") {
		if p.tokens.AtEOF() {
			return nil, cerr.New(cerr.Parse, "unterminated block, expected '}'")
		}

		var (
			s   *ast.Node
			err error
		)
		if p.tokens.Is("int") {
			s, err = p.declaration()
		} else {
			s, err = p.stmt()
		}
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, s)
	}
	return &ast.Node{Kind: ast.Block, Stmts: stmts}, nil
}

// declspec = "int"
func (p *Parser) declspec() (*ast.Type, error) {
	if err := p.expect("int"); err != nil {
		return nil, err
	}
	return ast.IntType, nil
}

// declarator = "*"* ident
func (p *Parser) declarator(base *ast.Type) (string, *ast.Type, error) {
	typ := base
	for p.tokens.Consume("*") {
		typ = ast.PointerTo(typ)
	}
	name, ok := p.consumeIdent()
	if !ok {
		return "", nil, cerr.New(cerr.Parse, "expected a variable name, got %q", p.tokens.Front().Literal)
	}
	return name, typ, nil
}

// declaration = declspec (declarator ("=" expr)? ("," declarator ("=" expr)?)*)? ";"
func (p *Parser) declaration() (*ast.Node, error) {
	base, err := p.declspec()
	if err != nil {
		return nil, err
	}

	var stmts []*ast.Node
	first := true
	for !p.tokens.Consume(";") {
		if !first {
			if err := p.expect(","); err != nil {
				return nil, err
			}
		}
		first = false

		name, typ, err := p.declarator(base)
		if err != nil {
			return nil, err
		}
		p.table.Declare(name, typ)

		if !p.tokens.Consume("=") {
			continue
		}
		rhs, err := p.expr()
		if err != nil {
			return nil, err
		}
		assign := &ast.Node{
			Kind: ast.Assign,
			Lhs:  &ast.Node{Kind: ast.Var, Name: name, Type: typ},
			Rhs:  rhs,
			Type: typ,
		}
		stmts = append(stmts, &ast.Node{Kind: ast.ExprStmt, Lhs: assign})
	}
	return &ast.Node{Kind: ast.Block, Stmts: stmts}, nil
}

// expr-stmt = expr? ";"
func (p *Parser) exprStmt() (*ast.Node, error) {
	if p.tokens.Consume(";") {
		return &ast.Node{Kind: ast.Block}, nil
	}
	e, err := p.expr()
	if err != nil {
		return nil, err
	}
	if err := p.expect(";"); err != nil {
		return nil, err
	}
	return &ast.Node{Kind: ast.ExprStmt, Lhs: e}, nil
}

// expr = assign
func (p *Parser) expr() (*ast.Node, error) {
	return p.assign()
}

// assign = equality ("=" assign)? — right-associative.
func (p *Parser) assign() (*ast.Node, error) {
	node, err := p.equality()
	if err != nil {
		return nil, err
	}
	if p.tokens.Consume("=") {
		if !node.IsLvalue() {
			return nil, cerr.New(cerr.Parse, "left side of assignment must be an lvalue")
		}
		rhs, err := p.assign()
		if err != nil {
			return nil, err
		}
		node = &ast.Node{Kind: ast.Assign, Lhs: node, Rhs: rhs, Type: node.Type}
	}
	return node, nil
}

// equality = relational (("==" | "!=") relational)*
func (p *Parser) equality() (*ast.Node, error) {
	node, err := p.relational()
	if err != nil {
		return nil, err
	}
	for {
		switch {
		case p.tokens.Consume("=="):
			node, err = p.binary(ast.Eq, node)
		case p.tokens.Consume("!="):
			node, err = p.binary(ast.Ne, node)
		default:
			return node, nil
		}
		if err != nil {
			return nil, err
		}
	}
}

func (p *Parser) binary(kind ast.Kind, lhs *ast.Node) (*ast.Node, error) {
	rhs, err := p.relational()
	if err != nil {
		return nil, err
	}
	return &ast.Node{Kind: kind, Lhs: lhs, Rhs: rhs, Type: ast.IntType}, nil
}

// relational = add (("<"|"<="|">"|">=") add)*
//
// "a > b" desugars to Lt(b, a) and "a >= b" to Le(b, a); only Lt/Le exist
// as node kinds.
func (p *Parser) relational() (*ast.Node, error) {
	node, err := p.add()
	if err != nil {
		return nil, err
	}
	for {
		switch {
		case p.tokens.Consume("<"):
			rhs, err := p.add()
			if err != nil {
				return nil, err
			}
			node = &ast.Node{Kind: ast.Lt, Lhs: node, Rhs: rhs, Type: ast.IntType}
		case p.tokens.Consume("<="):
			rhs, err := p.add()
			if err != nil {
				return nil, err
			}
			node = &ast.Node{Kind: ast.Le, Lhs: node, Rhs: rhs, Type: ast.IntType}
		case p.tokens.Consume(">"):
			rhs, err := p.add()
			if err != nil {
				return nil, err
			}
			node = &ast.Node{Kind: ast.Lt, Lhs: rhs, Rhs: node, Type: ast.IntType}
		case p.tokens.Consume(">="):
			rhs, err := p.add()
			if err != nil {
				return nil, err
			}
			node = &ast.Node{Kind: ast.Le, Lhs: rhs, Rhs: node, Type: ast.IntType}
		default:
			return node, nil
		}
	}
}

// add = mul (("+"|"-") mul)*, with pointer-arithmetic canonicalization
// applied to each Add/Sub as it is built (spec.md §4.2).
func (p *Parser) add() (*ast.Node, error) {
	node, err := p.mul()
	if err != nil {
		return nil, err
	}
	for {
		switch {
		case p.tokens.Consume("+"):
			rhs, err := p.mul()
			if err != nil {
				return nil, err
			}
			node, err = newAdd(node, rhs)
			if err != nil {
				return nil, err
			}
		case p.tokens.Consume("-"):
			rhs, err := p.mul()
			if err != nil {
				return nil, err
			}
			node, err = newSub(node, rhs)
			if err != nil {
				return nil, err
			}
		default:
			return node, nil
		}
	}
}

// eight is the hardcoded pointee size for this subset (spec.md §4.2).
const eight = 8

func scaleByEight(n *ast.Node) *ast.Node {
	return &ast.Node{
		Kind: ast.Mul,
		Lhs:  n,
		Rhs:  &ast.Node{Kind: ast.Num, Val: eight, Type: ast.IntType},
		Type: ast.IntType,
	}
}

// newAdd canonicalizes ptr+int to have the pointer on the left and the
// integer operand scaled by the pointee size; int+int is unchanged;
// pointer+pointer is an error.
func newAdd(lhs, rhs *ast.Node) (*ast.Node, error) {
	lp, rp := lhs.Type.IsPointer(), rhs.Type.IsPointer()

	switch {
	case lp && rp:
		return nil, cerr.New(cerr.Parse, "invalid operands: pointer + pointer")
	case lp && !rp:
		return &ast.Node{Kind: ast.Add, Lhs: lhs, Rhs: scaleByEight(rhs), Type: lhs.Type}, nil
	case !lp && rp:
		return &ast.Node{Kind: ast.Add, Lhs: rhs, Rhs: scaleByEight(lhs), Type: rhs.Type}, nil
	default:
		return &ast.Node{Kind: ast.Add, Lhs: lhs, Rhs: rhs, Type: lhs.Type}, nil
	}
}

// newSub canonicalizes pointer-integer/pointer-pointer subtraction:
// int-pointer is an error; pointer-pointer yields Div(Sub(lhs,rhs),8) with
// Int result type; pointer-int scales the int operand and keeps pointer
// type; int-int is unchanged.
func newSub(lhs, rhs *ast.Node) (*ast.Node, error) {
	lp, rp := lhs.Type.IsPointer(), rhs.Type.IsPointer()

	switch {
	case !lp && rp:
		return nil, cerr.New(cerr.Parse, "invalid operands: int - pointer")
	case lp && rp:
		sub := &ast.Node{Kind: ast.Sub, Lhs: lhs, Rhs: rhs, Type: ast.IntType}
		return &ast.Node{
			Kind: ast.Div,
			Lhs:  sub,
			Rhs:  &ast.Node{Kind: ast.Num, Val: eight, Type: ast.IntType},
			Type: ast.IntType,
		}, nil
	case lp && !rp:
		return &ast.Node{Kind: ast.Sub, Lhs: lhs, Rhs: scaleByEight(rhs), Type: lhs.Type}, nil
	default:
		return &ast.Node{Kind: ast.Sub, Lhs: lhs, Rhs: rhs, Type: lhs.Type}, nil
	}
}

// mul = unary (("*"|"/") unary)*
func (p *Parser) mul() (*ast.Node, error) {
	node, err := p.unary()
	if err != nil {
		return nil, err
	}
	for {
		switch {
		case p.tokens.Consume("*"):
			rhs, err := p.unary()
			if err != nil {
				return nil, err
			}
			node = &ast.Node{Kind: ast.Mul, Lhs: node, Rhs: rhs, Type: node.Type}
		case p.tokens.Consume("/"):
			rhs, err := p.unary()
			if err != nil {
				return nil, err
			}
			node = &ast.Node{Kind: ast.Div, Lhs: node, Rhs: rhs, Type: node.Type}
		default:
			return node, nil
		}
	}
}

// unary = ("+"|"-"|"*"|"&") unary | primary
func (p *Parser) unary() (*ast.Node, error) {
	switch {
	case p.tokens.Consume("+"):
		return p.unary()

	case p.tokens.Consume("-"):
		lhs, err := p.unary()
		if err != nil {
			return nil, err
		}
		return &ast.Node{Kind: ast.Neg, Lhs: lhs, Type: lhs.Type}, nil

	case p.tokens.Consume("*"):
		lhs, err := p.unary()
		if err != nil {
			return nil, err
		}
		base := ast.IntType
		if lhs.Type.IsPointer() {
			base = lhs.Type.Base
		}
		return &ast.Node{Kind: ast.Deref, Lhs: lhs, Type: base}, nil

	case p.tokens.Consume("&"):
		lhs, err := p.unary()
		if err != nil {
			return nil, err
		}
		return &ast.Node{Kind: ast.Addr, Lhs: lhs, Type: ast.PointerTo(lhs.Type)}, nil

	default:
		return p.primary()
	}
}

// primary = "(" expr ")" | ident | num
func (p *Parser) primary() (*ast.Node, error) {
	if p.tokens.Consume("(") {
		node, err := p.expr()
		if err != nil {
			return nil, err
		}
		if err := p.expect(")"); err != nil {
			return nil, err
		}
		return node, nil
	}

	if name, ok := p.consumeIdent(); ok {
		entry := p.table.Lookup(name)
		if entry == nil {
			return nil, cerr.New(cerr.Parse, "undeclared identifier %q", name)
		}
		return &ast.Node{Kind: ast.Var, Name: name, Type: entry.Type}, nil
	}

	t := p.tokens.Front()
	if t.Kind != token.Number {
		return nil, cerr.New(cerr.Parse, "expected an expression, got %q", t.Literal)
	}
	p.tokens.PopFront()
	return &ast.Node{Kind: ast.Num, Val: t.Value, Type: ast.IntType}, nil
}
