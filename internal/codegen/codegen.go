// Package codegen walks a parsed statement list and emits AT&T-syntax
// x86-64 assembly implementing the calling convention, control flow and
// address/value distinction described in spec.md §4.3.
package codegen

import (
	"fmt"
	"strings"

	"github.com/HarumiKiyama/chibicc-rust/internal/ast"
	"github.com/HarumiKiyama/chibicc-rust/internal/cerr"
	"github.com/HarumiKiyama/chibicc-rust/internal/symtable"
)

// Generator holds emission state for one compilation.
type Generator struct {
	out     strings.Builder
	table   *symtable.Table
	depth   int // pushes minus pops; must be zero at every statement boundary
	counter int // monotonic label-id allocator, one per if/for structure
}

// Generate finalizes table's frame offsets and emits a complete assembly
// file for stmts: the .global main prologue, each statement's code (with
// the operand-stack-depth assertion between them), and the epilogue.
func Generate(stmts []*ast.Node, table *symtable.Table) (string, error) {
	g := &Generator{table: table}
	table.Finalize()

	g.emit(".global main")
	g.emit("main:")
	g.emit("  push %%rbp")
	g.emit("  mov %%rsp, %%rbp")
	g.emit("  sub $%d, %%rsp", table.FrameSize)

	for _, s := range stmts {
		if err := g.genStmt(s); err != nil {
			return "", err
		}
		if g.depth != 0 {
			return "", cerr.New(cerr.Codegen, "operand stack not balanced at statement boundary: depth=%d", g.depth)
		}
	}

	g.emit(".L.return:")
	g.emit("  mov %%rbp, %%rsp")
	g.emit("  pop %%rbp")
	g.emit("  ret")

	return g.out.String(), nil
}

func (g *Generator) emit(format string, args ...interface{}) {
	fmt.Fprintf(&g.out, format+"\n", args...)
}

func (g *Generator) push() {
	g.emit("  push %%rax")
	g.depth++
}

func (g *Generator) pop(reg string) {
	g.emit("  pop %%%s", reg)
	g.depth--
}

func (g *Generator) nextLabel() int {
	g.counter++
	return g.counter
}

// genAddr emits code computing the address of an lvalue into %rax. Any
// other node kind is a code-generator bug, not a user error (spec.md §7).
func (g *Generator) genAddr(n *ast.Node) error {
	switch n.Kind {
	case ast.Var:
		entry := g.table.Lookup(n.Name)
		g.emit("  lea -%d(%%rbp), %%rax", entry.Offset)
		return nil
	case ast.Deref:
		return g.genExpr(n.Lhs)
	default:
		return cerr.New(cerr.Codegen, "not an lvalue: node kind %d", n.Kind)
	}
}

// genExpr emits code evaluating n, leaving the result in %rax.
func (g *Generator) genExpr(n *ast.Node) error {
	switch n.Kind {
	case ast.Num:
		g.emit("  mov $%d, %%rax", n.Val)
		return nil

	case ast.Neg:
		if err := g.genExpr(n.Lhs); err != nil {
			return err
		}
		g.emit("  neg %%rax")
		return nil

	case ast.Var:
		if err := g.genAddr(n); err != nil {
			return err
		}
		g.emit("  mov (%%rax), %%rax")
		return nil

	case ast.Deref:
		if err := g.genExpr(n.Lhs); err != nil {
			return err
		}
		g.emit("  mov (%%rax), %%rax")
		return nil

	case ast.Addr:
		return g.genAddr(n.Lhs)

	case ast.Assign:
		if err := g.genAddr(n.Lhs); err != nil {
			return err
		}
		g.push()
		if err := g.genExpr(n.Rhs); err != nil {
			return err
		}
		g.pop("rdi")
		g.emit("  mov %%rax, (%%rdi)")
		return nil

	case ast.Add, ast.Sub, ast.Mul, ast.Div, ast.Eq, ast.Ne, ast.Lt, ast.Le:
		return g.genBinary(n)

	default:
		return cerr.New(cerr.Codegen, "invalid expression: node kind %d", n.Kind)
	}
}

// genBinary implements the binary-operator protocol of spec.md §4.3: the
// right operand is generated and pushed first, then the left operand is
// generated, then the right operand is popped into %rdi.
func (g *Generator) genBinary(n *ast.Node) error {
	if err := g.genExpr(n.Rhs); err != nil {
		return err
	}
	g.push()
	if err := g.genExpr(n.Lhs); err != nil {
		return err
	}
	g.pop("rdi")

	switch n.Kind {
	case ast.Add:
		g.emit("  add %%rdi, %%rax")
	case ast.Sub:
		g.emit("  sub %%rdi, %%rax")
	case ast.Mul:
		g.emit("  imul %%rdi, %%rax")
	case ast.Div:
		g.emit("  cqo")
		g.emit("  idiv %%rdi")
	case ast.Eq:
		g.genCompare("sete")
	case ast.Ne:
		g.genCompare("setne")
	case ast.Lt:
		g.genCompare("setl")
	case ast.Le:
		g.genCompare("setle")
	default:
		return cerr.New(cerr.Codegen, "not a binary operator: node kind %d", n.Kind)
	}
	return nil
}

func (g *Generator) genCompare(setInstr string) {
	g.emit("  cmp %%rdi, %%rax")
	g.emit("  %s %%al", setInstr)
	g.emit("  movzb %%al, %%rax")
}

// genStmt emits a statement. It never leaves a nonzero operand-stack
// depth behind (spec.md §8, "for any statement S the depth before and
// after generating S is zero").
func (g *Generator) genStmt(n *ast.Node) error {
	switch n.Kind {
	case ast.Return:
		if n.Lhs != nil {
			if err := g.genExpr(n.Lhs); err != nil {
				return err
			}
		}
		g.emit("  jmp .L.return")
		return nil

	case ast.ExprStmt:
		return g.genExpr(n.Lhs)

	case ast.If:
		return g.genIf(n)

	case ast.For:
		return g.genFor(n)

	case ast.Block:
		for _, s := range n.Stmts {
			if err := g.genStmt(s); err != nil {
				return err
			}
		}
		return nil

	default:
		return cerr.New(cerr.Codegen, "invalid statement: node kind %d", n.Kind)
	}
}

func (g *Generator) genIf(n *ast.Node) error {
	c := g.nextLabel()
	if err := g.genExpr(n.Cond); err != nil {
		return err
	}
	g.emit("  cmp $0, %%rax")
	g.emit("  je .L.else.%d", c)
	if err := g.genStmt(n.Then); err != nil {
		return err
	}
	g.emit("  jmp .L.end.%d", c)
	g.emit(".L.else.%d:", c)
	if n.Els != nil {
		if err := g.genStmt(n.Els); err != nil {
			return err
		}
	}
	g.emit(".L.end.%d:", c)
	return nil
}

func (g *Generator) genFor(n *ast.Node) error {
	c := g.nextLabel()
	if n.Init != nil {
		if err := g.genStmt(n.Init); err != nil {
			return err
		}
	}
	g.emit(".L.begin.%d:", c)
	if n.Cond != nil {
		if err := g.genExpr(n.Cond); err != nil {
			return err
		}
		g.emit("  cmp $0, %%rax")
		g.emit("  je .L.end.%d", c)
	}
	if err := g.genStmt(n.Then); err != nil {
		return err
	}
	if n.Inc != nil {
		if err := g.genExpr(n.Inc); err != nil {
			return err
		}
	}
	g.emit("  jmp .L.begin.%d", c)
	g.emit(".L.end.%d:", c)
	return nil
}
