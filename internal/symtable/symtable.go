// Package symtable holds the local-variable symbol table built during
// parsing and finalized (offsets assigned) once parsing completes.
package symtable

import "github.com/HarumiKiyama/chibicc-rust/internal/ast"

// Entry is one symbol table slot.
type Entry struct {
	Offset int // bytes below %rbp; populated only after Finalize
	Type   *ast.Type
}

// Table is an insertion-ordered name -> Entry mapping. A name is inserted
// at first declaration; a later declaration of the same name is a no-op,
// per spec.md §9's open-question decision (first binding wins).
type Table struct {
	entries map[string]*Entry
	order   []string // insertion order, for offset assignment

	// FrameSize is populated by Finalize; it is the number of bytes to
	// subtract from %rsp on entry.
	FrameSize int
}

// New returns an empty Table.
func New() *Table {
	return &Table{entries: make(map[string]*Entry)}
}

// Declare records name with the given type if it has not already been
// declared, and returns its (possibly pre-existing) Entry. Offsets are
// not assigned here — only insertion order is recorded, per spec.md's
// symbol-table re-addressing design note.
func (t *Table) Declare(name string, typ *ast.Type) *Entry {
	if e, ok := t.entries[name]; ok {
		return e
	}
	e := &Entry{Type: typ}
	t.entries[name] = e
	t.order = append(t.order, name)
	return e
}

// Lookup returns the Entry for name, or nil if it was never declared.
func (t *Table) Lookup(name string) *Entry {
	return t.entries[name]
}

// Len reports how many distinct names have been declared.
func (t *Table) Len() int {
	return len(t.order)
}

// Finalize assigns every declared name its frame-slot offset (the nth
// name in insertion order, 1-indexed, gets offset 8*n) and computes the
// 16-byte-aligned FrameSize. It must run exactly once, after parsing
// completes and before code generation emits the prologue.
func (t *Table) Finalize() {
	for i, name := range t.order {
		t.entries[name].Offset = 8 * (i + 1)
	}
	t.FrameSize = alignUp(8*len(t.order), 16)
}

func alignUp(n, align int) int {
	return (n + align - 1) / align * align
}
