package compiler

import (
	"strings"
	"testing"
)

// We try to compile several bogus programs.
func TestBogusInput(t *testing.T) {
	tests := []string{
		// invalid character
		"int a; a = 3 $ 4;",
		// undeclared identifier
		"return a;",
		// assignment to a non-lvalue
		"1 = 2;",
	}

	for _, test := range tests {
		c := New(test)
		_, err := c.Compile()
		if err == nil {
			t.Errorf("expected an error compiling %q, got none", test)
		}
	}
}

// Test some valid programs compile to assembly containing the expected
// shape, without asserting on the full text.
func TestValidPrograms(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []string
	}{
		{
			name: "return immediate",
			src:  "return 5;",
			want: []string{".global main", "mov $5, %rax", "ret"},
		},
		{
			name: "arithmetic",
			src:  "return 1 + 2 * 3;",
			want: []string{"imul %rdi, %rax", "add %rdi, %rax"},
		},
		{
			name: "variables",
			src:  "{ int a; a = 1; return a; }",
			want: []string{"lea -8(%rbp), %rax", "sub $16, %rsp"},
		},
		{
			name: "control flow",
			src:  "{ int i; for (i = 0; i < 3; i = i + 1) {} }",
			want: []string{".L.begin.1:", ".L.end.1:"},
		},
		{
			// an empty program is a zero-length stmt* list, not an error —
			// it compiles to a bare prologue/epilogue.
			name: "empty program",
			src:  "",
			want: []string{".global main", "push %rbp", "pop %rbp", "ret"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(tt.src)
			out, err := c.Compile()
			if err != nil {
				t.Fatalf("unexpected error compiling %q: %v", tt.src, err)
			}
			for _, want := range tt.want {
				if !strings.Contains(out, want) {
					t.Errorf("output for %q missing %q:\n%s", tt.src, want, out)
				}
			}
		})
	}
}

func TestSetDebugDoesNotAffectGeneratedAssembly(t *testing.T) {
	src := "return 1;"

	plain := New(src)
	plainOut, err := plain.Compile()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	debugged := New(src)
	debugged.SetDebug(true)
	debugOut, err := debugged.Compile()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if plainOut != debugOut {
		t.Errorf("debug flag changed the generated assembly, want it to only affect stderr diagnostics")
	}
}
