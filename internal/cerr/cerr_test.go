package cerr

import "testing"

func TestErrorMessageIncludesStage(t *testing.T) {
	err := New(Lex, "unexpected character %q", '@')

	want := `lex error: unexpected character '@'`
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestErrorImplementsErrorInterface(t *testing.T) {
	var err error = New(Parse, "boom")
	if err.Error() == "" {
		t.Fatal("Error() should not be empty")
	}
}
