package ui

import (
	"bytes"
	"testing"
)

func TestPrinter_Streams(t *testing.T) {
	var out, errOut bytes.Buffer
	p := NewPrinter(&out, &errOut)

	p.WriteInformation("hello %s", "world")
	p.EmptyLine()
	p.WriteError("broken: %d", 42)
	p.WriteWarning("careful")

	if got, want := out.String(), "hello world\n\n"; got != want {
		t.Errorf("stdout = %q, want %q", got, want)
	}
	if got, want := errOut.String(), "broken: 42\ncareful\n"; got != want {
		t.Errorf("stderr = %q, want %q", got, want)
	}
}

func TestPrinter_NoColorForNonTerminal(t *testing.T) {
	var out bytes.Buffer
	p := NewPrinter(&out, &out)

	for _, got := range []string{p.Bold("x"), p.Green("x"), p.Red("x"), p.Cyan("x")} {
		if got != "x" {
			t.Errorf("styled text for a buffer = %q, want plain %q", got, "x")
		}
	}
}
