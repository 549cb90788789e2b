package literate_test

import (
	"testing"

	"github.com/eykd/entwine/internal/literate"
)

func insert(t *testing.T, m *literate.ReferenceMap, name, target string, source ...string) {
	t.Helper()
	if _, err := m.Insert(block(name, target, source...)); err != nil {
		t.Fatalf("insert %s: %v", name, err)
	}
}

// S1: single file, single block.
func TestTangle_S1_SingleBlock(t *testing.T) {
	m := literate.NewReferenceMap()
	insert(t, m, "hello", "hello.py", `print("hi")`)

	naked := literate.NewEngine(literate.AnnotationNaked, nil)
	got, err := naked.Tangle(m, literate.ReferenceName{Target: "hello.py"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "print(\"hi\")\n" {
		t.Fatalf("naked: got %q", got)
	}

	standard := literate.NewEngine(literate.AnnotationStandard, nil)
	got, err = standard.Tangle(m, literate.ReferenceName{Target: "hello.py"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "# ~/~ begin <<file:hello.py[0]>>\nprint(\"hi\")\n# ~/~ end\n"
	if got != want {
		t.Fatalf("standard: got %q want %q", got, want)
	}
}

// S2: reference expansion with indentation.
func TestTangle_S2_IndentedExpansion(t *testing.T) {
	m := literate.NewReferenceMap()
	insert(t, m, "main", "m.py", "def f():", "    <<body>>")
	insert(t, m, "body", "", "x = 1", "y = 2")

	naked := literate.NewEngine(literate.AnnotationNaked, nil)
	got, err := naked.Tangle(m, literate.ReferenceName{Target: "m.py"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "def f():\n    x = 1\n    y = 2\n"
	if got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

// S3: multiple blocks with the same name concatenate in order.
func TestTangle_S3_ConcatenatesInOrder(t *testing.T) {
	m := literate.NewReferenceMap()
	insert(t, m, "setup", "s.py", "a")
	insert(t, m, "setup", "s.py", "b")

	naked := literate.NewEngine(literate.AnnotationNaked, nil)
	got, err := naked.Tangle(m, literate.ReferenceName{Target: "s.py"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "a\nb\n" {
		t.Fatalf("got %q", got)
	}
}

// S4: a cycle reached from a target fails with ReferenceError.
func TestTangle_S4_CycleDetected(t *testing.T) {
	m := literate.NewReferenceMap()
	insert(t, m, "a", "", "<<b>>")
	insert(t, m, "b", "", "<<a>>")
	insert(t, m, "x", "x.py", "<<a>>")

	naked := literate.NewEngine(literate.AnnotationNaked, nil)
	_, err := naked.Tangle(m, literate.ReferenceName{Target: "x.py"})
	lerr, ok := err.(*literate.Error)
	if !ok || lerr.Kind != literate.KindReferenceError {
		t.Fatalf("expected ReferenceError, got %v", err)
	}
}

func TestTangle_UndefinedReference(t *testing.T) {
	m := literate.NewReferenceMap()
	insert(t, m, "main", "m.py", "<<missing>>")

	naked := literate.NewEngine(literate.AnnotationNaked, nil)
	_, err := naked.Tangle(m, literate.ReferenceName{Target: "m.py"})
	lerr, ok := err.(*literate.Error)
	if !ok || lerr.Kind != literate.KindReferenceError {
		t.Fatalf("expected ReferenceError, got %v", err)
	}
}

func TestTangle_ReferenceLineWithExtraTextIsLiteral(t *testing.T) {
	m := literate.NewReferenceMap()
	insert(t, m, "main", "m.py", "foo <<ref>> bar")
	insert(t, m, "ref", "", "expanded")

	naked := literate.NewEngine(literate.AnnotationNaked, nil)
	got, err := naked.Tangle(m, literate.ReferenceName{Target: "m.py"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "foo <<ref>> bar\n" {
		t.Fatalf("expected literal emission, got %q", got)
	}
}
