package newick

import (
	"bytes"
	"errors"
	"io"
	"math"
	"testing"
)

func sample(s string) io.Reader {
	return bytes.NewReader([]byte(s))
}

func TestParseRoundTrip(t *testing.T) {
	tests := []string{
		"(A:0.1,B:0.2):0;",
		"((A:0.1,B:0.2)AB:0.2,(D:0.4,E:0.1)99:0.1):0.1;",
		"(Bovine:0.69395,(Gibbon:0.36079,(Orang:0.33636,(Gorilla:0.17147," +
			"(Chimp:0.19268,Human:0.11927):0.08386):0.06124):0.15057):0.54939," +
			"Mouse:1.2146):0.1;",
		"((A:1):2,B:3)root:0;",
		"A:0.5;",
	}
	for _, test := range tests {
		tree, err := Parse(test)
		if err != nil {
			t.Fatalf("Parsing '%s': %s", test, err)
		}
		if got := tree.Newick(); got != test {
			t.Fatalf("Round trip of\n%s\nproduced\n%s", test, got)
		}
	}
}

func TestParseAnnotations(t *testing.T) {
	tree, err := Parse("((A:0.1,B:0.2,C:0.1)ABCnode:0.2,(D:0.4,E:0.1)99:0.1);")
	if err != nil {
		t.Fatal(err)
	}
	if len(tree.Children) != 2 {
		t.Fatalf("Expected 2 children but got %d.", len(tree.Children))
	}

	abc, de := tree.Children[0], tree.Children[1]
	if abc.Label != "ABCnode" {
		t.Fatalf("Expected label 'ABCnode' but got '%s'.", abc.Label)
	}
	if _, ok := abc.Bootstrap(); ok {
		t.Fatalf("A labeled node should not have a bootstrap value.")
	}
	if b, ok := de.Bootstrap(); !ok || b != 99 {
		t.Fatalf("Expected bootstrap 99 but got %f (set: %v).", b, ok)
	}
	if de.Label != "" {
		t.Fatalf("A node with a bootstrap value should not have a label.")
	}
	if len(abc.Children) != 3 || abc.Children[2].Label != "C" {
		t.Fatalf("Children of ABCnode were not read in order: %s", abc)
	}
	if abc.Children[1].Length != 0.2 {
		t.Fatalf("Expected length 0.2 for B but got %f.",
			abc.Children[1].Length)
	}
	if p, err := abc.Children[0].Parent(); err != nil || p != abc {
		t.Fatalf("Parent of A should be ABCnode.")
	}
	if tree.Length != 0 {
		t.Fatalf("Root without a length should have length 0.")
	}
}

func TestParseNumericLeaf(t *testing.T) {
	tree, err := Parse("(1:0.1,2:0.2)7:0;")
	if err != nil {
		t.Fatal(err)
	}
	labels := tree.LeafLabels()
	if labels[0] != "1" || labels[1] != "2" {
		t.Fatalf("Numeric leaf names should stay labels, got %v.", labels)
	}
	if b, ok := tree.Bootstrap(); !ok || b != 7 {
		t.Fatalf("Expected root bootstrap 7 but got %f.", b)
	}
}

func TestParseComments(t *testing.T) {
	tests := []struct {
		in, out string
	}{
		{"(A:0.1[comment],B:0.2);", "(A:0.1,B:0.2):0;"},
		{"[lead](A:0.1[a[nested]b],B:0.2)[x];", "(A:0.1,B:0.2):0;"},
		{"( A : 0.1 ,\n B:0.2 ) root ;", "(A:0.1,B:0.2)root:0;"},
		{"(A:0.1[(],B:0.2);", "(A:0.1,B:0.2):0;"},
	}
	for _, test := range tests {
		tree, err := Parse(test.in)
		if err != nil {
			t.Fatalf("Parsing '%s': %s", test.in, err)
		}
		if got := tree.Newick(); got != test.out {
			t.Fatalf("Parsing '%s' gave '%s', expected '%s'.",
				test.in, got, test.out)
		}
	}
}

func TestParseErrors(t *testing.T) {
	tests := []string{
		"(A:0.1,B:0.2)",
		"((A:0.1,B:0.2);",
		"(A:0.1,B:0.2));",
		")A:0.1,B:0.2(;",
		"(A:0.1[,B:0.2);",
		"(A:0.1],B:0.2);",
		"(A:x,B:0.2);",
		"(A,B);",
		"(A:0.1,,B:0.2);",
		"(A:0.1,B:NaN);",
		"",
	}
	for _, test := range tests {
		tree, err := Parse(test)
		if err == nil {
			t.Fatalf("Expected a syntax error for '%s', got\n%s", test, tree)
		}
		if !errors.Is(err, ErrSyntax) {
			t.Fatalf("Error for '%s' is not a syntax error: %s", test, err)
		}
	}
}

func TestReader(t *testing.T) {
	r := NewReader(sample("(A:1,B:2)C:0;\n[a comment; with a terminal]" +
		"(X:1,Y:1):0.5;\n\n"))
	trees, err := r.ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(trees) != 2 {
		t.Fatalf("Expected 2 trees but got %d.", len(trees))
	}
	if got := trees[1].Newick(); got != "(X:1,Y:1):0.5;" {
		t.Fatalf("Unexpected second tree '%s'.", got)
	}
}

func TestReaderError(t *testing.T) {
	r := NewReader(sample("(A:1,B:2):0;\n(A:1,B:2)"))
	if _, err := r.ReadTree(); err != nil {
		t.Fatal(err)
	}
	_, err := r.ReadTree()
	if !errors.Is(err, ErrSyntax) {
		t.Fatalf("Expected a syntax error for an unterminated tree, got %v",
			err)
	}
	if _, err := NewReader(sample("  \n")).ReadTree(); err != io.EOF {
		t.Fatalf("Expected io.EOF for blank input, got %v", err)
	}
}

func TestWriter(t *testing.T) {
	tree, err := Parse("((A:1,B:2)AB:3,C:4):0;")
	if err != nil {
		t.Fatal(err)
	}
	buf := new(bytes.Buffer)
	if err := NewWriter(buf).WriteAll([]*Tree{tree, tree.Children[0]}); err != nil {
		t.Fatal(err)
	}
	expected := "((A:1,B:2)AB:3,C:4):0;\n(A:1,B:2)AB:3;\n"
	if buf.String() != expected {
		t.Fatalf("Writer produced\n%s\nexpected\n%s", buf.String(), expected)
	}

	again, err := Parse("(A:1,B:2)AB:3;")
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(again.Length-3) > 1e-12 {
		t.Fatalf("Sub-tree length was not written.")
	}
}
