package newick

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"unicode"
)

var (
	// ErrSyntax is wrapped by every error caused by malformed Newick text.
	ErrSyntax = errors.New("newick syntax error")

	// ErrIndex is wrapped by errors from navigating past the root or past
	// a leaf.
	ErrIndex = errors.New("newick index error")

	// ErrDisjoint is returned when measuring the distance between nodes
	// that do not belong to the same tree.
	ErrDisjoint = errors.New("nodes are not in the same tree")

	// ErrDuplicateLabel is returned when a distance matrix is requested for
	// a tree whose leaves do not have unique labels.
	ErrDuplicateLabel = errors.New("duplicate leaf label")
)

const (
	terminal      = ';'
	descDelimiter = ','
	descStart     = '('
	descEnd       = ')'
	lengthStart   = ':'
	commentStart  = '['
	commentEnd    = ']'
)

// Parse reads a single tree from a Newick string. The string must end with
// a ';'. Comments delimited by brackets, possibly nested, are ignored
// wherever they appear.
//
// Numeric values between a ')' and a ':' are read as bootstrap values;
// anything else there is a label. Leaf names are always labels.
//
// Every node must carry a branch length, except internal nodes which may
// have a bare label after their ')'.
func Parse(text string) (*Tree, error) {
	s, err := clean(text)
	if err != nil {
		return nil, err
	}
	s = strings.Trim(stripSpace(s), string(terminal))
	if err := checkParens(s); err != nil {
		return nil, err
	}

	root := &Tree{}
	if err := root.parse(s); err != nil {
		return nil, err
	}
	return root, nil
}

// clean checks the terminal ';' and removes bracket delimited comments, one
// outermost comment at a time.
func clean(s string) (string, error) {
	s = strings.TrimSpace(s)
	if len(s) == 0 || s[len(s)-1] != terminal {
		return "", fmt.Errorf("%w: missing '%c' at end", ErrSyntax, terminal)
	}
	for {
		open := strings.IndexByte(s, commentStart)
		if open == -1 {
			if strings.IndexByte(s, commentEnd) != -1 {
				return "", fmt.Errorf("%w: closing bracket without an "+
					"opening bracket", ErrSyntax)
			}
			return s, nil
		}

		depth, end := 1, -1
		for i := open + 1; i < len(s) && end == -1; i++ {
			switch s[i] {
			case commentStart:
				depth++
			case commentEnd:
				depth--
				if depth == 0 {
					end = i
				}
			}
		}
		if end == -1 {
			return "", fmt.Errorf("%w: opening brackets do not match "+
				"closing brackets", ErrSyntax)
		}
		s = s[:open] + s[end+1:]
	}
}

func stripSpace(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

func checkParens(s string) error {
	depth := 0
	for _, r := range s {
		switch r {
		case descStart:
			depth++
		case descEnd:
			depth--
			if depth < 0 {
				return fmt.Errorf("%w: closing parenthesis without an "+
					"opening parenthesis", ErrSyntax)
			}
		}
	}
	if depth != 0 {
		return fmt.Errorf("%w: opening parenthesis do not match closing "+
			"parenthesis", ErrSyntax)
	}
	return nil
}

// parse fills t from the text of one sub-tree. The annotation of the node is
// everything after its last ')' (all of it for a leaf).
func (t *Tree) parse(s string) error {
	paren := strings.LastIndexByte(s, descEnd)
	annotation := s[paren+1:]

	if colon := strings.LastIndexByte(annotation, lengthStart); colon != -1 {
		length, err := parseLength(annotation[colon+1:])
		if err != nil {
			return err
		}
		t.Length = length

		name := annotation[:colon]
		if paren == -1 {
			t.Label = name
		} else if b, err := strconv.ParseFloat(name, 64); err == nil {
			t.SetBootstrap(b)
		} else {
			t.Label = name
		}
	} else if paren != -1 {
		t.Label = annotation
	} else {
		return fmt.Errorf("%w: '%s' has neither a branch length nor "+
			"descendants", ErrSyntax, s)
	}

	if paren == -1 {
		return nil
	}
	if s[0] != descStart {
		return fmt.Errorf("%w: unexpected text before descendants in '%s'",
			ErrSyntax, s)
	}
	for _, sub := range splitDescendants(s[1:paren]) {
		child := &Tree{}
		if err := child.parse(sub); err != nil {
			return err
		}
		t.AddChild(child)
	}
	return nil
}

func parseLength(s string) (float64, error) {
	length, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(length) || math.IsInf(length, 0) {
		return 0, fmt.Errorf("%w: invalid branch length '%s', must be "+
			"numerical", ErrSyntax, s)
	}
	return length, nil
}

// splitDescendants splits the contents of a descendant list on the commas
// that are not nested inside parentheses.
func splitDescendants(s string) []string {
	var subs []string
	depth, start := 0, 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case descStart:
			depth++
		case descEnd:
			depth--
		case descDelimiter:
			if depth == 0 {
				subs = append(subs, s[start:i])
				start = i + 1
			}
		}
	}
	return append(subs, s[start:])
}

// Reader corresponds to the state necessary to read trees from Newick
// formatted input. Several trees may follow each other in the input, each
// one terminated by a ';'.
type Reader struct {
	buf  *bufio.Reader
	line int
}

// NewReader returns a reader ready for reading trees from `r`.
func NewReader(r io.Reader) *Reader {
	return &Reader{
		buf:  bufio.NewReader(r),
		line: 1,
	}
}

// ReadAll returns all of the Newick trees in the source input. The first
// error that occurs is returned with no trees. The error is never `io.EOF`.
func (r *Reader) ReadAll() ([]*Tree, error) {
	trees := make([]*Tree, 0)
	for {
		tree, err := r.ReadTree()
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, err
		}
		trees = append(trees, tree)
	}
	return trees, nil
}

// ReadTree reads a single tree from the source input. If the end of the
// input is reached, then a nil `Tree` is returned with `io.EOF` as the error.
//
// A ';' inside a comment does not end a tree.
func (r *Reader) ReadTree() (*Tree, error) {
	var text strings.Builder
	startLine, depth := r.line, 0
	for {
		c, err := r.buf.ReadByte()
		if err == io.EOF {
			if len(strings.TrimSpace(text.String())) == 0 {
				return nil, io.EOF
			}
			break
		} else if err != nil {
			return nil, err
		}
		text.WriteByte(c)

		switch c {
		case '\n':
			r.line++
		case commentStart:
			depth++
		case commentEnd:
			depth--
		}
		if c == terminal && depth <= 0 {
			break
		}
	}

	tree, err := Parse(text.String())
	if err != nil {
		return nil, fmt.Errorf("Error in tree starting on line %d: %w",
			startLine, err)
	}
	return tree, nil
}
