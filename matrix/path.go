package matrix

import (
	"fmt"
	"strings"
)

// ============================================================================
// PATH: caller-supplied route into one axis
// ============================================================================
// A path names one sibling per level, from the axis root downward. Callers
// build it once at the API boundary (Root, Label, Labels, ParsePath); the
// resolver never re-inspects raw arguments.
// ============================================================================

// PathKind tags how a path was supplied.
type PathKind int

const (
	PathEmpty PathKind = iota
	PathSingle
	PathSequence
)

func (k PathKind) String() string {
	switch k {
	case PathEmpty:
		return "empty"
	case PathSingle:
		return "single"
	default:
		return "sequence"
	}
}

// Path is an ordered list of grouping labels. The zero value is the root.
type Path struct {
	labels []string
}

// Root is the empty path: "start at the top of the axis".
func Root() Path { return Path{} }

// Label is the single-level shortcut; Label("x") equals Labels("x").
func Label(label string) Path { return Path{labels: []string{label}} }

// Labels builds a multi-level path. Labels() is the root.
func Labels(labels ...string) Path {
	if len(labels) == 0 {
		return Path{}
	}
	cp := make([]string, len(labels))
	copy(cp, labels)
	return Path{labels: cp}
}

// ParsePath normalizes a loosely typed argument (nil, string, []string,
// []any of strings, or Path).
func ParsePath(v any) (Path, error) {
	switch p := v.(type) {
	case nil:
		return Root(), nil
	case Path:
		return p, nil
	case string:
		return Label(p), nil
	case []string:
		return Labels(p...), nil
	case []any:
		labels := make([]string, len(p))
		for i, item := range p {
			s, ok := item.(string)
			if !ok {
				return Path{}, fmt.Errorf("%w: element %d is %T, want string", ErrInvalidPathArgument, i, item)
			}
			labels[i] = s
		}
		return Labels(labels...), nil
	default:
		return Path{}, fmt.Errorf("%w: %T is not a label or label sequence", ErrInvalidPathArgument, v)
	}
}

// Kind reports the path shape.
func (p Path) Kind() PathKind {
	switch len(p.labels) {
	case 0:
		return PathEmpty
	case 1:
		return PathSingle
	default:
		return PathSequence
	}
}

// Depth is the number of levels the path names.
func (p Path) Depth() int { return len(p.labels) }

// IsRoot reports whether the path is empty.
func (p Path) IsRoot() bool { return len(p.labels) == 0 }

// At returns the label for a 0-based level.
func (p Path) At(level int) string { return p.labels[level] }

// Last returns the deepest label, or "" for the root.
func (p Path) Last() string {
	if len(p.labels) == 0 {
		return ""
	}
	return p.labels[len(p.labels)-1]
}

// Slice returns a copy of the labels.
func (p Path) Slice() []string {
	return Labels(p.labels...).labels
}

// String joins the labels with " / ".
func (p Path) String() string {
	if len(p.labels) == 0 {
		return "(root)"
	}
	return strings.Join(p.labels, " / ")
}
