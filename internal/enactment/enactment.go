// Package enactment models passages of legislative text cited in support
// of, or despite, a rule. Citing less text is a weaker commitment, so an
// enactment implies any enactment whose selected text it contains.
package enactment

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

var (
	ErrEmptyNode       = errors.New("enactment needs a node path")
	ErrSelectionBounds = errors.New("selection outside enactment text")
	ErrQuoteNotFound   = errors.New("quoted text not found in enactment")
	ErrQuoteAmbiguous  = errors.New("quoted text matches more than one passage")
)

// Range is a half-open byte span [Start, End) of an enactment's content.
type Range struct {
	Start int `json:"start" yaml:"start"`
	End   int `json:"end" yaml:"end"`
}

// QuoteSelector locates a passage by its exact text, optionally anchored
// by the text just before and after it.
type QuoteSelector struct {
	Exact  string `json:"exact" yaml:"exact"`
	Prefix string `json:"prefix,omitempty" yaml:"prefix,omitempty"`
	Suffix string `json:"suffix,omitempty" yaml:"suffix,omitempty"`
}

// Resolve finds the selector's single match in content.
func (q QuoteSelector) Resolve(content string) (Range, error) {
	if q.Exact == "" {
		return Range{}, fmt.Errorf("%w: empty quote", ErrQuoteNotFound)
	}
	needle := q.Prefix + q.Exact + q.Suffix
	first := strings.Index(content, needle)
	if first < 0 {
		return Range{}, fmt.Errorf("%w: %q", ErrQuoteNotFound, q.Exact)
	}
	if strings.Contains(content[first+1:], needle) {
		return Range{}, fmt.Errorf("%w: %q", ErrQuoteAmbiguous, q.Exact)
	}
	start := first + len(q.Prefix)
	return Range{Start: start, End: start + len(q.Exact)}, nil
}

// Enactment is a legislative node's text with a selection of it. An empty
// selection selects the whole text.
type Enactment struct {
	node      string
	heading   string
	content   string
	selection []Range
	quotes    []QuoteSelector
}

// Option configures an Enactment under construction.
type Option func(*Enactment)

// Heading sets the node's heading.
func Heading(heading string) Option {
	return func(e *Enactment) {
		e.heading = heading
	}
}

// Select adds byte ranges to the selection.
func Select(ranges ...Range) Option {
	return func(e *Enactment) {
		e.selection = append(e.selection, ranges...)
	}
}

// SelectQuote adds the passages matched by quote selectors.
func SelectQuote(quotes ...QuoteSelector) Option {
	return func(e *Enactment) {
		e.quotes = append(e.quotes, quotes...)
	}
}

// New builds an Enactment of the node at path with the given text.
func New(node, content string, opts ...Option) (*Enactment, error) {
	node = strings.TrimSpace(node)
	if node == "" {
		return nil, ErrEmptyNode
	}
	e := &Enactment{node: strings.TrimSuffix(node, "/"), content: content}
	for _, opt := range opts {
		opt(e)
	}
	for _, q := range e.quotes {
		r, err := q.Resolve(content)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", e.node, err)
		}
		e.selection = append(e.selection, r)
	}
	e.quotes = nil

	selection, err := normalize(e.selection, len(content))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", e.node, err)
	}
	e.selection = selection
	return e, nil
}

// normalize sorts ranges and joins overlapping or touching ones. A
// selection of the whole text is stored as empty.
func normalize(ranges []Range, size int) ([]Range, error) {
	for _, r := range ranges {
		if r.Start < 0 || r.End > size || r.Start >= r.End {
			return nil, fmt.Errorf("%w: [%d, %d) of %d bytes", ErrSelectionBounds, r.Start, r.End, size)
		}
	}
	sorted := slices.Clone(ranges)
	slices.SortFunc(sorted, func(a, b Range) int { return a.Start - b.Start })

	var out []Range
	for _, r := range sorted {
		if n := len(out); n > 0 && r.Start <= out[n-1].End {
			out[n-1].End = max(out[n-1].End, r.End)
			continue
		}
		out = append(out, r)
	}
	if len(out) == 1 && out[0].Start == 0 && out[0].End == size {
		return nil, nil
	}
	return out, nil
}

// Node returns the node path, such as "/us/usc/t17/s102/a".
func (e *Enactment) Node() string { return e.node }

// Heading returns the node's heading.
func (e *Enactment) Heading() string { return e.heading }

// Content returns the node's full text.
func (e *Enactment) Content() string { return e.content }

// Selection returns the selected ranges; the whole text if nothing narrower was chosen.
func (e *Enactment) Selection() []Range {
	if len(e.selection) == 0 {
		if e.content == "" {
			return nil
		}
		return []Range{{Start: 0, End: len(e.content)}}
	}
	return slices.Clone(e.selection)
}

// Passages returns the selected text, one string per range.
func (e *Enactment) Passages() []string {
	ranges := e.Selection()
	out := make([]string, len(ranges))
	for i, r := range ranges {
		out[i] = e.content[r.Start:r.End]
	}
	return out
}

// SelectedText joins the passages, marking gaps with an ellipsis.
func (e *Enactment) SelectedText() string {
	return strings.Join(e.Passages(), "…")
}

func (e *Enactment) String() string {
	return fmt.Sprintf("%q (%s)", e.SelectedText(), e.node)
}

// WithSelection returns a copy of e selecting ranges instead.
func (e *Enactment) WithSelection(ranges ...Range) (*Enactment, error) {
	selection, err := normalize(ranges, len(e.content))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", e.node, err)
	}
	next := *e
	next.selection = selection
	return &next, nil
}

// SameLineage reports whether one node path is an ancestor of, or equal
// to, the other.
func SameLineage(a, b string) bool {
	return a == b || isAncestor(a, b) || isAncestor(b, a)
}

func isAncestor(ancestor, node string) bool {
	return strings.HasPrefix(node, ancestor+"/")
}

// Implies reports whether citing e commits to everything citing other
// does: both nodes share a lineage and other's selected text lies within
// e's.
func (e *Enactment) Implies(other *Enactment) bool {
	if e == nil || other == nil {
		return other == nil
	}
	if !SameLineage(e.node, other.node) {
		return false
	}
	if e.node == other.node && e.content == other.content {
		return covers(e.Selection(), other.Selection())
	}
	mine := e.Passages()
	for _, passage := range other.Passages() {
		if !slices.ContainsFunc(mine, func(p string) bool { return strings.Contains(p, passage) }) {
			return false
		}
	}
	return true
}

func covers(outer, inner []Range) bool {
	for _, r := range inner {
		if !slices.ContainsFunc(outer, func(o Range) bool { return o.Start <= r.Start && r.End <= o.End }) {
			return false
		}
	}
	return true
}

// Means reports whether e and other select the same text of one lineage.
func (e *Enactment) Means(other *Enactment) bool {
	return e.Implies(other) && other.Implies(e)
}

// StrictlyImplies reports whether e selects strictly more than other.
func (e *Enactment) StrictlyImplies(other *Enactment) bool {
	return e.Implies(other) && !other.Implies(e)
}

// Merge returns one enactment selecting everything e and other select,
// if that is representable: the same node, or a descendant whose text
// occurs exactly once in its ancestor's text.
func (e *Enactment) Merge(other *Enactment) (*Enactment, bool) {
	switch {
	case e.node == other.node:
		if e.content != other.content {
			return nil, false
		}
		return e.union(other.Selection(), 0)
	case isAncestor(e.node, other.node):
		offset := strings.Index(e.content, other.content)
		if offset < 0 || other.content == "" || strings.Contains(e.content[offset+1:], other.content) {
			return nil, false
		}
		return e.union(other.Selection(), offset)
	case isAncestor(other.node, e.node):
		return other.Merge(e)
	}
	return nil, false
}

func (e *Enactment) union(ranges []Range, offset int) (*Enactment, bool) {
	combined := e.Selection()
	for _, r := range ranges {
		combined = append(combined, Range{Start: r.Start + offset, End: r.End + offset})
	}
	merged, err := e.WithSelection(combined...)
	if err != nil {
		return nil, false
	}
	return merged, true
}

// Consolidate reduces a list of enactments by merging those that can be
// merged and dropping those implied by another.
func Consolidate(enactments []*Enactment) []*Enactment {
	var out []*Enactment
	for _, e := range enactments {
		if e == nil {
			continue
		}
		absorbed := false
		for i, kept := range out {
			if merged, ok := kept.Merge(e); ok {
				out[i] = merged
				absorbed = true
				break
			}
			if kept.Implies(e) {
				absorbed = true
				break
			}
			if e.Implies(kept) {
				out[i] = e
				absorbed = true
				break
			}
		}
		if !absorbed {
			out = append(out, e)
		}
	}
	return out
}

// SetImplies reports whether every enactment in right is implied by some
// enactment in left.
func SetImplies(left, right []*Enactment) bool {
	for _, r := range right {
		if !slices.ContainsFunc(left, func(l *Enactment) bool { return l.Implies(r) }) {
			return false
		}
	}
	return true
}
