package predicate

import (
	"fmt"
	"regexp"
	"strings"
)

var placeholderPattern = regexp.MustCompile(`\$(?:\{([A-Za-z_][A-Za-z0-9_]*)\}|([A-Za-z_][A-Za-z0-9_]*))`)

// Template is predicate text containing $placeholder slots. Each distinct
// placeholder is filled by one term, in order of first appearance.
type Template struct {
	content      string
	placeholders []string
	key          string
}

// ParseTemplate reads placeholders out of content.
func ParseTemplate(content string) (Template, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return Template{}, ErrEmptyTemplate
	}

	index := make(map[string]int)
	var names []string
	key := placeholderPattern.ReplaceAllStringFunc(content, func(match string) string {
		name := placeholderName(match)
		i, ok := index[name]
		if !ok {
			i = len(names)
			index[name] = i
			names = append(names, name)
		}
		return fmt.Sprintf("{%d}", i)
	})

	return Template{content: content, placeholders: names, key: key}, nil
}

func placeholderName(match string) string {
	sub := placeholderPattern.FindStringSubmatch(match)
	if sub[1] != "" {
		return sub[1]
	}
	return sub[2]
}

// Content returns the template text as written.
func (t Template) Content() string {
	return t.content
}

// Key is the placeholder-stripped text. Two templates with equal keys
// describe the same relation between their terms.
func (t Template) Key() string {
	return t.key
}

// Placeholders returns the distinct placeholder names in order of first appearance.
func (t Template) Placeholders() []string {
	out := make([]string, len(t.placeholders))
	copy(out, t.placeholders)
	return out
}

// Len is the number of terms the template needs.
func (t Template) Len() int {
	return len(t.placeholders)
}

// InterchangeableGroups returns groups of placeholder positions whose names
// differ only by a trailing digit, such as $party1 and $party2. Terms in one
// group may be permuted without changing the meaning of the statement.
func (t Template) InterchangeableGroups() [][]int {
	byRoot := make(map[string][]int)
	var roots []string
	for i, name := range t.placeholders {
		root, ok := interchangeableRoot(name)
		if !ok {
			continue
		}
		if _, seen := byRoot[root]; !seen {
			roots = append(roots, root)
		}
		byRoot[root] = append(byRoot[root], i)
	}

	var groups [][]int
	for _, root := range roots {
		if len(byRoot[root]) > 1 {
			groups = append(groups, byRoot[root])
		}
	}
	return groups
}

func interchangeableRoot(name string) (string, bool) {
	if len(name) < 2 {
		return "", false
	}
	last := name[len(name)-1]
	if last < '0' || last > '9' {
		return "", false
	}
	return name[:len(name)-1], true
}

// Render substitutes terms for placeholders. Missing terms leave the
// placeholder in place.
func (t Template) Render(terms []string) string {
	index := make(map[string]int, len(t.placeholders))
	for i, name := range t.placeholders {
		index[name] = i
	}
	return placeholderPattern.ReplaceAllStringFunc(t.content, func(match string) string {
		i := index[placeholderName(match)]
		if i < len(terms) {
			return terms[i]
		}
		return match
	})
}

// endsWithConnector reports whether the template ends in the word a
// comparison's sign and expression are appended after.
func (t Template) endsWithConnector() bool {
	for _, connector := range []string{" was", " were"} {
		if strings.HasSuffix(t.content, connector) {
			return true
		}
	}
	return false
}
