package groups

import (
	"strings"
	"unicode/utf8"

	"github.com/matzehuels/necklace/pkg/errors"
)

// FromLabels builds a GroupSet from bare labels, grouping them by their first
// character ("A1", "A2" and "B1" form groups A and B). Groups appear in the
// order their first member is listed.
func FromLabels(labels ...string) (*GroupSet, error) {
	var order []string
	byTag := make(map[string][]string)

	for _, l := range labels {
		if l == "" {
			return nil, errors.New(errors.ErrCodeInvalidInput, "label cannot be empty")
		}
		tag := firstRune(l)
		if _, ok := byTag[tag]; !ok {
			order = append(order, tag)
		}
		byTag[tag] = append(byTag[tag], l)
	}

	gs := make([]Group, len(order))
	for i, tag := range order {
		gs[i] = NewGroup(tag, byTag[tag]...)
	}
	return New(gs...)
}

// Parse reads the compact CLI syntax: whitespace-separated groups, each a
// comma-separated item list with an optional "name:" prefix.
//
//	A1,A2,A3,A4 B1,B2,B3 C1
//	red:ann,bob blue:cid,dee
//
// Without a prefix the group is named after the first character of its first
// item, matching the labeling convention of [FromLabels].
func Parse(spec string) (*GroupSet, error) {
	fields := strings.Fields(spec)
	if len(fields) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "group spec is empty")
	}

	gs := make([]Group, 0, len(fields))
	for _, f := range fields {
		name, list, named := strings.Cut(f, ":")
		if !named {
			list = f
		}

		var labels []string
		for _, l := range strings.Split(list, ",") {
			if l != "" {
				labels = append(labels, l)
			}
		}

		if !named {
			if len(labels) == 0 {
				return nil, errors.New(errors.ErrCodeEmptyGroup, "group %q has no items", f)
			}
			name = firstRune(labels[0])
		}
		gs = append(gs, NewGroup(name, labels...))
	}
	return New(gs...)
}

func firstRune(s string) string {
	_, n := utf8.DecodeRuneInString(s)
	return s[:n]
}
