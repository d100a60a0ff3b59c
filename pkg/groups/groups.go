package groups

import (
	"crypto/sha256"
	"encoding/hex"
	"slices"
	"strings"

	"github.com/matzehuels/necklace/pkg/errors"
)

// Item is a labeled element tagged with the group it belongs to.
// Items are values; copying one never aliases group state.
type Item struct {
	Label string // Unique identifier across the whole group set
	Group string // Name of the owning group
}

// String returns the item's label.
func (it Item) String() string { return it.Label }

// Group is a named collection of items sharing one tag.
// Items placed next to each other in a sequence must come from different groups.
type Group struct {
	Name  string
	Items []Item
}

// Size returns the number of items in the group.
func (g Group) Size() int { return len(g.Items) }

// Labels returns the item labels in declaration order.
func (g Group) Labels() []string {
	out := make([]string, len(g.Items))
	for i, it := range g.Items {
		out[i] = it.Label
	}
	return out
}

// NewGroup creates a group whose items are tagged with name.
func NewGroup(name string, labels ...string) Group {
	items := make([]Item, len(labels))
	for i, l := range labels {
		items[i] = Item{Label: l, Group: name}
	}
	return Group{Name: name, Items: items}
}

// GroupSet is the immutable input of a sequencing trial: disjoint, non-empty
// groups of uniquely labeled items.
//
// The zero value is not usable - use [New] to create a validated GroupSet.
// A GroupSet is safe for concurrent reads; accessors hand out copies so that
// no caller can mutate the shared input.
type GroupSet struct {
	groups []Group
	index  map[string]int // label -> group position
	total  int
	max    int
}

// New validates groups and returns an immutable GroupSet.
//
// It rejects an empty group list, empty groups, duplicate group names,
// duplicate item labels, invalid labels, and items whose Group tag disagrees
// with the name of the group holding them. An item with an empty Group tag
// adopts the name of its group.
func New(groups ...Group) (*GroupSet, error) {
	if len(groups) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "at least one group is required")
	}

	gs := &GroupSet{
		groups: make([]Group, 0, len(groups)),
		index:  make(map[string]int),
	}
	names := make(map[string]bool, len(groups))

	for gi, g := range groups {
		if err := errors.ValidateLabel(g.Name); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "group %d", gi)
		}
		if names[g.Name] {
			return nil, errors.New(errors.ErrCodeDuplicateItem, "duplicate group name %q", g.Name)
		}
		names[g.Name] = true

		if len(g.Items) == 0 {
			return nil, errors.New(errors.ErrCodeEmptyGroup, "group %q has no items", g.Name)
		}

		items := make([]Item, len(g.Items))
		for i, it := range g.Items {
			if err := errors.ValidateLabel(it.Label); err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "group %q", g.Name)
			}
			if it.Group == "" {
				it.Group = g.Name
			}
			if it.Group != g.Name {
				return nil, errors.New(errors.ErrCodeInvalidInput,
					"item %q is tagged %q but listed in group %q", it.Label, it.Group, g.Name)
			}
			if prev, dup := gs.index[it.Label]; dup {
				return nil, errors.New(errors.ErrCodeDuplicateItem,
					"item %q appears in group %q and group %q", it.Label, groups[prev].Name, g.Name)
			}
			gs.index[it.Label] = len(gs.groups)
			items[i] = it
		}

		gs.groups = append(gs.groups, Group{Name: g.Name, Items: items})
		gs.total += len(items)
		gs.max = max(gs.max, len(items))
	}

	return gs, nil
}

// Len returns the number of groups.
func (gs *GroupSet) Len() int { return len(gs.groups) }

// Total returns the number of items across all groups.
func (gs *GroupSet) Total() int { return gs.total }

// MaxSize returns the size of the largest group.
func (gs *GroupSet) MaxSize() int { return gs.max }

// Sizes returns the group sizes in declaration order.
func (gs *GroupSet) Sizes() []int {
	out := make([]int, len(gs.groups))
	for i, g := range gs.groups {
		out[i] = len(g.Items)
	}
	return out
}

// Group returns a copy of the i-th group.
func (gs *GroupSet) Group(i int) Group {
	g := gs.groups[i]
	return Group{Name: g.Name, Items: slices.Clone(g.Items)}
}

// Groups returns deep copies of all groups in declaration order.
func (gs *GroupSet) Groups() []Group {
	out := make([]Group, len(gs.groups))
	for i := range gs.groups {
		out[i] = gs.Group(i)
	}
	return out
}

// Names returns the group names in declaration order.
func (gs *GroupSet) Names() []string {
	out := make([]string, len(gs.groups))
	for i, g := range gs.groups {
		out[i] = g.Name
	}
	return out
}

// Items returns every item, group by group, in declaration order.
func (gs *GroupSet) Items() []Item {
	out := make([]Item, 0, gs.total)
	for _, g := range gs.groups {
		out = append(out, g.Items...)
	}
	return out
}

// Lookup returns the item with the given label.
func (gs *GroupSet) Lookup(label string) (Item, bool) {
	gi, ok := gs.index[label]
	if !ok {
		return Item{}, false
	}
	for _, it := range gs.groups[gi].Items {
		if it.Label == label {
			return it, true
		}
	}
	return Item{}, false
}

// Largest returns the name of the first group with the maximum size.
func (gs *GroupSet) Largest() string {
	for _, g := range gs.groups {
		if len(g.Items) == gs.max {
			return g.Name
		}
	}
	return ""
}

// Fingerprint returns a stable content hash of the group set.
// Declaration order is part of the hash: builders file groups and draw items
// in that order, so two spellings of one partition yield different sequences
// for the same seed and must not share cached results.
func (gs *GroupSet) Fingerprint() string {
	parts := make([]string, len(gs.groups))
	for i, g := range gs.groups {
		parts[i] = g.Name + "=" + strings.Join(g.Labels(), ",")
	}
	sum := sha256.Sum256([]byte(strings.Join(parts, ";")))
	return hex.EncodeToString(sum[:])
}

// String renders the group set in the CLI spec syntax, e.g. "A1,A2 B1".
func (gs *GroupSet) String() string {
	parts := make([]string, len(gs.groups))
	for i, g := range gs.groups {
		parts[i] = strings.Join(g.Labels(), ",")
	}
	return strings.Join(parts, " ")
}
