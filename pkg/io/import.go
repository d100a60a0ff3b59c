package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/necklace/pkg/errors"
	"github.com/matzehuels/necklace/pkg/groups"
)

// Document is the JSON form of a group set. It is also embedded in HTTP API
// requests.
type Document struct {
	Groups []GroupDoc `json:"groups,omitempty"`
	Items  []string   `json:"items,omitempty"`
}

// GroupDoc is one group of a [Document].
type GroupDoc struct {
	Name  string   `json:"name"`
	Items []string `json:"items"`
}

// GroupSet validates the document and builds the group set it describes.
func (d Document) GroupSet() (*groups.GroupSet, error) {
	switch {
	case len(d.Groups) > 0 && len(d.Items) > 0:
		return nil, errors.New(errors.ErrCodeInvalidInput, "document has both groups and items")
	case len(d.Items) > 0:
		return groups.FromLabels(d.Items...)
	case len(d.Groups) == 0:
		return nil, errors.New(errors.ErrCodeInvalidInput, "document has no groups")
	}

	gs := make([]groups.Group, len(d.Groups))
	for i, g := range d.Groups {
		gs[i] = groups.NewGroup(g.Name, g.Items...)
	}
	return groups.New(gs...)
}

// ReadJSON decodes a JSON group set from r.
//
// ReadJSON returns an INVALID_INPUT error for malformed JSON and the
// validation errors of [groups.New] for malformed group sets. It does not
// close r.
func ReadJSON(r io.Reader) (*groups.GroupSet, error) {
	var doc Document
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode group set")
	}
	return doc.GroupSet()
}

// ImportJSON reads a JSON file at path and returns the decoded group set.
func ImportJSON(path string) (*groups.GroupSet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSON(f)
}
