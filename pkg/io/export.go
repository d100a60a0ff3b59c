package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/necklace/pkg/groups"
	"github.com/matzehuels/necklace/pkg/trial"
)

// NewDocument converts a group set to its JSON form.
func NewDocument(gs *groups.GroupSet) Document {
	doc := Document{Groups: make([]GroupDoc, gs.Len())}
	for i, g := range gs.Groups() {
		doc.Groups[i] = GroupDoc{Name: g.Name, Items: g.Labels()}
	}
	return doc
}

// WriteJSON encodes a group set as JSON and writes it to w.
// The output can be re-imported with [ReadJSON].
func WriteJSON(gs *groups.GroupSet, w io.Writer) error {
	return encode(w, NewDocument(gs))
}

// ExportJSON writes a group set to a JSON file at path.
func ExportJSON(gs *groups.GroupSet, path string) error {
	return writeFile(path, func(w io.Writer) error { return WriteJSON(gs, w) })
}

// WriteSequence encodes a sampled sequence as JSON.
func WriteSequence(s *trial.Sample, w io.Writer) error {
	return encode(w, s)
}

// WriteReport encodes a trial report as JSON.
func WriteReport(r *trial.Report, w io.Writer) error {
	return encode(w, r)
}

// ExportReport writes a trial report to a JSON file at path.
func ExportReport(r *trial.Report, path string) error {
	return writeFile(path, func(w io.Writer) error { return WriteReport(r, w) })
}

func encode(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
