// Package io provides JSON import and export for group sets, sequences and
// trial reports.
//
// # JSON Format
//
// A group set is an object with a "groups" array. Each group has a name and
// the labels of its items:
//
//	{
//	  "groups": [
//	    {"name": "A", "items": ["A1", "A2", "A3"]},
//	    {"name": "B", "items": ["B1", "B2"]},
//	    {"name": "C", "items": ["C1"]}
//	  ]
//	}
//
// Instead of "groups", a document may carry a flat "items" array. Items are
// then grouped by their first character, so ["A1", "A2", "B1"] forms groups
// A and B. A document with both arrays is rejected.
//
// # Import
//
// Use [ImportJSON] to read a group set from a file path, or [ReadJSON] to read
// from any io.Reader:
//
//	gs, err := io.ImportJSON("groups.json")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Both validate the group set as [groups.New] does: empty groups, duplicate
// labels and malformed names are rejected with structured error codes.
//
// # Export
//
// [WriteJSON] and [ExportJSON] write a group set in the same format, so a set
// round-trips unchanged. [WriteSequence] and [WriteReport] encode sampled
// sequences and trial reports for other tools.
package io
