// Package io reads and writes task snapshots.
//
// # Formats
//
// Four formats are supported, selected by file extension:
//
//   - .json: the document the timeline app keeps in browser storage
//   - .yaml / .yml: the same document as YAML
//   - .toml: the same document as TOML
//   - .csv: one task per row, without the event anchor
//
// The JSON, YAML and TOML document looks like this:
//
//	{
//	  "eventDate": "2025-06-01",
//	  "eventTitle": "Wedding",
//	  "tasks": [
//	    {"id": "venue", "title": "Book venue", "dateType": "absolute", "date": "2024-12-01"},
//	    {"id": "cake", "title": "Order cake", "dateType": "relative",
//	     "relativeTime": {"value": 2, "unit": "weeks", "direction": "before"},
//	     "dependencies": ["venue"]}
//	  ]
//	}
//
// # CSV
//
// CSV files use the header
//
//	title,description,dateType,date,relativeValue,relativeUnit,relativeDirection,important,dependencies
//
// with an optional trailing id column. Rows without an id get a UUID derived
// from the row position and title, the same rule the document formats use
// for tasks without an id.
// The dependencies column is a semicolon-separated list whose entries may name
// either task ids or task titles; titles are resolved to ids on import.
//
// # Validation
//
// [Import] validates the snapshot after decoding and [Export] before writing:
// dates must parse, relative specs need a positive value, a known unit and a
// known direction, ids must be unique, and dependencies must not form a cycle.
// Dependencies on unknown ids are kept. [Read] and [Write] only decode and
// encode.
//
// [ImportLenient] is for read-only consumers: tasks whose date does not
// parse are dropped and reported instead of failing the whole file.
package io
