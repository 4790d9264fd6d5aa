// Package dataprocessing decodes the published grade, homework and
// lecture-absence sheets into domain records and derives the analytics the
// API serves from them.
//
// # Sheet layout
//
// The grade and absence sheets are pivot grids split into fixed-height
// blocks, one per subject:
//
//	row 0    subject | ... | date  | date  | ...
//	row 1             ...  | topic | topic | ...
//	row 2..  id | name | avg | score | score | ...
//
// Block positions come from a BlockLayout. Nothing in the data marks where a
// block starts, so inserting or deleting a row above a block shifts every
// block below it.
//
// # Tolerance
//
// Decoding never fails. Short files yield no records, blocks with a blank
// subject cell are skipped, columns without both a date and a topic are
// skipped, unparseable dates pass through verbatim and unparseable scores
// become domain.NoScore().
//
// # Usage
//
//	grades := dataprocessing.DecodeGrades(csvText)
//	absences := dataprocessing.DecodeLectureAbsences(csvText)
//	homeworks := dataprocessing.DecodeHomeworks(csvText)
//
// A Decoder carries a custom layout, logger or clock:
//
//	d := dataprocessing.NewDecoder(dataprocessing.WithLogger(logger))
//	grades := d.Grades(csvText)
package dataprocessing
