// Package exporter writes gradebook data to files people open in Excel.
//
// CSV output carries a UTF-8 byte-order mark so Excel detects the encoding
// of Cyrillic text. XLSX output puts grades, lecture absences, homework and
// the rating on separate sheets.
//
//	err := exporter.ExportFile("grades.xlsx", dataset)
package exporter
