// backend/qrcards/roster.go
package qrcards

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"path/filepath"
	"strings"

	"github.com/jszwec/csvutil"
	"github.com/xuri/excelize/v2"

	"github.com/ktnaka/anpi/backend/models"
)

// RosterEntry is one participant row from an uploaded roster file.
// The csv tags match the required column headers.
type RosterEntry struct {
	Nick   string `csv:"nick"`
	Addr   string `csv:"addr"`
	School string `csv:"school"`
	Tel    string `csv:"tel"`
}

// Identity converts a roster entry to the canonical identity record.
func (e RosterEntry) Identity() models.IdentityFields {
	return models.IdentityFields{Nick: e.Nick, Addr: e.Addr, School: e.School, Tel: e.Tel}
}

// ParseRoster reads a roster upload (.xlsx or .csv, selected by the file
// name extension) into entries. The file needs a header row with the
// columns nick, addr, school and tel.
func ParseRoster(reader io.Reader, filename string) ([]RosterEntry, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx":
		return parseRosterXLSX(reader)
	case ".csv":
		return parseRosterCSV(reader)
	default:
		return nil, fmt.Errorf("unsupported roster file type %q, use .xlsx or .csv", filepath.Ext(filename))
	}
}

func parseRosterCSV(reader io.Reader) ([]RosterEntry, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read roster CSV: %w", err)
	}
	// Strip the BOM that Excel-produced CSVs tend to carry.
	data = bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF})

	var entries []RosterEntry
	if err := csvutil.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode roster CSV: %w", err)
	}
	log.Printf("Parsed %d roster entries from CSV.\n", len(entries))
	return entries, nil
}

func parseRosterXLSX(reader io.Reader) ([]RosterEntry, error) {
	file, err := excelize.OpenReader(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to open roster workbook: %w", err)
	}
	defer file.Close()

	sheets := file.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("roster workbook has no sheets")
	}
	rows, err := file.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read roster sheet %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("roster sheet %q is empty", sheets[0])
	}

	// Map header names to column indexes; columns may appear in any order.
	colIndex := make(map[string]int)
	for i, header := range rows[0] {
		colIndex[strings.ToLower(strings.TrimSpace(header))] = i
	}
	for _, required := range []string{"nick", "addr", "school", "tel"} {
		if _, ok := colIndex[required]; !ok {
			return nil, fmt.Errorf("roster is missing required column %q", required)
		}
	}

	cell := func(row []string, name string) string {
		idx := colIndex[name]
		if idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	var entries []RosterEntry
	for _, row := range rows[1:] {
		entry := RosterEntry{
			Nick:   cell(row, "nick"),
			Addr:   cell(row, "addr"),
			School: cell(row, "school"),
			Tel:    cell(row, "tel"),
		}
		if entry.Nick == "" && entry.Addr == "" && entry.School == "" && entry.Tel == "" {
			continue // trailing blank rows
		}
		entries = append(entries, entry)
	}

	log.Printf("Parsed %d roster entries from workbook sheet %q.\n", len(entries), sheets[0])
	return entries, nil
}
