// Package importer parses the external bulk formats fed into the system:
// member roster CSV exports and the booking system's plain-text summary.
package importer

import (
	"encoding/csv"
	"fmt"
	"strings"
)

// UserRecord is one parsed roster row. StudentID doubles as the initial
// password on import.
type UserRecord struct {
	Name               string
	StudentID          string
	RegistrationNumber string
}

// ParseUsersCSV reads a roster export, skipping the header row. Two layouts
// are recognized:
//
//   - the short roster layout (Name, Kana, Year, user_number, student_id, ...)
//   - the long registry layout where the student id sits in column 7 and the
//     registration number in column 15
//
// Rows with missing name or student id are returned as-is; the caller decides
// how to report them.
func ParseUsersCSV(data string) ([]UserRecord, error) {
	reader := csv.NewReader(strings.NewReader(data))
	reader.FieldsPerRecord = -1 // layouts differ in width
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse CSV: %w", err)
	}

	records := make([]UserRecord, 0, len(rows))
	for i, row := range rows {
		if i == 0 {
			continue // header
		}
		if isEmptyRow(row) {
			continue
		}

		var rec UserRecord
		if len(row) >= 5 && row[3] != "" && row[4] != "" {
			rec = UserRecord{
				Name:               row[0],
				RegistrationNumber: row[3],
				StudentID:          row[4],
			}
		} else {
			rec = UserRecord{Name: field(row, 0), StudentID: field(row, 6), RegistrationNumber: field(row, 14)}
		}
		records = append(records, rec)
	}
	return records, nil
}

func field(row []string, i int) string {
	if i < len(row) {
		return strings.TrimSpace(row[i])
	}
	return ""
}

func isEmptyRow(row []string) bool {
	for _, f := range row {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
