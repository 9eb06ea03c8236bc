package importer

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ErrSummarySectionMissing is returned when the 予約回数集計結果 section
// cannot be found in the pasted text.
var ErrSummarySectionMissing = errors.New("予約回数集計結果 section not found")

const summarySectionMarker = "予約回数集計結果"

var (
	practiceLineRe = regexp.MustCompile(`利用日:\s*(\d{4})年(\d{2})月(\d{2})日,\s*時刻:\s*(\d{1,2})時(\d{2})分,\s*面数:\s*(\d+)`)
	accountLineRe  = regexp.MustCompile(`利用者氏名:\s*(.+?),\s*利用者番号:\s*(\d+)`)
)

// AccountRecord is a reservation account attached to one imported practice.
type AccountRecord struct {
	UserName   string
	UserNumber string
}

// PracticeRecord is one practice parsed from the booking-system summary.
// EndTime is derived (two hours after start), Deadline is the previous day
// at 23:59.
type PracticeRecord struct {
	Date      time.Time
	StartTime string
	EndTime   string
	Courts    int
	Deadline  time.Time
	Accounts  []AccountRecord
}

// ParsePracticesText extracts practice entries from the reservation summary
// section of the booking system's text export.
func ParsePracticesText(text string) ([]PracticeRecord, error) {
	lines := strings.Split(text, "\n")

	start := -1
	for i, line := range lines {
		if strings.Contains(line, summarySectionMarker) {
			start = i
			break
		}
	}
	if start == -1 {
		return nil, ErrSummarySectionMissing
	}

	records := make([]PracticeRecord, 0)
	for i := start + 1; i < len(lines); i++ {
		m := practiceLineRe.FindStringSubmatch(strings.TrimSpace(lines[i]))
		if m == nil {
			continue
		}

		year, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		day, _ := strconv.Atoi(m[3])
		hour, _ := strconv.Atoi(m[4])
		minute := m[5]
		courts, _ := strconv.Atoi(m[6])

		date := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.Local)
		rec := PracticeRecord{
			Date:      date,
			StartTime: fmt.Sprintf("%02d:%s", hour, minute),
			EndTime:   fmt.Sprintf("%02d:%s", hour+2, minute),
			Courts:    courts,
			Deadline:  date.AddDate(0, 0, -1).Add(23*time.Hour + 59*time.Minute),
		}

		// Account lines immediately follow their practice line.
		for j := i + 1; j < len(lines); j++ {
			trimmed := strings.TrimSpace(lines[j])
			if !strings.HasPrefix(trimmed, "利用者氏名:") {
				break
			}
			if am := accountLineRe.FindStringSubmatch(trimmed); am != nil {
				rec.Accounts = append(rec.Accounts, AccountRecord{
					UserName:   am[1],
					UserNumber: am[2],
				})
			}
		}

		records = append(records, rec)
	}
	return records, nil
}
