package dataset

// infer.go provides cell parsing and column type inference for user-provided
// CSV data. It handles the messy reality of real files:
//   - Multiple date formats (US, EU, ISO, timestamps)
//   - Currency symbols and thousand separators in numbers
//   - Accounting-style negatives: (123.45)
//   - Empty cells and common null spellings (NA, N/A, null, -)
//
// Parse functions report ok=false for empty or unparsable input, which the
// caller records as a null cell.

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// numericRegex validates that a string is a valid numeric format after
// cleanup. Matches integers, decimals, and scientific notation.
var numericRegex = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)

// TwoDigitYearPivot defines how 2-digit years are interpreted. Years that
// would land more than this many years in the future are assumed to be in
// the previous century.
var TwoDigitYearPivot = 20

var (
	twoDigitYearLayouts = []string{
		"1/2/06", "01/02/06", "1-2-06", "1.2.06", "01.02.06",
	}
	fourDigitYearLayouts = []string{
		time.RFC3339Nano, time.RFC3339,
		"2006-01-02 15:04:05", "2006-01-02T15:04:05",
		"2006-01-02", "2006/01/02", "2006.01.02",
		"1/2/2006", "01/02/2006", "1-2-2006", "01-02-2006", "1.2.2006", "01.02.2006",
		"Jan 2, 2006", "2 Jan 2006",
		"20060102",
	}
)

// nullSpellings are cell values treated as missing on upload, lowercase.
var nullSpellings = map[string]bool{
	"": true, "na": true, "n/a": true, "null": true, "nan": true, "-": true,
}

// IsNullCell reports whether a raw CSV cell should be treated as missing.
func IsNullCell(s string) bool {
	return nullSpellings[strings.ToLower(strings.TrimSpace(s))]
}

// ParseNumeric parses a cell as a number. It strips currency symbols and
// thousands separators and accepts accounting-format negatives.
func ParseNumeric(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}

	// Accounting format "(123.45)" means negative
	isNegative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		isNegative = true
		s = strings.TrimSpace(s[1 : len(s)-1])
	}

	s = strings.ReplaceAll(s, "$", "")
	s = strings.ReplaceAll(s, "€", "") // Euro
	s = strings.ReplaceAll(s, "£", "") // Pound
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(s)

	if isNegative {
		s = "-" + s
	}

	if !numericRegex.MatchString(s) {
		return 0, false
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// ParseTime parses a cell as a timestamp or date. Four-digit-year layouts
// are tried first because they are unambiguous; two-digit years are pivoted.
func ParseTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}

	for _, layout := range fourDigitYearLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}

	pivotYear := time.Now().Year() + TwoDigitYearPivot
	for _, layout := range twoDigitYearLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			if t.Year() > pivotYear {
				t = t.AddDate(-100, 0, 0)
			}
			return t.UTC(), true
		}
	}

	return time.Time{}, false
}

// InferColumnType probes raw cell values and picks the narrowest type that
// fits every non-null cell: numeric beats datetime beats text. A column with
// no non-null cells stays text.
func InferColumnType(values []string) ColumnType {
	sawValue := false
	allNumeric := true
	allTime := true

	for _, raw := range values {
		if IsNullCell(raw) {
			continue
		}
		sawValue = true
		if allNumeric {
			if _, ok := ParseNumeric(raw); !ok {
				allNumeric = false
			}
		}
		if allTime {
			if _, ok := ParseTime(raw); !ok {
				allTime = false
			}
		}
		if !allNumeric && !allTime {
			return TypeText
		}
	}

	switch {
	case !sawValue:
		return TypeText
	case allNumeric:
		return TypeNumeric
	case allTime:
		return TypeTime
	default:
		return TypeText
	}
}

// buildColumn parses raw cells into a typed column. Cells that fail to parse
// under the inferred type become null rather than failing the upload.
func buildColumn(name string, ct ColumnType, values []string) *Column {
	col := NewColumn(name, ct, len(values))
	for i, raw := range values {
		if IsNullCell(raw) {
			continue
		}
		switch ct {
		case TypeNumeric:
			if f, ok := ParseNumeric(raw); ok {
				col.SetFloat(i, f)
			}
		case TypeTime:
			if t, ok := ParseTime(raw); ok {
				col.SetTime(i, t)
			}
		default:
			col.SetText(i, strings.TrimSpace(raw))
		}
	}
	return col
}
