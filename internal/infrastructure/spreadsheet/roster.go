package spreadsheet

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// RosterRow is one team line of a registration sheet.
type RosterRow struct {
	TrophyID int
	Name     string
	Gender   string
}

var (
	idHeaders     = []string{"nr", "id", "trophy-id", "trophy id", "trophy_id"}
	nameHeaders   = []string{"name", "teamname", "team"}
	genderHeaders = []string{"geschlecht", "gender", "typ"}
)

// ReadRoster reads teams from the first sheet of an xlsx workbook. The first
// row must hold the column headers; blank lines are skipped. Gender values
// are returned as written.
func ReadRoster(r io.Reader) ([]RosterRow, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open roster workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("roster workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet %q is empty", sheets[0])
	}

	header := rows[0]
	idCol := findColumn(header, idHeaders)
	nameCol := findColumn(header, nameHeaders)
	genderCol := findColumn(header, genderHeaders)
	if nameCol < 0 {
		return nil, fmt.Errorf("sheet %q has no name column", sheets[0])
	}
	if genderCol < 0 {
		return nil, fmt.Errorf("sheet %q has no gender column", sheets[0])
	}

	out := make([]RosterRow, 0, len(rows)-1)
	for i, row := range rows[1:] {
		line := i + 2
		name := cell(row, nameCol)
		gender := cell(row, genderCol)
		rawID := cell(row, idCol)
		if name == "" && gender == "" && rawID == "" {
			continue
		}
		if name == "" {
			return nil, fmt.Errorf("row %d: team name is empty", line)
		}

		item := RosterRow{Name: name, Gender: gender}
		if rawID != "" {
			id, err := strconv.Atoi(rawID)
			if err != nil {
				return nil, fmt.Errorf("row %d: invalid trophy id %q: %w", line, rawID, err)
			}
			item.TrophyID = id
		}
		out = append(out, item)
	}
	return out, nil
}

func findColumn(header []string, aliases []string) int {
	for i, raw := range header {
		name := strings.ToLower(strings.TrimSpace(raw))
		name = strings.TrimSuffix(name, ".")
		for _, alias := range aliases {
			if name == alias {
				return i
			}
		}
	}
	return -1
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}
