package spreadsheet

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/vaerl/trophy-be/internal/domain/scoring"
	"github.com/vaerl/trophy-be/internal/platform/logging"
)

const (
	sheetFemale = "Female"
	sheetMale   = "Male"
)

var standingsHeader = []any{"Platz", "Team", "Punkte"}

// Exporter writes standings as one xlsx workbook per call into dir.
type Exporter struct {
	dir    string
	now    func() time.Time
	logger *logging.Logger
}

func NewExporter(dir string, logger *logging.Logger) *Exporter {
	if dir == "" {
		dir = "."
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Exporter{dir: dir, now: time.Now, logger: logger}
}

// WriteStandings writes one sheet per gender that has teams and returns the
// path of the new file, named after the current time.
func (e *Exporter) WriteStandings(ctx context.Context, standings scoring.Standings) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	groups := make([]standingsSheet, 0, 2)
	if len(standings.Female) > 0 {
		groups = append(groups, standingsSheet{name: sheetFemale, rows: standings.Female})
	}
	if len(standings.Male) > 0 {
		groups = append(groups, standingsSheet{name: sheetMale, rows: standings.Male})
	}
	if len(groups) == 0 {
		return "", fmt.Errorf("year %d has no standings to export", standings.Year)
	}

	f := excelize.NewFile()
	defer f.Close()

	styles, err := newSheetStyles(f)
	if err != nil {
		return "", err
	}

	for i, group := range groups {
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), group.name); err != nil {
				return "", fmt.Errorf("rename sheet %s: %w", group.name, err)
			}
		} else if _, err := f.NewSheet(group.name); err != nil {
			return "", fmt.Errorf("create sheet %s: %w", group.name, err)
		}
		if err := writeStandingsSheet(f, group, styles); err != nil {
			return "", err
		}
	}
	f.SetActiveSheet(0)

	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}
	path := filepath.Join(e.dir, fmt.Sprintf("results-%s.xlsx", e.now().UTC().Format(exportStampLayout)))
	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("save workbook: %w", err)
	}

	e.logger.InfoContext(ctx, "standings exported",
		"year", standings.Year,
		"path", path,
		"female", len(standings.Female),
		"male", len(standings.Male),
	)
	return path, nil
}

// exportStampLayout is a basic ISO 8601 UTC timestamp. It avoids ':' so the
// file name is valid on every platform.
const exportStampLayout = "20060102T150405Z"

type standingsSheet struct {
	name string
	rows []scoring.Standing
}

type sheetStyles struct {
	heading int
	value   int
}

func newSheetStyles(f *excelize.File) (sheetStyles, error) {
	heading, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 20}})
	if err != nil {
		return sheetStyles{}, fmt.Errorf("create heading style: %w", err)
	}
	value, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Size: 12}})
	if err != nil {
		return sheetStyles{}, fmt.Errorf("create value style: %w", err)
	}
	return sheetStyles{heading: heading, value: value}, nil
}

func writeStandingsSheet(f *excelize.File, sheet standingsSheet, styles sheetStyles) error {
	header := append([]any(nil), standingsHeader...)
	if err := f.SetSheetRow(sheet.name, "A1", &header); err != nil {
		return fmt.Errorf("write %s header: %w", sheet.name, err)
	}
	if err := f.SetCellStyle(sheet.name, "A1", "C1", styles.heading); err != nil {
		return fmt.Errorf("style %s header: %w", sheet.name, err)
	}

	for i, item := range sheet.rows {
		axis, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("cell name row %d: %w", i+2, err)
		}
		row := []any{item.Place, item.TeamName, item.Points}
		if err := f.SetSheetRow(sheet.name, axis, &row); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet.name, i+2, err)
		}
	}

	last, err := excelize.CoordinatesToCellName(3, len(sheet.rows)+1)
	if err != nil {
		return fmt.Errorf("cell name row %d: %w", len(sheet.rows)+1, err)
	}
	if err := f.SetCellStyle(sheet.name, "A2", last, styles.value); err != nil {
		return fmt.Errorf("style %s rows: %w", sheet.name, err)
	}
	if err := f.SetColWidth(sheet.name, "B", "B", 32); err != nil {
		return fmt.Errorf("size %s columns: %w", sheet.name, err)
	}
	return nil
}
