package command

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/vaerl/trophy-be/internal/infrastructure/repository/memory"
	"github.com/vaerl/trophy-be/internal/infrastructure/spreadsheet"
	"github.com/vaerl/trophy-be/internal/platform/logging"
	"github.com/vaerl/trophy-be/internal/platform/resilience"
	"github.com/vaerl/trophy-be/internal/usecase"
)

const testYear = 2024

type sequenceIDs struct {
	next int
}

func (s *sequenceIDs) NewID() (string, error) {
	s.next++
	return fmt.Sprintf("id-%d", s.next), nil
}

type harness struct {
	handler   *Handler
	exportDir string
}

func newHarness(t *testing.T) harness {
	t.Helper()

	store := memory.NewStore()
	locks := &resilience.KeyedMutex[int]{}
	logger := logging.NewNop()
	exportDir := t.TempDir()

	trophy := usecase.NewTrophyService(store.Teams(), store.Games(), store.Outcomes(), store, nil, locks, 2, logger)
	roster := usecase.NewRosterService(store.Games(), store, &sequenceIDs{}, locks, nil, logger)
	standings := usecase.NewStandingsService(store.Teams(), spreadsheet.NewExporter(exportDir, logger))

	return harness{
		handler:   NewHandler(trophy, roster, standings, testYear, time.Minute, logger),
		exportDir: exportDir,
	}
}

func (h harness) run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	app := NewApp(h.handler)
	app.Writer = &out
	app.ErrWriter = &out
	err := app.RunContext(context.Background(), append([]string{"trophy"}, args...))
	return out.String(), err
}

func (h harness) mustRun(t *testing.T, args ...string) string {
	t.Helper()

	out, err := h.run(t, args...)
	require.NoError(t, err, "trophy %s", strings.Join(args, " "))
	return out
}

func TestCommands_FullYear(t *testing.T) {
	h := newHarness(t)

	out := h.mustRun(t, "register-game", "--name", "Sprint", "--kind", "time")
	require.True(t, strings.HasPrefix(out, "id-1\tSprint\ttime"), out)

	h.mustRun(t, "register-team", "--name", "Otters", "--gender", "w", "--trophy-id", "1")
	h.mustRun(t, "register-team", "--name", "Herons", "--gender", "f", "--trophy-id", "2")
	h.mustRun(t, "register-team", "--name", "Bears", "--gender", "m", "--year", "2024")

	out = h.mustRun(t, "status")
	require.Contains(t, out, "done: false")
	require.Contains(t, out, "pending games: 1")
	require.Contains(t, out, "pending teams: 3")
	require.Contains(t, out, "3/3")

	_, err := h.run(t, "evaluate")
	require.Equal(t, ExitConflict, ExitCode(err), "early evaluation: %v", err)

	for team, data := range map[string]string{"id-2": "01:10", "id-3": "01:05", "id-4": "02:00"} {
		h.mustRun(t, "record", "--game", "id-1", "--team", team, "--data", data)
	}

	_, err = h.run(t, "record", "--game", "id-1", "--team", "id-2", "--data", "01:01")
	require.Equal(t, ExitConflict, ExitCode(err), "locked game: %v", err)

	out = h.mustRun(t, "evaluate")
	require.Equal(t, "year 2024 evaluated: 1 games, 3 results, 3 teams\n", out)

	_, err = h.run(t, "evaluate")
	require.Equal(t, ExitConflict, ExitCode(err), "second evaluation: %v", err)

	_, err = h.run(t, "record", "--game", "id-1", "--team", "id-2", "--data", "01:01", "--force")
	require.Equal(t, ExitConflict, ExitCode(err), "result after evaluation: %v", err)

	out = h.mustRun(t, "standings")
	var got standingsView
	require.NoError(t, sonic.UnmarshalString(out, &got))
	require.Equal(t, testYear, got.Year)
	require.Equal(t, []standingView{
		{Place: 1, TrophyID: 2, TeamID: "id-3", Team: "Herons", Points: 50},
		{Place: 2, TrophyID: 1, TeamID: "id-2", Team: "Otters", Points: 49},
	}, got.Female)
	require.Equal(t, []standingView{
		{Place: 1, TeamID: "id-4", Team: "Bears", Points: 50},
	}, got.Male)

	out = h.mustRun(t, "export")
	path := strings.TrimSpace(out)
	require.Equal(t, h.exportDir, filepath.Dir(path))
	_, err = os.Stat(path)
	require.NoError(t, err)
}

func TestCommands_Import(t *testing.T) {
	h := newHarness(t)

	f := excelize.NewFile()
	sheet := f.GetSheetName(f.GetActiveSheetIndex())
	rows := [][]any{
		{"Nr.", "Teamname", "Geschlecht"},
		{1, "Otters", "w"},
		{2, "Bears", "m"},
	}
	for idx, row := range rows {
		axis, err := excelize.CoordinatesToCellName(1, idx+1)
		require.NoError(t, err)
		cells := append([]any(nil), row...)
		require.NoError(t, f.SetSheetRow(sheet, axis, &cells))
	}
	path := filepath.Join(t.TempDir(), "roster.xlsx")
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	out := h.mustRun(t, "import", "--year", "2024", path)
	require.Equal(t, "imported 2 teams (0 skipped, 0 results created)\n", out)

	out = h.mustRun(t, "import", path)
	require.Contains(t, out, "imported 0 teams (2 skipped")
}

func TestCommands_InputErrors(t *testing.T) {
	h := newHarness(t)

	_, err := h.run(t, "import")
	require.Equal(t, ExitInvalid, ExitCode(err))

	_, err = h.run(t, "register-game", "--name", "Long jump", "--kind", "distance")
	require.Equal(t, ExitInvalid, ExitCode(err))

	_, err = h.run(t, "record", "--game", "missing", "--team", "id-1", "--data", "3")
	require.Equal(t, ExitNotFound, ExitCode(err))

	_, err = h.run(t, "export", "--year", "1999")
	require.Equal(t, ExitNotFound, ExitCode(err))

	_, err = h.run(t, "status", "--year", "0")
	require.Equal(t, ExitInvalid, ExitCode(err))
}

func TestExitCode(t *testing.T) {
	t.Parallel()

	if got := ExitCode(nil); got != ExitOK {
		t.Fatalf("unexpected exit code for nil: got=%d want=%d", got, ExitOK)
	}
	if got := ExitCode(fmt.Errorf("boom")); got != ExitFailure {
		t.Fatalf("unexpected exit code for plain error: got=%d want=%d", got, ExitFailure)
	}
	if got := ExitCode(fmt.Errorf("wrap: %w", usecase.ErrGameLocked)); got != ExitConflict {
		t.Fatalf("unexpected exit code for locked game: got=%d want=%d", got, ExitConflict)
	}
}
