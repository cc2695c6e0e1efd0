package spreadsheet

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func buildXLSX(t *testing.T, rows [][]any) *bytes.Reader {
	t.Helper()

	f := excelize.NewFile()
	sheet := f.GetSheetName(f.GetActiveSheetIndex())
	for idx, row := range rows {
		axis, err := excelize.CoordinatesToCellName(1, idx+1)
		require.NoError(t, err)
		cells := append([]any(nil), row...)
		require.NoError(t, f.SetSheetRow(sheet, axis, &cells))
	}
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	require.NoError(t, f.Close())
	return bytes.NewReader(buf.Bytes())
}

func TestReadRoster(t *testing.T) {
	t.Parallel()

	data := buildXLSX(t, [][]any{
		{"Nr.", "Teamname", "Geschlecht"},
		{1, "Otters", "w"},
		{2, " Bears ", "m"},
		{"", "", ""},
		{"", "Walk-ins", "female"},
	})

	rows, err := ReadRoster(data)
	require.NoError(t, err)
	require.Equal(t, []RosterRow{
		{TrophyID: 1, Name: "Otters", Gender: "w"},
		{TrophyID: 2, Name: "Bears", Gender: "m"},
		{Name: "Walk-ins", Gender: "female"},
	}, rows)
}

func TestReadRoster_HeaderAliases(t *testing.T) {
	t.Parallel()

	data := buildXLSX(t, [][]any{
		{"Typ", "Name"},
		{"g", "Eagles"},
	})

	rows, err := ReadRoster(data)
	require.NoError(t, err)
	require.Equal(t, []RosterRow{{Name: "Eagles", Gender: "g"}}, rows)
}

func TestReadRoster_Errors(t *testing.T) {
	t.Parallel()

	cases := map[string][][]any{
		"missing name column":   {{"ID", "Gender"}, {1, "f"}},
		"missing gender column": {{"ID", "Name"}, {1, "Otters"}},
		"invalid trophy id":     {{"ID", "Name", "Gender"}, {"one", "Otters", "f"}},
		"empty name":            {{"ID", "Name", "Gender"}, {3, "", "f"}},
	}
	for name, rows := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ReadRoster(buildXLSX(t, rows))
			require.Error(t, err)
		})
	}

	_, err := ReadRoster(bytes.NewReader([]byte("not a workbook")))
	require.Error(t, err)
}
