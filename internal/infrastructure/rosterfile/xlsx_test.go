package rosterfile

import (
	"bytes"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/riskibarqy/fantasy-draft/internal/domain/player"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func buildWorkbook(t *testing.T, rows ...[]any) *bytes.Buffer {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	for i, row := range rows {
		axis, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, axis, &row))
	}

	buf := &bytes.Buffer{}
	_, err := f.WriteTo(buf)
	require.NoError(t, err)
	return buf
}

func TestParseXLSX(t *testing.T) {
	book := buildWorkbook(t,
		[]any{"Rank", "Player", "Rating", "Notes"},
		[]any{1, " Alpha ", 1320, "captain"},
		[]any{2, "Beta", "1200.0"},
		[]any{},
		[]any{nil, "Gamma", 900},
	)

	got, err := ParseXLSX(book)
	require.NoError(t, err)

	want := []player.Candidate{
		{Name: "Alpha", Cost: 1320, Rank: 1},
		{Name: "Beta", Cost: 1200, Rank: 2},
		{Name: "Gamma", Cost: 900},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("candidates mismatch (-want +got):\n%s", diff)
	}
}

func TestParseXLSX_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		rows    [][]any
		wantRow int
	}{
		{name: "missing cost column", rows: [][]any{{"name", "rank"}, {"Alpha", 1}}},
		{name: "header only", rows: [][]any{{"name", "cost"}}},
		{name: "negative cost", rows: [][]any{{"name", "cost"}, {"Alpha", 10}, {"Beta", -5}}, wantRow: 3},
		{name: "fractional cost", rows: [][]any{{"name", "cost"}, {"Alpha", 10.5}}, wantRow: 2},
		{name: "cost without name", rows: [][]any{{"name", "cost"}, {"", 10}}, wantRow: 2},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseXLSX(buildWorkbook(t, tc.rows...))
			require.Error(t, err)

			var rowErr RowError
			if tc.wantRow > 0 {
				require.True(t, errors.As(err, &rowErr), "expected RowError, got %v", err)
				assert.Equal(t, tc.wantRow, rowErr.Row)
			}
		})
	}
}

func TestWriteXLSX_CanBeReimported(t *testing.T) {
	players := []player.Player{
		{ID: 1, BasketID: 10, Name: "Alpha", Rank: 1, Cost: 1320, Points: 7},
		{ID: 2, BasketID: 11, Name: "Beta", Rank: 2, Cost: 1200},
	}

	buf := &bytes.Buffer{}
	require.NoError(t, WriteXLSX(buf, players, func(id int64) string {
		return map[int64]string{10: "Basket 1", 11: "Basket 2"}[id]
	}))

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer f.Close()
	basket, err := f.GetCellValue(exportSheet, "A3")
	require.NoError(t, err)
	assert.Equal(t, "Basket 2", basket)

	got, err := ParseXLSX(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, []player.Candidate{
		{Name: "Alpha", Cost: 1320, Rank: 1},
		{Name: "Beta", Cost: 1200, Rank: 2},
	}, got)
}
