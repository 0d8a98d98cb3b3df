package rosterfile

import (
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/riskibarqy/fantasy-draft/internal/domain/player"
	"github.com/xuri/excelize/v2"
)

const exportSheet = "Roster"

var (
	nameHeaders = []string{"name", "player", "player_name"}
	costHeaders = []string{"cost", "price", "rating"}
	rankHeaders = []string{"rank", "place"}
)

// RowError reports a data row that could not be turned into a candidate.
type RowError struct {
	Row    int
	Reason string
}

func (e RowError) Error() string {
	return fmt.Sprintf("row %d: %s", e.Row, e.Reason)
}

// ParseXLSX reads roster candidates from the first sheet. The header row must
// name a player column and a cost column; rank is optional. Blank rows are
// skipped, malformed ones fail the whole import.
func ParseXLSX(r io.Reader) ([]player.Candidate, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("xlsx contains no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("xlsx must contain a header and at least one player row")
	}

	header := rows[0]
	nameIdx := findColumn(header, nameHeaders)
	costIdx := findColumn(header, costHeaders)
	rankIdx := findColumn(header, rankHeaders)
	if nameIdx < 0 || costIdx < 0 {
		return nil, fmt.Errorf("xlsx header must contain name and cost columns")
	}

	out := make([]player.Candidate, 0, len(rows)-1)
	for i, row := range rows[1:] {
		rowNum := i + 2
		name := cell(row, nameIdx)
		if name == "" {
			if strings.Join(row, "") == "" {
				continue
			}
			return nil, RowError{Row: rowNum, Reason: "player name is empty"}
		}

		cost, err := parseInt(cell(row, costIdx))
		if err != nil || cost < 0 {
			return nil, RowError{Row: rowNum, Reason: fmt.Sprintf("invalid cost %q", cell(row, costIdx))}
		}

		c := player.Candidate{Name: name, Cost: cost}
		if raw := cell(row, rankIdx); raw != "" {
			rank, err := parseInt(raw)
			if err != nil || rank < 0 {
				return nil, RowError{Row: rowNum, Reason: fmt.Sprintf("invalid rank %q", raw)}
			}
			c.Rank = int(rank)
		}
		out = append(out, c.Normalize())
	}

	if len(out) == 0 {
		return nil, fmt.Errorf("xlsx contains no player rows")
	}
	return out, nil
}

// WriteXLSX exports a roster with one row per player, grouped by basket label.
func WriteXLSX(w io.Writer, players []player.Player, basketName func(basketID int64) string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), exportSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if err := f.SetSheetRow(exportSheet, "A1", &[]any{"basket", "name", "rank", "cost", "points"}); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i, p := range players {
		basket := strconv.FormatInt(p.BasketID, 10)
		if basketName != nil {
			basket = basketName(p.BasketID)
		}
		axis, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(exportSheet, axis, &[]any{basket, p.Name, p.Rank, p.Cost, p.Points}); err != nil {
			return fmt.Errorf("write player %d: %w", p.ID, err)
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	return nil
}

func findColumn(header []string, names []string) int {
	for i, h := range header {
		if slices.Contains(names, strings.ToLower(strings.TrimSpace(h))) {
			return i
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

// parseInt accepts spreadsheet numerics such as "1200" or "1200.0".
func parseInt(raw string) (int64, error) {
	if v, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return v, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, err
	}
	if f != float64(int64(f)) {
		return 0, fmt.Errorf("not an integer: %s", raw)
	}
	return int64(f), nil
}
