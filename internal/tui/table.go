// Copyright (c) 2025 Neomantra Corp

package tui

import (
	"fmt"

	stickerstable "github.com/76creates/stickers/table"
	"github.com/charmbracelet/bubbles/table"

	"github.com/larkspur-data/betfair-stream"
)

// newMarketTable builds the top-level market list, one row per market
// currently in the registry, following the teacher's table.New/
// table.WithColumns/table.WithStyles construction in publishers.go.
func newMarketTable() table.Model {
	return table.New(
		table.WithColumns([]table.Column{
			{Title: "Market", Width: 14},
			{Title: "Status", Width: 10},
			{Title: "Runners", Width: 8},
			{Title: "Matched", Width: 12},
			{Title: "Conflated", Width: 10},
		}),
		table.WithStyles(marketTableStyles),
		table.WithFocused(true),
	)
}

func marketRows(markets []*betfair.Market) []table.Row {
	rows := make([]table.Row, 0, len(markets))
	for _, m := range markets {
		status := "?"
		if m.Definition != nil {
			status = string(m.Definition.Status)
		}
		rows = append(rows, table.Row{
			string(m.MarketID),
			status,
			fmt.Sprintf("%d", len(m.Runners)),
			fmt.Sprintf("%.2f", m.TotalMatched),
			fmt.Sprintf("%t", m.Conflated),
		})
	}
	return rows
}

// newLadderTable builds the flexible-width detail table for one runner's
// EX ladders: unlike the fixed-width market list, a ladder's row count
// varies with market depth, which is exactly the layout stickers' flex
// table is suited for.
func newLadderTable(width, height int) *stickerstable.Table {
	t := stickerstable.NewTable(width, height, []string{"Back Price", "Back Size", "Lay Price", "Lay Size"})
	t.SetRatio([]int{1, 1, 1, 1})
	return t
}

func ladderRows(runner *betfair.RunnerBook) [][]string {
	back := runner.EX.AvailableToBack.Entries()
	lay := runner.EX.AvailableToLay.Entries()
	n := len(back)
	if len(lay) > n {
		n = len(lay)
	}
	rows := make([][]string, 0, n)
	for i := 0; i < n; i++ {
		row := make([]string, 4)
		if i < len(back) {
			row[0] = fmt.Sprintf("%.2f", back[i].Price)
			row[1] = fmt.Sprintf("%.2f", back[i].Size)
		}
		if i < len(lay) {
			row[2] = fmt.Sprintf("%.2f", lay[i].Price)
			row[3] = fmt.Sprintf("%.2f", lay[i].Size)
		}
		rows = append(rows, row)
	}
	return rows
}
