package views

import (
	"fmt"
	"io"
	"strconv"

	"github.com/hance08/ledgerd/internal/constants"
	"github.com/hance08/ledgerd/internal/model"
	"github.com/hance08/ledgerd/internal/utils"
	"github.com/pterm/pterm"
)

type AccountListView struct {
	out io.Writer
}

func NewAccountListView(out io.Writer) *AccountListView {
	return &AccountListView{out: out}
}

// Render prints the snapshots as a table. Amounts use the same four-place
// rounding as the CSV output; locked accounts are highlighted.
func (v *AccountListView) Render(snaps []model.AccountSnapshot) error {
	tableData := pterm.TableData{constants.SnapshotHeader}

	var locked int
	for _, snap := range snaps {
		row := []string{
			strconv.FormatUint(uint64(snap.Client), 10),
			utils.FormatAmount(snap.Available),
			utils.FormatAmount(snap.Held),
			utils.FormatAmount(snap.Total),
			strconv.FormatBool(snap.Locked),
		}

		switch {
		case snap.Locked:
			locked++
			for i := range row {
				row[i] = pterm.Red(row[i])
			}
		case !snap.Held.IsZero():
			row[2] = pterm.Yellow(row[2])
		}
		tableData = append(tableData, row)
	}

	table, err := pterm.DefaultTable.WithHasHeader().WithRightAlignment().WithData(tableData).Srender()
	if err != nil {
		return err
	}

	if _, err := fmt.Fprintln(v.out, table); err != nil {
		return err
	}
	_, err = fmt.Fprintf(v.out, "Total: %d accounts, %d locked\n", len(snaps), locked)
	return err
}
