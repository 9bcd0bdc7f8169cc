package csvio

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/hance08/ledgerd/internal/constants"
	"github.com/hance08/ledgerd/internal/model"
	"github.com/hance08/ledgerd/internal/utils"
)

type Writer struct {
	csv         *csv.Writer
	wroteHeader bool
}

func NewWriter(w io.Writer) *Writer {
	return &Writer{csv: csv.NewWriter(w)}
}

func (w *Writer) writeHeader() error {
	if w.wroteHeader {
		return nil
	}
	if err := w.csv.Write(constants.SnapshotHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	w.wroteHeader = true
	return nil
}

func (w *Writer) Write(snap model.AccountSnapshot) error {
	if err := w.writeHeader(); err != nil {
		return err
	}

	row := []string{
		strconv.FormatUint(uint64(snap.Client), 10),
		utils.FormatAmount(snap.Available),
		utils.FormatAmount(snap.Held),
		utils.FormatAmount(snap.Total),
		strconv.FormatBool(snap.Locked),
	}
	if err := w.csv.Write(row); err != nil {
		return fmt.Errorf("failed to write client %d: %w", snap.Client, err)
	}
	return nil
}

// WriteAll writes the header, every snapshot, and flushes.
func (w *Writer) WriteAll(snaps []model.AccountSnapshot) error {
	if err := w.writeHeader(); err != nil {
		return err
	}
	for _, snap := range snaps {
		if err := w.Write(snap); err != nil {
			return err
		}
	}
	return w.Flush()
}

func (w *Writer) Flush() error {
	w.csv.Flush()
	return w.csv.Error()
}
