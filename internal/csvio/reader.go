// Package csvio reads transaction records from CSV and writes account
// snapshots back out as CSV.
package csvio

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"iter"
	"strconv"
	"strings"

	"github.com/hance08/ledgerd/internal/constants"
	"github.com/hance08/ledgerd/internal/model"
	"github.com/hance08/ledgerd/internal/utils"
	"github.com/shopspring/decimal"
)

var ErrMissingColumn = errors.New("missing required column")

// RowError is a single row that could not be decoded. The reader keeps going
// after returning one.
type RowError struct {
	Line int
	Err  error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *RowError) Unwrap() error { return e.Err }

type Reader struct {
	csv     *csv.Reader
	columns map[string]int
}

// NewReader wraps r. The first row must be a header naming the type,
// client, tx and amount columns in any order.
func NewReader(r io.Reader) *Reader {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.ReuseRecord = true

	return &Reader{csv: cr}
}

func (r *Reader) readHeader() error {
	header, err := r.csv.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return io.EOF
		}
		return fmt.Errorf("failed to read header: %w", err)
	}

	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	r.columns = make(map[string]int, len(header))
	for i, name := range header {
		r.columns[strings.ToLower(strings.TrimSpace(name))] = i
	}

	for _, required := range []string{constants.ColumnType, constants.ColumnClient, constants.ColumnTx} {
		if _, ok := r.columns[required]; !ok {
			return fmt.Errorf("header: %w %q", ErrMissingColumn, required)
		}
	}
	return nil
}

// Read returns the next record. Malformed rows come back as *RowError and
// the caller may keep reading. io.EOF marks the end of input; any other
// error is fatal.
func (r *Reader) Read() (model.TransactionRecord, error) {
	if r.columns == nil {
		if err := r.readHeader(); err != nil {
			return model.TransactionRecord{}, err
		}
	}

	row, err := r.csv.Read()
	if err != nil {
		var parseErr *csv.ParseError
		if errors.As(err, &parseErr) {
			return model.TransactionRecord{}, &RowError{Line: parseErr.StartLine, Err: parseErr.Err}
		}
		return model.TransactionRecord{}, err
	}

	line, _ := r.csv.FieldPos(0)
	rec, err := r.decode(row)
	if err != nil {
		return model.TransactionRecord{}, &RowError{Line: line, Err: err}
	}
	return rec, nil
}

// Records yields every row lazily. Iteration stops after io.EOF or a fatal
// error; row errors are yielded and iteration continues.
func (r *Reader) Records() iter.Seq2[model.TransactionRecord, error] {
	return func(yield func(model.TransactionRecord, error) bool) {
		for {
			rec, err := r.Read()
			if errors.Is(err, io.EOF) {
				return
			}

			var rowErr *RowError
			if err != nil && !errors.As(err, &rowErr) {
				yield(model.TransactionRecord{}, err)
				return
			}

			if !yield(rec, err) {
				return
			}
		}
	}
}

func (r *Reader) field(row []string, column string) (string, bool) {
	i, ok := r.columns[column]
	if !ok || i >= len(row) {
		return "", false
	}
	return strings.TrimSpace(row[i]), true
}

func (r *Reader) decode(row []string) (model.TransactionRecord, error) {
	var rec model.TransactionRecord

	typ, ok := r.field(row, constants.ColumnType)
	if !ok {
		return rec, fmt.Errorf("%w %q", ErrMissingColumn, constants.ColumnType)
	}
	kind, err := model.ParseKind(typ)
	if err != nil {
		return rec, err
	}

	client, ok := r.field(row, constants.ColumnClient)
	if !ok {
		return rec, fmt.Errorf("%w %q", ErrMissingColumn, constants.ColumnClient)
	}
	clientID, err := strconv.ParseUint(client, 10, 16)
	if err != nil {
		return rec, fmt.Errorf("invalid client %q: %w", client, err)
	}

	tx, ok := r.field(row, constants.ColumnTx)
	if !ok {
		return rec, fmt.Errorf("%w %q", ErrMissingColumn, constants.ColumnTx)
	}
	txID, err := strconv.ParseUint(tx, 10, 32)
	if err != nil {
		return rec, fmt.Errorf("invalid tx %q: %w", tx, err)
	}

	rec.Kind = kind
	rec.Account = model.AccountID(clientID)
	rec.ID = model.TransactionID(txID)

	// An absent column and an empty cell both mean "no amount".
	if raw, ok := r.field(row, constants.ColumnAmount); ok && raw != "" {
		amount, err := utils.ParseAmount(raw)
		if err != nil {
			return rec, err
		}
		rec.Amount = decimal.NewNullDecimal(amount)
	}

	return rec, nil
}
