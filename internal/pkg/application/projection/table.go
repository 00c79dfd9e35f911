package projection

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Table collects rows under a fixed header. Every appended row is fitted to the width
// of the header.
type Table struct {
	header []string
	rows   []Row
}

func NewTable(header []string) *Table {
	return &Table{
		header: append([]string{}, header...),
		rows:   []Row{},
	}
}

func (t *Table) Header() []string {
	return append([]string{}, t.header...)
}

func (t *Table) Append(row Row) {
	t.rows = append(t.rows, Fit(row, len(t.header)))
}

func (t *Table) Rows() []Row {
	return t.rows
}

func (t *Table) Len() int {
	return len(t.rows)
}

// WriteCSV writes the header and all rows as comma separated values
func (t *Table) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(t.header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for idx, r := range t.rows {
		if err := cw.Write(r.Strings()); err != nil {
			return fmt.Errorf("failed to write row %d: %w", idx, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// SaveCSV writes the table to a file. The file is written to a temporary name first
// and renamed once complete.
func (t *Table) SaveCSV(path string) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}

	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if err = t.WriteCSV(tmp); err != nil {
		return err
	}

	if err = tmp.Chmod(0644); err != nil {
		return fmt.Errorf("failed to set output file permissions: %w", err)
	}

	if err = tmp.Close(); err != nil {
		return fmt.Errorf("failed to close output file: %w", err)
	}

	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to move output file in place: %w", err)
	}

	return nil
}
