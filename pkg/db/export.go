package db

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/bytedance/sonic"

	"github.com/mscrnt/porchconf/pkg/porch"
	"github.com/mscrnt/porchconf/pkg/timing"
)

// ExportedConf is the JSON shape of one exported record
type ExportedConf struct {
	Index   int      `json:"index"`
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Mode    string   `json:"mode"`
	Inputs  ValueMap `json:"inputs"`
	Outputs ValueMap `json:"outputs"`
}

// CSVHeader returns the column names written by WriteCSV
func CSVHeader() []string {
	headers := []string{"Index", "Name", "Mode"}
	for _, f := range timing.AllInputs {
		headers = append(headers, f.Name())
	}
	for _, f := range timing.AllOutputs {
		headers = append(headers, f.Name())
	}
	return headers
}

// WriteCSV writes one row per conf. Unset values are empty cells.
func WriteCSV(w io.Writer, confs []porch.Conf) error {
	csvWriter := csv.NewWriter(w)

	if err := csvWriter.Write(CSVHeader()); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}

	for i, c := range confs {
		row := []string{strconv.Itoa(i), c.Name, c.Mode.String()}
		for _, f := range timing.AllInputs {
			row = append(row, csvValue(c.Inputs.Get(f)))
		}
		for _, f := range timing.AllOutputs {
			row = append(row, csvValue(c.Outputs.Get(f)))
		}
		if err := csvWriter.Write(row); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}

	csvWriter.Flush()
	return csvWriter.Error()
}

func csvValue(v timing.Value) string {
	f, ok := v.Get()
	if !ok {
		return ""
	}
	return strconv.FormatFloat(float64(f), 'g', -1, 32)
}

// WriteJSON writes the confs as an indented JSON array
func WriteJSON(w io.Writer, confs []porch.Conf) error {
	return writeJSON(w, exported(confs))
}

func exported(confs []porch.Conf) []ExportedConf {
	out := make([]ExportedConf, len(confs))
	for i, c := range confs {
		out[i] = ExportedConf{
			Index:   i,
			ID:      c.ID.String(),
			Name:    c.Name,
			Mode:    c.Mode.String(),
			Inputs:  InputMap(c.Inputs),
			Outputs: OutputMap(c.Mode, c.Outputs),
		}
	}
	return out
}

func writeJSON(w io.Writer, v interface{}) error {
	data, err := sonic.ConfigStd.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	data = append(data, '\n')
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write JSON: %w", err)
	}
	return nil
}

// ExportCSV exports a snapshot to CSV format
func (db *DB) ExportCSV(w io.Writer, snapshotID int64) error {
	confs, err := db.GetConfs(snapshotID)
	if err != nil {
		return fmt.Errorf("failed to get confs: %w", err)
	}
	return WriteCSV(w, confs)
}

// ExportJSON exports a snapshot and its confs to JSON format
func (db *DB) ExportJSON(w io.Writer, snapshotID int64) error {
	snap, err := db.GetSnapshot(snapshotID)
	if err != nil {
		return fmt.Errorf("failed to get snapshot: %w", err)
	}
	confs, err := db.GetConfs(snapshotID)
	if err != nil {
		return fmt.Errorf("failed to get confs: %w", err)
	}

	export := struct {
		Snapshot *Snapshot      `json:"snapshot"`
		Confs    []ExportedConf `json:"confs"`
	}{
		Snapshot: snap,
		Confs:    exported(confs),
	}
	return writeJSON(w, export)
}

// Export writes a snapshot in the given format
func (db *DB) Export(w io.Writer, snapshotID int64, format ExportFormat) error {
	switch format {
	case ExportFormatCSV:
		return db.ExportCSV(w, snapshotID)
	case ExportFormatJSON:
		return db.ExportJSON(w, snapshotID)
	}
	return fmt.Errorf("unsupported export format %q", format)
}
