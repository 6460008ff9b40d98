package db

import (
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/bytedance/sonic"

	"github.com/mscrnt/porchconf/pkg/timing"
)

// Snapshot is one archived copy of a porch file's working set
type Snapshot struct {
	ID        int64     `json:"id"`
	Source    string    `json:"source"`
	Note      string    `json:"note,omitempty"`
	Count     int       `json:"count"`
	CreatedAt time.Time `json:"created_at"`
}

// ArchivedConf is a porch conf as stored in a snapshot
type ArchivedConf struct {
	ID         int64     `json:"id"`
	SnapshotID int64     `json:"snapshot_id"`
	Position   int       `json:"position"`
	UUID       string    `json:"uuid"`
	Name       string    `json:"name"`
	Mode       string    `json:"mode"`
	Inputs     ValueMap  `json:"inputs"`
	Outputs    ValueMap  `json:"outputs"`
	CreatedAt  time.Time `json:"created_at"`
}

// ValueMap stores the set values of a record keyed by field name. Unset
// values are absent.
type ValueMap map[string]float32

// Value implements the driver.Valuer interface
func (m ValueMap) Value() (driver.Value, error) {
	if m == nil {
		return "{}", nil
	}
	b, err := sonic.Marshal(m)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements the sql.Scanner interface
func (m *ValueMap) Scan(value interface{}) error {
	if value == nil {
		*m = nil
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("cannot scan type %T into ValueMap", value)
	}

	return sonic.Unmarshal(data, m)
}

// InputMap converts inputs to a ValueMap
func InputMap(in timing.Inputs) ValueMap {
	m := ValueMap{}
	for _, f := range timing.AllInputs {
		if v, ok := in.Get(f).Get(); ok {
			m[f.Name()] = v
		}
	}
	return m
}

// OutputMap converts the outputs that apply to mode to a ValueMap
func OutputMap(mode timing.Mode, out timing.Outputs) ValueMap {
	m := ValueMap{}
	for _, f := range mode.Outputs() {
		if v, ok := out.Get(f).Get(); ok {
			m[f.Name()] = v
		}
	}
	return m
}

// Inputs converts a ValueMap back to inputs, ignoring unknown keys
func (m ValueMap) Inputs() timing.Inputs {
	var in timing.Inputs
	for _, f := range timing.AllInputs {
		if v, ok := m[f.Name()]; ok {
			in.Set(f, timing.Some(v))
		}
	}
	return in
}

// Outputs converts a ValueMap back to outputs, ignoring unknown keys
func (m ValueMap) Outputs() timing.Outputs {
	var out timing.Outputs
	for _, f := range timing.AllOutputs {
		if v, ok := m[f.Name()]; ok {
			out.Set(f, timing.Some(v))
		}
	}
	return out
}

// SnapshotFilter represents filters for querying snapshots
type SnapshotFilter struct {
	Source string
	Since  *time.Time
	Until  *time.Time
	Limit  int
	Offset int
}

// ExportFormat represents the format for exporting data
type ExportFormat string

const (
	ExportFormatCSV  ExportFormat = "csv"
	ExportFormatJSON ExportFormat = "json"
)

// ParseExportFormat validates an export format name
func ParseExportFormat(s string) (ExportFormat, error) {
	switch f := ExportFormat(s); f {
	case ExportFormatCSV, ExportFormatJSON:
		return f, nil
	}
	return "", fmt.Errorf("unsupported export format %q (use csv or json)", s)
}
