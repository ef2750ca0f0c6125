package models

// Table is anything that can be persisted as a header plus ordered rows.
type Table interface {
	Header() []string
	Rows() [][]string
}

// Dataset is an append-only, ordered sequence of trial records.
type Dataset struct {
	records []TrialRecord
}

func NewDataset(capacity int) *Dataset {
	return &Dataset{records: make([]TrialRecord, 0, capacity)}
}

func (d *Dataset) Append(r TrialRecord) {
	d.records = append(d.records, r)
}

func (d *Dataset) Len() int { return len(d.records) }

// Records returns a copy of the rows so callers cannot rewrite history.
func (d *Dataset) Records() []TrialRecord {
	return append([]TrialRecord{}, d.records...)
}

func (d *Dataset) AnomalyCount() int {
	n := 0
	for _, r := range d.records {
		if r.IsAnomaly {
			n++
		}
	}
	return n
}

func (d *Dataset) Header() []string {
	return append([]string{}, Columns...)
}

func (d *Dataset) Rows() [][]string {
	rows := make([][]string, 0, len(d.records))
	for _, r := range d.records {
		rows = append(rows, r.Row())
	}
	return rows
}
