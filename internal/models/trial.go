package models

import (
	"fmt"
	"math"
	"strconv"
)

// TrialParams is the immutable input of one trial. PlaintextLength is a
// recorded feature only; it never reaches the KEM.
type TrialParams struct {
	PlaintextLength int
	SimulatedLoadMs float64
}

func (p TrialParams) Validate() error {
	if p.PlaintextLength <= 0 {
		return ErrInvalidParams.WithDetails(fmt.Sprintf("plaintext_length %d must be positive", p.PlaintextLength))
	}
	if p.SimulatedLoadMs < 0 || math.IsNaN(p.SimulatedLoadMs) || math.IsInf(p.SimulatedLoadMs, 0) {
		return ErrInvalidParams.WithDetails(fmt.Sprintf("simulated_load_ms %v must be finite and non-negative", p.SimulatedLoadMs))
	}
	return nil
}

// TrialOutcome is what the trial runner measured. KeygenTimeMs is tracked
// for diagnostics and is not part of the dataset schema.
type TrialOutcome struct {
	KeySize        int
	CiphertextSize int
	EncryptTimeMs  float64
	DecryptTimeMs  float64
	KeygenTimeMs   float64
	SecretsMatched bool
}

// TrialRecord is one dataset row.
type TrialRecord struct {
	PlaintextLength   int
	KeySize           int
	CiphertextSize    int
	EncryptTimeMs     float64
	DecryptTimeMs     float64
	CPULoadDurationMs float64
	IsAnomaly         bool
}

// Columns is the persisted column order. Downstream training reads these
// names; do not reorder or rename.
var Columns = []string{
	"plaintext_length",
	"key_size",
	"ciphertext_size",
	"encrypt_time",
	"decrypt_time",
	"cpu_load_duration_ms",
	"is_anomaly",
}

// NewTrialRecord joins a trial's parameters, its (possibly perturbed)
// outcome and the anomaly verdict.
func NewTrialRecord(p TrialParams, o TrialOutcome, anomalous bool) TrialRecord {
	return TrialRecord{
		PlaintextLength:   p.PlaintextLength,
		KeySize:           o.KeySize,
		CiphertextSize:    o.CiphertextSize,
		EncryptTimeMs:     o.EncryptTimeMs,
		DecryptTimeMs:     o.DecryptTimeMs,
		CPULoadDurationMs: p.SimulatedLoadMs,
		IsAnomaly:         anomalous,
	}
}

func (r TrialRecord) AnomalyFlag() int {
	if r.IsAnomaly {
		return 1
	}
	return 0
}

// Row renders r in Columns order.
func (r TrialRecord) Row() []string {
	return []string{
		strconv.Itoa(r.PlaintextLength),
		strconv.Itoa(r.KeySize),
		strconv.Itoa(r.CiphertextSize),
		formatFloat(r.EncryptTimeMs),
		formatFloat(r.DecryptTimeMs),
		formatFloat(r.CPULoadDurationMs),
		strconv.Itoa(r.AnomalyFlag()),
	}
}

// ParseTrialRecord is the inverse of Row.
func ParseTrialRecord(row []string) (TrialRecord, error) {
	if len(row) != len(Columns) {
		return TrialRecord{}, ErrBadRow.WithDetails(fmt.Sprintf("want %d fields, got %d", len(Columns), len(row)))
	}
	var (
		r   TrialRecord
		err error
	)
	ints := []*int{&r.PlaintextLength, &r.KeySize, &r.CiphertextSize}
	for i, dst := range ints {
		if *dst, err = strconv.Atoi(row[i]); err != nil {
			return TrialRecord{}, ErrBadRow.WithDetails(fmt.Sprintf("%s: %v", Columns[i], err))
		}
	}
	floats := []*float64{&r.EncryptTimeMs, &r.DecryptTimeMs, &r.CPULoadDurationMs}
	for i, dst := range floats {
		if *dst, err = strconv.ParseFloat(row[3+i], 64); err != nil {
			return TrialRecord{}, ErrBadRow.WithDetails(fmt.Sprintf("%s: %v", Columns[3+i], err))
		}
	}
	switch row[6] {
	case "0":
	case "1":
		r.IsAnomaly = true
	default:
		return TrialRecord{}, ErrBadRow.WithDetails(fmt.Sprintf("is_anomaly must be 0 or 1, got %q", row[6]))
	}
	return r, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
