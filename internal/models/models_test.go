package models_test

import (
	"errors"
	"math"
	"testing"

	"kyberbench/internal/models"

	"github.com/stretchr/testify/require"
)

func TestColumnsOrder(t *testing.T) {
	require.Equal(t, []string{
		"plaintext_length", "key_size", "ciphertext_size",
		"encrypt_time", "decrypt_time", "cpu_load_duration_ms", "is_anomaly",
	}, models.Columns)
}

func TestTrialParamsValidate(t *testing.T) {
	tests := []struct {
		name    string
		params  models.TrialParams
		wantErr bool
	}{
		{name: "valid", params: models.TrialParams{PlaintextLength: 50, SimulatedLoadMs: 12.5}},
		{name: "zero load", params: models.TrialParams{PlaintextLength: 1}},
		{name: "zero length", params: models.TrialParams{PlaintextLength: 0}, wantErr: true},
		{name: "negative load", params: models.TrialParams{PlaintextLength: 10, SimulatedLoadMs: -1}, wantErr: true},
		{name: "nan load", params: models.TrialParams{PlaintextLength: 10, SimulatedLoadMs: math.NaN()}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.params.Validate()
			if tt.wantErr {
				require.True(t, errors.Is(err, models.ErrInvalidParams))
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestTrialRecordRow(t *testing.T) {
	p := models.TrialParams{PlaintextLength: 123, SimulatedLoadMs: 4.25}
	o := models.TrialOutcome{KeySize: 3584, CiphertextSize: 1088, EncryptTimeMs: 0.125, DecryptTimeMs: 0.5, KeygenTimeMs: 9}
	r := models.NewTrialRecord(p, o, true)

	require.Equal(t, []string{"123", "3584", "1088", "0.125", "0.5", "4.25", "1"}, r.Row())

	back, err := models.ParseTrialRecord(r.Row())
	require.NoError(t, err)
	require.Equal(t, r, back)
}

func TestParseTrialRecordRejectsBadRows(t *testing.T) {
	bad := [][]string{
		{"1", "2"},
		{"x", "3584", "1088", "0.1", "0.1", "1", "0"},
		{"1", "3584", "1088", "fast", "0.1", "1", "0"},
		{"1", "3584", "1088", "0.1", "0.1", "1", "2"},
	}
	for _, row := range bad {
		_, err := models.ParseTrialRecord(row)
		require.True(t, errors.Is(err, models.ErrBadRow), "row %v", row)
	}
}

func TestDatasetAppendOnly(t *testing.T) {
	d := models.NewDataset(2)
	d.Append(models.TrialRecord{PlaintextLength: 1})
	d.Append(models.TrialRecord{PlaintextLength: 2, IsAnomaly: true})

	recs := d.Records()
	recs[0].PlaintextLength = 99
	require.Equal(t, 1, d.Records()[0].PlaintextLength)
	require.Equal(t, 2, d.Len())
	require.Equal(t, 1, d.AnomalyCount())
	require.Len(t, d.Rows(), 2)
	require.Equal(t, models.Columns, d.Header())
}

func TestBenchmarkLogRows(t *testing.T) {
	l := models.BenchmarkLog{{RunID: 1, KeygenTimeMs: 0.12346, EncryptTimeMs: 1, DecryptTimeMs: 2.5, KeySizeBytes: 3584, CiphertextSizeBytes: 1088}}
	require.Equal(t, models.BenchmarkColumns, l.Header())
	require.Equal(t, [][]string{{"1", "0.1235", "1.0000", "2.5000", "3584", "1088"}}, l.Rows())
}
