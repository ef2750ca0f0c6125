package models

import (
	"fmt"
	"strconv"
)

// BenchmarkRecord is one row of the plain benchmark log (no load, no
// anomalies), one keygen/encapsulate/decapsulate cycle per run.
type BenchmarkRecord struct {
	RunID               int
	KeygenTimeMs        float64
	EncryptTimeMs       float64
	DecryptTimeMs       float64
	KeySizeBytes        int
	CiphertextSizeBytes int
}

var BenchmarkColumns = []string{
	"run_id",
	"keygen_time_ms",
	"encrypt_time_ms",
	"decrypt_time_ms",
	"key_size_bytes",
	"ciphertext_size_bytes",
}

func (r BenchmarkRecord) Row() []string {
	return []string{
		strconv.Itoa(r.RunID),
		fmt.Sprintf("%.4f", r.KeygenTimeMs),
		fmt.Sprintf("%.4f", r.EncryptTimeMs),
		fmt.Sprintf("%.4f", r.DecryptTimeMs),
		strconv.Itoa(r.KeySizeBytes),
		strconv.Itoa(r.CiphertextSizeBytes),
	}
}

type BenchmarkLog []BenchmarkRecord

func (l BenchmarkLog) Header() []string {
	return append([]string{}, BenchmarkColumns...)
}

func (l BenchmarkLog) Rows() [][]string {
	rows := make([][]string, 0, len(l))
	for _, r := range l {
		rows = append(rows, r.Row())
	}
	return rows
}
