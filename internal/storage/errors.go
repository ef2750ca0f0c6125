package storage

import "kyberbench/internal/utils"

var (
	ErrPersist           = utils.NewBenchError("persist failed")
	ErrUnsupportedFormat = utils.NewBenchError("unsupported output format")
	ErrBadHeader         = utils.NewBenchError("unexpected dataset header")
	ErrRunNotFound       = utils.NewBenchError("run not found")
	ErrDBNotConnected    = utils.NewBenchError("database not connected")
)
