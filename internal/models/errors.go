package models

import "kyberbench/internal/utils"

var (
	ErrInvalidParams = utils.NewBenchError("invalid trial parameters")
	ErrBadRow        = utils.NewBenchError("malformed dataset row")
)
