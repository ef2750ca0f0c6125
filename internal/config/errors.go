package config

import "kyberbench/internal/utils"

var ErrInvalidConfig = utils.NewBenchError("invalid configuration")
