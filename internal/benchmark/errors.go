package benchmark

import "kyberbench/internal/utils"

var ErrInvalidRuns = utils.NewBenchError("invalid benchmark run count")
