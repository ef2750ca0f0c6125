package optimize

import "kyberbench/internal/utils"

var (
	ErrInvalidIndividual = utils.NewBenchError("individual out of range")
	ErrInvalidConfig     = utils.NewBenchError("invalid optimizer config")
)
