package crypto

import "kyberbench/internal/utils"

var (
	ErrCapabilityFailure = utils.NewBenchError("kem capability failure")
	ErrUnknownScheme     = utils.NewBenchError("unknown kem scheme")
	ErrBadKey            = utils.NewBenchError("invalid key provided")
)
