package trial

import "kyberbench/internal/utils"

// ErrIntegrityFailure means decapsulation recovered a different shared secret
// than encapsulation produced. It is never expected from a correct KEM.
var ErrIntegrityFailure = utils.NewBenchError("shared secret mismatch")
