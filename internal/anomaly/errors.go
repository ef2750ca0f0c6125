package anomaly

import "kyberbench/internal/utils"

var ErrInvalidPolicy = utils.NewBenchError("invalid anomaly policy")
