package optimize

import (
	"fmt"
	"math"
)

const (
	MinMultiplier = 1
	MaxMultiplier = 5
	MaxCPULoadMs  = 50.0

	// plaintext bytes per multiplier step
	plaintextUnit = 100
)

// Individual is one candidate benchmark setup.
type Individual struct {
	PlaintextMultiplier int
	CPULoadMs           float64
}

func (i Individual) Validate() error {
	if i.PlaintextMultiplier < MinMultiplier || i.PlaintextMultiplier > MaxMultiplier {
		return ErrInvalidIndividual.WithDetails(fmt.Sprintf("plaintext multiplier %d outside [%d,%d]", i.PlaintextMultiplier, MinMultiplier, MaxMultiplier))
	}
	if !(i.CPULoadMs >= 0 && i.CPULoadMs <= MaxCPULoadMs) {
		return ErrInvalidIndividual.WithDetails(fmt.Sprintf("cpu load %v outside [0,%v]", i.CPULoadMs, MaxCPULoadMs))
	}
	return nil
}

// Clamp pulls both genes back into their valid ranges.
func (i Individual) Clamp() Individual {
	i.PlaintextMultiplier = min(max(i.PlaintextMultiplier, MinMultiplier), MaxMultiplier)
	if math.IsNaN(i.CPULoadMs) {
		i.CPULoadMs = 0
	}
	i.CPULoadMs = min(max(i.CPULoadMs, 0), MaxCPULoadMs)
	return i
}

// PlaintextLength is the recorded plaintext size. Like in the dataset, it
// never reaches the KEM.
func (i Individual) PlaintextLength() int {
	return plaintextUnit * i.PlaintextMultiplier
}

// fromGenes rounds and clamps raw real-valued genes.
func fromGenes(mult, load float64) Individual {
	return Individual{
		PlaintextMultiplier: int(math.Round(mult)),
		CPULoadMs:           load,
	}.Clamp()
}
