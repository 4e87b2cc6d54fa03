package risk

import "context"

// HeuristicModel is a deterministic stand-in for the trained classifier the
// reference service loads from disk (failure_rf.pkl); no trained model
// ships with this repository, so this implements the same Model contract
// with a closed-form estimate driven by threshold proximity and the
// rolling window's volatility. Production deployments can swap in any
// other Model implementation without touching the kernel.
type HeuristicModel struct {
	// VolatilityWeight scales how much window standard deviation
	// contributes to the estimated risk, on top of threshold proximity.
	VolatilityWeight float64
}

// NewHeuristicModel returns a HeuristicModel with sane defaults.
func NewHeuristicModel() *HeuristicModel {
	return &HeuristicModel{VolatilityWeight: 0.05}
}

// PredictRisk estimates failure probability as the maximum of the
// temperature/vibration threshold-proximity ratios, nudged up by recent
// volatility in either signal.
func (h *HeuristicModel) PredictRisk(_ context.Context, f Features) (float64, error) {
	proximity := f.PctOfTempThresh
	if f.PctOfVibThresh > proximity {
		proximity = f.PctOfVibThresh
	}

	volatility := f.TempStdWin + f.VibStdWin
	risk := proximity + h.VolatilityWeight*volatility

	switch {
	case risk < 0:
		return 0, nil
	case risk > 1:
		return 1, nil
	default:
		return risk, nil
	}
}
