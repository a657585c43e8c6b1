package engine

import (
	"launchcontrol/internal/models"
	"launchcontrol/pkg/curve"
)

// LaunchProgress reports how far a token is from graduation as a percentage
// of the launch threshold, clamped to [0,100].
func (e *Engine) LaunchProgress(tokenID uint64) (uint64, error) {
	state, err := loadState(e.db)
	if err != nil {
		return 0, err
	}
	bc, err := loadCurve(e.db, tokenID)
	if err != nil {
		return 0, err
	}
	return curve.Progress(bc.RealSolReserves, state.LaunchThreshold), nil
}

// Token returns a token's identity record.
func (e *Engine) Token(tokenID uint64) (*models.TokenInfo, error) {
	return loadToken(e.db, tokenID)
}

// Curve returns a token's reserve state.
func (e *Engine) Curve(tokenID uint64) (*models.BondingCurve, error) {
	return loadCurve(e.db, tokenID)
}
