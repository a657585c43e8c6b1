package engine

import (
	"gorm.io/gorm"

	"launchcontrol/pkg/chain"
)

// DeleteToken removes an unlaunched token with no circulating supply.
// Creator only. Any residual SOL sitting on the curve account is refunded.
func (e *Engine) DeleteToken(creator string, tokenID uint64) error {
	if creator == "" {
		return ErrInvalidSigner
	}

	unlock := e.lockToken(tokenID)
	defer unlock()

	return e.db.Transaction(func(tx *gorm.DB) error {
		token, err := loadToken(tx, tokenID)
		if err != nil {
			return err
		}
		if token.Creator != creator {
			return ErrUnauthorized
		}
		if token.LaunchedToDex {
			return ErrTokenAlreadyLaunched
		}
		if token.CirculatingSupply > 0 {
			return ErrTradingNotActive
		}
		bc, err := loadCurve(tx, tokenID)
		if err != nil {
			return err
		}

		if bc.RealSolReserves > 0 {
			if err := e.ledger.TransferCurrency(chain.CurveAddress(tokenID), creator, bc.RealSolReserves); err != nil {
				return err
			}
		}

		if err := tx.Delete(bc).Error; err != nil {
			return err
		}
		return tx.Delete(token).Error
	})
}
