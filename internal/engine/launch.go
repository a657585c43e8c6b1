package engine

import (
	"gorm.io/gorm"

	"launchcontrol/internal/models"
	"launchcontrol/pkg/chain"
	"launchcontrol/pkg/curve"
)

// LaunchToDex graduates a token: once the real SOL reserves meet the launch
// threshold and the cooldown since creation has elapsed, trading on the
// curve stops for good and the reserves are handed off - the liquidity
// share to the creator for pool provisioning, the remainder to the platform
// as launch fee.
//
// Check order is part of the contract: threshold, then cooldown, then
// already-launched. The curve record keeps its final reserve figures
// (locked, not zeroed) so that order stays observable after graduation.
func (e *Engine) LaunchToDex(launcher string, tokenID, nextTxID uint64) (*models.TradeRecord, error) {
	if launcher == "" {
		return nil, ErrInvalidSigner
	}

	unlock := e.lockToken(tokenID)
	defer unlock()

	var record models.TradeRecord
	err := e.db.Transaction(func(tx *gorm.DB) error {
		state, err := loadState(tx)
		if err != nil {
			return err
		}
		if state.IsPaused {
			return ErrTradingNotActive
		}
		token, err := loadToken(tx, tokenID)
		if err != nil {
			return err
		}
		bc, err := loadCurve(tx, tokenID)
		if err != nil {
			return err
		}

		if bc.RealSolReserves < state.LaunchThreshold {
			return ErrLaunchThresholdNotMet
		}
		now := e.now()
		if now.Sub(token.CreatedAt) < LaunchCooldown {
			return ErrLaunchCooldownActive
		}
		if token.LaunchedToDex {
			return ErrTokenAlreadyLaunched
		}
		if nextTxID != token.TransactionCount+1 {
			return ErrInvalidTransactionID
		}

		totalReserves := bc.RealSolReserves
		liquiditySol, err := curve.FeeAmount(totalReserves, LaunchLiquidityBps)
		if err != nil {
			return err
		}
		launchFee := totalReserves - liquiditySol

		curveAccount := chain.CurveAddress(tokenID)
		if err := e.ledger.TransferCurrency(curveAccount, token.Creator, liquiditySol); err != nil {
			return err
		}
		if err := e.ledger.TransferCurrency(curveAccount, chain.FeeVaultAddress(), launchFee); err != nil {
			return err
		}

		token.LaunchedToDex = true
		token.LaunchedAt = &now
		token.TradingActive = false
		token.TransactionCount = nextTxID
		if err := tx.Save(token).Error; err != nil {
			return err
		}

		bc.Active = false
		bc.LastUpdated = now
		if err := tx.Save(bc).Error; err != nil {
			return err
		}

		if err := addFeesCollected(tx, launchFee); err != nil {
			return err
		}

		record = models.TradeRecord{
			TransactionID: nextTxID,
			TokenID:       tokenID,
			User:          launcher,
			Kind:          models.TradeKindLaunch,
			SolAmount:     totalReserves,
			TokenAmount:   0,
			Price:         0,
			PlatformFee:   launchFee,
			CreatorFee:    0,
			Timestamp:     now,
			Signature:     commitProof(launcher, tokenID, nextTxID, now),
		}
		return tx.Create(&record).Error
	})
	if err != nil {
		return nil, err
	}

	e.emit(tradeEvent(&record))
	return &record, nil
}
