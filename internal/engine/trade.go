package engine

import (
	"gorm.io/gorm"

	"launchcontrol/internal/models"
	"launchcontrol/pkg/chain"
	"launchcontrol/pkg/curve"
)

// BuyParams describe one purchase. TokenCreator must match the stored
// creator so the fee recipient is bound to the record of truth, not to
// whatever the client claims. MinTokensOut of zero disables the slippage
// guard.
type BuyParams struct {
	TokenID      uint64
	SolAmount    uint64
	TokenCreator string
	MinTokensOut uint64
}

// SellParams mirror BuyParams for the sell side.
type SellParams struct {
	TokenID      uint64
	TokenAmount  uint64
	TokenCreator string
	MinSolOut    uint64
}

// BuyToken swaps the buyer's SOL for newly minted tokens along the curve.
// Fees are carved out of the incoming SOL before it enters the real
// reserves, so realSol grows by exactly solAmount - platformFee - creatorFee.
func (e *Engine) BuyToken(buyer string, params BuyParams) (*models.TradeRecord, error) {
	if buyer == "" {
		return nil, ErrInvalidSigner
	}

	unlock := e.lockToken(params.TokenID)
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
		token, err := loadToken(tx, params.TokenID)
		if err != nil {
			return err
		}
		if token.LaunchedToDex {
			return ErrTokenAlreadyLaunched
		}
		if !token.TradingActive {
			return ErrTradingNotActive
		}
		bc, err := loadCurve(tx, params.TokenID)
		if err != nil {
			return err
		}
		if !bc.Active {
			return ErrBondingCurveInactive
		}
		if params.TokenCreator != token.Creator {
			return ErrInvalidCreator
		}
		if params.SolAmount == 0 {
			return ErrInvalidPurchaseAmount
		}
		if params.SolAmount < MinTokenPurchase {
			return ErrPurchaseAmountTooSmall
		}
		if params.SolAmount > MaxTokenPurchase {
			return ErrPurchaseAmountTooLarge
		}
		if e.ledger.CurrencyBalance(buyer) < params.SolAmount {
			return ErrInsufficientSolBalance
		}

		reserves := curveReserves(bc)
		tokensOut, err := curve.QuoteBuy(reserves, params.SolAmount)
		if err != nil {
			return err
		}
		if params.MinTokensOut > 0 && tokensOut < params.MinTokensOut {
			return ErrSlippageExceeded
		}

		platformFee, err := curve.FeeAmount(params.SolAmount, state.PlatformFeeRate)
		if err != nil {
			return err
		}
		creatorFee, err := curve.FeeAmount(params.SolAmount, e.creatorFeeRate)
		if err != nil {
			return err
		}
		netSol, err := curve.CheckedSub(params.SolAmount, platformFee)
		if err != nil {
			return err
		}
		netSol, err = curve.CheckedSub(netSol, creatorFee)
		if err != nil {
			return err
		}

		// Effects. Balances were prechecked so these cannot partially fail.
		curveAccount := chain.CurveAddress(params.TokenID)
		if err := e.ledger.TransferCurrency(buyer, curveAccount, netSol); err != nil {
			return err
		}
		if platformFee > 0 {
			if err := e.ledger.TransferCurrency(buyer, chain.FeeVaultAddress(), platformFee); err != nil {
				return err
			}
		}
		if creatorFee > 0 {
			if err := e.ledger.TransferCurrency(buyer, token.Creator, creatorFee); err != nil {
				return err
			}
		}
		createdAccount, err := e.ledger.CreateAssociatedAccountIfMissing(buyer, token.Mint)
		if err != nil {
			return ErrTokenAccountCreationFailed
		}
		if err := e.ledger.MintUnits(token.Mint, tokensOut, buyer); err != nil {
			return err
		}

		// Reserve bookkeeping.
		now := e.now()
		if bc.RealSolReserves, err = curve.CheckedAdd(bc.RealSolReserves, netSol); err != nil {
			return err
		}
		if bc.RealTokenReserves, err = curve.CheckedSub(bc.RealTokenReserves, tokensOut); err != nil {
			return err
		}
		if bc.TotalSolVolume, err = curve.CheckedAdd(bc.TotalSolVolume, params.SolAmount); err != nil {
			return err
		}
		if bc.TotalTokenVolume, err = curve.CheckedAdd(bc.TotalTokenVolume, tokensOut); err != nil {
			return err
		}
		if bc.CurrentPrice, err = curve.Price(curveReserves(bc), token.Decimals); err != nil {
			return err
		}
		if bc.MarketCap, err = curve.MarketCap(bc.CurrentPrice, token.TotalSupply, token.Decimals); err != nil {
			return err
		}
		bc.LastUpdated = now
		if err := tx.Save(bc).Error; err != nil {
			return err
		}

		if token.CirculatingSupply, err = curve.CheckedAdd(token.CirculatingSupply, tokensOut); err != nil {
			return err
		}
		if token.TotalSolRaised, err = curve.CheckedAdd(token.TotalSolRaised, params.SolAmount); err != nil {
			return err
		}
		if token.CreatorFeesCollected, err = curve.CheckedAdd(token.CreatorFeesCollected, creatorFee); err != nil {
			return err
		}
		if createdAccount {
			token.HolderCount++
		}
		token.TransactionCount++
		if err := tx.Save(token).Error; err != nil {
			return err
		}

		if err := addFeesCollected(tx, platformFee); err != nil {
			return err
		}

		price, err := curve.ExecutionPrice(params.SolAmount, tokensOut, token.Decimals)
		if err != nil {
			return err
		}
		record = models.TradeRecord{
			TransactionID: token.TransactionCount,
			TokenID:       params.TokenID,
			User:          buyer,
			Kind:          models.TradeKindBuy,
			SolAmount:     params.SolAmount,
			TokenAmount:   tokensOut,
			Price:         price,
			PlatformFee:   platformFee,
			CreatorFee:    creatorFee,
			Timestamp:     now,
			Signature:     commitProof(buyer, params.TokenID, token.TransactionCount, now),
		}
		return tx.Create(&record).Error
	})
	if err != nil {
		return nil, err
	}

	e.emit(tradeEvent(&record))
	return &record, nil
}

// SellToken burns the seller's tokens and pays out SOL from the real
// reserves. Fees are carved out of the gross SOL output before the seller
// is credited; the curve's realSol drops by the full gross amount.
func (e *Engine) SellToken(seller string, params SellParams) (*models.TradeRecord, error) {
	if seller == "" {
		return nil, ErrInvalidSigner
	}

	unlock := e.lockToken(params.TokenID)
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
		token, err := loadToken(tx, params.TokenID)
		if err != nil {
			return err
		}
		if token.LaunchedToDex {
			return ErrTokenAlreadyLaunched
		}
		if !token.TradingActive {
			return ErrTradingNotActive
		}
		bc, err := loadCurve(tx, params.TokenID)
		if err != nil {
			return err
		}
		if !bc.Active {
			return ErrBondingCurveInactive
		}
		if params.TokenCreator != token.Creator {
			return ErrInvalidCreator
		}
		if params.TokenAmount == 0 {
			return ErrInvalidPurchaseAmount
		}
		if e.ledger.TokenBalance(seller, token.Mint) < params.TokenAmount {
			return ErrInsufficientTokenBalance
		}

		reserves := curveReserves(bc)
		solOut, err := curve.QuoteSell(reserves, params.TokenAmount)
		if err != nil {
			return err
		}

		platformFee, err := curve.FeeAmount(solOut, state.PlatformFeeRate)
		if err != nil {
			return err
		}
		creatorFee, err := curve.FeeAmount(solOut, e.creatorFeeRate)
		if err != nil {
			return err
		}
		netSolOut, err := curve.CheckedSub(solOut, platformFee)
		if err != nil {
			return err
		}
		netSolOut, err = curve.CheckedSub(netSolOut, creatorFee)
		if err != nil {
			return err
		}
		if params.MinSolOut > 0 && netSolOut < params.MinSolOut {
			return ErrSlippageExceeded
		}

		// Effects.
		if err := e.ledger.BurnUnits(token.Mint, params.TokenAmount, seller); err != nil {
			return err
		}
		curveAccount := chain.CurveAddress(params.TokenID)
		if err := e.ledger.TransferCurrency(curveAccount, seller, netSolOut); err != nil {
			return err
		}
		if platformFee > 0 {
			if err := e.ledger.TransferCurrency(curveAccount, chain.FeeVaultAddress(), platformFee); err != nil {
				return err
			}
		}
		if creatorFee > 0 {
			if err := e.ledger.TransferCurrency(curveAccount, token.Creator, creatorFee); err != nil {
				return err
			}
		}

		// Reserve bookkeeping.
		now := e.now()
		if bc.RealTokenReserves, err = curve.CheckedAdd(bc.RealTokenReserves, params.TokenAmount); err != nil {
			return err
		}
		if bc.RealSolReserves, err = curve.CheckedSub(bc.RealSolReserves, solOut); err != nil {
			return err
		}
		if bc.TotalSolVolume, err = curve.CheckedAdd(bc.TotalSolVolume, solOut); err != nil {
			return err
		}
		if bc.TotalTokenVolume, err = curve.CheckedAdd(bc.TotalTokenVolume, params.TokenAmount); err != nil {
			return err
		}
		if bc.CurrentPrice, err = curve.Price(curveReserves(bc), token.Decimals); err != nil {
			return err
		}
		if bc.MarketCap, err = curve.MarketCap(bc.CurrentPrice, token.TotalSupply, token.Decimals); err != nil {
			return err
		}
		bc.LastUpdated = now
		if err := tx.Save(bc).Error; err != nil {
			return err
		}

		if token.CirculatingSupply, err = curve.CheckedSub(token.CirculatingSupply, params.TokenAmount); err != nil {
			return err
		}
		if token.CreatorFeesCollected, err = curve.CheckedAdd(token.CreatorFeesCollected, creatorFee); err != nil {
			return err
		}
		token.TransactionCount++
		if err := tx.Save(token).Error; err != nil {
			return err
		}

		if err := addFeesCollected(tx, platformFee); err != nil {
			return err
		}

		price, err := curve.ExecutionPrice(solOut, params.TokenAmount, token.Decimals)
		if err != nil {
			return err
		}
		record = models.TradeRecord{
			TransactionID: token.TransactionCount,
			TokenID:       params.TokenID,
			User:          seller,
			Kind:          models.TradeKindSell,
			SolAmount:     solOut,
			TokenAmount:   params.TokenAmount,
			Price:         price,
			PlatformFee:   platformFee,
			CreatorFee:    creatorFee,
			Timestamp:     now,
			Signature:     commitProof(seller, params.TokenID, token.TransactionCount, now),
		}
		return tx.Create(&record).Error
	})
	if err != nil {
		return nil, err
	}

	e.emit(tradeEvent(&record))
	return &record, nil
}

func curveReserves(bc *models.BondingCurve) curve.Reserves {
	return curve.Reserves{
		VirtualSol:   bc.VirtualSolReserves,
		VirtualToken: bc.VirtualTokenReserves,
		RealSol:      bc.RealSolReserves,
		RealToken:    bc.RealTokenReserves,
	}
}

func tradeEvent(record *models.TradeRecord) TradeEvent {
	return TradeEvent{
		TokenID:       record.TokenID,
		TransactionID: record.TransactionID,
		User:          record.User,
		Kind:          record.Kind,
		SolAmount:     record.SolAmount,
		TokenAmount:   record.TokenAmount,
		Price:         record.Price,
		PlatformFee:   record.PlatformFee,
		CreatorFee:    record.CreatorFee,
		RecordAddress: chain.TradeAddress(record.User, record.TokenID, record.TransactionID),
		Timestamp:     record.Timestamp,
	}
}
