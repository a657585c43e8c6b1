package engine

import (
	"gorm.io/gorm"

	"launchcontrol/internal/models"
	"launchcontrol/pkg/chain"
	"launchcontrol/pkg/curve"
)

// CreateTokenParams are the creator-supplied token attributes.
type CreateTokenParams struct {
	Name          string
	Symbol        string
	URI           string
	Decimals      uint8
	InitialSupply uint64
}

// CreateToken issues a new token: assigns the next token id, registers the
// mint with the ledger, and seeds the bonding curve with the full initial
// supply on the token side and the virtual constants that set the opening
// price. No fee is charged on creation.
func (e *Engine) CreateToken(creator string, params CreateTokenParams) (*models.TokenInfo, *models.BondingCurve, error) {
	if creator == "" {
		return nil, nil, ErrInvalidSigner
	}
	if len(params.Name) > TokenNameMaxLen {
		return nil, nil, ErrTokenNameTooLong
	}
	if len(params.Symbol) > TokenSymbolMaxLen {
		return nil, nil, ErrTokenSymbolTooLong
	}
	if len(params.URI) > TokenURIMaxLen {
		return nil, nil, ErrTokenURITooLong
	}
	if params.Decimals > MaxDecimals {
		return nil, nil, ErrInvalidDecimals
	}
	if params.InitialSupply == 0 || params.InitialSupply > MaxTokenSupply {
		return nil, nil, ErrInvalidInitialSupply
	}

	// Token ids come off the platform counter; serialize creators.
	e.platformMu.Lock()
	defer e.platformMu.Unlock()

	var (
		token models.TokenInfo
		bc    models.BondingCurve
	)
	err := e.db.Transaction(func(tx *gorm.DB) error {
		state, err := loadState(tx)
		if err != nil {
			return err
		}
		if state.IsPaused {
			return ErrTradingNotActive
		}

		state.TokenCount++
		tokenID := state.TokenCount
		if err := tx.Save(state).Error; err != nil {
			return err
		}

		mint := chain.MintAddress(tokenID)
		curveAccount := chain.CurveAddress(tokenID)
		// Registers the mint; the curve account holds it with a zero
		// balance until buys start minting.
		if _, err := e.ledger.CreateAssociatedAccountIfMissing(curveAccount, mint); err != nil {
			return ErrTokenCreationFailed
		}

		now := e.now()
		reserves := curve.Reserves{
			VirtualSol:   InitialVirtualSolReserves,
			VirtualToken: InitialVirtualTokenReserves,
			RealSol:      0,
			RealToken:    params.InitialSupply,
		}
		price, err := curve.Price(reserves, params.Decimals)
		if err != nil {
			return err
		}
		marketCap, err := curve.MarketCap(price, params.InitialSupply, params.Decimals)
		if err != nil {
			return err
		}

		token = models.TokenInfo{
			TokenID:       tokenID,
			Mint:          mint,
			Creator:       creator,
			Name:          params.Name,
			Symbol:        params.Symbol,
			URI:           params.URI,
			Decimals:      params.Decimals,
			TotalSupply:   params.InitialSupply,
			TradingActive: true,
			CreatedAt:     now,
		}
		if err := tx.Create(&token).Error; err != nil {
			return err
		}

		bc = models.BondingCurve{
			TokenID:              tokenID,
			VirtualSolReserves:   reserves.VirtualSol,
			VirtualTokenReserves: reserves.VirtualToken,
			RealSolReserves:      0,
			RealTokenReserves:    reserves.RealToken,
			CurrentPrice:         price,
			MarketCap:            marketCap,
			Active:               true,
			LastUpdated:          now,
		}
		return tx.Create(&bc).Error
	})
	if err != nil {
		return nil, nil, err
	}
	return &token, &bc, nil
}
