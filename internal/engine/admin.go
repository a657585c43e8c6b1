package engine

import (
	"errors"

	"gorm.io/gorm"

	"launchcontrol/internal/models"
	"launchcontrol/pkg/chain"
)

// Initialize creates the singleton platform state with default settings and
// records the deployer as both authority and treasury. A second call is
// rejected and leaves the existing state untouched.
func (e *Engine) Initialize(deployer string) (*models.PlatformState, error) {
	if deployer == "" {
		return nil, ErrInvalidSigner
	}

	e.platformMu.Lock()
	defer e.platformMu.Unlock()

	var state models.PlatformState
	err := e.db.Transaction(func(tx *gorm.DB) error {
		var existing models.PlatformState
		err := tx.First(&existing).Error
		if err == nil {
			return ErrAlreadyInitialized
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		state = models.PlatformState{
			Initialized:     true,
			TokenCount:      0,
			PlatformFeeRate: DefaultPlatformFeeRate,
			LaunchThreshold: DefaultLaunchThreshold,
			Authority:       deployer,
			Treasury:        deployer,
			IsPaused:        false,
			InitializedAt:   e.now(),
		}
		return tx.Create(&state).Error
	})
	if err != nil {
		return nil, err
	}
	return &state, nil
}

// UpdatePlatformSettings atomically replaces the fee rate and launch
// threshold. Authority only.
func (e *Engine) UpdatePlatformSettings(authority string, newFeeRate, newLaunchThreshold uint64) (*models.PlatformState, error) {
	e.platformMu.Lock()
	defer e.platformMu.Unlock()

	var updated *models.PlatformState
	err := e.db.Transaction(func(tx *gorm.DB) error {
		state, err := loadState(tx)
		if err != nil {
			return err
		}
		if state.Authority != authority {
			return ErrUnauthorized
		}
		if newFeeRate > MaxPlatformFeeRate {
			return ErrInvalidFeeRate
		}
		if newLaunchThreshold < MinLaunchThreshold {
			return ErrInvalidLaunchThreshold
		}
		state.PlatformFeeRate = newFeeRate
		state.LaunchThreshold = newLaunchThreshold
		updated = state
		return tx.Save(state).Error
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// UpdateAuthority hands platform control to a new authority.
func (e *Engine) UpdateAuthority(currentAuthority, newAuthority string) error {
	if !chain.ValidAddress(newAuthority) {
		return ErrInvalidAccount
	}
	e.platformMu.Lock()
	defer e.platformMu.Unlock()

	return e.db.Transaction(func(tx *gorm.DB) error {
		state, err := loadState(tx)
		if err != nil {
			return err
		}
		if state.Authority != currentAuthority {
			return ErrUnauthorized
		}
		state.Authority = newAuthority
		return tx.Save(state).Error
	})
}

// UpdateTreasury changes where withdrawn platform fees are sent.
func (e *Engine) UpdateTreasury(authority, newTreasury string) error {
	if !chain.ValidAddress(newTreasury) {
		return ErrInvalidAccount
	}
	e.platformMu.Lock()
	defer e.platformMu.Unlock()

	return e.db.Transaction(func(tx *gorm.DB) error {
		state, err := loadState(tx)
		if err != nil {
			return err
		}
		if state.Authority != authority {
			return ErrUnauthorized
		}
		state.Treasury = newTreasury
		return tx.Save(state).Error
	})
}

// TogglePause flips the emergency pause flag. While paused, creation and
// every trading operation fail fast before touching any reserve.
func (e *Engine) TogglePause(authority string) (bool, error) {
	e.platformMu.Lock()
	defer e.platformMu.Unlock()

	var paused bool
	err := e.db.Transaction(func(tx *gorm.DB) error {
		state, err := loadState(tx)
		if err != nil {
			return err
		}
		if state.Authority != authority {
			return ErrUnauthorized
		}
		state.IsPaused = !state.IsPaused
		paused = state.IsPaused
		return tx.Save(state).Error
	})
	return paused, err
}

// WithdrawPlatformFees moves collected fees from the fee vault to the
// treasury. Authority only; bounded by the vault's actual balance.
func (e *Engine) WithdrawPlatformFees(authority string, amount uint64) error {
	e.platformMu.Lock()
	defer e.platformMu.Unlock()

	return e.db.Transaction(func(tx *gorm.DB) error {
		state, err := loadState(tx)
		if err != nil {
			return err
		}
		if state.Authority != authority {
			return ErrUnauthorized
		}
		vault := chain.FeeVaultAddress()
		if amount > e.ledger.CurrencyBalance(vault) {
			return ErrInsufficientSolBalance
		}
		return e.ledger.TransferCurrency(vault, state.Treasury, amount)
	})
}

// State returns the platform state record.
func (e *Engine) State() (*models.PlatformState, error) {
	return loadState(e.db)
}
