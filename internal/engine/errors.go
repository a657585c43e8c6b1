package engine

import (
	"errors"

	"launchcontrol/pkg/curve"
)

// One stable error kind per guard so integrators can branch on cause with
// errors.Is. None of these are retried internally; every operation
// validates, then commits or aborts.
var (
	// Configuration.
	ErrAlreadyInitialized     = errors.New("platform already initialized")
	ErrNotInitialized         = errors.New("platform not initialized")
	ErrInvalidFeeRate         = errors.New("invalid fee rate")
	ErrInvalidLaunchThreshold = errors.New("invalid launch threshold")

	// Input validation.
	ErrTokenNameTooLong     = errors.New("token name too long")
	ErrTokenSymbolTooLong   = errors.New("token symbol too long")
	ErrTokenURITooLong      = errors.New("token uri too long")
	ErrInvalidDecimals      = errors.New("invalid decimals value")
	ErrInvalidInitialSupply = errors.New("invalid initial supply")

	// State / identity mismatch.
	ErrTokenNotFound        = errors.New("token not found")
	ErrInvalidCreator       = errors.New("invalid creator")
	ErrInvalidAccount       = errors.New("invalid account")
	ErrInvalidSigner        = errors.New("invalid signer")
	ErrInvalidTokenAccount  = errors.New("invalid token account")
	ErrInvalidTransactionID = errors.New("invalid transaction id")

	// Economic guards.
	ErrInsufficientSolBalance   = errors.New("insufficient sol balance")
	ErrInsufficientTokenBalance = errors.New("insufficient token balance")
	ErrBondingCurveInactive     = errors.New("bonding curve inactive")
	ErrTradingNotActive         = errors.New("trading not active")
	ErrTokenAlreadyLaunched     = errors.New("token already launched to dex")
	ErrLaunchThresholdNotMet    = errors.New("launch threshold not met")
	ErrLaunchCooldownActive     = errors.New("launch cooldown period not elapsed")
	ErrSlippageExceeded         = errors.New("slippage tolerance exceeded")

	// External effects.
	ErrTokenCreationFailed        = errors.New("token creation failed")
	ErrTokenAccountCreationFailed = errors.New("token account creation failed")

	// Authorization.
	ErrUnauthorized = errors.New("unauthorized operation")
)

// Arithmetic and quote kinds originate in the curve math; re-exported so
// callers branch on one package.
var (
	ErrArithmeticOverflow     = curve.ErrArithmeticOverflow
	ErrArithmeticUnderflow    = curve.ErrArithmeticUnderflow
	ErrDivisionByZero         = curve.ErrDivisionByZero
	ErrInvalidPurchaseAmount  = curve.ErrInvalidPurchaseAmount
	ErrPurchaseAmountTooSmall = curve.ErrPurchaseAmountTooSmall
	ErrPurchaseAmountTooLarge = curve.ErrPurchaseAmountTooLarge
	ErrInsufficientReserves   = curve.ErrInsufficientReserves
)
