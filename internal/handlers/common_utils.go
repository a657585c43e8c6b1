package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"launchcontrol/internal/engine"
	"launchcontrol/pkg/curve"
)

// eng is the shared engine instance, set once at startup.
var eng *engine.Engine

// Init wires the handlers to an engine instance
func Init(e *engine.Engine) {
	eng = e
}

// statusForError maps engine errors to HTTP status codes. Unknown errors
// fall through to 500.
func statusForError(err error) int {
	switch {
	case errors.Is(err, engine.ErrTokenNotFound):
		return http.StatusNotFound
	case errors.Is(err, engine.ErrUnauthorized):
		return http.StatusForbidden
	case errors.Is(err, engine.ErrAlreadyInitialized),
		errors.Is(err, engine.ErrNotInitialized),
		errors.Is(err, engine.ErrTokenAlreadyLaunched),
		errors.Is(err, engine.ErrLaunchThresholdNotMet),
		errors.Is(err, engine.ErrLaunchCooldownActive),
		errors.Is(err, engine.ErrTradingNotActive),
		errors.Is(err, engine.ErrBondingCurveInactive),
		errors.Is(err, engine.ErrInvalidTransactionID):
		return http.StatusConflict
	case errors.Is(err, engine.ErrInvalidFeeRate),
		errors.Is(err, engine.ErrInvalidLaunchThreshold),
		errors.Is(err, engine.ErrTokenNameTooLong),
		errors.Is(err, engine.ErrTokenSymbolTooLong),
		errors.Is(err, engine.ErrTokenURITooLong),
		errors.Is(err, engine.ErrInvalidDecimals),
		errors.Is(err, engine.ErrInvalidInitialSupply),
		errors.Is(err, engine.ErrInvalidCreator),
		errors.Is(err, engine.ErrInvalidAccount),
		errors.Is(err, engine.ErrInvalidSigner),
		errors.Is(err, engine.ErrInvalidTokenAccount),
		errors.Is(err, engine.ErrInvalidPurchaseAmount),
		errors.Is(err, engine.ErrPurchaseAmountTooSmall),
		errors.Is(err, engine.ErrPurchaseAmountTooLarge),
		errors.Is(err, engine.ErrInsufficientSolBalance),
		errors.Is(err, engine.ErrInsufficientTokenBalance),
		errors.Is(err, engine.ErrInsufficientReserves),
		errors.Is(err, engine.ErrSlippageExceeded):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// abortWithEngineError writes the mapped status and error message
func abortWithEngineError(c *gin.Context, err error) {
	c.JSON(statusForError(err), gin.H{"error": err.Error()})
}

// QuoteRequest represents the request for a trade quote simulation
type QuoteRequest struct {
	TokenID uint64 `json:"token_id" binding:"required"`
	Amount  uint64 `json:"amount" binding:"required"`
}

// QuoteResponse represents the simulated trade output
type QuoteResponse struct {
	AmountOut   uint64 `json:"amount_out"`
	PlatformFee uint64 `json:"platform_fee"`
	CreatorFee  uint64 `json:"creator_fee"`
}

// SimulateBuyHandler quotes a buy without executing it. The fee split uses
// the current platform fee rate, so the numbers match what a real buy of
// the same size would settle.
func SimulateBuyHandler(c *gin.Context) {
	var req QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	bc, err := eng.Curve(req.TokenID)
	if err != nil {
		abortWithEngineError(c, err)
		return
	}
	state, err := eng.State()
	if err != nil {
		abortWithEngineError(c, err)
		return
	}

	reserves := curve.Reserves{
		VirtualSol:   bc.VirtualSolReserves,
		VirtualToken: bc.VirtualTokenReserves,
		RealSol:      bc.RealSolReserves,
		RealToken:    bc.RealTokenReserves,
	}
	tokensOut, err := curve.QuoteBuy(reserves, req.Amount)
	if err != nil {
		abortWithEngineError(c, err)
		return
	}
	platformFee, err := curve.FeeAmount(req.Amount, state.PlatformFeeRate)
	if err != nil {
		abortWithEngineError(c, err)
		return
	}
	creatorFee, err := curve.FeeAmount(req.Amount, eng.CreatorFeeRate())
	if err != nil {
		abortWithEngineError(c, err)
		return
	}

	c.JSON(http.StatusOK, QuoteResponse{
		AmountOut:   tokensOut,
		PlatformFee: platformFee,
		CreatorFee:  creatorFee,
	})
}

// SimulateSellHandler quotes a sell without executing it. Fees come out of
// the gross SOL output.
func SimulateSellHandler(c *gin.Context) {
	var req QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	bc, err := eng.Curve(req.TokenID)
	if err != nil {
		abortWithEngineError(c, err)
		return
	}
	state, err := eng.State()
	if err != nil {
		abortWithEngineError(c, err)
		return
	}

	reserves := curve.Reserves{
		VirtualSol:   bc.VirtualSolReserves,
		VirtualToken: bc.VirtualTokenReserves,
		RealSol:      bc.RealSolReserves,
		RealToken:    bc.RealTokenReserves,
	}
	solOut, err := curve.QuoteSell(reserves, req.Amount)
	if err != nil {
		abortWithEngineError(c, err)
		return
	}
	platformFee, err := curve.FeeAmount(solOut, state.PlatformFeeRate)
	if err != nil {
		abortWithEngineError(c, err)
		return
	}
	creatorFee, err := curve.FeeAmount(solOut, eng.CreatorFeeRate())
	if err != nil {
		abortWithEngineError(c, err)
		return
	}

	c.JSON(http.StatusOK, QuoteResponse{
		AmountOut:   solOut - platformFee - creatorFee,
		PlatformFee: platformFee,
		CreatorFee:  creatorFee,
	})
}
