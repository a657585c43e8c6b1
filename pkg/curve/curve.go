package curve

import (
	"errors"
	"math/bits"
)

// Quote and arithmetic failures. The engine re-exports these so callers can
// branch on a single package.
var (
	ErrArithmeticOverflow     = errors.New("arithmetic overflow")
	ErrArithmeticUnderflow    = errors.New("arithmetic underflow")
	ErrDivisionByZero         = errors.New("division by zero")
	ErrInvalidPurchaseAmount  = errors.New("invalid purchase amount")
	ErrPurchaseAmountTooSmall = errors.New("purchase amount too small")
	ErrPurchaseAmountTooLarge = errors.New("purchase amount too large")
	ErrInsufficientReserves   = errors.New("insufficient reserves")
)

// Reserves is the virtual+real reserve pair of one bonding curve.
// Virtual reserves are a non-withdrawable offset that shapes the initial
// price; only the real side is ever paid out.
type Reserves struct {
	VirtualSol   uint64
	VirtualToken uint64
	RealSol      uint64
	RealToken    uint64
}

// SolTotal returns virtual + real SOL reserves.
func (r Reserves) SolTotal() (uint64, error) {
	return checkedAdd(r.VirtualSol, r.RealSol)
}

// TokenTotal returns virtual + real token reserves.
func (r Reserves) TokenTotal() (uint64, error) {
	return checkedAdd(r.VirtualToken, r.RealToken)
}

// Price returns the spot price in lamports per whole token, scaled by the
// token's decimal precision: (solTotal * 10^decimals) / tokenTotal.
func Price(r Reserves, decimals uint8) (uint64, error) {
	solTotal, err := r.SolTotal()
	if err != nil {
		return 0, err
	}
	tokenTotal, err := r.TokenTotal()
	if err != nil {
		return 0, err
	}
	if tokenTotal == 0 {
		return 0, ErrDivisionByZero
	}
	return mulDiv(solTotal, pow10(decimals), tokenTotal)
}

// QuoteBuy returns the token output for solIn using the constant-product
// formula over virtual+real totals:
//
//	tokensOut = tokenTotal - k/(solTotal+solIn), k = solTotal*tokenTotal
//
// The curve can never sell more real tokens than it holds.
func QuoteBuy(r Reserves, solIn uint64) (uint64, error) {
	if solIn == 0 {
		return 0, ErrInvalidPurchaseAmount
	}
	solTotal, err := r.SolTotal()
	if err != nil {
		return 0, err
	}
	tokenTotal, err := r.TokenTotal()
	if err != nil {
		return 0, err
	}
	newSolTotal, err := checkedAdd(solTotal, solIn)
	if err != nil {
		return 0, err
	}
	// k/(solTotal+solIn) <= tokenTotal, so the quotient always fits in u64.
	remainder, err := mulDiv(solTotal, tokenTotal, newSolTotal)
	if err != nil {
		return 0, err
	}
	tokensOut := tokenTotal - remainder
	if tokensOut == 0 {
		return 0, ErrPurchaseAmountTooSmall
	}
	if tokensOut > r.RealToken {
		return 0, ErrPurchaseAmountTooLarge
	}
	return tokensOut, nil
}

// QuoteSell returns the SOL output for tokenIn, the inverse of QuoteBuy.
// The payout is capped by the real SOL the curve actually holds.
func QuoteSell(r Reserves, tokenIn uint64) (uint64, error) {
	if tokenIn == 0 {
		return 0, ErrInvalidPurchaseAmount
	}
	solTotal, err := r.SolTotal()
	if err != nil {
		return 0, err
	}
	tokenTotal, err := r.TokenTotal()
	if err != nil {
		return 0, err
	}
	newTokenTotal, err := checkedAdd(tokenTotal, tokenIn)
	if err != nil {
		return 0, err
	}
	remainder, err := mulDiv(solTotal, tokenTotal, newTokenTotal)
	if err != nil {
		return 0, err
	}
	solOut := solTotal - remainder
	if solOut == 0 {
		return 0, ErrInvalidPurchaseAmount
	}
	if solOut > r.RealSol {
		return 0, ErrInsufficientReserves
	}
	return solOut, nil
}

// MarketCap returns price * totalSupply scaled back down by the token's
// decimal precision.
func MarketCap(price, totalSupply uint64, decimals uint8) (uint64, error) {
	scale := pow10(decimals)
	if scale == 0 {
		return 0, ErrDivisionByZero
	}
	return mulDiv(price, totalSupply, scale)
}

// FeeAmount returns amount * rateBps / 10000 with a widened intermediate.
func FeeAmount(amount, rateBps uint64) (uint64, error) {
	return mulDiv(amount, rateBps, 10000)
}

// ExecutionPrice returns the effective per-whole-token price of a fill:
// solAmount * 10^decimals / tokenAmount. Zero token fills price at zero.
func ExecutionPrice(solAmount, tokenAmount uint64, decimals uint8) (uint64, error) {
	if tokenAmount == 0 {
		return 0, nil
	}
	return mulDiv(solAmount, pow10(decimals), tokenAmount)
}

// Progress returns realSol/threshold as a percentage clamped to [0,100].
func Progress(realSol, threshold uint64) uint64 {
	if threshold == 0 {
		return 100
	}
	pct, err := mulDiv(realSol, 100, threshold)
	if err != nil || pct > 100 {
		return 100
	}
	return pct
}

func checkedAdd(a, b uint64) (uint64, error) {
	sum, carry := bits.Add64(a, b, 0)
	if carry != 0 {
		return 0, ErrArithmeticOverflow
	}
	return sum, nil
}

// CheckedAdd is checkedAdd for callers outside the package.
func CheckedAdd(a, b uint64) (uint64, error) { return checkedAdd(a, b) }

// CheckedSub returns a-b, failing instead of wrapping below zero.
func CheckedSub(a, b uint64) (uint64, error) {
	diff, borrow := bits.Sub64(a, b, 0)
	if borrow != 0 {
		return 0, ErrArithmeticUnderflow
	}
	return diff, nil
}

// mulDiv computes a*b/c with a 128-bit intermediate product.
func mulDiv(a, b, c uint64) (uint64, error) {
	if c == 0 {
		return 0, ErrDivisionByZero
	}
	hi, lo := bits.Mul64(a, b)
	if hi >= c {
		return 0, ErrArithmeticOverflow
	}
	quo, _ := bits.Div64(hi, lo, c)
	return quo, nil
}

func pow10(decimals uint8) uint64 {
	result := uint64(1)
	for i := uint8(0); i < decimals && i < 19; i++ {
		result *= 10
	}
	return result
}
