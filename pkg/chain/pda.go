package chain

import (
	"crypto/sha256"
	"encoding/binary"

	"github.com/gagliardetto/solana-go"
)

// Program identity used to derive deterministic record addresses. Any caller
// can compute an address without querying first; derivation is collision-free
// per (seed kind, id) tuple.
var programID = solana.MustPublicKeyFromBase58("5kFcUdsEqDFEnSoLK9JxLhdEuGfNmyu517FkrpBwDMen")

const (
	seedPlatformState = "platform_state"
	seedBondingCurve  = "bonding_curve"
	seedFeeVault      = "fee_vault"
	seedMint          = "mint"
	seedTrade         = "trade"
)

func deriveAddress(seeds [][]byte) string {
	addr, _, err := solana.FindProgramAddress(seeds, programID)
	if err != nil {
		// Derivation only fails if every bump is on-curve, which cannot
		// happen for all 256 bumps.
		panic(err)
	}
	return addr.String()
}

func tokenIDSeed(tokenID uint64) []byte {
	buf := make([]byte, 8)
	binary.LittleEndian.PutUint64(buf, tokenID)
	return buf
}

// StateAddress is the account holding platform-level funds.
func StateAddress() string {
	return deriveAddress([][]byte{[]byte(seedPlatformState)})
}

// FeeVaultAddress is the account platform fees accumulate in until withdrawn
// to the treasury.
func FeeVaultAddress() string {
	return deriveAddress([][]byte{[]byte(seedFeeVault)})
}

// CurveAddress is the account holding a token's real SOL reserves.
func CurveAddress(tokenID uint64) string {
	return deriveAddress([][]byte{[]byte(seedBondingCurve), tokenIDSeed(tokenID)})
}

// MintAddress is the token's mint account.
func MintAddress(tokenID uint64) string {
	return deriveAddress([][]byte{[]byte(seedMint), tokenIDSeed(tokenID)})
}

// TradeAddress keys a trade record by (user, token, sequence). Seeds are
// capped at 32 bytes, so the user id contributes its decoded key bytes, or a
// digest when it is not a valid public key.
func TradeAddress(user string, tokenID, txID uint64) string {
	userSeed := make([]byte, 32)
	if pk, err := solana.PublicKeyFromBase58(user); err == nil {
		copy(userSeed, pk.Bytes())
	} else {
		sum := sha256.Sum256([]byte(user))
		copy(userSeed, sum[:])
	}
	return deriveAddress([][]byte{
		[]byte(seedTrade),
		userSeed,
		tokenIDSeed(tokenID),
		tokenIDSeed(txID),
	})
}

// ValidAddress reports whether s parses as a base58 public key.
func ValidAddress(s string) bool {
	_, err := solana.PublicKeyFromBase58(s)
	return err == nil
}
