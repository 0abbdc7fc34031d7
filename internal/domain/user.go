package domain

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	WalletTypeMetamask      = "metamask"
	WalletTypeWalletConnect = "walletconnect"
	WalletTypeCoinbase      = "coinbase"

	DefaultChainID = 1
)

var walletAddressRe = regexp.MustCompile(`^0x[0-9a-f]{40}$`)

// User is the wallet identity that owns linked platforms.
type User struct {
	ID            uuid.UUID `json:"id"`
	WalletAddress string    `json:"wallet_address"`
	ChainID       int       `json:"chain_id"`
	WalletType    string    `json:"wallet_type"`
	IsActive      bool      `json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// NormalizeWallet lower-cases and validates an EVM address.
func NormalizeWallet(address string) (string, error) {
	a := strings.ToLower(strings.TrimSpace(address))
	if !walletAddressRe.MatchString(a) {
		return "", fmt.Errorf("invalid wallet address %q", address)
	}
	return a, nil
}

func IsValidWalletType(t string) bool {
	switch t {
	case WalletTypeMetamask, WalletTypeWalletConnect, WalletTypeCoinbase:
		return true
	default:
		return false
	}
}
