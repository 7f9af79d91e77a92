package chain

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"strings"

	"arta_auction_backend/internal/config"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// Signer holds the operator key used for server-side writes.
type Signer struct {
	key     *ecdsa.PrivateKey
	chainID *big.Int
	Address common.Address
}

// NewSigner parses OPERATOR_PRIVATE_KEY. It returns nil, nil when no key is configured,
// which leaves the server read-only.
func NewSigner(cfg *config.Config) (*Signer, error) {
	raw := strings.TrimSpace(cfg.OperatorPrivateKey)
	if raw == "" {
		return nil, nil
	}
	return NewSignerFromHex(raw, big.NewInt(cfg.ChainID))
}

// NewSignerFromHex builds a signer from a hex private key, with or without 0x.
func NewSignerFromHex(hexKey string, chainID *big.Int) (*Signer, error) {
	key, err := crypto.HexToECDSA(strings.TrimPrefix(strings.TrimSpace(hexKey), "0x"))
	if err != nil {
		return nil, fmt.Errorf("invalid operator private key: %w", err)
	}
	return &Signer{
		key:     key,
		chainID: new(big.Int).Set(chainID),
		Address: crypto.PubkeyToAddress(key.PublicKey),
	}, nil
}

// TransactOpts returns fresh transaction options bound to ctx.
func (s *Signer) TransactOpts(ctx context.Context) (*bind.TransactOpts, error) {
	opts, err := bind.NewKeyedTransactorWithChainID(s.key, s.chainID)
	if err != nil {
		return nil, fmt.Errorf("building transactor: %w", err)
	}
	opts.Context = ctx
	return opts, nil
}
