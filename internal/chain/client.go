// Package chain holds the JSON-RPC connection, the operator key and the
// native-currency helpers shared by the auction module and the CLI.
package chain

import (
	"context"
	"fmt"
	"time"

	"arta_auction_backend/internal/config"

	"github.com/ethereum/go-ethereum/ethclient"
	"go.uber.org/zap"
)

const dialTimeout = 15 * time.Second

// NewClient dials CHAIN_RPC_URL and checks that the node serves CHAIN_ID.
func NewClient(cfg *config.Config, logger *zap.Logger) (*ethclient.Client, func(), error) {
	ctx, cancel := context.WithTimeout(context.Background(), dialTimeout)
	defer cancel()

	client, err := ethclient.DialContext(ctx, cfg.ChainRPCURL)
	if err != nil {
		return nil, nil, fmt.Errorf("dialing chain rpc %s: %w", cfg.ChainRPCURL, err)
	}

	chainID, err := client.ChainID(ctx)
	if err != nil {
		client.Close()
		return nil, nil, fmt.Errorf("fetching chain id: %w", err)
	}
	if chainID.Int64() != cfg.ChainID {
		client.Close()
		return nil, nil, fmt.Errorf("chain id mismatch: node reports %s, CHAIN_ID is %d", chainID, cfg.ChainID)
	}

	logger.Info("Connected to chain RPC",
		zap.String("url", cfg.ChainRPCURL),
		zap.Int64("chainID", cfg.ChainID),
	)

	cleanup := func() {
		logger.Info("Closing chain RPC connection...")
		client.Close()
	}
	return client, cleanup, nil
}
