package auction

import (
	"context"
	"math/big"
)

//go:generate mockgen -source=gateway.go -destination=mock_gateway_test.go -package=auction

// Gateway is the auction contract as seen by the service. Writes block until the
// transaction is mined.
type Gateway interface {
	AuctionsCount(ctx context.Context) (uint64, error)
	Auction(ctx context.Context, id uint64) (*Auction, error)
	CreateAuction(ctx context.Context, p CreateParams) (*TxResult, error)
	EstimateBid(ctx context.Context, id uint64, wei *big.Int) (uint64, error)
	Bid(ctx context.Context, id uint64, wei *big.Int) (*TxResult, error)
	SimulateWithdraw(ctx context.Context, id uint64) error
	Withdraw(ctx context.Context, id uint64) (*TxResult, error)
	EndAuction(ctx context.Context, id uint64) (*TxResult, error)
	OperatorAddress() (string, bool)
	OperatorBalance(ctx context.Context) (*big.Int, error)
}
