package auction

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"time"

	"arta_auction_backend/internal/chain"
	"arta_auction_backend/internal/config"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"
)

const defaultTxWaitTimeout = 2 * time.Minute

// Backend is what ContractGateway needs from a node. *ethclient.Client satisfies it.
type Backend interface {
	bind.ContractBackend
	bind.DeployBackend
	BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error)
}

// ContractGateway implements Gateway over a go-ethereum bound contract.
type ContractGateway struct {
	address          common.Address
	abi              abi.ABI
	backend          Backend
	contract         *bind.BoundContract
	signer           *chain.Signer
	withdrawGasLimit uint64
	txTimeout        time.Duration
	logger           *zap.Logger
}

var _ Gateway = (*ContractGateway)(nil)

// NewContractGateway binds AUCTION_CONTRACT_ADDRESS. signer may be nil for read-only use.
func NewContractGateway(cfg *config.Config, backend Backend, signer *chain.Signer, logger *zap.Logger) (*ContractGateway, error) {
	if !common.IsHexAddress(cfg.AuctionContractAddress) {
		return nil, fmt.Errorf("AUCTION_CONTRACT_ADDRESS is not configured")
	}
	parsed, err := ParseABI()
	if err != nil {
		return nil, fmt.Errorf("parsing auction ABI: %w", err)
	}
	address := common.HexToAddress(cfg.AuctionContractAddress)

	txTimeout := cfg.TxWaitTimeout
	if txTimeout <= 0 {
		txTimeout = defaultTxWaitTimeout
	}

	g := &ContractGateway{
		address:          address,
		abi:              parsed,
		backend:          backend,
		contract:         bind.NewBoundContract(address, parsed, backend, backend, backend),
		signer:           signer,
		withdrawGasLimit: cfg.WithdrawGasLimit,
		txTimeout:        txTimeout,
		logger:           logger.Named("AuctionContract"),
	}
	if signer == nil {
		g.logger.Warn("No operator key configured; contract writes are disabled", zap.String("contract", address.Hex()))
	}
	return g, nil
}

func (g *ContractGateway) callOpts(ctx context.Context) *bind.CallOpts {
	opts := &bind.CallOpts{Context: ctx}
	if g.signer != nil {
		opts.From = g.signer.Address
	}
	return opts
}

// AuctionsCount calls getAuctionsCount.
func (g *ContractGateway) AuctionsCount(ctx context.Context) (uint64, error) {
	var out []interface{}
	if err := g.contract.Call(g.callOpts(ctx), &out, "getAuctionsCount"); err != nil {
		return 0, upstream("getAuctionsCount", err)
	}
	if len(out) != 1 {
		return 0, upstream("getAuctionsCount", fmt.Errorf("unexpected output length %d", len(out)))
	}
	count := *abi.ConvertType(out[0], new(*big.Int)).(**big.Int)
	if !count.IsUint64() {
		return 0, upstream("getAuctionsCount", fmt.Errorf("count %s out of range", count))
	}
	return count.Uint64(), nil
}

// Auction calls getAuction. A failed call for an index past the end is reported as ErrAuctionNotFound.
func (g *ContractGateway) Auction(ctx context.Context, id uint64) (*Auction, error) {
	var out []interface{}
	err := g.contract.Call(g.callOpts(ctx), &out, "getAuction", new(big.Int).SetUint64(id))
	if err != nil {
		if count, cerr := g.AuctionsCount(ctx); cerr == nil && id >= count {
			return nil, ErrAuctionNotFound.WithDetails(fmt.Sprintf("Auction %d does not exist.", id))
		}
		return nil, upstream("getAuction", err)
	}
	if len(out) != 6 {
		return nil, upstream("getAuction", fmt.Errorf("unexpected output length %d", len(out)))
	}

	seller := *abi.ConvertType(out[0], new(common.Address)).(*common.Address)
	item := cleanItemName(*abi.ConvertType(out[1], new(string)).(*string))
	endTime := *abi.ConvertType(out[2], new(*big.Int)).(**big.Int)
	highestBid := *abi.ConvertType(out[3], new(*big.Int)).(**big.Int)
	bidder := *abi.ConvertType(out[4], new(common.Address)).(*common.Address)
	ended := *abi.ConvertType(out[5], new(bool)).(*bool)
	if !endTime.IsInt64() {
		return nil, upstream("getAuction", fmt.Errorf("auction %d end time %s out of range", id, endTime))
	}

	return &Auction{
		ID:            id,
		Seller:        strings.ToLower(seller.Hex()),
		Item:          item,
		Slug:          makeSlug(id, item),
		EndTime:       time.Unix(endTime.Int64(), 0).UTC(),
		HighestBid:    highestBid,
		HighestBidder: strings.ToLower(bidder.Hex()),
		Ended:         ended,
	}, nil
}

// CreateAuction sends createAuction(name, seller, startingBid, duration, description).
func (g *ContractGateway) CreateAuction(ctx context.Context, p CreateParams) (*TxResult, error) {
	return g.transact(ctx, "createAuction", nil,
		p.Name, common.HexToAddress(p.Seller), p.StartingBid, p.Duration, p.Description)
}

// EstimateBid dry-runs bid(id) with value wei and returns the gas estimate.
func (g *ContractGateway) EstimateBid(ctx context.Context, id uint64, wei *big.Int) (uint64, error) {
	data, err := g.abi.Pack("bid", new(big.Int).SetUint64(id))
	if err != nil {
		return 0, fmt.Errorf("packing bid: %w", err)
	}
	msg := ethereum.CallMsg{To: &g.address, Value: wei, Data: data}
	if g.signer != nil {
		msg.From = g.signer.Address
	}
	gas, err := g.backend.EstimateGas(ctx, msg)
	if err != nil {
		return 0, fmt.Errorf("estimating bid gas: %w", err)
	}
	return gas, nil
}

// Bid sends bid(id) paying wei.
func (g *ContractGateway) Bid(ctx context.Context, id uint64, wei *big.Int) (*TxResult, error) {
	return g.transact(ctx, "bid", func(opts *bind.TransactOpts) {
		opts.Value = wei
	}, new(big.Int).SetUint64(id))
}

// SimulateWithdraw static-calls withdrawReturns(id) from the operator account.
func (g *ContractGateway) SimulateWithdraw(ctx context.Context, id uint64) error {
	if g.signer == nil {
		return ErrSignerUnavailable
	}
	data, err := g.abi.Pack("withdrawReturns", new(big.Int).SetUint64(id))
	if err != nil {
		return fmt.Errorf("packing withdrawReturns: %w", err)
	}
	msg := ethereum.CallMsg{From: g.signer.Address, To: &g.address, Data: data}
	if _, err := g.backend.CallContract(ctx, msg, nil); err != nil {
		return fmt.Errorf("simulating withdrawReturns: %w", err)
	}
	return nil
}

// Withdraw sends withdrawReturns(id) with the configured fixed gas limit.
func (g *ContractGateway) Withdraw(ctx context.Context, id uint64) (*TxResult, error) {
	return g.transact(ctx, "withdrawReturns", func(opts *bind.TransactOpts) {
		opts.GasLimit = g.withdrawGasLimit
	}, new(big.Int).SetUint64(id))
}

// EndAuction sends endAuction(id).
func (g *ContractGateway) EndAuction(ctx context.Context, id uint64) (*TxResult, error) {
	return g.transact(ctx, "endAuction", nil, new(big.Int).SetUint64(id))
}

// OperatorAddress returns the checksummed operator address, if a key is configured.
func (g *ContractGateway) OperatorAddress() (string, bool) {
	if g.signer == nil {
		return "", false
	}
	return g.signer.Address.Hex(), true
}

// OperatorBalance returns the operator's balance in wei at the latest block.
func (g *ContractGateway) OperatorBalance(ctx context.Context) (*big.Int, error) {
	if g.signer == nil {
		return nil, ErrSignerUnavailable
	}
	balance, err := g.backend.BalanceAt(ctx, g.signer.Address, nil)
	if err != nil {
		return nil, upstream("balance", err)
	}
	return balance, nil
}

func (g *ContractGateway) transact(ctx context.Context, method string, configure func(*bind.TransactOpts), args ...interface{}) (*TxResult, error) {
	if g.signer == nil {
		return nil, ErrSignerUnavailable
	}
	opts, err := g.signer.TransactOpts(ctx)
	if err != nil {
		return nil, err
	}
	if configure != nil {
		configure(opts)
	}

	tx, err := g.contract.Transact(opts, method, args...)
	if err != nil {
		if strings.Contains(err.Error(), "execution reverted") {
			return nil, ErrTxFailed.WithDetails(revertReason(err))
		}
		return nil, upstream(method, err)
	}
	g.logger.Info("Transaction sent", zap.String("method", method), zap.String("tx", tx.Hash().Hex()))

	return g.waitMined(ctx, method, tx)
}

func (g *ContractGateway) waitMined(ctx context.Context, method string, tx *types.Transaction) (*TxResult, error) {
	waitCtx, cancel := context.WithTimeout(ctx, g.txTimeout)
	defer cancel()

	receipt, err := bind.WaitMined(waitCtx, g.backend, tx)
	if err != nil {
		return nil, upstream("waiting for "+method, err)
	}

	result := &TxResult{Hash: tx.Hash().Hex(), GasUsed: receipt.GasUsed}
	if receipt.BlockNumber != nil {
		result.BlockNumber = receipt.BlockNumber.Uint64()
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		g.logger.Warn("Transaction reverted", zap.String("method", method), zap.String("tx", result.Hash))
		return nil, ErrTxReverted.WithDetails(result.Hash)
	}
	g.logger.Info("Transaction mined",
		zap.String("method", method),
		zap.String("tx", result.Hash),
		zap.Uint64("block", result.BlockNumber),
		zap.Uint64("gasUsed", result.GasUsed),
	)
	return result, nil
}
