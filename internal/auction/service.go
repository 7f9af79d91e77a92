package auction

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"time"

	"arta_auction_backend/internal/chain"
	"arta_auction_backend/internal/common"
	"arta_auction_backend/internal/config"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

const (
	defaultMinBidIncrement = "0.0001"
	refreshKey             = "refresh"
	refreshTimeout         = 2 * time.Minute
)

// Service defines the auction operations exposed to handlers, jobs and the CLI.
type Service interface {
	ListAuctions(ctx context.Context, filter ListFilter) ([]Auction, *common.Pagination, error)
	RefreshAuctions(ctx context.Context) ([]Auction, error)
	GetAuction(ctx context.Context, id uint64) (*Auction, error)
	CheckBid(ctx context.Context, id uint64, amount string) (*BidCheck, error)
	PlaceBid(ctx context.Context, id uint64, amount string) (*TxResult, error)
	WithdrawReturns(ctx context.Context, id uint64) (*TxResult, error)
	CreateAuction(ctx context.Context, req CreateAuctionRequest) (*TxResult, error)
	EndAuction(ctx context.Context, id uint64) (*TxResult, error)
	SearchAuctions(ctx context.Context, q string, page, pageSize int) ([]Auction, *common.Pagination, error)
	WalletStats(ctx context.Context, address string) (WalletStats, error)
	CountActive(ctx context.Context) (int, error)
	OperatorWallet(ctx context.Context) (*OperatorWallet, error)
}

// ServiceImplementation implements Service.
type ServiceImplementation struct {
	gateway      Gateway
	cache        *Cache
	index        SearchIndex
	refreshGroup singleflight.Group
	concurrency  int
	minIncrement *big.Int
	symbol       string
	now          func() time.Time
	logger       *zap.Logger
}

var _ Service = (*ServiceImplementation)(nil)

// NewService creates the auction service. index may be nil.
func NewService(gateway Gateway, cache *Cache, index SearchIndex, cfg *config.Config, logger *zap.Logger) *ServiceImplementation {
	log := logger.Named("AuctionService")

	increment, err := chain.ParseEther(cfg.MinBidIncrement)
	if err != nil {
		log.Warn("Invalid MIN_BID_INCREMENT, using default",
			zap.String("value", cfg.MinBidIncrement), zap.String("default", defaultMinBidIncrement), zap.Error(err))
		increment, _ = chain.ParseEther(defaultMinBidIncrement)
	}

	concurrency := cfg.AuctionFetchConcurrency
	if concurrency <= 0 {
		concurrency = 1
	}

	return &ServiceImplementation{
		gateway:      gateway,
		cache:        cache,
		index:        index,
		concurrency:  concurrency,
		minIncrement: increment,
		symbol:       cfg.NativeSymbol,
		now:          time.Now,
		logger:       log,
	}
}

// ListAuctions returns one page of the cached snapshot filtered by status.
func (s *ServiceImplementation) ListAuctions(ctx context.Context, filter ListFilter) ([]Auction, *common.Pagination, error) {
	status := strings.ToLower(strings.TrimSpace(filter.Status))
	switch status {
	case "":
		status = StatusAll
	case StatusLive, StatusPast, StatusAll:
	default:
		return nil, nil, common.ErrBadRequest.WithDetails(fmt.Sprintf("Unknown status %q; use live, past or all.", filter.Status))
	}

	all, err := s.snapshot(ctx)
	if err != nil {
		return nil, nil, err
	}

	now := s.now()
	filtered := make([]Auction, 0, len(all))
	for i := range all {
		if all[i].matches(status, now) {
			filtered = append(filtered, all[i])
		}
	}

	start, end := common.PageBounds(len(filtered), filter.Page, filter.PageSize)
	return filtered[start:end], common.NewPagination(int64(len(filtered)), filter.Page, filter.PageSize), nil
}

// RefreshAuctions re-reads every auction from the contract and replaces the snapshot.
// Concurrent callers share one refresh. On failure the previous snapshot stays in place.
// The shared read is not tied to any one caller: a caller that gives up only stops waiting.
func (s *ServiceImplementation) RefreshAuctions(ctx context.Context) ([]Auction, error) {
	ch := s.refreshGroup.DoChan(refreshKey, func() (interface{}, error) {
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), refreshTimeout)
		defer cancel()
		return s.fetchAll(fetchCtx)
	})

	var res singleflight.Result
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res = <-ch:
	}
	if res.Err != nil {
		return nil, res.Err
	}
	list := res.Val.([]Auction)
	if res.Shared {
		s.logger.Debug("Joined in-flight auction refresh", zap.Int("count", len(list)))
	}
	out := make([]Auction, len(list))
	copy(out, list)
	return out, nil
}

func (s *ServiceImplementation) fetchAll(ctx context.Context) ([]Auction, error) {
	start := time.Now()
	gen := s.cache.Generation()
	count, err := s.gateway.AuctionsCount(ctx)
	if err != nil {
		return nil, err
	}

	results := make([]Auction, count)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i := uint64(0); i < count; i++ {
		id := i
		g.Go(func() error {
			a, err := s.gateway.Auction(gctx, id)
			if err != nil {
				return err
			}
			results[id] = *a
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		s.logger.Warn("Auction refresh failed; keeping previous snapshot", zap.Error(err))
		return nil, err
	}

	if !s.cache.StoreIfCurrent(results, gen) {
		s.logger.Debug("Auction snapshot went stale during refresh; not caching it", zap.Uint64("count", count))
		return results, nil
	}
	s.logger.Debug("Auction snapshot refreshed",
		zap.Uint64("count", count),
		zap.Duration("took", time.Since(start)),
	)
	return results, nil
}

func (s *ServiceImplementation) snapshot(ctx context.Context) ([]Auction, error) {
	if list, ok := s.cache.Snapshot(); ok {
		return list, nil
	}
	return s.RefreshAuctions(ctx)
}

// GetAuction reads a single auction straight from the contract.
func (s *ServiceImplementation) GetAuction(ctx context.Context, id uint64) (*Auction, error) {
	return s.gateway.Auction(ctx, id)
}

// CheckBid applies the pre-flight bid rules without sending anything.
func (s *ServiceImplementation) CheckBid(ctx context.Context, id uint64, amount string) (*BidCheck, error) {
	check, _, err := s.checkBid(ctx, id, amount)
	return check, err
}

func (s *ServiceImplementation) checkBid(ctx context.Context, id uint64, amount string) (*BidCheck, *big.Int, error) {
	a, err := s.gateway.Auction(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	now := s.now()
	if a.IsExpired(now) {
		return nil, nil, ErrAuctionEnded.WithDetails("Cannot bid: auction has ended.")
	}

	wei, err := chain.ParseEther(amount)
	if err != nil || wei.Sign() <= 0 {
		return nil, nil, ErrInvalidAmount.WithDetails("Please enter a valid bid amount.")
	}

	highest := a.HighestBid
	if highest == nil {
		highest = new(big.Int)
	}
	if wei.Cmp(highest) <= 0 {
		return nil, nil, ErrBidTooLow.WithDetails(fmt.Sprintf("Bid must be higher than current highest bid of %s %s.",
			chain.FormatEther(highest), s.symbol))
	}

	return &BidCheck{
		AuctionID:  id,
		Amount:     chain.FormatEther(wei),
		HighestBid: chain.FormatEther(highest),
		MinNextBid: chain.FormatEther(new(big.Int).Add(highest, s.minIncrement)),
		Symbol:     s.symbol,
		TimeLeft:   a.TimeLeft(now),
	}, wei, nil
}

// PlaceBid checks, gas-estimates and then sends a bid from the operator account.
func (s *ServiceImplementation) PlaceBid(ctx context.Context, id uint64, amount string) (*TxResult, error) {
	_, wei, err := s.checkBid(ctx, id, amount)
	if err != nil {
		return nil, err
	}

	if _, err := s.gateway.EstimateBid(ctx, id, wei); err != nil {
		s.logger.Warn("Bid gas estimation failed", zap.Uint64("auctionID", id), zap.Error(err))
		return nil, ErrBidWouldFail.WithDetails(revertReason(err))
	}

	result, err := s.gateway.Bid(ctx, id, wei)
	if err != nil {
		return nil, err
	}
	s.cache.Invalidate()
	s.logger.Info("Bid placed", zap.Uint64("auctionID", id), zap.String("amount", amount), zap.String("tx", result.Hash))
	return result, nil
}

// WithdrawReturns simulates first so a pointless withdrawal never costs gas.
func (s *ServiceImplementation) WithdrawReturns(ctx context.Context, id uint64) (*TxResult, error) {
	if err := s.gateway.SimulateWithdraw(ctx, id); err != nil {
		if _, ok := common.IsAPIError(err); ok {
			return nil, err
		}
		reason := revertReason(err)
		if strings.Contains(reason, "No returns") {
			return nil, ErrNoReturns
		}
		return nil, ErrTxFailed.WithDetails(reason)
	}

	result, err := s.gateway.Withdraw(ctx, id)
	if err != nil {
		return nil, err
	}
	s.logger.Info("Returns withdrawn", zap.Uint64("auctionID", id), zap.String("tx", result.Hash))
	return result, nil
}

// CreateAuction validates the form and sends createAuction.
func (s *ServiceImplementation) CreateAuction(ctx context.Context, req CreateAuctionRequest) (*TxResult, error) {
	params, err := validateCreate(req)
	if err != nil {
		return nil, err
	}

	result, err := s.gateway.CreateAuction(ctx, *params)
	if err != nil {
		return nil, err
	}
	s.cache.Invalidate()
	s.logger.Info("Auction created", zap.String("name", params.Name), zap.String("seller", params.Seller), zap.String("tx", result.Hash))
	return result, nil
}

func validateCreate(req CreateAuctionRequest) (*CreateParams, error) {
	details := map[string]string{}
	name := strings.TrimSpace(req.Name)
	description := strings.TrimSpace(req.Description)
	seller := strings.TrimSpace(req.Seller)

	if name == "" {
		details["name"] = "This field is required."
	}
	if description == "" {
		details["description"] = "This field is required."
	}
	if !common.IsWalletAddress(seller) {
		details["seller"] = "Seller address is invalid."
	}
	startingBid, err := chain.ParseEther(req.StartingBid)
	if err != nil {
		details["starting_bid"] = "Starting bid must be a non-negative amount."
	}
	if req.DurationSeconds < 1 {
		details["duration_seconds"] = "Duration must be at least 1 second."
	}
	if len(details) > 0 {
		return nil, common.NewValidationAPIError(details)
	}

	return &CreateParams{
		Name:        name,
		Seller:      seller,
		StartingBid: startingBid,
		Duration:    new(big.Int).SetUint64(req.DurationSeconds),
		Description: description,
	}, nil
}

// EndAuction closes an auction that has not been flagged as ended yet.
func (s *ServiceImplementation) EndAuction(ctx context.Context, id uint64) (*TxResult, error) {
	a, err := s.gateway.Auction(ctx, id)
	if err != nil {
		return nil, err
	}
	if a.Ended {
		return nil, ErrAuctionEnded.WithDetails("Auction is already ended.")
	}

	result, err := s.gateway.EndAuction(ctx, id)
	if err != nil {
		return nil, err
	}
	s.cache.Invalidate()
	s.logger.Info("Auction ended", zap.Uint64("auctionID", id), zap.String("tx", result.Hash))
	return result, nil
}

// SearchAuctions uses the search index when available and falls back to a
// substring scan of the snapshot.
func (s *ServiceImplementation) SearchAuctions(ctx context.Context, q string, page, pageSize int) ([]Auction, *common.Pagination, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return nil, nil, common.ErrBadRequest.WithDetails("Search query 'q' is required.")
	}
	if page <= 0 {
		page = common.DefaultPage
	}
	if pageSize <= 0 {
		pageSize = common.DefaultPageSize
	}

	if s.index != nil {
		list, total, err := s.index.Search(ctx, q, page, pageSize)
		if err == nil {
			return list, common.NewPagination(total, page, pageSize), nil
		}
		s.logger.Warn("Search index query failed; scanning snapshot instead", zap.Error(err))
	}

	all, err := s.snapshot(ctx)
	if err != nil {
		return nil, nil, err
	}
	needle := strings.ToLower(q)
	matched := make([]Auction, 0)
	for i := range all {
		if strings.Contains(strings.ToLower(all[i].Item), needle) || strings.Contains(all[i].Seller, needle) {
			matched = append(matched, all[i])
		}
	}
	start, end := common.PageBounds(len(matched), page, pageSize)
	return matched[start:end], common.NewPagination(int64(len(matched)), page, pageSize), nil
}

// WalletStats counts a wallet's auctions in the snapshot.
func (s *ServiceImplementation) WalletStats(ctx context.Context, address string) (WalletStats, error) {
	var stats WalletStats
	if !common.IsWalletAddress(address) {
		return stats, common.ErrBadRequest.WithDetails("Invalid wallet address.")
	}
	addr := common.NormalizeWalletAddress(address)

	all, err := s.snapshot(ctx)
	if err != nil {
		return stats, err
	}
	now := s.now()
	for i := range all {
		a := &all[i]
		active := a.IsActive(now)
		if a.HighestBidder == addr && a.HasBids() {
			if active {
				stats.Leading++
			} else {
				stats.Won++
			}
		}
		if a.Seller == addr && active {
			stats.Selling++
		}
	}
	stats.Participated = stats.Leading + stats.Won
	return stats, nil
}

// CountActive returns how many auctions in the snapshot still accept bids.
func (s *ServiceImplementation) CountActive(ctx context.Context) (int, error) {
	all, err := s.snapshot(ctx)
	if err != nil {
		return 0, err
	}
	now := s.now()
	n := 0
	for i := range all {
		if all[i].IsActive(now) {
			n++
		}
	}
	return n, nil
}

// OperatorWallet reports the signing account and its balance.
func (s *ServiceImplementation) OperatorWallet(ctx context.Context) (*OperatorWallet, error) {
	address, ok := s.gateway.OperatorAddress()
	if !ok {
		return nil, ErrSignerUnavailable
	}
	balance, err := s.gateway.OperatorBalance(ctx)
	if err != nil {
		return nil, err
	}
	return &OperatorWallet{
		Address:    address,
		BalanceWei: balance.String(),
		Balance:    chain.FormatEther(balance),
		Symbol:     s.symbol,
	}, nil
}
