package auction

import (
	"fmt"
	"math/big"
	"strings"
	"time"

	"arta_auction_backend/internal/chain"

	"github.com/gosimple/slug"
)

// Status filters accepted by ListAuctions.
const (
	StatusLive = "live"
	StatusPast = "past"
	StatusAll  = "all"
)

// Auction is one on-chain auction record as returned by getAuction.
type Auction struct {
	ID            uint64
	Seller        string // lowercased hex
	Item          string
	Slug          string
	EndTime       time.Time
	HighestBid    *big.Int // wei
	HighestBidder string // lowercased hex
	Ended         bool
}

// IsActive reports whether bids are still accepted at now.
func (a *Auction) IsActive(now time.Time) bool {
	return !a.Ended && now.Before(a.EndTime)
}

// IsExpired is the complement of IsActive.
func (a *Auction) IsExpired(now time.Time) bool {
	return a.Ended || !a.EndTime.After(now)
}

func (a *Auction) HasBids() bool {
	return a.HighestBid != nil && a.HighestBid.Sign() > 0
}

func (a *Auction) Status(now time.Time) string {
	if a.IsActive(now) {
		return "active"
	}
	return "inactive"
}

// TimeLeft renders the countdown shown on auction cards, e.g. "01h 05m 09s left".
func (a *Auction) TimeLeft(now time.Time) string {
	diff := a.EndTime.Sub(now)
	if diff <= 0 {
		return "Auction ended"
	}
	secs := int64(diff / time.Second)
	return fmt.Sprintf("%02dh %02dm %02ds left", secs/3600, (secs%3600)/60, secs%60)
}

func (a *Auction) matches(status string, now time.Time) bool {
	switch status {
	case StatusLive:
		return a.IsActive(now)
	case StatusPast:
		return a.IsExpired(now)
	default:
		return true
	}
}

func cleanItemName(raw string) string {
	return strings.TrimRight(raw, "\x00")
}

func makeSlug(id uint64, item string) string {
	base := slug.Make(item)
	if base == "" {
		return fmt.Sprintf("auction-%d", id)
	}
	return fmt.Sprintf("%s-%d", base, id)
}

// --- DTOs ---

// ListFilter selects a page of auctions by status.
type ListFilter struct {
	Status   string
	Page     int
	PageSize int
}

// CreateAuctionRequest mirrors the admin form. StartingBid is in native units ("0.5").
type CreateAuctionRequest struct {
	Name            string `json:"name" binding:"required,notblank,max=200"`
	Seller          string `json:"seller" binding:"required,eth_addr"`
	StartingBid     string `json:"starting_bid" binding:"required"`
	DurationSeconds uint64 `json:"duration_seconds" binding:"required,gte=1"`
	Description     string `json:"description" binding:"required,notblank"`
}

// CreateParams is a validated CreateAuctionRequest in contract units.
type CreateParams struct {
	Name        string
	Seller      string
	StartingBid *big.Int
	Duration    *big.Int
	Description string
}

// PlaceBidRequest carries a bid amount in native units.
type PlaceBidRequest struct {
	Amount string `json:"amount" binding:"required"`
}

// BidCheck is the outcome of a successful pre-flight bid check.
type BidCheck struct {
	AuctionID  uint64 `json:"auction_id"`
	Amount     string `json:"amount"`
	HighestBid string `json:"highest_bid"`
	MinNextBid string `json:"min_next_bid"`
	Symbol     string `json:"symbol"`
	TimeLeft   string `json:"time_left"`
}

// TxResult describes a mined transaction.
type TxResult struct {
	Hash        string `json:"tx_hash"`
	BlockNumber uint64 `json:"block_number"`
	GasUsed     uint64 `json:"gas_used"`
}

// WalletStats summarises one wallet's activity across the snapshot.
type WalletStats struct {
	Participated int `json:"participated"`
	Won          int `json:"won"`
	Leading      int `json:"leading"`
	Selling      int `json:"selling"`
}

// OperatorWallet is the server's signing account.
type OperatorWallet struct {
	Address    string `json:"address"`
	BalanceWei string `json:"balance_wei"`
	Balance    string `json:"balance"`
	Symbol     string `json:"symbol"`
}

// AuctionResponse is the API view of an auction at a given instant.
type AuctionResponse struct {
	ID            uint64    `json:"id"`
	Seller        string    `json:"seller"`
	Item          string    `json:"item"`
	Slug          string    `json:"slug"`
	EndTime       time.Time `json:"end_time"`
	HighestBid    string    `json:"highest_bid"`
	HighestBidWei string    `json:"highest_bid_wei"`
	HighestBidder string    `json:"highest_bidder"`
	HasBids       bool      `json:"has_bids"`
	Ended         bool      `json:"ended"`
	Status        string    `json:"status"`
	TimeLeft      string    `json:"time_left"`
}

// ToAuctionResponse converts an Auction to its API view.
func ToAuctionResponse(a *Auction, now time.Time) AuctionResponse {
	wei := "0"
	if a.HighestBid != nil {
		wei = a.HighestBid.String()
	}
	return AuctionResponse{
		ID:            a.ID,
		Seller:        a.Seller,
		Item:          a.Item,
		Slug:          a.Slug,
		EndTime:       a.EndTime,
		HighestBid:    chain.FormatEther(a.HighestBid),
		HighestBidWei: wei,
		HighestBidder: a.HighestBidder,
		HasBids:       a.HasBids(),
		Ended:         a.Ended,
		Status:        a.Status(now),
		TimeLeft:      a.TimeLeft(now),
	}
}

func ToAuctionResponses(list []Auction, now time.Time) []AuctionResponse {
	out := make([]AuctionResponse, 0, len(list))
	for i := range list {
		out = append(out, ToAuctionResponse(&list[i], now))
	}
	return out
}
