package auction

import (
	"fmt"
	"net/http"
	"strings"

	"arta_auction_backend/internal/common"
)

// Auction-specific API errors. They compare by code, so errors.Is holds after WithDetails.
var (
	ErrAuctionNotFound   = common.NewAPIError(http.StatusNotFound, "AUCTION_NOT_FOUND", "Auction does not exist.")
	ErrAuctionEnded      = common.NewAPIError(http.StatusConflict, "AUCTION_ENDED", "Auction has ended.")
	ErrInvalidAmount     = common.NewAPIError(http.StatusBadRequest, "INVALID_AMOUNT", "Bid amount must be a positive number.")
	ErrBidTooLow         = common.NewAPIError(http.StatusBadRequest, "BID_TOO_LOW", "Bid must be higher than the current highest bid.")
	ErrBidWouldFail      = common.NewAPIError(http.StatusUnprocessableEntity, "BID_WOULD_FAIL", "Bid transaction would fail.")
	ErrNoReturns         = common.NewAPIError(http.StatusConflict, "NO_RETURNS", "No returns to withdraw for this auction.")
	ErrTxFailed          = common.NewAPIError(http.StatusUnprocessableEntity, "TX_FAILED", "Transaction would fail.")
	ErrTxReverted        = common.NewAPIError(http.StatusBadGateway, "TX_REVERTED", "Transaction was mined but reverted.")
	ErrSignerUnavailable = common.NewAPIError(http.StatusServiceUnavailable, "SIGNER_UNAVAILABLE", "No operator key is configured; on-chain writes are disabled.")
	ErrChainUnavailable  = common.NewAPIError(http.StatusBadGateway, "CHAIN_UNAVAILABLE", "The blockchain node could not be reached.")
)

// upstream wraps an RPC failure that is not already an API error.
func upstream(op string, err error) error {
	if _, ok := common.IsAPIError(err); ok {
		return err
	}
	return ErrChainUnavailable.WithDetails(fmt.Sprintf("%s: %v", op, err))
}

// revertReason extracts the human-readable part of a node's revert error.
func revertReason(err error) string {
	msg := err.Error()
	if i := strings.Index(msg, "execution reverted"); i >= 0 {
		reason := strings.TrimSpace(strings.TrimPrefix(msg[i:], "execution reverted"))
		reason = strings.TrimSpace(strings.TrimPrefix(reason, ":"))
		if reason != "" {
			return reason
		}
		return "execution reverted"
	}
	return msg
}
