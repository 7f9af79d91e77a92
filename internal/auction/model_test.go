package auction

import (
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAuction_ActiveAndExpired(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		a       Auction
		active  bool
		expired bool
	}{
		{name: "running", a: Auction{EndTime: now.Add(time.Minute)}, active: true},
		{name: "flagged ended", a: Auction{EndTime: now.Add(time.Minute), Ended: true}, expired: true},
		{name: "end time reached", a: Auction{EndTime: now}, expired: true},
		{name: "end time passed", a: Auction{EndTime: now.Add(-time.Second)}, expired: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.active, tt.a.IsActive(now))
			assert.Equal(t, tt.expired, tt.a.IsExpired(now))
			assert.NotEqual(t, tt.a.IsActive(now), tt.a.IsExpired(now))
		})
	}
}

func TestAuction_TimeLeft(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

	a := Auction{EndTime: now.Add(time.Hour + 5*time.Minute + 9*time.Second)}
	assert.Equal(t, "01h 05m 09s left", a.TimeLeft(now))

	a.EndTime = now.Add(50 * time.Hour)
	assert.Equal(t, "50h 00m 00s left", a.TimeLeft(now))

	a.EndTime = now
	assert.Equal(t, "Auction ended", a.TimeLeft(now))
}

func TestAuction_HasBidsAndStatus(t *testing.T) {
	now := time.Now()
	a := Auction{EndTime: now.Add(time.Hour)}
	assert.False(t, a.HasBids())
	assert.Equal(t, "active", a.Status(now))

	a.HighestBid = big.NewInt(1)
	a.Ended = true
	assert.True(t, a.HasBids())
	assert.Equal(t, "inactive", a.Status(now))
}

func TestItemNameAndSlug(t *testing.T) {
	assert.Equal(t, "Vintage Vase", cleanItemName("Vintage Vase\x00\x00\x00"))
	assert.Equal(t, "vintage-vase-3", makeSlug(3, "Vintage Vase"))
	assert.Equal(t, "auction-7", makeSlug(7, ""))
}

func TestToAuctionResponse(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	bid, _ := new(big.Int).SetString("1500000000000000000", 10)
	a := Auction{ID: 1, Item: "Lamp", EndTime: now.Add(90 * time.Second), HighestBid: bid}

	resp := ToAuctionResponse(&a, now)
	assert.Equal(t, "1.5", resp.HighestBid)
	assert.Equal(t, "1500000000000000000", resp.HighestBidWei)
	assert.True(t, resp.HasBids)
	assert.Equal(t, "active", resp.Status)
	assert.Equal(t, "00h 01m 30s left", resp.TimeLeft)

	empty := ToAuctionResponse(&Auction{EndTime: now}, now)
	assert.Equal(t, "0.0", empty.HighestBid)
	assert.Equal(t, "0", empty.HighestBidWei)
}
