package auction

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"math"
	"math/big"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	es "arta_auction_backend/internal/platform/elasticsearch"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeES struct {
	mu       sync.Mutex
	requests []string
	bodies   []string
	handler  func(w http.ResponseWriter, r *http.Request, body string)
}

func (f *fakeES) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	f.mu.Lock()
	f.requests = append(f.requests, r.Method+" "+r.URL.Path)
	f.bodies = append(f.bodies, string(body))
	f.mu.Unlock()

	w.Header().Set("X-Elastic-Product", "Elasticsearch")
	w.Header().Set("Content-Type", "application/json")
	f.handler(w, r, string(body))
}

func newFakeESIndex(t *testing.T, handler func(w http.ResponseWriter, r *http.Request, body string)) (SearchIndex, *fakeES) {
	t.Helper()
	fake := &fakeES{handler: handler}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	client, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{srv.URL}})
	require.NoError(t, err)
	return NewSearchIndex(&es.ESClientWrapper{Client: client}, zap.NewNop()), fake
}

func TestNewSearchIndex_NilClient(t *testing.T) {
	assert.Nil(t, NewSearchIndex(nil, zap.NewNop()))
}

func TestEnsureIndex_CreatesMissingIndex(t *testing.T) {
	idx, fake := newFakeESIndex(t, func(w http.ResponseWriter, r *http.Request, _ string) {
		if r.Method == http.MethodHead {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte(`{"acknowledged":true}`))
	})

	require.NoError(t, idx.EnsureIndex(context.Background()))
	assert.Equal(t, []string{"HEAD /auctions", "PUT /auctions"}, fake.requests)
	assert.Contains(t, fake.bodies[1], `"highest_bidder":{"type":"keyword"}`)
}

func TestEnsureIndex_ExistingIndexIsLeftAlone(t *testing.T) {
	idx, fake := newFakeESIndex(t, func(w http.ResponseWriter, _ *http.Request, _ string) {
		w.WriteHeader(http.StatusOK)
	})

	require.NoError(t, idx.EnsureIndex(context.Background()))
	assert.Equal(t, []string{"HEAD /auctions"}, fake.requests)
}

func TestIndexAuctions_WritesBulkBody(t *testing.T) {
	idx, fake := newFakeESIndex(t, func(w http.ResponseWriter, _ *http.Request, _ string) {
		_, _ = w.Write([]byte(`{"errors":false,"items":[]}`))
	})

	list := []Auction{
		{ID: 0, Item: "Vase", Slug: "vase-0", Seller: alice, HighestBid: big.NewInt(7), EndTime: testNow},
		{ID: 1, Item: "Lamp", Slug: "lamp-1", Seller: bob, EndTime: testNow},
	}
	require.NoError(t, idx.IndexAuctions(context.Background(), list, true))

	require.Len(t, fake.requests, 1)
	assert.Equal(t, "POST /_bulk", fake.requests[0])

	var lines []map[string]interface{}
	sc := bufio.NewScanner(strings.NewReader(fake.bodies[0]))
	for sc.Scan() {
		var m map[string]interface{}
		require.NoError(t, json.Unmarshal(sc.Bytes(), &m))
		lines = append(lines, m)
	}
	require.Len(t, lines, 4)
	assert.Equal(t, map[string]interface{}{"_index": "auctions", "_id": "0"}, lines[0]["index"])
	assert.Equal(t, "7", lines[1]["highest_bid_wei"])
	assert.Equal(t, "0", lines[3]["highest_bid_wei"])
}

func TestIndexAuctions_RejectedDocuments(t *testing.T) {
	idx, _ := newFakeESIndex(t, func(w http.ResponseWriter, _ *http.Request, _ string) {
		_, _ = w.Write([]byte(`{"errors":true,"items":[]}`))
	})
	err := idx.IndexAuctions(context.Background(), []Auction{{ID: 3}}, false)
	assert.ErrorContains(t, err, "rejected")
}

func TestIndexAuctions_EmptyListSkipsRequest(t *testing.T) {
	idx, fake := newFakeESIndex(t, func(w http.ResponseWriter, _ *http.Request, _ string) {})
	require.NoError(t, idx.IndexAuctions(context.Background(), nil, false))
	assert.Empty(t, fake.requests)
}

func TestSearch_DecodesHits(t *testing.T) {
	end := time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC)
	idx, fake := newFakeESIndex(t, func(w http.ResponseWriter, _ *http.Request, _ string) {
		_, _ = w.Write([]byte(`{"hits":{"total":{"value":12},"hits":[
			{"_source":{"id":4,"item":"Blue Vase","slug":"blue-vase-4","seller":"` + bob + `","highest_bidder":"","highest_bid_wei":"1500000000000000000","end_time":"2025-03-02T00:00:00Z","ended":false}}
		]}}`))
	})

	list, total, err := idx.Search(context.Background(), "Vase", 2, 5)
	require.NoError(t, err)
	assert.Equal(t, int64(12), total)
	require.Len(t, list, 1)
	assert.Equal(t, uint64(4), list[0].ID)
	assert.Equal(t, "blue-vase-4", list[0].Slug)
	assert.Equal(t, "1500000000000000000", list[0].HighestBid.String())
	assert.True(t, end.Equal(list[0].EndTime))

	assert.Equal(t, "POST /auctions/_search", fake.requests[0])
	var query map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(fake.bodies[0]), &query))
	assert.Equal(t, float64(5), query["from"])
	assert.Equal(t, float64(5), query["size"])
	assert.Contains(t, fake.bodies[0], `"prefix":{"slug":"vase"}`)
}

func TestSearch_ErrorStatus(t *testing.T) {
	idx, _ := newFakeESIndex(t, func(w http.ResponseWriter, _ *http.Request, _ string) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"bad query"}`))
	})
	_, _, err := idx.Search(context.Background(), "x", 1, 10)
	assert.ErrorContains(t, err, "400")
}

func TestSearch_PagePastResultWindow(t *testing.T) {
	idx, fake := newFakeESIndex(t, func(w http.ResponseWriter, _ *http.Request, _ string) {})
	_, _, err := idx.Search(context.Background(), "vase", math.MaxInt64, 10)
	assert.ErrorContains(t, err, "result window")
	assert.Empty(t, fake.requests)
}
