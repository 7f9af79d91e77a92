package auction

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"time"

	es "arta_auction_backend/internal/platform/elasticsearch"

	"github.com/elastic/go-elasticsearch/v8/esapi"
	"go.uber.org/zap"
)

// maxResultWindow is Elasticsearch's default index.max_result_window.
const maxResultWindow = 10000

// SearchIndex is a full-text index over the auction snapshot.
type SearchIndex interface {
	EnsureIndex(ctx context.Context) error
	IndexAuctions(ctx context.Context, list []Auction, refresh bool) error
	Search(ctx context.Context, q string, page, pageSize int) ([]Auction, int64, error)
}

// ESSearchIndex implements SearchIndex on Elasticsearch.
type ESSearchIndex struct {
	client *es.ESClientWrapper
	index  string
	logger *zap.Logger
}

// NewSearchIndex returns nil when no Elasticsearch client is configured.
func NewSearchIndex(client *es.ESClientWrapper, logger *zap.Logger) SearchIndex {
	if client == nil {
		return nil
	}
	return &ESSearchIndex{client: client, index: es.AuctionsIndexName, logger: logger.Named("AuctionSearch")}
}

type auctionDoc struct {
	ID            uint64    `json:"id"`
	Item          string    `json:"item"`
	Slug          string    `json:"slug"`
	Seller        string    `json:"seller"`
	HighestBidder string    `json:"highest_bidder"`
	HighestBidWei string    `json:"highest_bid_wei"`
	EndTime       time.Time `json:"end_time"`
	Ended         bool      `json:"ended"`
}

func toDoc(a *Auction) auctionDoc {
	wei := "0"
	if a.HighestBid != nil {
		wei = a.HighestBid.String()
	}
	return auctionDoc{
		ID:            a.ID,
		Item:          a.Item,
		Slug:          a.Slug,
		Seller:        a.Seller,
		HighestBidder: a.HighestBidder,
		HighestBidWei: wei,
		EndTime:       a.EndTime,
		Ended:         a.Ended,
	}
}

func (d auctionDoc) toAuction() Auction {
	bid, ok := new(big.Int).SetString(d.HighestBidWei, 10)
	if !ok {
		bid = new(big.Int)
	}
	return Auction{
		ID:            d.ID,
		Seller:        d.Seller,
		Item:          d.Item,
		Slug:          d.Slug,
		EndTime:       d.EndTime,
		HighestBid:    bid,
		HighestBidder: d.HighestBidder,
		Ended:         d.Ended,
	}
}

// EnsureIndex creates the auctions index if needed.
func (s *ESSearchIndex) EnsureIndex(ctx context.Context) error {
	mapping, err := es.AuctionsMapping()
	if err != nil {
		return err
	}
	return es.CreateIndexIfNotExists(ctx, s.client, s.index, mapping, s.logger)
}

// IndexAuctions bulk-upserts the snapshot, one document per auction id.
func (s *ESSearchIndex) IndexAuctions(ctx context.Context, list []Auction, refresh bool) error {
	if len(list) == 0 {
		return nil
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for i := range list {
		meta := map[string]interface{}{"index": map[string]interface{}{"_index": s.index, "_id": strconv.FormatUint(list[i].ID, 10)}}
		if err := enc.Encode(meta); err != nil {
			return fmt.Errorf("encoding bulk meta: %w", err)
		}
		if err := enc.Encode(toDoc(&list[i])); err != nil {
			return fmt.Errorf("encoding auction %d: %w", list[i].ID, err)
		}
	}

	req := esapi.BulkRequest{Body: &buf}
	if refresh {
		req.Refresh = "true"
	}
	res, err := req.Do(ctx, s.client.Client)
	if err != nil {
		return fmt.Errorf("bulk indexing auctions: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("bulk indexing auctions: status %s", res.Status())
	}

	var body struct {
		Errors bool `json:"errors"`
	}
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return fmt.Errorf("decoding bulk response: %w", err)
	}
	if body.Errors {
		return fmt.Errorf("bulk indexing auctions: some documents were rejected")
	}
	s.logger.Debug("Indexed auctions", zap.Int("count", len(list)))
	return nil
}

// Search runs a relevance query over item names, slugs and addresses.
func (s *ESSearchIndex) Search(ctx context.Context, q string, page, pageSize int) ([]Auction, int64, error) {
	if pageSize <= 0 {
		pageSize = 10
	}
	if page-1 > maxResultWindow/pageSize {
		return nil, 0, fmt.Errorf("searching auctions: page %d is past the result window", page)
	}
	lower := strings.ToLower(strings.TrimSpace(q))
	query := map[string]interface{}{
		"from": (page - 1) * pageSize,
		"size": pageSize,
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"should": []interface{}{
					map[string]interface{}{"match": map[string]interface{}{"item": map[string]interface{}{"query": q, "fuzziness": "AUTO"}}},
					map[string]interface{}{"prefix": map[string]interface{}{"slug": lower}},
					map[string]interface{}{"term": map[string]interface{}{"seller": lower}},
					map[string]interface{}{"term": map[string]interface{}{"highest_bidder": lower}},
				},
				"minimum_should_match": 1,
			},
		},
		"sort": []interface{}{
			map[string]interface{}{"_score": "desc"},
			map[string]interface{}{"id": "asc"},
		},
	}
	body, err := json.Marshal(query)
	if err != nil {
		return nil, 0, fmt.Errorf("encoding search query: %w", err)
	}

	res, err := esapi.SearchRequest{
		Index: []string{s.index},
		Body:  bytes.NewReader(body),
	}.Do(ctx, s.client.Client)
	if err != nil {
		return nil, 0, fmt.Errorf("searching auctions: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, 0, fmt.Errorf("searching auctions: status %s", res.Status())
	}

	var parsed struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source auctionDoc `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, 0, fmt.Errorf("decoding search response: %w", err)
	}

	out := make([]Auction, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.Source.toAuction())
	}
	return out, parsed.Hits.Total.Value, nil
}
