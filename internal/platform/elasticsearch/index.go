package elasticsearch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/elastic/go-elasticsearch/v8/esapi"
	"go.uber.org/zap"
)

const AuctionsIndexName = "auctions"

// AuctionsMapping returns the mapping for the auctions index.
func AuctionsMapping() (string, error) {
	keywordSub := map[string]interface{}{"keyword": map[string]interface{}{"type": "keyword", "ignore_above": 256}}
	mapping := map[string]interface{}{
		"mappings": map[string]interface{}{
			"properties": map[string]interface{}{
				"id":              map[string]interface{}{"type": "long"},
				"item":            map[string]interface{}{"type": "text", "fields": keywordSub},
				"slug":            map[string]interface{}{"type": "keyword"},
				"seller":          map[string]interface{}{"type": "keyword"},
				"highest_bidder":  map[string]interface{}{"type": "keyword"},
				"highest_bid_wei": map[string]interface{}{"type": "keyword"},
				"end_time":        map[string]interface{}{"type": "date"},
				"ended":           map[string]interface{}{"type": "boolean"},
			},
		},
	}
	b, err := json.Marshal(mapping)
	if err != nil {
		return "", fmt.Errorf("error marshalling auctions mapping to JSON: %w", err)
	}
	return string(b), nil
}

// CreateIndexIfNotExists creates index with mapping unless it already exists.
func CreateIndexIfNotExists(ctx context.Context, client *ESClientWrapper, index, mapping string, logger *zap.Logger) error {
	log := logger.Named("elasticsearch_index_setup")

	res, err := esapi.IndicesExistsRequest{Index: []string{index}}.Do(ctx, client.Client)
	if err != nil {
		log.Error("Error checking if index exists", zap.Error(err), zap.String("index_name", index))
		return fmt.Errorf("error checking if index %s exists: %w", index, err)
	}
	res.Body.Close()

	if res.StatusCode == http.StatusOK {
		log.Debug("Index already exists", zap.String("index_name", index))
		return nil
	}
	if res.StatusCode != http.StatusNotFound {
		return fmt.Errorf("error checking if index %s exists: status %s", index, res.Status())
	}

	createRes, err := esapi.IndicesCreateRequest{
		Index: index,
		Body:  strings.NewReader(mapping),
	}.Do(ctx, client.Client)
	if err != nil {
		log.Error("Error creating index", zap.Error(err), zap.String("index_name", index))
		return fmt.Errorf("error creating index %s: %w", index, err)
	}
	defer createRes.Body.Close()

	if createRes.IsError() {
		var errorBody map[string]interface{}
		_ = json.NewDecoder(createRes.Body).Decode(&errorBody)
		log.Error("Failed to create index",
			zap.String("status", createRes.Status()),
			zap.Any("error_details", errorBody),
			zap.String("index_name", index),
		)
		return fmt.Errorf("failed to create index %s: status %s", index, createRes.Status())
	}

	log.Info("Index created successfully", zap.String("index_name", index))
	return nil
}
