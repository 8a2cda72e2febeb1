package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/elastic/go-elasticsearch/v9/esutil"

	"github.com/Skotchmaster/restaurant/internal/models"
	"github.com/Skotchmaster/restaurant/internal/transport"
)

const indexMapping = `{
  "mappings": {
    "properties": {
      "id":          {"type": "keyword"},
      "name":        {"type": "text"},
      "description": {"type": "text"},
      "category":    {"type": "keyword"},
      "price":       {"type": "double"},
      "image_url":   {"type": "keyword", "index": false}
    }
  }
}`

func NewClient(url, user, password string, rt http.RoundTripper) (*elasticsearch.Client, error) {
	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{url},
		Username:  user,
		Password:  password,
		Transport: rt,
	})
	if err != nil {
		return nil, fmt.Errorf("elasticsearch client: %w", err)
	}

	res, err := client.Info()
	if err != nil {
		return nil, fmt.Errorf("elasticsearch info: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		body, _ := io.ReadAll(res.Body)
		return nil, fmt.Errorf("elasticsearch info: %s: %s", res.Status(), body)
	}
	return client, nil
}

// Index is the menu search index.
type Index struct {
	ES   *elasticsearch.Client
	Name string
}

func (ix *Index) EnsureIndex(ctx context.Context) error {
	res, err := ix.ES.Indices.Exists([]string{ix.Name}, ix.ES.Indices.Exists.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("index exists: %w", err)
	}
	res.Body.Close()
	if res.StatusCode == http.StatusOK {
		return nil
	}

	res, err = ix.ES.Indices.Create(ix.Name,
		ix.ES.Indices.Create.WithContext(ctx),
		ix.ES.Indices.Create.WithBody(strings.NewReader(indexMapping)),
	)
	if err != nil {
		return fmt.Errorf("index create: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() && res.StatusCode != http.StatusBadRequest {
		return fmt.Errorf("index create: %s", res.Status())
	}
	return nil
}

func (ix *Index) IndexFood(ctx context.Context, f *models.FoodItem) error {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(transport.ToFoodItemDTO(f)); err != nil {
		return err
	}

	res, err := ix.ES.Index(ix.Name, &buf,
		ix.ES.Index.WithContext(ctx),
		ix.ES.Index.WithDocumentID(f.ID.String()),
		ix.ES.Index.WithRefresh("wait_for"),
	)
	if err != nil {
		return fmt.Errorf("index food: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("index food: %s", res.Status())
	}
	return nil
}

// IndexAll bulk-indexes items, replacing documents with the same id.
// It returns the number of documents the cluster accepted.
func (ix *Index) IndexAll(ctx context.Context, items []models.FoodItem) (int, error) {
	if len(items) == 0 {
		return 0, nil
	}

	bi, err := esutil.NewBulkIndexer(esutil.BulkIndexerConfig{
		Client:     ix.ES,
		Index:      ix.Name,
		NumWorkers: 1,
		Refresh:    "wait_for",
	})
	if err != nil {
		return 0, fmt.Errorf("bulk indexer: %w", err)
	}

	var (
		mu       sync.Mutex
		firstErr error
	)
	for i := range items {
		data, err := json.Marshal(transport.ToFoodItemDTO(&items[i]))
		if err != nil {
			_ = bi.Close(ctx)
			return 0, err
		}
		err = bi.Add(ctx, esutil.BulkIndexerItem{
			Action:     "index",
			DocumentID: items[i].ID.String(),
			Body:       bytes.NewReader(data),
			OnFailure: func(_ context.Context, item esutil.BulkIndexerItem, res esutil.BulkIndexerResponseItem, err error) {
				if err == nil {
					err = fmt.Errorf("document %s: %s: %s", item.DocumentID, res.Error.Type, res.Error.Reason)
				}
				mu.Lock()
				if firstErr == nil {
					firstErr = err
				}
				mu.Unlock()
			},
		})
		if err != nil {
			_ = bi.Close(ctx)
			return 0, fmt.Errorf("bulk add: %w", err)
		}
	}
	if err := bi.Close(ctx); err != nil {
		return 0, fmt.Errorf("bulk close: %w", err)
	}

	stats := bi.Stats()
	if stats.NumFailed > 0 {
		return int(stats.NumIndexed), fmt.Errorf("bulk index: %d of %d failed, first: %v", stats.NumFailed, len(items), firstErr)
	}
	return int(stats.NumIndexed), nil
}

func (ix *Index) Search(ctx context.Context, query string, from, size int) (int64, []transport.FoodItemDTO, error) {
	body := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":     query,
				"fields":    []string{"name^2", "description"},
				"fuzziness": "AUTO",
			},
		},
		"from": from,
		"size": size,
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return 0, nil, fmt.Errorf("search encode: %w", err)
	}

	res, err := ix.ES.Search(
		ix.ES.Search.WithContext(ctx),
		ix.ES.Search.WithIndex(ix.Name),
		ix.ES.Search.WithBody(&buf),
	)
	if err != nil {
		return 0, nil, fmt.Errorf("search: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return 0, nil, fmt.Errorf("search: %s", res.Status())
	}

	var r struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source transport.FoodItemDTO `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return 0, nil, fmt.Errorf("search decode: %w", err)
	}

	items := make([]transport.FoodItemDTO, len(r.Hits.Hits))
	for i, hit := range r.Hits.Hits {
		items[i] = hit.Source
	}
	return r.Hits.Total.Value, items, nil
}
