package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"faktoteka/internal/logging"
	"faktoteka/internal/models"

	cache "github.com/patrickmn/go-cache"
)

const datasetCacheKey = "baseFacts"

// DatasetService loads the static base dataset: a single JSON array of
// facts, either from a local file or over HTTP. A failed load is not
// fatal — the caller gets an empty collection plus the error and the
// catalog keeps serving whatever else it has.
type DatasetService struct {
	url       string
	file      string
	client    *http.Client
	baseCache *cache.Cache
	log       *slog.Logger
}

// NewDatasetService creates a dataset service. When both a file and a
// URL are configured the file wins. Successful loads are cached for ttl
// so view rebuilds never wait on I/O.
func NewDatasetService(url, file string, ttl time.Duration) *DatasetService {
	return &DatasetService{
		url:       url,
		file:      file,
		client:    &http.Client{Timeout: 15 * time.Second},
		baseCache: cache.New(ttl, 2*ttl),
		log:       logging.WithComponent("dataset"),
	}
}

// Load returns the base dataset, serving from cache when fresh.
func (s *DatasetService) Load(ctx context.Context) ([]models.Fact, error) {
	if cached, found := s.baseCache.Get(datasetCacheKey); found {
		return cached.([]models.Fact), nil
	}
	return s.Reload(ctx)
}

// Reload bypasses the cache and fetches the dataset again. Used by the
// background refresh job and the file watcher.
func (s *DatasetService) Reload(ctx context.Context) ([]models.Fact, error) {
	facts, err := s.fetch(ctx)
	if err != nil {
		return []models.Fact{}, err
	}

	s.baseCache.Set(datasetCacheKey, facts, cache.DefaultExpiration)
	s.log.Info("base dataset loaded", "facts", len(facts))
	return facts, nil
}

func (s *DatasetService) fetch(ctx context.Context) ([]models.Fact, error) {
	var raw []byte

	switch {
	case s.file != "":
		data, err := os.ReadFile(s.file)
		if err != nil {
			return nil, fmt.Errorf("failed to read dataset file: %w", err)
		}
		raw = data

	case s.url != "":
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to build dataset request: %w", err)
		}
		resp, err := s.client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch dataset: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return nil, fmt.Errorf("dataset fetch returned status %d", resp.StatusCode)
		}

		raw, err = io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to read dataset body: %w", err)
		}

	default:
		// No source configured: an empty catalog is a valid catalog.
		return []models.Fact{}, nil
	}

	var facts []models.Fact
	if err := json.Unmarshal(raw, &facts); err != nil {
		return nil, fmt.Errorf("failed to parse dataset JSON: %w", err)
	}

	// Dataset elements carry no origin tag; everything here is base.
	for i := range facts {
		facts[i].Origin = models.OriginBase
	}
	return facts, nil
}
