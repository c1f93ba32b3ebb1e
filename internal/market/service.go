package market

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"
)

const cacheKeyPrefix = "refi:market:"

// Snapshot is the result of fetching every configured series.
type Snapshot struct {
	Series  map[string][]Observation `json:"series"`
	Latest  []Quote                  `json:"latest"`
	Errors  []string                 `json:"errors"`
	Fetched time.Time                `json:"fetchedAt"`
}

// Service fetches series through a cache.
type Service struct {
	fetcher Fetcher
	cache   Cache
	ttl     time.Duration
	series  []Series
	logger  *zap.Logger
}

// NewService returns a Service for the default series. A nil cache
// disables caching.
func NewService(fetcher Fetcher, cache Cache, ttl time.Duration, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		fetcher: fetcher,
		cache:   cache,
		ttl:     ttl,
		series:  DefaultSeries,
		logger:  logger,
	}
}

// Series returns the configured series.
func (s *Service) Series() []Series {
	return s.series
}

// FetchAll returns the observations of every series keyed by label.
// A series that fails is reported in the error list and maps to an empty
// slice; the others are still returned.
func (s *Service) FetchAll(ctx context.Context) (map[string][]Observation, []string) {
	return s.fetchAll(ctx, true)
}

// Refresh bypasses the cache and stores fresh observations.
func (s *Service) Refresh(ctx context.Context) []string {
	_, errs := s.fetchAll(ctx, false)
	return errs
}

// Snapshot fetches all series and trims them to the last months.
func (s *Service) Snapshot(ctx context.Context, months int, now time.Time) Snapshot {
	data, errs := s.FetchAll(ctx)
	for label, obs := range data {
		data[label] = FilterByMonths(obs, months)
	}
	return Snapshot{
		Series:  data,
		Latest:  LatestQuotes(data, s.series),
		Errors:  errs,
		Fetched: now,
	}
}

func (s *Service) fetchAll(ctx context.Context, useCache bool) (map[string][]Observation, []string) {
	data := make(map[string][]Observation, len(s.series))
	errs := []string{}

	for _, series := range s.series {
		obs, err := s.fetch(ctx, series, useCache)
		if err != nil {
			s.logger.Warn(fmt.Sprintf("failed to fetch series %s", series.ID),
				zap.String("op", "market.FetchAll"),
				zap.Error(err),
			)
			data[series.Label] = []Observation{}
			errs = append(errs, fmt.Sprintf("%s: %v", series.Label, err))
			continue
		}
		data[series.Label] = obs
	}
	return data, errs
}

func (s *Service) fetch(ctx context.Context, series Series, useCache bool) ([]Observation, error) {
	key := cacheKeyPrefix + series.ID
	if useCache && s.cache != nil {
		if raw, ok := s.cache.Get(ctx, key); ok {
			var obs []Observation
			if err := json.Unmarshal([]byte(raw), &obs); err == nil {
				return obs, nil
			}
		}
	}

	obs, err := s.fetcher.FetchSeries(ctx, series.ID)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		raw, err := json.Marshal(obs)
		if err == nil {
			err = s.cache.Set(ctx, key, string(raw), s.ttl)
		}
		if err != nil {
			s.logger.Warn("failed to cache series",
				zap.String("op", "market.fetch"),
				zap.String("series", series.ID),
				zap.Error(err),
			)
		}
	}
	return obs, nil
}
