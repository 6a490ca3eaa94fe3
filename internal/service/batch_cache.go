package service

import (
	"context"
	"encoding/json"
	"sort"
	"strconv"
	"strings"

	"prepmate/internal/cache"
	"prepmate/internal/config"
	"prepmate/internal/domain"
	"prepmate/internal/logger"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// BatchCacheService hands out initial question batches, serving repeat
// interview profiles from the cache instead of the LLM.
type BatchCacheService interface {
	GetOrGenerate(ctx context.Context, profile domain.GenerationProfile, count int) ([]domain.Question, error)
}

type batchCacheServiceImpl struct {
	cache     domain.Cache
	generator domain.QuestionGenerator
	cfg       *config.Config
	group     singleflight.Group
}

// NewBatchCacheService creates a BatchCacheService. A nil cache disables
// caching; every call then goes straight to the generator.
func NewBatchCacheService(cacheAdapter domain.Cache, generator domain.QuestionGenerator, cfg *config.Config) BatchCacheService {
	return &batchCacheServiceImpl{
		cache:     cacheAdapter,
		generator: generator,
		cfg:       cfg,
	}
}

// GetOrGenerate returns the initial batch for a profile. Cache failures
// degrade to direct generation and never fail a start. Concurrent starts
// for the same profile share one generation via singleflight.
func (s *batchCacheServiceImpl) GetOrGenerate(ctx context.Context, profile domain.GenerationProfile, count int) ([]domain.Question, error) {
	if s.cache == nil {
		return s.generator.GenerateQuestions(ctx, profile, count)
	}

	key := batchCacheKey(profile, count)

	if cached, err := s.cache.Get(ctx, key); err == nil {
		var questions []domain.Question
		if errUnmarshal := json.Unmarshal([]byte(cached), &questions); errUnmarshal == nil && len(questions) > 0 {
			logger.Get().Debug("Question batch cache hit", zap.String("key", key))
			return questions, nil
		}
		logger.Get().Warn("Discarding unparseable cached question batch", zap.String("key", key))
	} else if err != domain.ErrCacheMiss {
		logger.Get().Error("Question batch cache lookup failed", zap.Error(err), zap.String("key", key))
	}

	result, err, _ := s.group.Do(key, func() (interface{}, error) {
		questions, genErr := s.generator.GenerateQuestions(ctx, profile, count)
		if genErr != nil {
			return nil, genErr
		}

		if encoded, marshalErr := json.Marshal(questions); marshalErr == nil {
			if setErr := s.cache.Set(ctx, key, string(encoded), s.cfg.Interview.BatchCacheTTL); setErr != nil {
				logger.Get().Error("Failed to cache question batch", zap.Error(setErr), zap.String("key", key))
			}
		}
		return questions, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.Question), nil
}

// batchCacheKey derives a stable key from the interview profile. Topics
// are sorted so equivalent profiles share a cache entry.
func batchCacheKey(profile domain.GenerationProfile, count int) string {
	roleSlug := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(profile.Role)), " ", "-")
	topics := append([]string(nil), profile.Topics...)
	sort.Strings(topics)
	params := append([]string{profile.Difficulty}, topics...)
	return cache.GenerateCacheKey("interview", "batch", roleSlug, append(params, "n"+strconv.Itoa(count))...)
}
