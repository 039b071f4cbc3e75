package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/wisata/backend/internal/models"
)

// TranslationService proxies text through an external machine-translation
// endpoint for the public detail view. Translation is strictly best-effort:
// any failure (network, non-200, unexpected payload) yields the original
// text. Successful translations are cached in Redis keyed by language and
// text digest; a nil or unreachable Redis just disables the cache.
type TranslationService struct {
	endpoint string
	client   *http.Client
	redis    *redis.Client
	cacheTTL time.Duration
}

func NewTranslationService(endpoint string, timeout time.Duration, redisClient *redis.Client, cacheTTL time.Duration) *TranslationService {
	return &TranslationService{
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
		redis:    redisClient,
		cacheTTL: cacheTTL,
	}
}

// Translate returns text translated into targetLang, or text unchanged when
// translation is unavailable.
func (s *TranslationService) Translate(ctx context.Context, text, targetLang string) string {
	if strings.TrimSpace(text) == "" || targetLang == "" {
		return text
	}

	cacheKey := s.cacheKey(text, targetLang)
	if cached, ok := s.cacheGet(ctx, cacheKey); ok {
		return cached
	}

	translated, err := s.fetch(ctx, text, targetLang)
	if err != nil {
		log.Printf("WARN: translation failed, returning original text: %v", err)
		return text
	}

	s.cacheSet(ctx, cacheKey, translated)
	return translated
}

// TranslateView translates the human-readable fields of an object view in
// place. The name is left alone: place names are proper nouns.
func (s *TranslationService) TranslateView(ctx context.Context, view *models.ObjectView, targetLang string) {
	if targetLang == "" {
		return
	}
	view.Description = s.Translate(ctx, view.Description, targetLang)
	view.Location = s.Translate(ctx, view.Location, targetLang)
	if view.CategoryName != nil {
		translated := s.Translate(ctx, *view.CategoryName, targetLang)
		view.CategoryName = &translated
	}
}

func (s *TranslationService) fetch(ctx context.Context, text, targetLang string) (string, error) {
	params := url.Values{}
	params.Set("client", "gtx")
	params.Set("sl", "auto")
	params.Set("tl", targetLang)
	params.Set("dt", "t")
	params.Set("q", text)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return "", err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("translate endpoint returned %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", err
	}

	return parseTranslation(body)
}

// parseTranslation unpacks the endpoint's nested-array payload:
// [[["translated","original",...],...],...]. Segments are concatenated.
func parseTranslation(body []byte) (string, error) {
	var payload []interface{}
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", fmt.Errorf("unexpected translation payload: %w", err)
	}
	if len(payload) == 0 {
		return "", fmt.Errorf("empty translation payload")
	}

	segments, ok := payload[0].([]interface{})
	if !ok {
		return "", fmt.Errorf("unexpected translation payload shape")
	}

	var sb strings.Builder
	for _, seg := range segments {
		parts, ok := seg.([]interface{})
		if !ok || len(parts) == 0 {
			continue
		}
		if text, ok := parts[0].(string); ok {
			sb.WriteString(text)
		}
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("translation payload had no text")
	}
	return sb.String(), nil
}

func (s *TranslationService) cacheKey(text, targetLang string) string {
	digest := sha256.Sum256([]byte(text))
	return fmt.Sprintf("translate:%s:%s", targetLang, hex.EncodeToString(digest[:]))
}

func (s *TranslationService) cacheGet(ctx context.Context, key string) (string, bool) {
	if s.redis == nil {
		return "", false
	}
	cached, err := s.redis.Get(ctx, key).Result()
	if err != nil {
		return "", false
	}
	return cached, true
}

func (s *TranslationService) cacheSet(ctx context.Context, key, value string) {
	if s.redis == nil {
		return
	}
	if err := s.redis.Set(ctx, key, value, s.cacheTTL).Err(); err != nil {
		log.Printf("WARN: failed to cache translation: %v", err)
	}
}
