// Command scrape fetches the clinic website, extracts its visible text and
// stores it for the chat fallback prompt: to the cache file and, when Redis
// is configured, to the site-text cache key with a TTL.
package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"golang.org/x/net/html"

	appconfig "github.com/liquidaesthetik/praxis-assistant/internal/config"
	"github.com/liquidaesthetik/praxis-assistant/internal/sitecache"
	"github.com/liquidaesthetik/praxis-assistant/pkg/logging"
)

func main() {
	_ = godotenv.Load(".env.local")

	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel, cfg.LogFormat)

	url := cfg.SiteURL
	if len(os.Args) > 1 {
		url = os.Args[1]
	}

	logger.Info("fetching website", "url", url)
	text, err := fetchText(url)
	if err != nil {
		logger.Error("fetch failed", "error", err, "url", url)
		os.Exit(1)
	}
	text = sitecache.Truncate(text, cfg.SiteTextMaxChars)

	if err := os.WriteFile(cfg.SiteCacheFile, []byte(text), 0o644); err != nil {
		logger.Error("write cache file failed", "error", err, "file", cfg.SiteCacheFile)
		os.Exit(1)
	}
	logger.Info("site text written", "file", cfg.SiteCacheFile, "chars", len(text))

	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		cache := sitecache.NewRedisCache(rdb, cfg.SiteCacheTTL, cfg.SiteTextMaxChars, nil, logger)

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := cache.Store(ctx, text); err != nil {
			logger.Error("redis store failed", "error", err)
			os.Exit(1)
		}
		logger.Info("site text cached", "addr", cfg.RedisAddr, "ttl", cfg.SiteCacheTTL)
	}
}

func fetchText(url string) (string, error) {
	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Get(url)
	if err != nil {
		return "", fmt.Errorf("scrape: get %s: %w", url, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("scrape: %s returned status %d", url, resp.StatusCode)
	}

	return extractText(resp.Body)
}

// extractText walks the HTML tree collecting text nodes, skipping script,
// style and noscript subtrees.
func extractText(r io.Reader) (string, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return "", fmt.Errorf("scrape: parse html: %w", err)
	}

	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript":
				return
			}
		}
		if n.Type == html.TextNode {
			if t := strings.TrimSpace(n.Data); t != "" {
				b.WriteString(t)
				b.WriteString(" ")
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return strings.TrimSpace(b.String()), nil
}
