// Package wiki scrapes quest requirements from the Old School RuneScape wiki.
package wiki

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

const (
	DefaultAPIURL    = "https://oldschool.runescape.wiki/api.php"
	DefaultPageURL   = "https://oldschool.runescape.wiki/w/"
	DefaultUserAgent = "osrs-reldo-quest-scraper/1.0"
	DefaultPace      = 300 * time.Millisecond

	maxAttempts       = 5
	defaultRetryAfter = 2 * time.Second
	backoffStep       = time.Second
	questCategory     = "Category:Quests"
)

var (
	ErrUnavailable = errors.New("wiki: unavailable")

	errRateLimited = errors.New("rate limited")
)

type Options struct {
	APIURL     string
	PageURL    string
	UserAgent  string
	Pace       time.Duration
	HTTPClient *http.Client
}

// Client talks to the wiki one request at a time. Failed requests are
// retried: a 429 waits for Retry-After, anything else backs off linearly.
type Client struct {
	http      *http.Client
	apiURL    string
	pageURL   string
	userAgent string
	pace      time.Duration
	log       *zap.Logger

	sleep func(ctx context.Context, d time.Duration) error
}

func NewClient(opts Options, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	c := &Client{
		http:      opts.HTTPClient,
		apiURL:    opts.APIURL,
		pageURL:   opts.PageURL,
		userAgent: opts.UserAgent,
		pace:      opts.Pace,
		log:       log,
		sleep:     sleepContext,
	}
	if c.http == nil {
		c.http = http.DefaultClient
	}
	if c.apiURL == "" {
		c.apiURL = DefaultAPIURL
	}
	if c.pageURL == "" {
		c.pageURL = DefaultPageURL
	}
	if c.userAgent == "" {
		c.userAgent = DefaultUserAgent
	}
	if c.pace < 0 {
		c.pace = 0
	}
	return c
}

// QuestTitles lists every page of the quest category, following
// cmcontinue until the listing is exhausted. Titles come back sorted.
func (c *Client) QuestTitles(ctx context.Context) ([]string, error) {
	seen := make(map[string]struct{})
	next := ""
	for {
		query := url.Values{}
		query.Set("action", "query")
		query.Set("list", "categorymembers")
		query.Set("cmtitle", questCategory)
		query.Set("cmnamespace", "0")
		query.Set("cmlimit", "500")
		query.Set("format", "json")
		if next != "" {
			query.Set("cmcontinue", next)
		}

		body, err := c.fetch(ctx, c.apiURL+"?"+query.Encode())
		if err != nil {
			return nil, err
		}
		if !gjson.ValidBytes(body) {
			return nil, fmt.Errorf("%w: category listing is not json", ErrUnavailable)
		}

		doc := gjson.ParseBytes(body)
		for _, title := range doc.Get("query.categorymembers.#.title").Array() {
			if t := strings.TrimSpace(title.String()); t != "" {
				seen[t] = struct{}{}
			}
		}

		next = doc.Get("continue.cmcontinue").String()
		if next == "" {
			break
		}
	}

	titles := make([]string, 0, len(seen))
	for title := range seen {
		titles = append(titles, title)
	}
	sort.Strings(titles)
	return titles, nil
}

// Page fetches the rendered article body of title.
func (c *Client) Page(ctx context.Context, title string) ([]byte, error) {
	name := strings.Join(strings.Fields(title), "_")
	return c.fetch(ctx, c.pageURL+url.PathEscape(name)+"?action=render")
}

func (c *Client) fetch(ctx context.Context, target string) ([]byte, error) {
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		body, wait, err := c.get(ctx, target, attempt)
		if err == nil {
			return body, nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		lastErr = err
		if attempt == maxAttempts {
			break
		}

		c.log.Debug("retrying wiki request",
			zap.String("url", target),
			zap.Int("attempt", attempt),
			zap.Duration("wait", wait),
			zap.Error(err),
		)
		if err := c.sleep(ctx, wait); err != nil {
			return nil, err
		}
	}
	return nil, fmt.Errorf("%w: %s after %d attempts: %v", ErrUnavailable, target, maxAttempts, lastErr)
}

// get performs a single request. On failure it also reports how long to
// wait before the next attempt.
func (c *Client) get(ctx context.Context, target string, attempt int) ([]byte, time.Duration, error) {
	backoff := backoffStep * time.Duration(attempt)

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, 0, err
	}
	request.Header.Set("User-Agent", c.userAgent)

	response, err := c.http.Do(request)
	if err != nil {
		return nil, backoff, err
	}
	defer response.Body.Close()

	if response.StatusCode == http.StatusTooManyRequests {
		return nil, retryAfter(response.Header.Get("Retry-After")), errRateLimited
	}
	if response.StatusCode != http.StatusOK {
		return nil, backoff, fmt.Errorf("unexpected status %s", response.Status)
	}

	body, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, backoff, err
	}
	return body, 0, nil
}

func retryAfter(header string) time.Duration {
	seconds, err := strconv.Atoi(strings.TrimSpace(header))
	if err != nil || seconds <= 0 {
		return defaultRetryAfter
	}
	return time.Duration(seconds) * time.Second
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
