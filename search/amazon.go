package search

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/shopchat-ai/shopchat/logging"
)

const (
	amazonBaseURL = "https://realtime-amazon-data.p.rapidapi.com"
	amazonHost    = "realtime-amazon-data.p.rapidapi.com"
)

// AmazonOptions configure an AmazonClient.
type AmazonOptions struct {
	// BaseURL overrides the RapidAPI endpoint, mainly for tests.
	BaseURL string
	// HTTPClient overrides the default transport.
	HTTPClient httpDoer
	// Logger receives request diagnostics. Defaults to NoOp.
	Logger logging.Logger
}

// AmazonClient wraps the realtime Amazon data API.
type AmazonClient struct {
	apiKey     string
	baseURL    string
	httpClient httpDoer
	logger     logging.Logger
}

// NewAmazonClient creates a client authenticated with the given RapidAPI key.
func NewAmazonClient(apiKey string, optFns ...func(o *AmazonOptions)) *AmazonClient {
	opts := AmazonOptions{
		BaseURL: amazonBaseURL,
		Logger:  logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = defaultHTTPClient()
	}
	return &AmazonClient{
		apiKey:     apiKey,
		baseURL:    opts.BaseURL,
		httpClient: opts.HTTPClient,
		logger:     logging.OrNoOp(opts.Logger),
	}
}

type amazonSearchResponse struct {
	Status  string           `json:"status"`
	Details []map[string]any `json:"details"`
}

// searchProducts returns up to count raw search hits for keyword.
func (c *AmazonClient) searchProducts(ctx context.Context, keyword string, count int) ([]map[string]any, error) {
	query := url.Values{
		"keyword": {keyword},
		"country": {"us"},
		"page":    {"1"},
		"sort":    {"Featured"},
	}
	var resp amazonSearchResponse
	if err := getJSON(ctx, c.httpClient, c.apiKey, amazonHost, c.baseURL+"/product-search", query, &resp); err != nil {
		return nil, err
	}
	if resp.Status != "success" {
		return nil, fmt.Errorf("amazon search failed with status %q", resp.Status)
	}
	items := resp.Details
	if count > 0 && len(items) > count {
		items = items[:count]
	}
	return items, nil
}

func (c *AmazonClient) productDetails(ctx context.Context, asin string) (map[string]any, error) {
	query := url.Values{"asin": {asin}, "country": {"us"}}
	details := make(map[string]any)
	if err := getJSON(ctx, c.httpClient, c.apiKey, amazonHost, c.baseURL+"/product-details", query, &details); err != nil {
		return nil, err
	}
	return details, nil
}

// ProductReviews returns simplified reviews for an ASIN.
func (c *AmazonClient) ProductReviews(ctx context.Context, asin string) ([]map[string]any, error) {
	query := url.Values{"asin": {asin}, "country": {"us"}}
	var resp struct {
		Reviews []map[string]any `json:"reviews"`
	}
	if err := getJSON(ctx, c.httpClient, c.apiKey, amazonHost, c.baseURL+"/product-reviews", query, &resp); err != nil {
		return nil, err
	}

	simplified := make([]map[string]any, 0, len(resp.Reviews))
	for _, r := range resp.Reviews {
		simplified = append(simplified, map[string]any{
			"title":  r["title"],
			"rating": r["rating"],
			"review": r["review"],
			"author": r["author"],
			"date":   r["date"],
		})
	}
	return simplified, nil
}

// TopProducts searches for keyword and enriches each hit with its details.
// Hits without an ASIN or with failing detail lookups are skipped.
func (c *AmazonClient) TopProducts(ctx context.Context, keyword string, limit int) ([]map[string]any, error) {
	items, err := c.searchProducts(ctx, keyword, limit)
	if err != nil {
		return nil, err
	}

	results := make([]map[string]any, 0, len(items))
	for _, item := range items {
		asin := mapString(item, "asin")
		if asin == "" {
			continue
		}
		details, err := c.productDetails(ctx, asin)
		if err != nil {
			c.logger.Warn("amazon.details_failed", "asin", asin, "error", err.Error())
			continue
		}
		if mapString(details, "status") != "success" {
			continue
		}

		description := ""
		if about, ok := details["aboutThisItem"].([]any); ok {
			parts := make([]string, 0, len(about))
			for _, p := range about {
				if s, ok := p.(string); ok {
					parts = append(parts, s)
				}
			}
			description = strings.Join(parts, " ")
		}
		var image any
		if images, ok := details["images"].([]any); ok && len(images) > 0 {
			image = images[0]
		}

		results = append(results, map[string]any{
			"title":               details["title"],
			"price":               details["price"],
			"original_price":      details["originalPrice"],
			"discount_percentage": details["discountPercentage"],
			"rating":              details["rating"],
			"total_reviews":       details["ratingNumber"],
			"description":         description,
			"product_url":         "https://www.amazon.com/dp/" + asin,
			"image":               image,
			"asin":                asin,
		})
	}
	return results, nil
}

// filteredSearchDepth is how many raw hits a filtered search considers.
const filteredSearchDepth = 30

// FilteredProducts searches deep and keeps hits passing all filter
// conditions, enriched with details and reviews, up to limit.
func (c *AmazonClient) FilteredProducts(ctx context.Context, keyword string, filters map[string]any, limit int) ([]map[string]any, error) {
	items, err := c.searchProducts(ctx, keyword, filteredSearchDepth)
	if err != nil {
		return nil, err
	}

	results := make([]map[string]any, 0, limit)
	for _, item := range items {
		asin := mapString(item, "asin")
		if asin == "" {
			continue
		}
		lowered := make(map[string]any, len(item))
		for k, v := range item {
			lowered[strings.ToLower(k)] = v
		}
		if !passesFilters(lowered, filters) {
			continue
		}

		details, err := c.productDetails(ctx, asin)
		if err != nil || mapString(details, "status") != "success" {
			continue
		}
		reviews, err := c.ProductReviews(ctx, asin)
		if err != nil {
			reviews = nil
		}

		results = append(results, map[string]any{
			"asin":    asin,
			"title":   item["ProductTitle"],
			"price":   item["price"],
			"image":   item["productImage"],
			"url":     item["productUrl"],
			"details": details,
			"reviews": reviews,
		})
		if len(results) == limit {
			break
		}
	}
	return results, nil
}

// passesFilters evaluates one product against the condition map. String
// conditions support comparison prefixes (">=", "<=", ">", "<", "=="), a
// "contains " prefix and bare equality; numeric conditions compare as floats.
func passesFilters(product, filters map[string]any) bool {
	for field, condition := range filters {
		value, ok := product[strings.ToLower(field)]
		if !ok || value == nil {
			return false
		}
		if !matchCondition(value, condition) {
			return false
		}
	}
	return true
}

func matchCondition(value, condition any) bool {
	switch cond := condition.(type) {
	case string:
		switch {
		case strings.HasPrefix(cond, ">="):
			return compareFloats(value, cond[2:], func(a, b float64) bool { return a >= b })
		case strings.HasPrefix(cond, "<="):
			return compareFloats(value, cond[2:], func(a, b float64) bool { return a <= b })
		case strings.HasPrefix(cond, ">"):
			return compareFloats(value, cond[1:], func(a, b float64) bool { return a > b })
		case strings.HasPrefix(cond, "<"):
			return compareFloats(value, cond[1:], func(a, b float64) bool { return a < b })
		case strings.HasPrefix(cond, "=="):
			return strings.EqualFold(fmt.Sprint(value), strings.TrimSpace(cond[2:]))
		case strings.HasPrefix(cond, "contains "):
			needle := strings.ToLower(strings.TrimSpace(cond[len("contains "):]))
			return strings.Contains(strings.ToLower(fmt.Sprint(value)), needle)
		default:
			return strings.EqualFold(fmt.Sprint(value), cond)
		}
	case float64, int:
		want, _ := toFloat(cond)
		got, ok := toFloat(value)
		return ok && got == want
	default:
		return false
	}
}

func compareFloats(value any, raw string, cmp func(a, b float64) bool) bool {
	got, ok := toFloat(value)
	if !ok {
		return false
	}
	want, ok := toFloat(strings.TrimSpace(raw))
	if !ok {
		return false
	}
	return cmp(got, want)
}
