package search

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"github.com/shopchat-ai/shopchat/logging"
)

const (
	walmartBaseURL = "https://walmart2.p.rapidapi.com"
	walmartHost    = "walmart2.p.rapidapi.com"
)

// WalmartOptions configure a WalmartClient.
type WalmartOptions struct {
	// BaseURL overrides the RapidAPI endpoint, mainly for tests.
	BaseURL string
	// HTTPClient overrides the default transport.
	HTTPClient httpDoer
	// Logger receives request diagnostics. Defaults to NoOp.
	Logger logging.Logger
}

// WalmartClient wraps the Walmart product data API.
type WalmartClient struct {
	apiKey     string
	baseURL    string
	httpClient httpDoer
	logger     logging.Logger
}

// NewWalmartClient creates a client authenticated with the given RapidAPI key.
func NewWalmartClient(apiKey string, optFns ...func(o *WalmartOptions)) *WalmartClient {
	opts := WalmartOptions{
		BaseURL: walmartBaseURL,
		Logger:  logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = defaultHTTPClient()
	}
	return &WalmartClient{
		apiKey:     apiKey,
		baseURL:    opts.BaseURL,
		httpClient: opts.HTTPClient,
		logger:     logging.OrNoOp(opts.Logger),
	}
}

// searchProducts returns up to count raw search hits for keyword.
func (c *WalmartClient) searchProducts(ctx context.Context, keyword string, count int) ([]map[string]any, error) {
	var resp struct {
		Items []map[string]any `json:"itemsV2"`
	}
	query := url.Values{"query": {keyword}}
	if err := getJSON(ctx, c.httpClient, c.apiKey, walmartHost, c.baseURL+"/searchV2", query, &resp); err != nil {
		return nil, err
	}
	items := resp.Items
	if count > 0 && len(items) > count {
		items = items[:count]
	}
	return items, nil
}

// ProductDescription fetches the short description for one item.
func (c *WalmartClient) ProductDescription(ctx context.Context, usItemID string) (string, error) {
	var resp struct {
		ShortDescription string `json:"shortDescription"`
	}
	query := url.Values{"usItemId": {usItemID}}
	if err := getJSON(ctx, c.httpClient, c.apiKey, walmartHost, c.baseURL+"/productDescription", query, &resp); err != nil {
		return "", err
	}
	return resp.ShortDescription, nil
}

// ProductReviews returns simplified reviews for one item.
func (c *WalmartClient) ProductReviews(ctx context.Context, usItemID string) ([]map[string]any, error) {
	var resp struct {
		Reviews []map[string]any `json:"reviews"`
	}
	query := url.Values{
		"usItemId": {usItemID},
		"page":     {strconv.Itoa(0)},
		"sort":     {"RELEVANT"},
	}
	if err := getJSON(ctx, c.httpClient, c.apiKey, walmartHost, c.baseURL+"/productReviews", query, &resp); err != nil {
		return nil, err
	}

	simplified := make([]map[string]any, 0, len(resp.Reviews))
	for _, r := range resp.Reviews {
		simplified = append(simplified, map[string]any{
			"review":           r["reviewText"],
			"authorId":         r["authorId"],
			"rating":           r["rating"],
			"positiveFeedback": r["positiveFeedback"],
			"negativeFeedback": r["negativeFeedback"],
			"recommended":      r["recommended"],
			"submitted_on":     r["reviewSubmissionTime"],
			"externalSource":   r["externalSource"],
			"reviewId":         r["reviewId"],
		})
	}
	return simplified, nil
}

// TopProducts searches for keyword and enriches each hit with its
// description and reviews.
func (c *WalmartClient) TopProducts(ctx context.Context, keyword string, limit int) ([]map[string]any, error) {
	items, err := c.searchProducts(ctx, keyword, limit)
	if err != nil {
		return nil, err
	}

	results := make([]map[string]any, 0, len(items))
	for _, item := range items {
		usItemID := mapString(item, "usItemId")
		if usItemID == "" {
			continue
		}
		description, err := c.ProductDescription(ctx, usItemID)
		if err != nil {
			c.logger.Warn("walmart.description_failed", "us_item_id", usItemID, "error", err.Error())
		}
		reviews, err := c.ProductReviews(ctx, usItemID)
		if err != nil {
			c.logger.Warn("walmart.reviews_failed", "us_item_id", usItemID, "error", err.Error())
		}

		results = append(results, map[string]any{
			"name":        item["name"],
			"price":       nested(item, "priceInfo", "currentPrice", "priceDisplay"),
			"image":       nested(item, "imageInfo", "thumbnailUrl"),
			"product_url": "https://www.walmart.com/ip/" + usItemID,
			"description": description,
			"reviews":     reviews,
			"usItemId":    usItemID,
		})
	}
	return results, nil
}

// ReviewsByKeyword searches for products and collects reviews for each hit
// that has any.
func (c *WalmartClient) ReviewsByKeyword(ctx context.Context, keyword string, productLimit int) ([]map[string]any, error) {
	items, err := c.searchProducts(ctx, keyword, productLimit)
	if err != nil {
		return nil, err
	}

	results := make([]map[string]any, 0, len(items))
	for _, item := range items {
		usItemID := mapString(item, "usItemId")
		if usItemID == "" {
			continue
		}
		reviews, err := c.ProductReviews(ctx, usItemID)
		if err != nil || len(reviews) == 0 {
			continue
		}
		name := mapString(item, "name")
		if name == "" {
			name = "Unknown Product"
		}
		results = append(results, map[string]any{
			"product_name": name,
			"usItemId":     usItemID,
			"reviews":      reviews,
		})
	}
	return results, nil
}

// DescriptionsByKeyword searches for products and fetches a description for
// each hit.
func (c *WalmartClient) DescriptionsByKeyword(ctx context.Context, keyword string, productLimit int) ([]map[string]any, error) {
	items, err := c.searchProducts(ctx, keyword, productLimit)
	if err != nil {
		return nil, err
	}

	results := make([]map[string]any, 0, len(items))
	for _, item := range items {
		usItemID := mapString(item, "usItemId")
		if usItemID == "" {
			continue
		}
		description, err := c.ProductDescription(ctx, usItemID)
		if err != nil {
			c.logger.Warn("walmart.description_failed", "us_item_id", usItemID, "error", err.Error())
		}
		results = append(results, map[string]any{
			"product_name": item["name"],
			"usItemId":     usItemID,
			"description":  description,
			"price":        nested(item, "priceInfo", "currentPrice", "priceDisplay"),
			"rating":       item["averageRating"],
			"image":        nested(item, "imageInfo", "thumbnailUrl"),
			"product_url":  "https://www.walmart.com/ip/" + usItemID,
		})
	}
	return results, nil
}

// walmartFilteredDepth is how many raw hits a filtered search considers.
const walmartFilteredDepth = 20

// walmartFilteredLimit caps how many filtered matches are enriched.
const walmartFilteredLimit = 5

// FilteredProducts searches deep and keeps hits matching the filters.
// Name, description, price ceiling, minprice floor and rating floor are
// understood; any other key must appear in the name or description.
func (c *WalmartClient) FilteredProducts(ctx context.Context, keyword string, filters map[string]any) ([]map[string]any, error) {
	items, err := c.searchProducts(ctx, keyword, walmartFilteredDepth)
	if err != nil {
		return nil, err
	}

	matched := make([]map[string]any, 0, walmartFilteredLimit)
	for _, item := range items {
		if len(matched) == walmartFilteredLimit {
			break
		}
		if !walmartMatches(item, filters) {
			continue
		}
		usItemID := mapString(item, "usItemId")
		description, _ := c.ProductDescription(ctx, usItemID)
		reviews, _ := c.ProductReviews(ctx, usItemID)

		var productURL any
		if usItemID != "" {
			productURL = "https://www.walmart.com/ip/" + usItemID
		}
		matched = append(matched, map[string]any{
			"usItemId":    usItemID,
			"name":        item["name"],
			"price":       nested(item, "priceInfo", "currentPrice", "priceDisplay"),
			"rating":      item["averageRating"],
			"image":       nested(item, "imageInfo", "thumbnailUrl"),
			"description": description,
			"reviews":     reviews,
			"product_url": productURL,
		})
	}
	return matched, nil
}

func walmartMatches(item, filters map[string]any) bool {
	name := strings.ToLower(mapString(item, "name"))
	desc := strings.ToLower(mapString(item, "shortDescription"))

	for key, value := range filters {
		key = strings.ToLower(key)
		val := strings.ToLower(strings.TrimSpace(stringify(value)))

		switch key {
		case "name", "title", "producttitle":
			if !strings.Contains(name, val) {
				return false
			}
		case "description":
			if !strings.Contains(desc, val) {
				return false
			}
		case "price":
			price, ok := toFloat(nested(item, "priceInfo", "currentPrice", "price"))
			target, ok2 := toFloat(val)
			if !ok || !ok2 || price > target {
				return false
			}
		case "minprice":
			price, ok := toFloat(nested(item, "priceInfo", "currentPrice", "price"))
			target, ok2 := toFloat(val)
			if !ok || !ok2 || price < target {
				return false
			}
		case "rating":
			rating, ok := toFloat(item["averageRating"])
			target, ok2 := toFloat(val)
			if !ok || !ok2 || rating < target {
				return false
			}
		default:
			if !strings.Contains(name, val) && !strings.Contains(desc, val) {
				return false
			}
		}
	}
	return true
}

func stringify(v any) string {
	switch n := v.(type) {
	case string:
		return n
	case float64:
		return strconv.FormatFloat(n, 'f', -1, 64)
	case int:
		return strconv.Itoa(n)
	case bool:
		return strconv.FormatBool(n)
	default:
		return ""
	}
}
