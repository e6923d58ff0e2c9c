package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopchat-ai/shopchat/tool"
)

// Tool names exposed to the e-commerce assistant.
const (
	ToolNameAmazonSearch        = "search_amazon_products"
	ToolNameAmazonReviews       = "amazon_product_reviews"
	ToolNameWalmartSearch       = "search_walmart_products"
	ToolNameWalmartReviews      = "walmart_product_reviews"
	ToolNameWalmartDescriptions = "walmart_product_descriptions"
)

const (
	defaultProductLimit = 3
	maxProductLimit     = 10
	defaultReviewLimit  = 5
	maxReviewLimit      = 20
)

type productSearchArgs struct {
	Keyword string `json:"keyword" description:"The search keyword for products"`
	Limit   *int   `json:"limit,omitempty" description:"Number of products to return (1-10)"`
}

type amazonReviewArgs struct {
	ASIN  string `json:"asin" description:"The Amazon ASIN (product identifier) to get reviews for"`
	Limit *int   `json:"limit,omitempty" description:"Number of reviews to return (1-20)"`
}

type walmartReviewArgs struct {
	USItemID string `json:"us_item_id" description:"The Walmart item ID to get reviews for"`
	Limit    *int   `json:"limit,omitempty" description:"Number of reviews to return (1-20)"`
}

type walmartDescriptionArgs struct {
	Keyword string `json:"keyword" description:"The search keyword for products"`
	Limit   *int   `json:"limit,omitempty" description:"Number of products to describe (1-10)"`
}

// NewAmazonSearchTool wraps AmazonClient.TopProducts as a callable tool.
func NewAmazonSearchTool(client *AmazonClient) *tool.FunctionTool {
	return tool.NewFunctionToolFromStruct(
		ToolNameAmazonSearch,
		"Search for products on Amazon with keyword and limit",
		productSearchArgs{},
		func(ctx context.Context, args map[string]any) (any, error) {
			keyword, err := keywordArg(args, "keyword")
			if err != nil {
				return nil, err
			}
			limit := clampArg(args, "limit", defaultProductLimit, maxProductLimit)

			results, err := client.TopProducts(ctx, keyword, limit)
			if err != nil {
				return nil, fmt.Errorf("amazon search failed: %w", err)
			}
			if len(results) == 0 {
				return []map[string]any{{"message": "No Amazon products found", "keyword": keyword}}, nil
			}
			return results, nil
		})
}

// NewAmazonReviewsTool wraps AmazonClient.ProductReviews as a callable tool.
func NewAmazonReviewsTool(client *AmazonClient) *tool.FunctionTool {
	return tool.NewFunctionToolFromStruct(
		ToolNameAmazonReviews,
		"Get reviews for Amazon products using ASIN",
		amazonReviewArgs{},
		func(ctx context.Context, args map[string]any) (any, error) {
			asin, err := keywordArg(args, "asin")
			if err != nil {
				return nil, err
			}
			limit := clampArg(args, "limit", defaultReviewLimit, maxReviewLimit)

			results, err := client.ProductReviews(ctx, asin)
			if err != nil {
				return nil, fmt.Errorf("failed to get reviews: %w", err)
			}
			if len(results) > limit {
				results = results[:limit]
			}
			if len(results) == 0 {
				return []map[string]any{{"message": "No reviews found", "asin": asin}}, nil
			}
			return results, nil
		})
}

// NewWalmartSearchTool wraps WalmartClient.TopProducts as a callable tool.
func NewWalmartSearchTool(client *WalmartClient) *tool.FunctionTool {
	return tool.NewFunctionToolFromStruct(
		ToolNameWalmartSearch,
		"Search for products on Walmart with keyword and limit",
		productSearchArgs{},
		func(ctx context.Context, args map[string]any) (any, error) {
			keyword, err := keywordArg(args, "keyword")
			if err != nil {
				return nil, err
			}
			limit := clampArg(args, "limit", defaultProductLimit, maxProductLimit)

			results, err := client.TopProducts(ctx, keyword, limit)
			if err != nil {
				return nil, fmt.Errorf("walmart search failed: %w", err)
			}
			if len(results) == 0 {
				return []map[string]any{{"message": "No Walmart products found", "keyword": keyword}}, nil
			}
			return results, nil
		})
}

// NewWalmartReviewsTool wraps WalmartClient.ProductReviews as a callable tool.
func NewWalmartReviewsTool(client *WalmartClient) *tool.FunctionTool {
	return tool.NewFunctionToolFromStruct(
		ToolNameWalmartReviews,
		"Get reviews for Walmart products using item ID",
		walmartReviewArgs{},
		func(ctx context.Context, args map[string]any) (any, error) {
			usItemID, err := keywordArg(args, "us_item_id")
			if err != nil {
				return nil, err
			}
			limit := clampArg(args, "limit", defaultReviewLimit, maxReviewLimit)

			results, err := client.ProductReviews(ctx, usItemID)
			if err != nil {
				return nil, fmt.Errorf("failed to get reviews: %w", err)
			}
			if len(results) > limit {
				results = results[:limit]
			}
			if len(results) == 0 {
				return []map[string]any{{"message": "No reviews found", "us_item_id": usItemID}}, nil
			}
			return results, nil
		})
}

// NewWalmartDescriptionsTool wraps WalmartClient.DescriptionsByKeyword as a
// callable tool.
func NewWalmartDescriptionsTool(client *WalmartClient) *tool.FunctionTool {
	return tool.NewFunctionToolFromStruct(
		ToolNameWalmartDescriptions,
		"Get detailed descriptions for Walmart products matching a keyword",
		walmartDescriptionArgs{},
		func(ctx context.Context, args map[string]any) (any, error) {
			keyword, err := keywordArg(args, "keyword")
			if err != nil {
				return nil, err
			}
			limit := clampArg(args, "limit", defaultProductLimit, maxProductLimit)

			results, err := client.DescriptionsByKeyword(ctx, keyword, limit)
			if err != nil {
				return nil, fmt.Errorf("failed to get descriptions: %w", err)
			}
			if len(results) == 0 {
				return []map[string]any{{"message": "No Walmart products found", "keyword": keyword}}, nil
			}
			return results, nil
		})
}

// ProductTools bundles all product tools over the two clients, ready to hand
// to the orchestrator builder.
func ProductTools(amazon *AmazonClient, walmart *WalmartClient) []tool.Tool {
	return []tool.Tool{
		NewAmazonSearchTool(amazon),
		NewAmazonReviewsTool(amazon),
		NewWalmartSearchTool(walmart),
		NewWalmartReviewsTool(walmart),
		NewWalmartDescriptionsTool(walmart),
	}
}

func keywordArg(args map[string]any, key string) (string, error) {
	v, _ := args[key].(string)
	v = strings.TrimSpace(v)
	if v == "" {
		return "", fmt.Errorf("%s cannot be empty", key)
	}
	return v, nil
}

// clampArg reads an optional numeric argument and clamps it to [1, max].
func clampArg(args map[string]any, key string, def, max int) int {
	limit := def
	if v, ok := toFloat(args[key]); ok {
		limit = int(v)
	}
	if limit < 1 {
		limit = 1
	}
	if limit > max {
		limit = max
	}
	return limit
}
