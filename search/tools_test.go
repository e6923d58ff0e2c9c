package search

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAmazonSearchTool(t *testing.T) {
	tl := NewAmazonSearchTool(newAmazonTestClient(t))

	t.Run("returns products", func(t *testing.T) {
		out, err := tl.Call(context.Background(), map[string]any{"keyword": "mouse", "limit": float64(3)})
		require.NoError(t, err)
		products, ok := out.([]map[string]any)
		require.True(t, ok)
		require.Len(t, products, 1)
		assert.Equal(t, "Wireless Mouse Pro", products[0]["title"])
	})

	t.Run("empty keyword is rejected", func(t *testing.T) {
		_, err := tl.Call(context.Background(), map[string]any{"keyword": "   "})
		assert.Error(t, err)
	})
}

func TestReviewToolLimitClamp(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reviews := make([]map[string]any, 30)
		for i := range reviews {
			reviews[i] = map[string]any{"title": "r", "rating": 4}
		}
		writeJSON(t, w, map[string]any{"reviews": reviews})
	}))
	t.Cleanup(srv.Close)

	c := NewAmazonClient("secret-key", func(o *AmazonOptions) { o.BaseURL = srv.URL })
	tl := NewAmazonReviewsTool(c)

	t.Run("limit above cap is clamped to 20", func(t *testing.T) {
		out, err := tl.Call(context.Background(), map[string]any{"asin": "B001", "limit": float64(100)})
		require.NoError(t, err)
		assert.Len(t, out.([]map[string]any), maxReviewLimit)
	})

	t.Run("limit below one is raised to one", func(t *testing.T) {
		out, err := tl.Call(context.Background(), map[string]any{"asin": "B001", "limit": float64(-3)})
		require.NoError(t, err)
		assert.Len(t, out.([]map[string]any), 1)
	})

	t.Run("missing limit uses the default", func(t *testing.T) {
		out, err := tl.Call(context.Background(), map[string]any{"asin": "B001"})
		require.NoError(t, err)
		assert.Len(t, out.([]map[string]any), defaultReviewLimit)
	})
}

func TestNoResultMessages(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/product-search":
			writeJSON(t, w, map[string]any{"status": "success", "details": []map[string]any{}})
		case "/searchV2":
			writeJSON(t, w, map[string]any{"itemsV2": []map[string]any{}})
		default:
			writeJSON(t, w, map[string]any{"reviews": []map[string]any{}})
		}
	}))
	t.Cleanup(srv.Close)

	amazon := NewAmazonClient("k", func(o *AmazonOptions) { o.BaseURL = srv.URL })
	walmart := NewWalmartClient("k", func(o *WalmartOptions) { o.BaseURL = srv.URL })

	t.Run("amazon search", func(t *testing.T) {
		out, err := NewAmazonSearchTool(amazon).Call(context.Background(), map[string]any{"keyword": "nothing"})
		require.NoError(t, err)
		assert.Equal(t, "No Amazon products found", out.([]map[string]any)[0]["message"])
	})

	t.Run("walmart search", func(t *testing.T) {
		out, err := NewWalmartSearchTool(walmart).Call(context.Background(), map[string]any{"keyword": "nothing"})
		require.NoError(t, err)
		assert.Equal(t, "No Walmart products found", out.([]map[string]any)[0]["message"])
	})

	t.Run("walmart reviews", func(t *testing.T) {
		out, err := NewWalmartReviewsTool(walmart).Call(context.Background(), map[string]any{"us_item_id": "999"})
		require.NoError(t, err)
		assert.Equal(t, "No reviews found", out.([]map[string]any)[0]["message"])
	})
}

func TestProductToolsBundle(t *testing.T) {
	amazon := NewAmazonClient("k")
	walmart := NewWalmartClient("k")

	tools := ProductTools(amazon, walmart)
	require.Len(t, tools, 5)

	names := make([]string, 0, len(tools))
	for _, tl := range tools {
		names = append(names, tl.Name())
	}
	assert.ElementsMatch(t, names, []string{
		ToolNameAmazonSearch,
		ToolNameAmazonReviews,
		ToolNameWalmartSearch,
		ToolNameWalmartReviews,
		ToolNameWalmartDescriptions,
	})
}
