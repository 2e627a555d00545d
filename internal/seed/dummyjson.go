// Package seed importe le catalogue de démonstration depuis DummyJSON.
package seed

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"storefront_back_end/internal/models"
)

const (
	DefaultBaseURL = "https://dummyjson.com"
	DefaultLimit   = 100
	// au-dessus de cette note le produit est mis en avant
	featuredRating = 4.5
)

type Source interface {
	FetchProducts(ctx context.Context, limit int) ([]models.Product, error)
}

type dummyProduct struct {
	ID                 int      `json:"id"`
	Title              string   `json:"title"`
	Description        string   `json:"description"`
	Price              float64  `json:"price"`
	DiscountPercentage float64  `json:"discountPercentage"`
	Rating             float64  `json:"rating"`
	Stock              int      `json:"stock"`
	Brand              string   `json:"brand"`
	Category           string   `json:"category"`
	Thumbnail          string   `json:"thumbnail"`
	Images             []string `json:"images"`
}

func (d dummyProduct) product() models.Product {
	images := d.Images
	if len(images) == 0 {
		images = []string{d.Thumbnail}
	}
	return models.Product{
		Title:              d.Title,
		Description:        d.Description,
		Price:              d.Price,
		DiscountPercentage: d.DiscountPercentage,
		Rating:             d.Rating,
		Stock:              d.Stock,
		Brand:              d.Brand,
		Category:           d.Category,
		Thumbnail:          d.Thumbnail,
		Images:             images,
		Featured:           d.Rating >= featuredRating,
		Source:             models.SourceDummyJSON,
		DummyJSONID:        d.ID,
	}
}

type Client struct {
	baseURL string
	http    *http.Client
}

var _ Source = (*Client)(nil)

func NewClient(baseURL string, hc *http.Client) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if hc == nil {
		hc = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: hc}
}

func (c *Client) FetchProducts(ctx context.Context, limit int) ([]models.Product, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	url := c.baseURL + "/products?limit=" + strconv.Itoa(limit)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("dummyjson: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("dummyjson: status %d", resp.StatusCode)
	}

	var body struct {
		Products []dummyProduct `json:"products"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("dummyjson: decode: %w", err)
	}

	out := make([]models.Product, 0, len(body.Products))
	for _, d := range body.Products {
		out = append(out, d.product())
	}
	return out, nil
}
