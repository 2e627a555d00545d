package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront_back_end/internal/models"
)

const DefaultIndex = "products"

// document est la forme indexée d'un produit: uniquement les champs cherchables
type document struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Brand       string  `json:"brand"`
	Category    string  `json:"category"`
	Price       float64 `json:"price"`
	Featured    bool    `json:"featured"`
}

func toDocument(p models.Product) document {
	return document{
		Title:       p.Title,
		Description: p.Description,
		Brand:       p.Brand,
		Category:    p.Category,
		Price:       p.Price,
		Featured:    p.Featured,
	}
}

type Elastic struct {
	client *elasticsearch.Client
	index  string
}

var _ Indexer = (*Elastic)(nil)

func NewElastic(client *elasticsearch.Client, index string) *Elastic {
	if index == "" {
		index = DefaultIndex
	}
	return &Elastic{client: client, index: index}
}

// responseError lit le corps d'une réponse en erreur
func responseError(op string, res *esapi.Response) error {
	body, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
	return fmt.Errorf("elastic %s: %s: %s", op, res.Status(), strings.TrimSpace(string(body)))
}

func (e *Elastic) IndexProduct(ctx context.Context, p models.Product) error {
	data, err := json.Marshal(toDocument(p))
	if err != nil {
		return err
	}
	req := esapi.IndexRequest{
		Index:      e.index,
		DocumentID: p.ID.Hex(),
		Body:       bytes.NewReader(data),
		Refresh:    "true",
	}
	res, err := req.Do(ctx, e.client)
	if err != nil {
		return fmt.Errorf("elastic index: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return responseError("index", res)
	}
	return nil
}

// IndexProducts envoie un seul _bulk pour tout le lot
func (e *Elastic) IndexProducts(ctx context.Context, ps []models.Product) error {
	if len(ps) == 0 {
		return nil
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for _, p := range ps {
		meta := map[string]any{"index": map[string]any{"_index": e.index, "_id": p.ID.Hex()}}
		if err := enc.Encode(meta); err != nil {
			return err
		}
		if err := enc.Encode(toDocument(p)); err != nil {
			return err
		}
	}

	req := esapi.BulkRequest{Body: &buf, Refresh: "true"}
	res, err := req.Do(ctx, e.client)
	if err != nil {
		return fmt.Errorf("elastic bulk: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return responseError("bulk", res)
	}

	var out struct {
		Errors bool `json:"errors"`
	}
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return fmt.Errorf("elastic bulk: decode: %w", err)
	}
	if out.Errors {
		return fmt.Errorf("elastic bulk: some documents were rejected")
	}
	return nil
}

func (e *Elastic) DeleteProduct(ctx context.Context, id primitive.ObjectID) error {
	req := esapi.DeleteRequest{Index: e.index, DocumentID: id.Hex(), Refresh: "true"}
	res, err := req.Do(ctx, e.client)
	if err != nil {
		return fmt.Errorf("elastic delete: %w", err)
	}
	defer res.Body.Close()
	// 404: déjà absent de l'index
	if res.IsError() && res.StatusCode != 404 {
		return responseError("delete", res)
	}
	return nil
}

func (e *Elastic) DeleteAll(ctx context.Context) error {
	body := strings.NewReader(`{"query":{"match_all":{}}}`)
	refresh := true
	req := esapi.DeleteByQueryRequest{Index: []string{e.index}, Body: body, Refresh: &refresh}
	res, err := req.Do(ctx, e.client)
	if err != nil {
		return fmt.Errorf("elastic delete_by_query: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() && res.StatusCode != 404 {
		return responseError("delete_by_query", res)
	}
	return nil
}

func (e *Elastic) SearchProducts(ctx context.Context, query string, limit int) ([]primitive.ObjectID, error) {
	q := map[string]any{
		"size":    limit,
		"_source": false,
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":     query,
				"fields":    []string{"title^3", "brand^2", "description", "category"},
				"fuzziness": "AUTO",
			},
		},
	}
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(q); err != nil {
		return nil, fmt.Errorf("elastic search: encode: %w", err)
	}

	req := esapi.SearchRequest{Index: []string{e.index}, Body: &buf}
	res, err := req.Do(ctx, e.client)
	if err != nil {
		return nil, fmt.Errorf("elastic search: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, responseError("search", res)
	}

	var r struct {
		Hits struct {
			Hits []struct {
				ID string `json:"_id"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return nil, fmt.Errorf("elastic search: decode: %w", err)
	}

	ids := make([]primitive.ObjectID, 0, len(r.Hits.Hits))
	for _, h := range r.Hits.Hits {
		// un document étranger à la collection est ignoré
		if id, err := primitive.ObjectIDFromHex(h.ID); err == nil {
			ids = append(ids, id)
		}
	}
	return ids, nil
}
