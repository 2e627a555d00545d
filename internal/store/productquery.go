package store

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Champs sur lesquels le tri est accepté; tout autre champ retombe sur le tri par défaut
var sortableFields = map[string]bool{
	"createdAt":          true,
	"price":              true,
	"rating":             true,
	"title":              true,
	"discountPercentage": true,
	"stock":              true,
}

const defaultSort = "-createdAt"

// ProductQuery est la forme typée des paramètres de GET /api/products.
// Un pointeur nil ou une chaîne vide signifie « filtre absent ».
type ProductQuery struct {
	Category string
	Search   string
	Featured bool
	MinPrice *float64
	MaxPrice *float64
	Sort     string
	Page
}

// ParseProductQuery lit les paramètres bruts. Les nombres illisibles sont ignorés.
func ParseProductQuery(v url.Values) ProductQuery {
	q := ProductQuery{
		Category: strings.TrimSpace(v.Get("category")),
		Search:   strings.TrimSpace(v.Get("search")),
		Featured: v.Get("featured") == "true",
		MinPrice: parsePrice(v.Get("minPrice")),
		MaxPrice: parsePrice(v.Get("maxPrice")),
		Sort:     normalizeSort(v.Get("sort")),
		Page:     ParsePage(v.Get("page"), v.Get("limit"), DefaultLimit),
	}
	return q
}

func parsePrice(s string) *float64 {
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &f
}

func normalizeSort(s string) string {
	field := strings.TrimPrefix(s, "-")
	if !sortableFields[field] {
		return defaultSort
	}
	return s
}

// SortField renvoie le champ et le sens (1 ou -1)
func (q ProductQuery) SortField() (string, int) {
	s := q.Sort
	if s == "" {
		s = defaultSort
	}
	if strings.HasPrefix(s, "-") {
		return s[1:], -1
	}
	return s, 1
}

// Filter construit le filtre Mongo; seuls les critères fournis y figurent.
func (q ProductQuery) Filter() bson.M {
	filter := bson.M{}

	if q.Category != "" {
		filter["category"] = q.Category
	}

	if q.Featured {
		filter["featured"] = true
	}

	if q.Search != "" {
		// recherche de sous-chaîne insensible à la casse, le texte est échappé
		re := primitive.Regex{Pattern: regexp.QuoteMeta(q.Search), Options: "i"}
		filter["$or"] = bson.A{
			bson.M{"title": re},
			bson.M{"description": re},
			bson.M{"brand": re},
		}
	}

	if q.MinPrice != nil || q.MaxPrice != nil {
		price := bson.M{}
		if q.MinPrice != nil {
			price["$gte"] = *q.MinPrice
		}
		if q.MaxPrice != nil {
			price["$lte"] = *q.MaxPrice
		}
		filter["price"] = price
	}

	return filter
}

// FindOptions applique tri, skip et limit
func (q ProductQuery) FindOptions() *options.FindOptions {
	field, dir := q.SortField()
	sort := bson.D{{Key: field, Value: dir}}
	if field != "_id" {
		// départage stable entre documents de même valeur
		sort = append(sort, bson.E{Key: "_id", Value: dir})
	}
	return options.Find().
		SetSort(sort).
		SetSkip(q.Skip()).
		SetLimit(q.Limit)
}
