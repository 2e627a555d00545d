package store

import (
	"math"
	"strconv"
)

const (
	DefaultLimit = 12
	MaxLimit     = 100
)

// Page porte la pagination commune à toutes les listes
type Page struct {
	Page  int64
	Limit int64
}

// ParsePage lit page/limit; les valeurs absentes, invalides ou < 1 prennent le défaut
func ParsePage(page, limit string, defLimit int64) Page {
	p := Page{Page: 1, Limit: defLimit}
	// base 10 explicite: "010" est la page 10, pas un octal
	if n, err := strconv.ParseInt(page, 10, 64); err == nil && n >= 1 {
		p.Page = n
	}
	if n, err := strconv.ParseInt(limit, 10, 64); err == nil && n >= 1 {
		p.Limit = n
	}
	if p.Limit < 1 {
		p.Limit = DefaultLimit
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	// (Page-1)*Limit doit tenir dans un int64
	if maxPage := math.MaxInt64 / p.Limit; p.Page > maxPage {
		p.Page = maxPage
	}
	return p
}

func (p Page) Skip() int64 { return (p.Page - 1) * p.Limit }

func (p Page) TotalPages(total int64) int64 {
	if p.Limit <= 0 {
		return 0
	}
	return (total + p.Limit - 1) / p.Limit
}
