package services

import (
	"math"

	"shop-api/models"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
	// keeps Offset within an INTEGER for any page size
	maxPageNumber   = math.MaxInt32 / maxPageSize
)

type Page struct {
	Number int
	Limit  int
}

func NewPage(page, limit int) Page {
	if page < 1 {
		page = 1
	}
	if page > maxPageNumber {
		page = maxPageNumber
	}
	if limit < 1 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	return Page{Number: page, Limit: limit}
}

func (p Page) Offset() int {
	return (p.Number - 1) * p.Limit
}

func (p Page) Meta(total int) models.MetaData {
	return models.MetaData{
		Page:       p.Number,
		Limit:      p.Limit,
		TotalItems: total,
		TotalPages: int(math.Ceil(float64(total) / float64(p.Limit))),
	}
}
