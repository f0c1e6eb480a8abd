package sortby

import "github.com/kailas-cloud/showroom/internal/domain/product/field"

// Key is a client-facing sort key.
type Key string

// Sort key constants.
const (
	// Relevance is the default ordering: best rated first, then most reviewed.
	// It is not a text relevance score.
	Relevance Key = "relevance"
	PriceAsc  Key = "price_asc"
	PriceDesc Key = "price_desc"
	Rating    Key = "rating"
	Name      Key = "name"
	Newest    Key = "newest"
)

// IsValid checks if the key is one of the supported values.
func (k Key) IsValid() bool {
	switch k {
	case Relevance, PriceAsc, PriceDesc, Rating, Name, Newest:
		return true
	}
	return false
}

// Parse maps a client string onto a Key; anything unknown becomes Relevance.
func Parse(s string) Key {
	return ParseOr(s, Relevance)
}

// ParseOr maps a client string onto a Key; anything unknown becomes def.
func ParseOr(s string, def Key) Key {
	k := Key(s)
	if !k.IsValid() {
		return def
	}
	return k
}

// Direction is the ordering direction of a single sort field.
type Direction int

// Sort directions.
const (
	Asc Direction = iota
	Desc
)

// Order is one sort field with its direction.
type Order struct {
	Field     field.Field
	Direction Direction
}

// Orders is the full sort order list, most significant first.
type Orders []Order

// Orders returns the storage ordering for k.
func (k Key) Orders() Orders {
	switch k {
	case PriceAsc:
		return Orders{{Field: field.Price, Direction: Asc}}
	case PriceDesc:
		return Orders{{Field: field.Price, Direction: Desc}}
	case Name:
		return Orders{{Field: field.Name, Direction: Asc}}
	case Newest:
		return Orders{{Field: field.CreatedAt, Direction: Desc}}
	default:
		return Orders{
			{Field: field.Rating, Direction: Desc},
			{Field: field.Reviews, Direction: Desc},
		}
	}
}
