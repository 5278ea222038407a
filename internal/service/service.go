// Package service defines the narrow capability interface through which the
// engine reads and writes entity records. Implementations are request-scoped:
// a Factory binds the caller's credential to a fresh Adapter on every
// request, so configurations stay immutable and concurrent requests can never
// execute under each other's credentials.
package service

import (
	"context"
	"strconv"
)

// ID identifies a record: either a numeric id or a string key, selected by
// the entity configuration's declared id strategy.
type ID interface {
	isID()
	String() string
}

type NumericID int64

func (NumericID) isID() {}

func (n NumericID) String() string { return strconv.FormatInt(int64(n), 10) }

type KeyID string

func (KeyID) isID() {}

func (k KeyID) String() string { return string(k) }

// Record is an entity record, opaque to the engine beyond the field contract.
type Record = map[string]any

// Pagination is the page metadata returned by List.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"pageSize"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// ListParams selects a page of records, with optional single-equality
// filters.
type ListParams struct {
	Page     int
	PageSize int
	Filter   map[string]string
}

// ListResult is one page of records plus pagination metadata.
type ListResult struct {
	Items      []Record   `json:"data"`
	Pagination Pagination `json:"pagination"`
}

// Adapter is the per-request capability set for one entity. A nil record with
// a nil error from GetByID/GetByKey means not found; errors are reserved for
// failed calls.
type Adapter interface {
	List(ctx context.Context, params ListParams) (*ListResult, error)
	GetByID(ctx context.Context, id int64) (Record, error)
	GetByKey(ctx context.Context, key string) (Record, error)
	Create(ctx context.Context, payload Record) (Record, error)
	Update(ctx context.Context, id ID, payload Record) (Record, error)
	Delete(ctx context.Context, id ID) error
}

// Factory produces adapters bound to a caller's credential. Entity
// configurations hold a Factory; the pipeline calls Bind once per request
// before any remote call.
type Factory interface {
	Bind(token string) Adapter
}

// Get fetches a record through the id-appropriate lookup.
func Get(ctx context.Context, a Adapter, id ID) (Record, error) {
	switch v := id.(type) {
	case NumericID:
		return a.GetByID(ctx, int64(v))
	case KeyID:
		return a.GetByKey(ctx, string(v))
	default:
		return nil, nil
	}
}
