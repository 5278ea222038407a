package service

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"backoffice/internal/api"
)

// RESTFactory builds adapters that talk to the backing HTTP service. One
// factory per entity; Bind constructs a fresh credentialed client each time.
type RESTFactory struct {
	BaseURL  string // service host, e.g. http://localhost:8000
	BasePath string // entity collection path, e.g. /ts-admin/articles
}

func (f *RESTFactory) Bind(token string) Adapter {
	return &restAdapter{
		client: api.NewClient(f.BaseURL, token),
		base:   f.BasePath,
	}
}

type restAdapter struct {
	client *api.Client
	base   string
}

type listEnvelope struct {
	Success    bool       `json:"success"`
	Data       []Record   `json:"data"`
	Pagination Pagination `json:"pagination"`
}

func (a *restAdapter) List(ctx context.Context, params ListParams) (*ListResult, error) {
	q := url.Values{}
	if params.Page > 0 {
		q.Set("page", strconv.Itoa(params.Page))
	}
	if params.PageSize > 0 {
		q.Set("pageSize", strconv.Itoa(params.PageSize))
	}
	for k, v := range params.Filter {
		q.Set(k, v)
	}

	path := a.base
	if encoded := q.Encode(); encoded != "" {
		path += "?" + encoded
	}

	var envelope listEnvelope
	if err := a.client.Get(ctx, path, &envelope); err != nil {
		return nil, err
	}
	return &ListResult{Items: envelope.Data, Pagination: envelope.Pagination}, nil
}

func (a *restAdapter) GetByID(ctx context.Context, id int64) (Record, error) {
	return a.get(ctx, fmt.Sprintf("%s/%d", a.base, id))
}

func (a *restAdapter) GetByKey(ctx context.Context, key string) (Record, error) {
	return a.get(ctx, a.base+"/"+url.PathEscape(key))
}

func (a *restAdapter) get(ctx context.Context, path string) (Record, error) {
	var body map[string]any
	if err := a.client.Get(ctx, path, &body); err != nil {
		if api.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return unwrap(body), nil
}

func (a *restAdapter) Create(ctx context.Context, payload Record) (Record, error) {
	var body map[string]any
	if err := a.client.Post(ctx, a.base, payload, &body); err != nil {
		return nil, err
	}
	return unwrap(body), nil
}

func (a *restAdapter) Update(ctx context.Context, id ID, payload Record) (Record, error) {
	var body map[string]any
	if err := a.client.Put(ctx, a.base+"/"+url.PathEscape(id.String()), payload, &body); err != nil {
		return nil, err
	}
	return unwrap(body), nil
}

func (a *restAdapter) Delete(ctx context.Context, id ID) error {
	return a.client.Delete(ctx, a.base+"/"+url.PathEscape(id.String()))
}

// unwrap peels the service's {success, data} envelope when present; some
// endpoints return the record bare.
func unwrap(body map[string]any) Record {
	if body == nil {
		return nil
	}
	if data, ok := body["data"].(map[string]any); ok {
		if _, hasSuccess := body["success"]; hasSuccess || len(body) == 1 {
			return data
		}
	}
	return body
}
