package sync

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/segmentio/encoding/json"
)

// Row is one table row in wire form.
type Row = map[string]interface{}

// Store is the per-table capability the push and pull engines need from the
// hosted data service. Tests substitute an in-memory fake.
type Store interface {
	SelectUpdatedSince(ctx context.Context, table Table, since time.Time) ([]Row, error)
	Insert(ctx context.Context, table Table, row Row) error
	Update(ctx context.Context, table Table, id int64, row Row) error
	Upsert(ctx context.Context, table Table, row Row) error
	Delete(ctx context.Context, table Table, id int64) error
}

// APIError is a non-2xx response from the remote store. The body is kept
// verbatim so foreign-key failures can be matched against column names.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("remote store returned %d: %s", e.StatusCode, e.Body)
}

// IsForeignKeyViolation reports whether the error is a remote foreign-key
// constraint failure.
func IsForeignKeyViolation(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return strings.Contains(strings.ToLower(apiErr.Body), "foreign key")
}

// violationMentions reports whether a remote constraint failure names the
// given column.
func violationMentions(err error, column string) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return strings.Contains(apiErr.Body, column)
}

// RESTStore talks to a PostgREST-style hosted data service: one resource per
// table, filters in the query string, API key in the headers.
type RESTStore struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewRESTStore(baseURL, apiKey string) *RESTStore {
	return &RESTStore{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

func (s *RESTStore) SelectUpdatedSince(ctx context.Context, table Table, since time.Time) ([]Row, error) {
	query := url.Values{}
	query.Set("select", "*")
	query.Set("updated_at", "gt."+FormatTimestamp(since))
	query.Set("order", "updated_at.asc")

	body, err := s.do(ctx, http.MethodGet, table.Name+"?"+query.Encode(), nil, "")
	if err != nil {
		return nil, err
	}

	rows := []Row{}
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, errors.Wrapf(err, "decoding %s rows", table.Name)
	}
	return rows, nil
}

func (s *RESTStore) Insert(ctx context.Context, table Table, row Row) error {
	_, err := s.do(ctx, http.MethodPost, table.Name, row, "return=minimal")
	return err
}

func (s *RESTStore) Update(ctx context.Context, table Table, id int64, row Row) error {
	_, err := s.do(ctx, http.MethodPatch, table.Name+"?"+eqFilter(table.PrimaryKey, id), row, "return=minimal")
	return err
}

func (s *RESTStore) Upsert(ctx context.Context, table Table, row Row) error {
	_, err := s.do(ctx, http.MethodPost, table.Name, row, "resolution=merge-duplicates,return=minimal")
	return err
}

func (s *RESTStore) Delete(ctx context.Context, table Table, id int64) error {
	_, err := s.do(ctx, http.MethodDelete, table.Name+"?"+eqFilter(table.PrimaryKey, id), nil, "")
	return err
}

func eqFilter(column string, id int64) string {
	query := url.Values{}
	query.Set(column, "eq."+strconv.FormatInt(id, 10))
	return query.Encode()
}

func (s *RESTStore) do(ctx context.Context, method, path string, payload interface{}, prefer string) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, errors.WithStack(err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+"/rest/v1/"+path, reqBody)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	req.Header.Set("apikey", s.apiKey)
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if prefer != "" {
		req.Header.Set("Prefer", prefer)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &APIError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	return body, nil
}
