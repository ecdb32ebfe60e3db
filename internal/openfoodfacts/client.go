// Package openfoodfacts is a small client for the public OpenFoodFacts
// catalog: full-text product search and single-product lookup by barcode.
package openfoodfacts

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/zjrosen/offview/internal/log"
	"github.com/zjrosen/offview/internal/product"
	"github.com/zjrosen/offview/internal/tracing"
)

const (
	// DefaultBaseURL is the world catalog.
	DefaultBaseURL = "https://world.openfoodfacts.org"

	// DefaultUserAgent identifies offview to the catalog operators.
	DefaultUserAgent = "offview/dev (+https://github.com/zjrosen/offview)"

	// maxBodyBytes caps how much of a response is read.
	maxBodyBytes = 8 << 20
)

// Options configures a Client.
type Options struct {
	BaseURL   string
	UserAgent string
	// PageSize is sent as page_size on searches when > 0.
	PageSize int
	// HTTPClient defaults to a client with Timeout.
	HTTPClient *http.Client
	// Timeout applies only when HTTPClient is nil. Zero means none.
	Timeout time.Duration
	Tracer  trace.Tracer
}

// Client talks to an OpenFoodFacts server. It is safe for concurrent use.
type Client struct {
	baseURL   string
	userAgent string
	pageSize  int
	http      *http.Client
	tracer    trace.Tracer
}

// NewClient creates a client, filling unset options with defaults.
func NewClient(opts Options) *Client {
	base := strings.TrimRight(opts.BaseURL, "/")
	if base == "" {
		base = DefaultBaseURL
	}
	ua := opts.UserAgent
	if ua == "" {
		ua = DefaultUserAgent
	}
	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: opts.Timeout}
	}
	tracer := opts.Tracer
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer("noop")
	}
	return &Client{
		baseURL:   base,
		userAgent: ua,
		pageSize:  opts.PageSize,
		http:      hc,
		tracer:    tracer,
	}
}

// BaseURL returns the server the client talks to.
func (c *Client) BaseURL() string { return c.baseURL }

// SearchURL builds the search endpoint for term.
func (c *Client) SearchURL(term string) string {
	q := url.Values{}
	q.Set("search_terms", term)
	q.Set("search_simple", "1")
	q.Set("json", "1")
	if c.pageSize > 0 {
		q.Set("page_size", strconv.Itoa(c.pageSize))
	}
	return c.baseURL + "/cgi/search.pl?" + q.Encode()
}

// ProductURL builds the detail endpoint for code.
func (c *Client) ProductURL(code string) string {
	return c.baseURL + "/api/v0/product/" + url.PathEscape(code) + ".json"
}

// Search returns the products matching term in server order.
func (c *Client) Search(ctx context.Context, term string) ([]product.Product, error) {
	ctx, span := c.tracer.Start(ctx, tracing.SpanSearchRequest,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String(tracing.AttrSearchTerm, term)),
	)
	defer span.End()

	var resp searchResponse
	if err := c.get(ctx, span, OpSearch, c.SearchURL(term), &resp); err != nil {
		return nil, err
	}

	products := resp.toProducts()
	span.SetAttributes(attribute.Int(tracing.AttrResultCount, len(products)))
	span.SetStatus(codes.Ok, "")
	log.Debug(log.CatHTTP, "Search decoded", "term", term, "count", len(products))
	return products, nil
}

// Product returns the details of the product with the given barcode.
func (c *Client) Product(ctx context.Context, code string) (product.Detail, error) {
	ctx, span := c.tracer.Start(ctx, tracing.SpanDetailRequest,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String(tracing.AttrProductCode, code)),
	)
	defer span.End()

	var resp detailResponse
	if err := c.get(ctx, span, OpProduct, c.ProductURL(code), &resp); err != nil {
		return product.Detail{}, err
	}

	detail, err := resp.toDetail(code)
	if err != nil {
		derr := &DecodeError{Op: OpProduct, Err: err}
		recordError(span, derr, "decode")
		return product.Detail{}, derr
	}

	span.SetStatus(codes.Ok, "")
	log.Debug(log.CatHTTP, "Product decoded", "code", detail.Code)
	return detail, nil
}

// get fetches rawURL and decodes the JSON body into out.
func (c *Client) get(ctx context.Context, span trace.Span, op Op, rawURL string, out any) error {
	span.SetAttributes(attribute.String(tracing.AttrHTTPURL, rawURL))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		terr := &TransportError{Op: op, Err: err}
		recordError(span, terr, "transport")
		return terr
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		terr := &TransportError{Op: op, Err: err}
		recordError(span, terr, "transport")
		log.ErrorErr(log.CatHTTP, "Request failed", err, "op", op, "url", rawURL)
		return terr
	}
	defer func() { _ = resp.Body.Close() }()

	span.SetAttributes(attribute.Int(tracing.AttrHTTPStatus, resp.StatusCode))
	log.Debug(log.CatHTTP, "Response received",
		"op", op, "status", resp.StatusCode, "elapsed", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		terr := &TransportError{
			Op:         op,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("HTTP status %s", resp.Status),
		}
		recordError(span, terr, "transport")
		log.Warn(log.CatHTTP, "Unexpected status", "op", op, "status", resp.StatusCode, "url", rawURL)
		return terr
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(out); err != nil {
		derr := &DecodeError{Op: op, Err: err}
		recordError(span, derr, "decode")
		log.ErrorErr(log.CatHTTP, "Decoding response failed", err, "op", op)
		return derr
	}
	return nil
}

func recordError(span trace.Span, err error, class string) {
	span.RecordError(err)
	span.SetAttributes(attribute.String(tracing.AttrErrorClass, class))
	span.SetStatus(codes.Error, err.Error())
}
