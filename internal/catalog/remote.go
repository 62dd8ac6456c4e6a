package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/fjod/go_cart/order-entry/internal/domain"
	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const DefaultTimeout = 3 * time.Second

// RemoteClient reads the catalog from a catalog service over HTTP:
//
//	GET /products  GET /products/{id}  GET /promotions  GET /promotions/{code}
//
// Calls go through a circuit breaker, and concurrent lookups of the same
// resource share one request.
type RemoteClient struct {
	client  *resty.Client
	breaker *breaker
	sfg     singleflight.Group
}

func NewRemoteClient(baseURL string, timeout time.Duration, logger *zap.Logger) *RemoteClient {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &RemoteClient{
		client: resty.New().
			SetBaseURL(baseURL).
			SetTimeout(timeout).
			SetHeader("Accept", "application/json").
			SetRetryCount(0), // the breaker decides when to stop calling
		breaker: newBreaker("Catalog", "order-entry", logger),
	}
}

func (c *RemoteClient) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	var p domain.Product
	if err := c.get(ctx, "/products/"+strconv.FormatInt(id, 10), &p); err != nil {
		return nil, fmt.Errorf("product %d: %w", id, err)
	}
	return &p, nil
}

func (c *RemoteClient) ListProducts(ctx context.Context) ([]domain.Product, error) {
	var products []domain.Product
	if err := c.get(ctx, "/products", &products); err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return products, nil
}

func (c *RemoteClient) GetPromotion(ctx context.Context, code string) (*domain.Promotion, error) {
	var p domain.Promotion
	if err := c.get(ctx, "/promotions/"+url.PathEscape(code), &p); err != nil {
		return nil, fmt.Errorf("promotion %q: %w", code, err)
	}
	return &p, nil
}

func (c *RemoteClient) ListPromotions(ctx context.Context) ([]domain.Promotion, error) {
	var promotions []domain.Promotion
	if err := c.get(ctx, "/promotions", &promotions); err != nil {
		return nil, fmt.Errorf("list promotions: %w", err)
	}
	return promotions, nil
}

// State reports the catalog circuit breaker state ("closed", "open", "half-open").
func (c *RemoteClient) State() string {
	return c.breaker.State().String()
}

// get shares one in-flight request per path between concurrent callers. The
// shared request runs detached from any single caller's context, so one
// clerk's cancelled request cannot fail another's lookup; each caller still
// stops waiting when its own ctx is done.
func (c *RemoteClient) get(ctx context.Context, path string, out any) error {
	ch := c.sfg.DoChan(path, func() (interface{}, error) {
		return c.breaker.execute(func() ([]byte, error) {
			resp, httpErr := c.client.R().
				SetContext(context.WithoutCancel(ctx)).
				Get(path)
			if httpErr != nil {
				return nil, fmt.Errorf("HTTP error: %w", httpErr)
			}

			switch resp.StatusCode() {
			case http.StatusOK:
				return resp.Body(), nil
			case http.StatusNotFound:
				return nil, ErrNotFound
			default:
				return nil, fmt.Errorf("catalog service returned status %d: %s", resp.StatusCode(), resp.String())
			}
		})
	})

	var res singleflight.Result
	select {
	case <-ctx.Done():
		return ctx.Err()
	case res = <-ch:
	}
	if res.Err != nil {
		return res.Err
	}

	if err := json.Unmarshal(res.Val.([]byte), out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}
