package cartsync

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/adityakhanna/trendora-backend/pkg/errors"
)

// TokenSource supplies the bearer token for each request. Returning an
// empty token is how a caller signals there is no established identity.
type TokenSource func() (string, error)

// StaticToken wraps a fixed token as a TokenSource.
func StaticToken(token string) TokenSource {
	return func() (string, error) { return token, nil }
}

// HTTPBackend talks to the cart API over HTTP. It maps transport and
// status failures onto the typed error codes the store surfaces, so the
// caller can tell "log in again" apart from "try again later".
type HTTPBackend struct {
	baseURL string
	client  *http.Client
	tokens  TokenSource
}

// NewHTTPBackend builds a backend rooted at baseURL. A nil client falls
// back to http.DefaultClient.
func NewHTTPBackend(baseURL string, client *http.Client, tokens TokenSource) (*HTTPBackend, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("cartsync: base URL is required")
	}
	if tokens == nil {
		return nil, fmt.Errorf("cartsync: token source is required")
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPBackend{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
		tokens:  tokens,
	}, nil
}

type wireItem struct {
	ID             string `json:"id"`
	ProductID      string `json:"product_id"`
	Name           string `json:"name"`
	Image          string `json:"image"`
	Size           string `json:"size"`
	Quantity       int    `json:"quantity"`
	UnitPriceCents int64  `json:"unit_price_cents"`
}

func (w wireItem) toLineItem() LineItem {
	return LineItem{
		ID:         DurableID(w.ID),
		ProductID:  w.ProductID,
		Name:       w.Name,
		PriceCents: w.UnitPriceCents,
		Image:      w.Image,
		Quantity:   w.Quantity,
		Size:       w.Size,
	}
}

func (b *HTTPBackend) CreateOrIncrement(ctx context.Context, productID string, quantity int, size string) (string, error) {
	body := map[string]any{
		"product_id": productID,
		"quantity":   quantity,
		"size":       size,
	}
	var out struct {
		Data wireItem `json:"data"`
	}
	if err := b.do(ctx, http.MethodPost, "/api/v1/cart/items", body, &out); err != nil {
		return "", err
	}
	if out.Data.ID == "" {
		return "", errors.New(errors.CodeDependency, "cart service returned no line id")
	}
	return out.Data.ID, nil
}

func (b *HTTPBackend) UpdateQuantity(ctx context.Context, durableID string, quantity int) error {
	body := map[string]any{"quantity": quantity}
	return b.do(ctx, http.MethodPatch, "/api/v1/cart/items/"+durableID, body, nil)
}

func (b *HTTPBackend) Delete(ctx context.Context, durableID string) error {
	return b.do(ctx, http.MethodDelete, "/api/v1/cart/items/"+durableID, nil, nil)
}

func (b *HTTPBackend) List(ctx context.Context) ([]LineItem, error) {
	var out struct {
		Data struct {
			Items []wireItem `json:"items"`
		} `json:"data"`
	}
	if err := b.do(ctx, http.MethodGet, "/api/v1/cart", nil, &out); err != nil {
		return nil, err
	}
	items := make([]LineItem, 0, len(out.Data.Items))
	for _, w := range out.Data.Items {
		items = append(items, w.toLineItem())
	}
	return items, nil
}

func (b *HTTPBackend) Clear(ctx context.Context) error {
	return b.do(ctx, http.MethodDelete, "/api/v1/cart", nil, nil)
}

func (b *HTTPBackend) do(ctx context.Context, method, path string, body any, out any) error {
	token, err := b.tokens()
	if err != nil {
		return errors.Wrap(errors.CodeUnauthorized, err, "resolving bearer token")
	}
	if token == "" {
		return errors.New(errors.CodeUnauthorized, "no identity established")
	}

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return errors.Wrap(errors.CodeInternal, err, "encoding request body")
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, b.baseURL+path, reader)
	if err != nil {
		return errors.Wrap(errors.CodeInternal, err, "building request")
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := b.client.Do(req)
	if err != nil {
		return errors.Wrap(errors.CodeDependency, err, "cart service unreachable")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return statusError(resp)
	}
	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrap(errors.CodeDependency, err, "decoding cart service response")
	}
	return nil
}

func statusError(resp *http.Response) error {
	var envelope struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	message := "cart service request failed"
	if err := json.NewDecoder(io.LimitReader(resp.Body, 4096)).Decode(&envelope); err == nil && envelope.Error.Message != "" {
		message = envelope.Error.Message
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return errors.New(errors.CodeUnauthorized, message)
	case resp.StatusCode == http.StatusForbidden:
		return errors.New(errors.CodeForbidden, message)
	case resp.StatusCode == http.StatusNotFound:
		return errors.New(errors.CodeNotFound, message)
	case resp.StatusCode == http.StatusBadRequest, resp.StatusCode == http.StatusUnprocessableEntity:
		return errors.New(errors.CodeValidation, message)
	case resp.StatusCode == http.StatusTooManyRequests:
		return errors.New(errors.CodeRateLimit, message)
	default:
		return errors.New(errors.CodeDependency, fmt.Sprintf("%s (status %d)", message, resp.StatusCode))
	}
}
