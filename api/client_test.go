package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDoSendsHeaders(t *testing.T) {
	var gotAuth, gotContentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotContentType = r.Header.Get("Content-Type")
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	c.SetToken("tok-123")
	_, err := c.get(context.Background(), "/anything")
	require.NoError(t, err)

	assert.Equal(t, "Bearer tok-123", gotAuth)
	assert.Equal(t, "application/json", gotContentType)
}

func TestDoOmitsBearerWithoutToken(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	_, err := c.get(context.Background(), "/anything")
	require.NoError(t, err)
	assert.Empty(t, gotAuth)
}

func TestClearToken(t *testing.T) {
	c := NewClient("http://example.invalid")
	c.SetToken("tok")
	require.Equal(t, "tok", c.Token())
	c.ClearToken()
	assert.Empty(t, c.Token())
}

func TestErrorDecoding(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantMsg string
	}{
		{"error key", http.StatusBadRequest, `{"error":"product not found"}`, "product not found"},
		{"message key", http.StatusBadRequest, `{"message":"try later"}`, "try later"},
		{
			"validation messages",
			http.StatusUnprocessableEntity,
			`{"messages":{"email":["is invalid","is taken"],"password":["too short"]}}`,
			"Validation failed: email: is invalid, is taken; password: too short",
		},
		{"non-json body", http.StatusBadGateway, "upstream exploded", "upstream exploded"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := NewClient(srv.URL).get(context.Background(), "/x")
			require.Error(t, err)

			var apiErr *Error
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tt.status, apiErr.Status)
			assert.Equal(t, tt.wantMsg, apiErr.Message())
		})
	}
}

func TestErrorUnauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":"invalid credentials"}`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).get(context.Background(), "/auth/me")
	var apiErr *Error
	require.True(t, errors.As(err, &apiErr))
	assert.True(t, apiErr.Unauthorized())

	forbidden := &Error{Status: http.StatusForbidden}
	assert.False(t, forbidden.Unauthorized())
}

func TestCartGatewayPaths(t *testing.T) {
	type call struct {
		method string
		path   string
		body   string
	}
	var calls []call
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body string
		if r.Body != nil {
			b := make([]byte, 1024)
			n, _ := r.Body.Read(b)
			body = string(b[:n])
		}
		calls = append(calls, call{r.Method, r.URL.Path, body})
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	ctx := context.Background()

	_, err := c.FetchCart(ctx)
	require.NoError(t, err)
	_, err = c.AddItem(ctx, "p1", 2)
	require.NoError(t, err)
	require.NoError(t, c.UpdateItem(ctx, "7", 3))
	require.NoError(t, c.RemoveItem(ctx, "7"))
	require.NoError(t, c.ClearCart(ctx))

	require.Len(t, calls, 5)
	assert.Equal(t, call{"GET", "/orders/cart", ""}, calls[0])
	assert.Equal(t, "POST", calls[1].method)
	assert.Equal(t, "/orders/cart/add", calls[1].path)
	assert.JSONEq(t, `{"product_id":"p1","quantity":2}`, calls[1].body)
	assert.Equal(t, "PUT", calls[2].method)
	assert.Equal(t, "/orders/cart/7", calls[2].path)
	assert.JSONEq(t, `{"quantity":3}`, calls[2].body)
	assert.Equal(t, call{"DELETE", "/orders/cart/7", ""}, calls[3])
	assert.Equal(t, call{"DELETE", "/orders/cart/clear", ""}, calls[4])
}

func TestLoginDecodesSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/login", r.URL.Path)
		var input map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&input))
		require.Equal(t, "a@b.gm", input["email"])
		w.Write([]byte(`{"access_token":"tok","user":{"id":"1","email":"a@b.gm","role":"customer"}}`))
	}))
	defer srv.Close()

	session, err := NewClient(srv.URL).Login(context.Background(), "a@b.gm", "pw")
	require.NoError(t, err)
	assert.Equal(t, "tok", session.AccessToken)
	assert.Equal(t, "customer", session.User.Role)
}

func TestProductsParamsEncode(t *testing.T) {
	assert.Empty(t, ProductsParams{}.encode())

	got := ProductsParams{Page: 2, Search: "mango", MinPrice: 10.5, MaxPrice: 100}.encode()
	assert.Equal(t, "?max_price=100&min_price=10.5&page=2&search=mango", got)
}

func TestGeneratePaymentReference(t *testing.T) {
	ref := GeneratePaymentReference("")
	assert.Regexp(t, `^MARCHE-\d{1,6}-[0-9A-F]{3}$`, ref)

	custom := GeneratePaymentReference("ORD")
	assert.Regexp(t, `^ORD-`, custom)

	assert.NotEqual(t, GeneratePaymentReference(""), GeneratePaymentReference(""))
}

func TestPaymentDetailsFor(t *testing.T) {
	wave, ok := PaymentDetailsFor(PaymentWave)
	require.True(t, ok)
	assert.NotEmpty(t, wave.AccountNumber)

	bank, ok := PaymentDetailsFor(PaymentTrustBank)
	require.True(t, ok)
	assert.NotEmpty(t, bank.Branch)

	_, ok = PaymentDetailsFor("cash")
	assert.False(t, ok)
}
