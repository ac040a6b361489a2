package payments

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerifyTransactionSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/transaction/verify/ref-123", r.URL.Path)
		assert.Equal(t, "Bearer sk_test_secret", r.Header.Get("Authorization"))
		fmt.Fprint(w, `{"status":true,"message":"Verification successful","data":{"status":"success","channel":"card","amount":5000}}`)
	}))
	defer server.Close()

	client := NewPaystackClientWithBaseURL("sk_test_secret", server.URL)
	result, err := client.VerifyTransaction(context.Background(), "ref-123")

	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, "card", result.PaymentMethod())
	assert.NotEmpty(t, result.Data)
}

func TestVerifyTransactionDeclined(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"status":true,"data":{"status":"failed","channel":"card"}}`)
	}))
	defer server.Close()

	client := NewPaystackClientWithBaseURL("sk", server.URL)
	result, err := client.VerifyTransaction(context.Background(), "ref-456")

	// A declined transaction is an outcome, not a transport error.
	require.NoError(t, err)
	assert.False(t, result.Success)
}

func TestVerifyTransactionApplePayChannel(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"status":true,"data":{"status":"success","channel":"apple_pay"}}`)
	}))
	defer server.Close()

	client := NewPaystackClientWithBaseURL("sk", server.URL)
	result, err := client.VerifyTransaction(context.Background(), "ref-789")

	require.NoError(t, err)
	assert.Equal(t, "applepay", result.PaymentMethod())
}

func TestVerifyTransactionProviderError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"status":false,"message":"Transaction reference not found"}`, http.StatusNotFound)
	}))
	defer server.Close()

	client := NewPaystackClientWithBaseURL("sk", server.URL)
	_, err := client.VerifyTransaction(context.Background(), "missing")

	assert.Error(t, err)
}

func TestVerifyTransactionContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := NewPaystackClientWithBaseURL("sk", server.URL)
	_, err := client.VerifyTransaction(ctx, "ref")

	assert.Error(t, err)
}
