package razorpay

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateOrder(t *testing.T) {
	var gotAuthUser, gotAuthPass string
	var gotBody map[string]interface{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuthUser, gotAuthPass, _ = r.BasicAuth()
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		json.NewEncoder(w).Encode(map[string]interface{}{
			"id":       "order_NXhR1",
			"amount":   2499,
			"currency": "INR",
			"receipt":  gotBody["receipt"],
			"status":   "created",
		})
	}))
	defer srv.Close()

	client := NewClient("rzp_test_key", "secret", srv.URL)
	order, err := client.CreateOrder(context.Background(), 2499, "INR", "rcpt_abc")
	require.NoError(t, err)

	assert.Equal(t, "order_NXhR1", order.ID)
	assert.EqualValues(t, 2499, order.Amount)
	assert.Equal(t, "INR", order.Currency)
	assert.Equal(t, "rcpt_abc", order.Receipt)

	assert.Equal(t, "rzp_test_key", gotAuthUser)
	assert.Equal(t, "secret", gotAuthPass)
	assert.EqualValues(t, 2499, gotBody["amount"])
	assert.Equal(t, "INR", gotBody["currency"])
}

func TestCreateOrderAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"code":"BAD_REQUEST_ERROR","description":"amount: must be at least INR 1.00"}}`))
	}))
	defer srv.Close()

	client := NewClient("k", "s", srv.URL)
	_, err := client.CreateOrder(context.Background(), 0, "INR", "rcpt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must be at least INR 1.00")
}

func TestCreateOrderTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	client := NewClient("k", "s", srv.URL)
	client.http.Timeout = 20 * time.Millisecond

	_, err := client.CreateOrder(context.Background(), 100, "INR", "rcpt")
	assert.ErrorIs(t, err, ErrTimeout)
}

func TestCreateOrderContextDeadline(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	client := NewClient("k", "s", srv.URL)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := client.CreateOrder(ctx, 100, "INR", "rcpt")
	assert.ErrorIs(t, err, ErrTimeout)
}

func TestVerifySignature(t *testing.T) {
	client := NewClient("k", "topsecret", defaultAPIURL)

	mac := hmac.New(sha256.New, []byte("topsecret"))
	mac.Write([]byte("order_abc|pay_def"))
	valid := hex.EncodeToString(mac.Sum(nil))

	assert.True(t, client.VerifySignature("order_abc", "pay_def", valid))
	assert.False(t, client.VerifySignature("order_abc", "pay_def", "00"+valid[2:]), "tampered signature")
	assert.False(t, client.VerifySignature("order_xyz", "pay_def", valid), "signature for another order")
	assert.False(t, client.VerifySignature("order_abc", "pay_def", "not-hex"))
	assert.False(t, client.VerifySignature("", "", ""))
}
