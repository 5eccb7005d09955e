package remotesync

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/iwvelando/debt-roadmap/internal/household"
	"github.com/iwvelando/debt-roadmap/pkg/testutil"
)

func newTestClient(endpoint, key string) *Client {
	return NewClient(Config{
		Endpoint:     endpoint,
		APIKey:       key,
		Timeout:      5 * time.Second,
		RetryMax:     2,
		RetryWaitMin: time.Millisecond,
		RetryWaitMax: 5 * time.Millisecond,
	}, zap.NewNop())
}

func TestURL(t *testing.T) {
	tests := []struct {
		endpoint string
		want     string
	}{
		{"http://host:3000", "http://host:3000/api/pull"},
		{"http://host:3000/", "http://host:3000/api/pull"},
		{"http://host:3000/api", "http://host:3000/api/pull"},
		{" http://host:3000/api/ ", "http://host:3000/api/pull"},
	}
	for _, tt := range tests {
		c := &Client{Endpoint: tt.endpoint}
		assert.Equal(t, tt.want, c.URL("/pull"), tt.endpoint)
	}
}

func TestPushPull(t *testing.T) {
	var stored []byte
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer secret" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":"Unauthorized"}`))
			return
		}
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/api/push":
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			stored, _ = io.ReadAll(r.Body)
			_, _ = w.Write([]byte(`{"success":true}`))
		case r.Method == http.MethodGet && r.URL.Path == "/api/pull":
			_, _ = w.Write(stored)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	ctx := context.Background()
	client := newTestClient(server.URL, "secret")

	want := testutil.Household()
	require.NoError(t, client.Push(ctx, want))

	var raw map[string]interface{}
	require.NoError(t, json.Unmarshal(stored, &raw))
	assert.Contains(t, raw, "lentMoney")
	assert.Contains(t, raw, "luxuryBudget")

	got, err := client.Pull(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestPullLegacyProfile(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{
			"users": [], "cards": [], "paymentLogs": [],
			"debts": [{"id": "d1", "name": "Visa", "type": "Credit Card", "balance": 1200.5,
				"interestRate": 19.9, "minimumPayment": 40, "canOverpay": true, "overpaymentPenalty": 0}],
			"lentMoney": [{"id": "l1", "recipient": "Sam", "remainingBalance": 300, "defaultRepayment": 50}],
			"luxuryBudget": 100, "savingsBuffer": 5, "strategy": "Avalanche (Save Interest)"
		}`))
	}))
	defer server.Close()

	got, err := newTestClient(server.URL+"/api", "").Pull(context.Background())
	require.NoError(t, err)
	require.Len(t, got.Debts, 1)
	assert.Equal(t, household.KindCreditCard, got.Debts[0].Kind)
	assert.Equal(t, 19.9, got.Debts[0].InterestRate)
	assert.Equal(t, 50.0, got.LentMoney[0].DefaultRepayment)
	assert.Equal(t, household.Avalanche, got.Strategy.Canonical())
}

func TestStatusErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   error
	}{
		{"unauthorized", http.StatusUnauthorized, ErrUnauthorized},
		{"no storage", http.StatusServiceUnavailable, ErrUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(`{"error":"nope"}`))
			}))
			defer server.Close()

			client := newTestClient(server.URL, "bad")
			_, err := client.Pull(context.Background())
			assert.ErrorIs(t, err, tt.want)
			assert.ErrorIs(t, client.Push(context.Background(), household.Snapshot{}), tt.want)
		})
	}
}

func TestRetriesServerErrors(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(`{"status":"ok","database":"connected"}`))
	}))
	defer server.Close()

	status, err := newTestClient(server.URL, "").Health(context.Background())
	require.NoError(t, err)
	assert.True(t, status.OK())
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestServerErrorAfterRetries(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"database exploded"}`))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL, "").Pull(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
	assert.Contains(t, err.Error(), "database exploded")
}

func TestHealthWarning(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"warning","database":"not_configured","message":"Running without persistent storage."}`))
	}))
	defer server.Close()

	status, err := newTestClient(server.URL, "").Health(context.Background())
	require.NoError(t, err)
	assert.False(t, status.OK())
	assert.Equal(t, "not_configured", status.Database)
}

func TestPushNotConfirmed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success":false,"error":"quota"}`))
	}))
	defer server.Close()

	err := newTestClient(server.URL, "").Push(context.Background(), testutil.Household())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quota")
}

func TestNoEndpoint(t *testing.T) {
	_, err := newTestClient("", "").Health(context.Background())
	assert.Error(t, err)
}
