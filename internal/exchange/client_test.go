package exchange

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"go.uber.org/zap"

	"signal_bot/internal/models"
)

type captured struct {
	method, path, body string
	header             http.Header
}

func newTestClient(t *testing.T, status int, resp string) (*Client, *captured, *int) {
	t.Helper()
	got := &captured{}
	calls := new(int)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*calls++
		b, _ := io.ReadAll(r.Body)
		got.method, got.path, got.body, got.header = r.Method, r.URL.Path, string(b), r.Header.Clone()
		w.WriteHeader(status)
		_, _ = w.Write([]byte(resp))
	}))
	t.Cleanup(srv.Close)

	now := time.UnixMilli(1700000000000)
	c := NewClient(Config{BaseURL: srv.URL, APIKey: "key", APISecret: "secret"}, zap.NewNop(),
		WithClock(func() time.Time { return now }))
	return c, got, calls
}

func TestPlaceOrderWireFormat(t *testing.T) {
	c, got, _ := newTestClient(t, http.StatusOK, `{"result":true,"data":{"orderId":123456,"clientOrderId":"x"}}`)

	ack, err := c.PlaceOrder(context.Background(), "btc", models.SideBuy, 0.001)
	if err != nil {
		t.Fatalf("PlaceOrder returned error: %v", err)
	}
	if ack.OrderID != "123456" || ack.Symbol != "BTC" || ack.Side != models.SideBuy {
		t.Fatalf("unexpected ack %+v", ack)
	}
	if got.method != http.MethodPost || got.path != orderPath {
		t.Fatalf("unexpected request %s %s", got.method, got.path)
	}

	var body map[string]string
	if err := json.Unmarshal([]byte(got.body), &body); err != nil {
		t.Fatalf("body is not JSON: %v (%s)", err, got.body)
	}
	want := map[string]string{"symbol": "BTCUSDT", "side": "BUY", "type": "MARKET", "quantity": "0.001"}
	for k, v := range want {
		if body[k] != v {
			t.Fatalf("body[%s]: expected %q, got %q", k, v, body[k])
		}
	}
	if len(body) != len(want) {
		t.Fatalf("unexpected body fields: %v", body)
	}

	if got.header.Get("X-API-KEY") != "key" {
		t.Fatalf("missing api key header")
	}
	if got.header.Get("X-TIMESTAMP") != "1700000000000" {
		t.Fatalf("unexpected timestamp header %q", got.header.Get("X-TIMESTAMP"))
	}
	if got.header.Get("Content-Type") != "application/json" {
		t.Fatalf("expected json content type")
	}
	wantSig := Signature("secret", 1700000000000, "POST", orderPath, got.body)
	if got.header.Get("X-SIGN") != wantSig {
		t.Fatalf("signature mismatch: expected %s got %s", wantSig, got.header.Get("X-SIGN"))
	}
}

func TestPlaceOrderFailures(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
		kind   Kind
	}{
		{"non-2xx", http.StatusBadRequest, `{"result":false}`, KindStatus},
		{"server error", http.StatusInternalServerError, `oops`, KindStatus},
		{"malformed", http.StatusOK, `{not json`, KindDecode},
		{"rejected", http.StatusOK, `{"result":false,"code":"TRADE_INVALID_SYMBOL","message":"bad symbol"}`, KindRejected},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, _, calls := newTestClient(t, tc.status, tc.body)
			_, err := c.PlaceOrder(context.Background(), "ETH", models.SideSell, 0.01)
			if err == nil {
				t.Fatalf("expected error")
			}
			if KindOf(err) != tc.kind {
				t.Fatalf("expected kind %s, got %s (%v)", tc.kind, KindOf(err), err)
			}
			if *calls != 1 {
				t.Fatalf("expected exactly one request (no retry), got %d", *calls)
			}
		})
	}
}

func TestPlaceOrderTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	c := NewClient(Config{BaseURL: url, APIKey: "k", APISecret: "s", Timeout: time.Second}, zap.NewNop())
	_, err := c.PlaceOrder(context.Background(), "BTC", models.SideBuy, 1)
	if KindOf(err) != KindTransport {
		t.Fatalf("expected transport failure, got %v", err)
	}
}

func TestGetBalance(t *testing.T) {
	cases := []struct {
		name string
		body string
		want float64
	}{
		{"list string", `{"result":true,"data":[{"asset":"BTC","free":"0.5"},{"asset":"USDT","free":"1234.56"}]}`, 1234.56},
		{"list number", `{"data":[{"asset":"USDT","free":99.5}]}`, 99.5},
		{"nested coin", `{"result":true,"data":{"balances":[{"coin":"USDT","free":"10","frozen":"1"}]}}`, 10},
		{"absent", `{"data":[{"asset":"BTC","free":"1"}]}`, 0},
		{"malformed", `[[`, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, got, _ := newTestClient(t, http.StatusOK, tc.body)
			if v := c.GetBalance(context.Background()); v != tc.want {
				t.Fatalf("expected %.2f, got %.2f", tc.want, v)
			}
			if got.method != http.MethodGet || got.path != balancePath || got.body != "" {
				t.Fatalf("unexpected request %s %s %q", got.method, got.path, got.body)
			}
			if got.header.Get("Content-Type") != "" {
				t.Fatalf("expected no content type on GET")
			}
			ts, _ := strconv.ParseInt(got.header.Get("X-TIMESTAMP"), 10, 64)
			if got.header.Get("X-SIGN") != Signature("secret", ts, "GET", balancePath, "") {
				t.Fatalf("unexpected balance signature")
			}
		})
	}
}

func TestGetBalanceStatusError(t *testing.T) {
	c, _, _ := newTestClient(t, http.StatusUnauthorized, `{"result":false}`)
	if v := c.GetBalance(context.Background()); v != 0 {
		t.Fatalf("expected 0 on failure, got %.2f", v)
	}
	_, err := c.FetchBalance(context.Background())
	if KindOf(err) != KindStatus {
		t.Fatalf("expected status failure, got %v", err)
	}
}
