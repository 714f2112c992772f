package exchange

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestSignatureMatchesHMAC(t *testing.T) {
	h := hmac.New(sha256.New, []byte("secret"))
	h.Write([]byte("1700000000000POST/api/v1/spot/order{\"a\":1}"))
	want := base64.StdEncoding.EncodeToString(h.Sum(nil))

	got := Signature("secret", 1700000000000, "POST", "/api/v1/spot/order", `{"a":1}`)
	if got != want {
		t.Fatalf("expected %s, got %s", want, got)
	}
	if Signature("secret", 1700000000000, "post", "/api/v1/spot/order", `{"a":1}`) != want {
		t.Fatalf("expected method to be upper-cased")
	}
}

func TestSignatureDeterministicAndSensitive(t *testing.T) {
	base := Signature("secret", 1, "GET", "/p", "b")
	if base != Signature("secret", 1, "GET", "/p", "b") {
		t.Fatalf("expected deterministic signature")
	}
	variants := map[string]string{
		"secret":    Signature("secret2", 1, "GET", "/p", "b"),
		"timestamp": Signature("secret", 2, "GET", "/p", "b"),
		"method":    Signature("secret", 1, "POST", "/p", "b"),
		"path":      Signature("secret", 1, "GET", "/q", "b"),
		"body":      Signature("secret", 1, "GET", "/p", "c"),
	}
	for field, sig := range variants {
		if sig == base {
			t.Fatalf("changing %s did not change the signature", field)
		}
	}
}

func TestSignUsesCurrentTime(t *testing.T) {
	now := time.UnixMilli(1700000000000)
	c := NewClient(Config{APIKey: "k", APISecret: "s"}, zap.NewNop(), WithClock(func() time.Time { return now }))

	ts1, sig1 := c.Sign("GET", "/api/v1/spot/balance", "")
	if ts1 != 1700000000000 {
		t.Fatalf("unexpected timestamp %d", ts1)
	}
	now = now.Add(time.Millisecond)
	ts2, sig2 := c.Sign("GET", "/api/v1/spot/balance", "")
	if ts2 != ts1+1 {
		t.Fatalf("expected timestamp to advance, got %d", ts2)
	}
	if sig1 == sig2 {
		t.Fatalf("expected a fresh signature per timestamp")
	}
}
