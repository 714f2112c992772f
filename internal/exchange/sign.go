package exchange

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"strconv"
	"strings"
)

// Signature = base64(HMAC-SHA256(secret, timestamp + METHOD + path + body)).
func Signature(secret string, timestampMillis int64, method, path, body string) string {
	msg := strconv.FormatInt(timestampMillis, 10) + strings.ToUpper(method) + path + body
	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(msg))
	return base64.StdEncoding.EncodeToString(h.Sum(nil))
}

// Sign считает подпись заново на каждый вызов: timestamp входит в сообщение.
func (c *Client) Sign(method, path, body string) (int64, string) {
	ts := c.now().UnixMilli()
	return ts, Signature(c.apiSecret, ts, method, path, body)
}
