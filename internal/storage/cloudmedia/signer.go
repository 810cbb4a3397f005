package cloudmedia

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"time"
)

// signer produces the per-request authentication signature expected by the
// media CDN: hex(HMAC-SHA256(secret, method + "\n" + path + "\n" + timestamp)).
type signer struct {
	secret string
}

func (s signer) sign(method, path string, ts time.Time) string {
	mac := hmac.New(sha256.New, []byte(s.secret))
	mac.Write([]byte(method))
	mac.Write([]byte("\n"))
	mac.Write([]byte(path))
	mac.Write([]byte("\n"))
	mac.Write([]byte(strconv.FormatInt(ts.Unix(), 10)))
	return hex.EncodeToString(mac.Sum(nil))
}
