package coinpayments

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"

	apperrors "funding-server/internal/domain/errors"
)

// signaturePrefix is the byte-order-mark the API prepends to the signed
// message.
const signaturePrefix = "\ufeff"

// Sign computes the request signature the merchant API expects: the BOM,
// method, url, client id, timestamp and body concatenated without
// delimiters, HMAC-SHA256 under the client secret, base64 encoded.
// Deterministic for identical inputs.
func Sign(method, url, clientID, timestamp, body, secret string) (string, error) {
	if secret == "" {
		return "", apperrors.NewConfigurationError("coinpayments client secret is not configured")
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(signaturePrefix + method + url + clientID + timestamp + body))

	return base64.StdEncoding.EncodeToString(mac.Sum(nil)), nil
}
