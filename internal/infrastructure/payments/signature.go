package payments

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// parseMercadoPagoSignature extracts ts and v1 from "ts=<ts>,v1=<hash>".
func parseMercadoPagoSignature(header string) (ts, v1 string) {
	for _, part := range strings.Split(header, ",") {
		key, value, ok := strings.Cut(part, "=")
		if !ok {
			continue
		}
		switch strings.TrimSpace(key) {
		case "ts":
			ts = strings.TrimSpace(value)
		case "v1":
			v1 = strings.TrimSpace(value)
		}
	}
	return ts, v1
}

// mercadoPagoManifest builds the signed template id:<data.id>;request-id:<x-request-id>;ts:<ts>;
func mercadoPagoManifest(dataID, requestID, ts string) string {
	return "id:" + dataID + ";request-id:" + requestID + ";ts:" + ts + ";"
}

func computeHMACHex(secret string, payload []byte) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write(payload)
	return hex.EncodeToString(h.Sum(nil))
}

// signatureMatches compares digests byte for byte in constant time. Empty input never matches.
func signatureMatches(expectedHex, providedHex string) bool {
	providedHex = strings.TrimSpace(providedHex)
	if expectedHex == "" || providedHex == "" {
		return false
	}
	return hmac.Equal([]byte(expectedHex), []byte(providedHex))
}
