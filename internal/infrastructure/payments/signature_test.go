package payments

import "testing"

func TestParseMercadoPagoSignature(t *testing.T) {
	ts, v1 := parseMercadoPagoSignature("ts=1700000000, v1=abc123")
	if ts != "1700000000" || v1 != "abc123" {
		t.Fatalf("unexpected parse: ts=%q v1=%q", ts, v1)
	}

	ts, v1 = parseMercadoPagoSignature("garbage")
	if ts != "" || v1 != "" {
		t.Fatalf("expected empty parse, got ts=%q v1=%q", ts, v1)
	}
}

func TestMercadoPagoManifest(t *testing.T) {
	got := mercadoPagoManifest("123", "req-1", "1700000000")
	if got != "id:123;request-id:req-1;ts:1700000000;" {
		t.Fatalf("unexpected manifest: %s", got)
	}
}

func TestSignatureMatches(t *testing.T) {
	sig := computeHMACHex("secret", []byte(`{"a":1}`))

	if !signatureMatches(sig, sig) {
		t.Fatalf("expected recomputed signature to match")
	}
	if signatureMatches(sig, "") || signatureMatches("", sig) {
		t.Fatalf("empty signatures must not match")
	}

	for i := 0; i < len(sig); i++ {
		flipped := []byte(sig)
		flipped[i] ^= 0x01
		if signatureMatches(sig, string(flipped)) {
			t.Fatalf("flipped byte %d still matched", i)
		}
	}
}
