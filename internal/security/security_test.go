package security

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestPasswordHashAndVerify(t *testing.T) {
	params := Argon2Params{Time: 1, Memory: 16 * 1024, Threads: 1, KeyLen: 32, SaltLen: 16}

	hash, err := HashPasswordWithParams("s3cret-pass", params)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if !strings.HasPrefix(string(hash), "$argon2id$v=19$") {
		t.Fatalf("unexpected encoding: %s", hash)
	}

	ok, err := VerifyPassword("s3cret-pass", hash)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if !ok {
		t.Fatal("correct password rejected")
	}

	ok, err = VerifyPassword("wrong-pass", hash)
	if err != nil {
		t.Fatalf("verify wrong: %v", err)
	}
	if ok {
		t.Fatal("wrong password accepted")
	}
}

func TestPasswordHashesAreSalted(t *testing.T) {
	params := Argon2Params{Time: 1, Memory: 16 * 1024, Threads: 1, KeyLen: 32, SaltLen: 16}

	first, err := HashPasswordWithParams("same-password", params)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	second, err := HashPasswordWithParams("same-password", params)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if bytes.Equal(first, second) {
		t.Fatal("two hashes of the same password must differ")
	}
}

func TestVerifyPasswordMalformedHash(t *testing.T) {
	if _, err := VerifyPassword("anything", []byte("not-a-hash")); err == nil {
		t.Fatal("malformed hash must error")
	}
}

func TestAccessTokenRoundTrip(t *testing.T) {
	const secret = "test-secret"

	token, err := GenerateAccessToken(secret, "user-1", "sess-1", "dev-1", "admin", time.Minute)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	claims, err := ParseAccessToken(token, secret)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.UserID != "user-1" || claims.SessionID != "sess-1" || claims.DeviceID != "dev-1" || claims.Role != "admin" {
		t.Fatalf("claims = %+v", claims)
	}

	if _, err := ParseAccessToken(token, "other-secret"); err == nil {
		t.Fatal("token must not verify with a different secret")
	}
}

func TestExpiredAccessToken(t *testing.T) {
	const secret = "test-secret"

	token, err := GenerateAccessToken(secret, "user-1", "sess-1", "dev-1", "user", -time.Minute)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := ParseAccessToken(token, secret); err == nil {
		t.Fatal("expired token must be rejected")
	}
}

func TestValidateSignature(t *testing.T) {
	const secret = "sig-secret"
	body := []byte(`{"rating":5}`)
	bodyHash := ComputeBodyHash(body)

	sig := ComputeSignature(secret, "dev-1", "put", "/api/v1/swaps/abc/rate", "", bodyHash, "2026-09-01T10:00:00Z", "nonce-1")

	if !ValidateSignature(secret, "dev-1", sig, "PUT", "/api/v1/swaps/abc/rate", "", body, "2026-09-01T10:00:00Z", "nonce-1") {
		t.Fatal("valid signature rejected; method casing must not matter")
	}
	if ValidateSignature(secret, "dev-1", sig, "PUT", "/api/v1/swaps/abc/rate", "", []byte(`{"rating":1}`), "2026-09-01T10:00:00Z", "nonce-1") {
		t.Fatal("tampered body accepted")
	}
	if ValidateSignature(secret, "dev-2", sig, "PUT", "/api/v1/swaps/abc/rate", "", body, "2026-09-01T10:00:00Z", "nonce-1") {
		t.Fatal("signature bound to another device accepted")
	}
	if ValidateSignature("other-secret", "dev-1", sig, "PUT", "/api/v1/swaps/abc/rate", "", body, "2026-09-01T10:00:00Z", "nonce-1") {
		t.Fatal("signature verified with wrong secret")
	}
}

func TestOpaqueToken(t *testing.T) {
	token, hash, err := GenerateOpaqueToken(32)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if token == "" || len(hash) != 32 {
		t.Fatalf("token=%q hash len=%d", token, len(hash))
	}
	if !bytes.Equal(hash, HashOpaqueToken(token)) {
		t.Fatal("stored hash must match recomputed hash")
	}

	other, _, err := GenerateOpaqueToken(32)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if token == other {
		t.Fatal("tokens must be random")
	}
}
