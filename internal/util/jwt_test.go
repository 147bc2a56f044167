package util

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestToken_RoundTrip(t *testing.T) {
	token, exp, err := GenerateToken("secret", "pocket-ledger", 7, "sess-1", time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	if time.Until(exp) <= 0 {
		t.Errorf("expiry %v is in the past", exp)
	}

	claims, err := ParseToken("secret", token)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if claims.UserID != 7 || claims.ID != "sess-1" || claims.Issuer != "pocket-ledger" {
		t.Errorf("claims = %+v", claims)
	}
}

func TestParseToken_Rejects(t *testing.T) {
	good, _, _ := GenerateToken("secret", "", 7, "s", time.Hour)
	if _, err := ParseToken("other", good); err == nil {
		t.Error("wrong secret accepted")
	}

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		UserID: 7,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        "s",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	})
	signed, _ := expired.SignedString([]byte("secret"))
	if _, err := ParseToken("secret", signed); err == nil {
		t.Error("expired token accepted")
	}

	noSession := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		UserID: 7,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	signed, _ = noSession.SignedString([]byte("secret"))
	if _, err := ParseToken("secret", signed); err == nil {
		t.Error("token without session id accepted")
	}

	hs512 := jwt.NewWithClaims(jwt.SigningMethodHS512, &Claims{
		UserID:           7,
		RegisteredClaims: jwt.RegisteredClaims{ID: "s"},
	})
	signed, _ = hs512.SignedString([]byte("secret"))
	if _, err := ParseToken("secret", signed); err == nil {
		t.Error("HS512 token accepted")
	}

	if _, _, err := GenerateToken("", "", 7, "s", time.Hour); err == nil {
		t.Error("empty secret accepted")
	}
}
