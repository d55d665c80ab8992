package utils

import "testing"

func TestJWTRoundTrip(t *testing.T) {
	token, err := GenerateJWT("secret-key", "user-1", "alice")
	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}

	claims, err := ValidateJWT("secret-key", token)
	if err != nil {
		t.Fatalf("ValidateJWT: %v", err)
	}
	if claims.UserID != "user-1" || claims.Username != "alice" {
		t.Errorf("claims = %+v", claims)
	}
}

func TestJWTWrongSecret(t *testing.T) {
	token, err := GenerateJWT("secret-key", "user-1", "alice")
	if err != nil {
		t.Fatal(err)
	}

	if _, err := ValidateJWT("other-secret", token); err == nil {
		t.Error("token validated with the wrong secret")
	}
}

func TestJWTGarbageToken(t *testing.T) {
	if _, err := ValidateJWT("secret-key", "not-a-token"); err == nil {
		t.Error("garbage token validated")
	}
}
