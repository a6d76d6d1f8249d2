package util

import (
	"codementor_backend/internal/model"
	"testing"
	"time"
)

func TestJWTRoundTrip(t *testing.T) {
	user := &model.User{Email: "dev@example.com", Role: model.Teacher}
	user.ID = 42

	token, err := GenerateJWT(user, "unit-test-secret", time.Hour)
	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}

	claims, err := ParseJWT(token, "unit-test-secret")
	if err != nil {
		t.Fatalf("ParseJWT: %v", err)
	}
	if claims.UserID != 42 || claims.Role != model.Teacher || claims.Email != "dev@example.com" {
		t.Errorf("claims = %+v", claims)
	}
}

func TestParseJWT_WrongSecret(t *testing.T) {
	user := &model.User{Email: "dev@example.com"}
	token, err := GenerateJWT(user, "secret-a", time.Hour)
	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}
	if _, err := ParseJWT(token, "secret-b"); err == nil {
		t.Error("token signed with another secret must be rejected")
	}
}

func TestParseJWT_Expired(t *testing.T) {
	user := &model.User{Email: "dev@example.com"}
	token, err := GenerateJWT(user, "unit-test-secret", -time.Minute)
	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}
	if _, err := ParseJWT(token, "unit-test-secret"); err == nil {
		t.Error("expired token must be rejected")
	}
}
