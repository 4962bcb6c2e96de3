package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/akshat/campuspay/internal/app/models"
)

func newTestJWTService(exp time.Duration) *JWTService {
	return NewJWTService(JWTConfig{
		SecretKey:      "test-secret-key",
		AccessTokenExp: exp,
		TokenIssuer:    "campuspay.test",
	})
}

func TestGenerateAndValidateToken(t *testing.T) {
	svc := newTestJWTService(time.Hour)

	token, expiresIn, err := svc.GenerateToken(42, "ravi@campus.edu", models.RoleStudent)
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}
	if expiresIn != 3600 {
		t.Errorf("expiresIn = %d, want 3600", expiresIn)
	}

	claims, err := svc.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken failed: %v", err)
	}
	if claims.UserID != 42 {
		t.Errorf("userID = %d, want 42", claims.UserID)
	}
	if claims.Email != "ravi@campus.edu" {
		t.Errorf("email = %q, want ravi@campus.edu", claims.Email)
	}
	if claims.RoleType != models.RoleStudent {
		t.Errorf("role = %s, want STUDENT", claims.RoleType)
	}
	if claims.Issuer != "campuspay.test" {
		t.Errorf("issuer = %q, want campuspay.test", claims.Issuer)
	}
}

func TestValidateTokenWrongSecret(t *testing.T) {
	token, _, err := newTestJWTService(time.Hour).GenerateToken(1, "a@b.c", models.RoleAdmin)
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	other := NewJWTService(JWTConfig{SecretKey: "different-secret", AccessTokenExp: time.Hour})
	if _, err := other.ValidateToken(token); err == nil {
		t.Error("token signed with another secret accepted")
	}
}

func TestValidateTokenExpired(t *testing.T) {
	svc := newTestJWTService(-time.Minute)
	token, _, err := svc.GenerateToken(1, "a@b.c", models.RoleAdmin)
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	if _, err := svc.ValidateToken(token); !errors.Is(err, ErrExpiredToken) {
		t.Errorf("ValidateToken error = %v, want ErrExpiredToken", err)
	}
}

func TestExtractBearerToken(t *testing.T) {
	tests := []struct {
		name    string
		header  string
		want    string
		wantErr bool
	}{
		{"standard header", "Bearer abc.def.ghi", "abc.def.ghi", false},
		{"lowercase scheme", "bearer abc.def.ghi", "abc.def.ghi", false},
		{"empty header", "", "", true},
		{"no scheme", "abc.def.ghi", "", true},
		{"wrong scheme", "Basic dXNlcjpwYXNz", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractBearerToken(tt.header)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ExtractBearerToken(%q) error = %v, wantErr %v", tt.header, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ExtractBearerToken(%q) = %q, want %q", tt.header, got, tt.want)
			}
		})
	}
}

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("s3cret-password")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	if hash == "s3cret-password" {
		t.Fatal("password stored in plain text")
	}
	if !CheckPassword(hash, "s3cret-password") {
		t.Error("correct password rejected")
	}
	if CheckPassword(hash, "wrong-password") {
		t.Error("wrong password accepted")
	}
}
