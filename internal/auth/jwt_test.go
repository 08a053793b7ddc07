package auth

import (
	"testing"

	"github.com/adamfashion/storefront-golang/internal/models"
)

func TestTokenRoundTrip(t *testing.T) {
	token, err := GenerateToken(42, models.RoleUser)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	claims, err := ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if claims.UserID != 42 {
		t.Errorf("UserID = %d, want 42", claims.UserID)
	}
	if claims.Role != models.RoleUser {
		t.Errorf("Role = %q, want %q", claims.Role, models.RoleUser)
	}
}

func TestTokenCarriesAdminRole(t *testing.T) {
	token, err := GenerateToken(1, models.RoleAdmin)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	claims, err := ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if claims.Role != models.RoleAdmin {
		t.Errorf("Role = %q, want %q", claims.Role, models.RoleAdmin)
	}
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	for _, bad := range []string{"", "not-a-token", "a.b.c"} {
		if _, err := ValidateToken(bad); err == nil {
			t.Errorf("ValidateToken(%q): expected error", bad)
		}
	}
}

func TestValidateTokenRejectsTampering(t *testing.T) {
	token, err := GenerateToken(7, models.RoleUser)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	tampered := token[:len(token)-2] + "xx"
	if _, err := ValidateToken(tampered); err == nil {
		t.Error("expected tampered token to be rejected")
	}
}
