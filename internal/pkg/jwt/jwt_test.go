package jwt_test

import (
	"errors"
	"testing"

	"campus-visitpass/internal/core/domain"
	"campus-visitpass/internal/pkg/jwt"
)

const secret = "test-secret"

func TestSessionTokenRoundTrip(t *testing.T) {
	token, err := jwt.GenerateSessionToken(7, "cs21b1001@iith.ac.in", "John Doe", "student", secret, "campus-visitpass", 7)
	if err != nil {
		t.Fatalf("GenerateSessionToken: %v", err)
	}

	claims, err := jwt.ValidateSessionToken(token, secret)
	if err != nil {
		t.Fatalf("ValidateSessionToken: %v", err)
	}

	identity := claims.Identity()
	if identity.UserID != 7 {
		t.Errorf("user id = %d, want 7", identity.UserID)
	}
	if identity.Email != "cs21b1001@iith.ac.in" {
		t.Errorf("email = %q", identity.Email)
	}
	if identity.Role != domain.RoleStudent {
		t.Errorf("role = %q, want student", identity.Role)
	}
}

func TestValidateRejectsWrongSecret(t *testing.T) {
	token, err := jwt.GenerateSessionToken(7, "a@b.c", "A", "admin", secret, "campus-visitpass", 7)
	if err != nil {
		t.Fatalf("GenerateSessionToken: %v", err)
	}

	if _, err := jwt.ValidateSessionToken(token, "other-secret"); !errors.Is(err, jwt.ErrTokenInvalid) {
		t.Errorf("err = %v, want ErrTokenInvalid", err)
	}
}

func TestValidateRejectsExpiredToken(t *testing.T) {
	token, err := jwt.GenerateSessionToken(7, "a@b.c", "A", "admin", secret, "campus-visitpass", -1)
	if err != nil {
		t.Fatalf("GenerateSessionToken: %v", err)
	}

	if _, err := jwt.ValidateSessionToken(token, secret); !errors.Is(err, jwt.ErrTokenExpired) {
		t.Errorf("err = %v, want ErrTokenExpired", err)
	}
}

func TestValidateRejectsGarbage(t *testing.T) {
	for _, token := range []string{"", "garbage", "a.b.c"} {
		if _, err := jwt.ValidateSessionToken(token, secret); !errors.Is(err, jwt.ErrTokenInvalid) {
			t.Errorf("token %q: err = %v, want ErrTokenInvalid", token, err)
		}
	}
}
