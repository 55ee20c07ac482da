package share

import (
	"errors"
	"testing"
	"time"
)

func TestIssueAndVerify(t *testing.T) {
	s := NewSigner("test-secret", time.Hour)

	token, err := s.Issue(7, 2)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	claims, err := s.Verify(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.UserID != 7 || claims.SeasonID != 2 {
		t.Errorf("claims = %d/%d, want 7/2", claims.UserID, claims.SeasonID)
	}
	if claims.ID == "" {
		t.Error("expected a jti")
	}
}

func TestVerifyExpired(t *testing.T) {
	s := NewSigner("test-secret", -time.Minute)

	token, err := s.Issue(7, 2)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if _, err := s.Verify(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("err = %v, want ErrInvalidToken", err)
	}
}

func TestVerifyWrongSecret(t *testing.T) {
	token, err := NewSigner("secret-a", time.Hour).Issue(7, 2)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if _, err := NewSigner("secret-b", time.Hour).Verify(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("err = %v, want ErrInvalidToken", err)
	}
}

func TestVerifyGarbage(t *testing.T) {
	s := NewSigner("test-secret", time.Hour)
	if _, err := s.Verify("not-a-token"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("err = %v, want ErrInvalidToken", err)
	}
}

func TestIssuedTokensDiffer(t *testing.T) {
	s := NewSigner("test-secret", time.Hour)
	a, err := s.Issue(7, 2)
	if err != nil {
		t.Fatalf("issue a: %v", err)
	}
	b, err := s.Issue(7, 2)
	if err != nil {
		t.Fatalf("issue b: %v", err)
	}
	if a == b {
		t.Error("tokens for the same space should still differ")
	}
}
