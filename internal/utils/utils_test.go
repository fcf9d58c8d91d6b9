package utils

import "testing"

func TestNormalizeMatric(t *testing.T) {
	cases := map[string]string{
		"  2021/cs/001 ": "2021/CS/001",
		"2021/CS/001":    "2021/CS/001",
		"\tstf/009\n":    "STF/009",
		"":               "",
		"   ":            "",
	}
	for in, want := range cases {
		if got := NormalizeMatric(in); got != want {
			t.Errorf("NormalizeMatric(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNormalizeEmail(t *testing.T) {
	if got := NormalizeEmail("  Ada@Campus.EDU "); got != "ada@campus.edu" {
		t.Errorf("NormalizeEmail = %q", got)
	}
}

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("s3cret", 4)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if !VerifyPassword(hash, "s3cret") {
		t.Error("correct password rejected")
	}
	if VerifyPassword(hash, "wrong") {
		t.Error("wrong password accepted")
	}
}

func TestAccessTokenCarriesClaims(t *testing.T) {
	tok, err := NewAccessToken("test-secret", 42, "admin", 15)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	if tok.Token == "" {
		t.Fatal("empty token string")
	}
	if tok.Exp.IsZero() {
		t.Fatal("zero expiry")
	}
}

func TestRefreshTokenHashing(t *testing.T) {
	ref, err := NewRefreshToken(7)
	if err != nil {
		t.Fatalf("issue refresh: %v", err)
	}
	if len(ref.Raw) != 96 {
		t.Fatalf("raw length = %d, want 96", len(ref.Raw))
	}
	h1 := HashRefreshRaw(ref.Raw)
	h2 := HashRefreshRaw(ref.Raw)
	if h1 != h2 {
		t.Error("hash not deterministic")
	}
	if h1 == ref.Raw {
		t.Error("hash equals raw token")
	}
	if len(h1) != 64 {
		t.Errorf("hash length = %d, want 64", len(h1))
	}
}
