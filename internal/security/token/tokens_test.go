package tokens

import (
	"regexp"
	"strconv"
	"strings"
	"testing"
)

func TestGenerateRefreshToken_Shape(t *testing.T) {
	tok, err := GenerateRefreshToken()
	if err != nil {
		t.Fatalf("GenerateRefreshToken err: %v", err)
	}
	// 64 bytes -> 128 chars hex
	if len(tok) != 128 {
		t.Fatalf("expected 128 hex chars, got %d", len(tok))
	}
	if !regexp.MustCompile(`^[0-9a-f]+$`).MatchString(tok) {
		t.Fatalf("token is not lowercase hex: %q", tok)
	}

	other, _ := GenerateRefreshToken()
	if tok == other {
		t.Fatalf("two tokens must differ")
	}
}

func TestGenerateKeys_Prefixes(t *testing.T) {
	api, err := GenerateAPIKey()
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(api, APIKeyPrefix) {
		t.Fatalf("api key missing prefix: %q", api)
	}
	if !HasAPIKeyPrefix(api) {
		t.Fatalf("HasAPIKeyPrefix should be true for %q", api)
	}

	signup, err := GenerateSignupKey()
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(signup, SignupKeyPrefix) {
		t.Fatalf("signup key missing prefix: %q", signup)
	}
	if HasAPIKeyPrefix(signup) {
		t.Fatalf("signup key must not look like an api key")
	}
}

func TestMask(t *testing.T) {
	if got := Mask("obk_abcdef1234"); got != "obk_****1234" {
		t.Fatalf("Mask = %q", got)
	}
	if got := Mask("osk_abcdef9876"); got != "osk_****9876" {
		t.Fatalf("Mask = %q", got)
	}
	// sin prefijo conocido: solo sufijo
	if got := Mask("plainsecret"); got != "****cret" {
		t.Fatalf("Mask = %q", got)
	}
	// demasiado corto para exponer sufijo
	if got := Mask("short"); got != "****" {
		t.Fatalf("Mask = %q", got)
	}
}

func TestGenerateVerificationCode_Range(t *testing.T) {
	for i := 0; i < 500; i++ {
		code, err := GenerateVerificationCode()
		if err != nil {
			t.Fatal(err)
		}
		if len(code) != 6 {
			t.Fatalf("code %q is not 6 digits", code)
		}
		n, err := strconv.Atoi(code)
		if err != nil {
			t.Fatalf("code %q is not numeric", code)
		}
		if n < 100000 || n > 999999 {
			t.Fatalf("code %d out of range", n)
		}
	}
}

func TestSHA256Hex_Deterministic(t *testing.T) {
	a := SHA256Hex("secret")
	b := SHA256Hex("secret")
	if a != b {
		t.Fatalf("hash must be deterministic")
	}
	if len(a) != 64 {
		t.Fatalf("expected 64 hex chars, got %d", len(a))
	}
	if a == SHA256Hex("secre7") {
		t.Fatalf("different inputs must hash differently")
	}
}
