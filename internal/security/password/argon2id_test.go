package password

import (
	"encoding/base64"
	"fmt"
	"strings"
	"testing"

	"golang.org/x/crypto/argon2"
)

// Parámetros bajos para que los tests no tarden; la forma del PHC no cambia.
var testParams = Params{Memory: 8 * 1024, Time: 1, Parallelism: 1, KeyLen: 32}

func TestHashVerify_RoundTrip(t *testing.T) {
	phc, err := Hash(testParams, "correct horse battery staple")
	if err != nil {
		t.Fatalf("Hash err: %v", err)
	}
	if !strings.HasPrefix(phc, "$argon2id$v=19$") {
		t.Fatalf("unexpected PHC format: %q", phc)
	}
	if !Verify("correct horse battery staple", phc) {
		t.Fatalf("Verify should accept the original password")
	}
	if Verify("correct horse battery stable", phc) {
		t.Fatalf("Verify should reject a different password")
	}
}

func TestHash_UniqueSalts(t *testing.T) {
	a, err := Hash(testParams, "same password")
	if err != nil {
		t.Fatal(err)
	}
	b, err := Hash(testParams, "same password")
	if err != nil {
		t.Fatal(err)
	}
	if a == b {
		t.Fatalf("two hashes of the same password must differ (random salt)")
	}
	if !Verify("same password", a) || !Verify("same password", b) {
		t.Fatalf("both hashes must verify")
	}
}

// TestVerify_KnownVector arma el PHC a mano para fijar qué segmento es el
// salt y cuál el dk: un parser que los mezcle no puede pasar este test.
func TestVerify_KnownVector(t *testing.T) {
	salt := []byte("0123456789abcdef")
	dk := argon2.IDKey([]byte("hunter2222"), salt, testParams.Time, testParams.Memory, testParams.Parallelism, testParams.KeyLen)
	phc := fmt.Sprintf("$argon2id$v=19$m=%d,t=%d,p=%d$%s$%s",
		testParams.Memory, testParams.Time, testParams.Parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(dk),
	)
	if !Verify("hunter2222", phc) {
		t.Fatalf("Verify should accept a hand-built PHC string: %q", phc)
	}
	if Verify("hunter3333", phc) {
		t.Fatalf("Verify should reject the wrong password")
	}
}

func TestDefault_Params(t *testing.T) {
	// Default es un valor, no un constructor; lo consumen app y bootstrap.
	p := Default
	if p.Memory < 64*1024 || p.Time < 3 || p.KeyLen < 32 {
		t.Fatalf("default work factor too weak: %+v", p)
	}
}

func TestHash_EmptyPassword(t *testing.T) {
	if _, err := Hash(testParams, ""); err == nil {
		t.Fatalf("expected error for empty password")
	}
}

func TestVerify_MalformedHash(t *testing.T) {
	cases := []string{
		"",
		"not a phc string",
		"$argon2i$v=19$m=8192,t=1,p=1$c2FsdA$ZGsZGs",   // variante equivocada
		"$argon2id$v=18$m=8192,t=1,p=1$c2FsdA$ZGsZGs", // versión equivocada
		"$argon2id$v=19$m=8192,t=1,p=1$!!!$ZGsZGs",    // salt no-base64
		"$argon2id$v=19$m=8192,t=1,p=1$c2FsdA",        // falta el segmento dk
		"$argon2id$v=19$m=8192,t=1,p=1$c2FsdA$ZGs$x",  // segmento de más
		"$argon2id$v=19$m=8192$c2FsdA$ZGsZGs",         // costos incompletos
	}
	for _, phc := range cases {
		if Verify("whatever", phc) {
			t.Fatalf("Verify accepted malformed hash %q", phc)
		}
	}
}
