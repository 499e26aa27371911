package security

import "testing"

func TestHashPasswordKnownVector(t *testing.T) {
	t.Parallel()

	// Digest the seeded default admin ships with.
	const want = "8c6976e5b5410415bde908bd4dee15dfb167a9c873fc4bb8a81f6f2ab448a918"
	if got := HashPassword("admin"); got != want {
		t.Fatalf("unexpected digest: %s", got)
	}
}

func TestHashPasswordTrimsInput(t *testing.T) {
	t.Parallel()

	if HashPassword("  admin  ") != HashPassword("admin") {
		t.Fatal("expected surrounding whitespace to be ignored")
	}
}

func TestVerifyPassword(t *testing.T) {
	t.Parallel()

	digest := HashPassword("brilho123")
	if !VerifyPassword("brilho123", digest) {
		t.Fatal("expected matching password to verify")
	}
	if VerifyPassword("brilho124", digest) {
		t.Fatal("expected mismatch to fail")
	}
	if !VerifyPassword("brilho123", "  "+digest+" ") {
		t.Fatal("expected stored digest whitespace to be tolerated")
	}
}
