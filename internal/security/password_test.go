package security

import "testing"

func TestHashPassword_RoundTrip(t *testing.T) {
	passwords := []string{"pw1", "correct horse battery staple", "päss wörd", ""}

	for _, p := range passwords {
		hash, err := HashPassword(p)

		if err != nil {
			t.Fatalf("HashPassword(%q) returned error: %v", p, err)
		}

		if hash == p {
			t.Fatalf("hash must not equal the plaintext")
		}

		if err := CheckPassword(hash, p); err != nil {
			t.Errorf("CheckPassword failed for %q: %v", p, err)
		}
	}
}

func TestHashPassword_FreshSaltPerCall(t *testing.T) {
	first, err := HashPassword("pw1")
	if err != nil {
		t.Fatalf("first hash: %v", err)
	}

	second, err := HashPassword("pw1")
	if err != nil {
		t.Fatalf("second hash: %v", err)
	}

	if first == second {
		t.Fatalf("two hashes of the same password must differ (random salt)")
	}

	// both still verify against the original password
	if err := CheckPassword(first, "pw1"); err != nil {
		t.Errorf("first hash does not verify: %v", err)
	}
	if err := CheckPassword(second, "pw1"); err != nil {
		t.Errorf("second hash does not verify: %v", err)
	}
}

func TestCheckPassword_WrongPassword(t *testing.T) {
	hash, err := HashPassword("pw1")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}

	if err := CheckPassword(hash, "pw2"); err == nil {
		t.Fatalf("wrong password must not verify")
	}

	if err := CheckPassword("not-a-bcrypt-hash", "pw1"); err == nil {
		t.Fatalf("malformed hash must not verify")
	}
}
