// internal/userdb/keybox_test.go

package userdb

import (
	"bytes"
	"testing"
)

func TestKeyboxRoundTrip(t *testing.T) {
	box, err := NewKeybox("local-dev-secret")
	if err != nil {
		t.Fatalf("NewKeybox: %v", err)
	}

	sealed, err := box.Seal("d580d57f32848f5dcf574d1ce18d78b2")
	if err != nil {
		t.Fatalf("Seal: %v", err)
	}
	got, err := box.Open(sealed)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if got != "d580d57f32848f5dcf574d1ce18d78b2" {
		t.Fatalf("round trip got %q", got)
	}
}

func TestKeyboxNonceVariesPerSeal(t *testing.T) {
	box, err := NewKeybox("local-dev-secret")
	if err != nil {
		t.Fatalf("NewKeybox: %v", err)
	}

	a, err := box.Seal("same-key")
	if err != nil {
		t.Fatalf("Seal: %v", err)
	}
	b, err := box.Seal("same-key")
	if err != nil {
		t.Fatalf("Seal: %v", err)
	}
	if bytes.Equal(a, b) {
		t.Fatal("two seals of the same value produced identical boxes")
	}
}

func TestKeyboxWrongSecret(t *testing.T) {
	box, err := NewKeybox("secret-a")
	if err != nil {
		t.Fatalf("NewKeybox: %v", err)
	}
	other, err := NewKeybox("secret-b")
	if err != nil {
		t.Fatalf("NewKeybox: %v", err)
	}

	sealed, err := box.Seal("session-key")
	if err != nil {
		t.Fatalf("Seal: %v", err)
	}
	if _, err := other.Open(sealed); err == nil {
		t.Fatal("opened a box sealed under a different secret")
	}
}

func TestKeyboxRejectsTamperedBox(t *testing.T) {
	box, err := NewKeybox("local-dev-secret")
	if err != nil {
		t.Fatalf("NewKeybox: %v", err)
	}

	sealed, err := box.Seal("session-key")
	if err != nil {
		t.Fatalf("Seal: %v", err)
	}
	sealed[len(sealed)-1] ^= 0x01
	if _, err := box.Open(sealed); err == nil {
		t.Fatal("opened a tampered box")
	}
}

func TestKeyboxRejectsShortBoxAndEmptySecret(t *testing.T) {
	if _, err := NewKeybox(""); err == nil {
		t.Fatal("accepted an empty secret")
	}

	box, err := NewKeybox("local-dev-secret")
	if err != nil {
		t.Fatalf("NewKeybox: %v", err)
	}
	if _, err := box.Open([]byte{0x01, 0x02}); err == nil {
		t.Fatal("opened a box shorter than the nonce")
	}
}
