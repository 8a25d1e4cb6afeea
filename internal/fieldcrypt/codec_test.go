package fieldcrypt

import (
	"encoding/base64"
	"errors"
	"strings"
	"testing"
)

func newTestCodec(t *testing.T) *Codec {
	t.Helper()
	c, err := New("test-passphrase")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	return c
}

func TestNew_RequiresPassphrase(t *testing.T) {
	if _, err := New(""); !errors.Is(err, ErrMissingKey) {
		t.Fatalf("expected ErrMissingKey, got %v", err)
	}
}

func TestRoundTrip(t *testing.T) {
	c := newTestCodec(t)

	cases := []string{
		"123456789",
		"routing-026009593",
		"日本語テキスト",
		"with\x00null\x00bytes",
		strings.Repeat("long ", 200),
	}
	for _, in := range cases {
		blob, err := c.Encrypt(in)
		if err != nil {
			t.Fatalf("encrypt %q: %v", in, err)
		}
		if blob == in {
			t.Fatalf("ciphertext equals plaintext for %q", in)
		}
		out, err := c.Decrypt(blob)
		if err != nil {
			t.Fatalf("decrypt %q: %v", in, err)
		}
		if out != in {
			t.Fatalf("round trip mismatch: got %q want %q", out, in)
		}
	}
}

func TestEmptyStringShortCircuits(t *testing.T) {
	c := newTestCodec(t)

	blob, err := c.Encrypt("")
	if err != nil || blob != "" {
		t.Fatalf("expected empty blob, got %q err %v", blob, err)
	}
	out, err := c.Decrypt("")
	if err != nil || out != "" {
		t.Fatalf("expected empty plaintext, got %q err %v", out, err)
	}
}

func TestCiphertextNonDeterminism(t *testing.T) {
	c := newTestCodec(t)

	a, err := c.Encrypt("same plaintext")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	b, err := c.Encrypt("same plaintext")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if a == b {
		t.Fatalf("two encryptions of identical plaintext produced identical blobs")
	}
}

func TestTamperDetection(t *testing.T) {
	c := newTestCodec(t)

	blob, err := c.Encrypt("account-4242424242")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	raw, err := base64.StdEncoding.DecodeString(blob)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	// Flip a byte in every region: salt, iv, tag, ciphertext.
	for _, idx := range []int{0, saltSize, saltSize + ivSize, len(raw) - 1} {
		mutated := make([]byte, len(raw))
		copy(mutated, raw)
		mutated[idx] ^= 0x01

		out, err := c.Decrypt(base64.StdEncoding.EncodeToString(mutated))
		if !errors.Is(err, ErrDecrypt) {
			t.Fatalf("byte %d: expected ErrDecrypt, got plaintext %q err %v", idx, out, err)
		}
	}
}

func TestDecrypt_MalformedBlob(t *testing.T) {
	c := newTestCodec(t)

	for _, blob := range []string{
		"not base64 !!!",
		base64.StdEncoding.EncodeToString([]byte("too short")),
	} {
		if _, err := c.Decrypt(blob); !errors.Is(err, ErrDecrypt) {
			t.Fatalf("blob %q: expected ErrDecrypt, got %v", blob, err)
		}
	}
}

func TestDecrypt_WrongKey(t *testing.T) {
	c := newTestCodec(t)
	other, err := New("a-different-passphrase")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	blob, err := c.Encrypt("secret")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if _, err := other.Decrypt(blob); !errors.Is(err, ErrDecrypt) {
		t.Fatalf("expected ErrDecrypt with wrong key, got %v", err)
	}
}
