package security

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"testing"
)

// generateKeyPEMs returns PEM encodings of a fresh RSA key pair
func generateKeyPEMs(t *testing.T) (publicPEM, privatePEM []byte, key *rsa.PrivateKey) {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("failed to generate RSA key: %v", err)
	}

	publicDER, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	if err != nil {
		t.Fatalf("failed to marshal public key: %v", err)
	}
	publicPEM = pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: publicDER})

	privateDER, err := x509.MarshalPKCS8PrivateKey(key)
	if err != nil {
		t.Fatalf("failed to marshal private key: %v", err)
	}
	privatePEM = pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: privateDER})

	return publicPEM, privatePEM, key
}

// testKeyPair returns a loaded key pair for codec tests
func testKeyPair(t *testing.T) *KeyPair {
	t.Helper()

	publicPEM, privatePEM, _ := generateKeyPEMs(t)
	keys, err := LoadKeyPair(publicPEM, privatePEM)
	if err != nil {
		t.Fatalf("LoadKeyPair() error = %v", err)
	}
	return keys
}

func TestLoadKeyPair(t *testing.T) {
	t.Run("valid pair", func(t *testing.T) {
		publicPEM, privatePEM, key := generateKeyPEMs(t)

		keys, err := LoadKeyPair(publicPEM, privatePEM)
		if err != nil {
			t.Fatalf("LoadKeyPair() error = %v", err)
		}
		if !keys.Public().Equal(&key.PublicKey) {
			t.Error("LoadKeyPair() public key does not match the generated key")
		}
		if !keys.Private().Equal(key) {
			t.Error("LoadKeyPair() private key does not match the generated key")
		}
	})

	t.Run("mismatched halves are rejected", func(t *testing.T) {
		publicPEM, _, _ := generateKeyPEMs(t)
		_, privatePEM, _ := generateKeyPEMs(t)

		_, err := LoadKeyPair(publicPEM, privatePEM)
		if !errors.Is(err, ErrKeyPairMismatch) {
			t.Errorf("LoadKeyPair() error = %v, want ErrKeyPairMismatch", err)
		}
	})

	t.Run("garbage public key", func(t *testing.T) {
		_, privatePEM, _ := generateKeyPEMs(t)

		_, err := LoadKeyPair([]byte("not a pem"), privatePEM)
		if err == nil {
			t.Fatal("LoadKeyPair() expected error for invalid public PEM")
		}
	})

	t.Run("garbage private key", func(t *testing.T) {
		publicPEM, _, _ := generateKeyPEMs(t)

		_, err := LoadKeyPair(publicPEM, []byte("not a pem"))
		if err == nil {
			t.Fatal("LoadKeyPair() expected error for invalid private PEM")
		}
	})
}
