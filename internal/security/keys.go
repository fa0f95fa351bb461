package security

import (
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"os"
)

var (
	ErrInvalidKeyPEM      = errors.New("invalid key PEM")
	ErrKeyPairMismatch    = errors.New("public and private keys do not match")
	ErrUnsupportedKeyType = errors.New("unsupported key type, RSA required")
)

// KeyPair holds the RSA key pair used to sign and verify tokens.
// Loaded once at startup and immutable afterwards; safe for concurrent use.
type KeyPair struct {
	public  *rsa.PublicKey
	private *rsa.PrivateKey
}

// LoadKeyPair parses a PEM-encoded public/private RSA key pair and checks
// that the two halves belong together. Any failure here must abort startup.
func LoadKeyPair(publicPEM, privatePEM []byte) (*KeyPair, error) {
	public, err := parsePublicKey(publicPEM)
	if err != nil {
		return nil, fmt.Errorf("failed to parse public key: %w", err)
	}

	private, err := parsePrivateKey(privatePEM)
	if err != nil {
		return nil, fmt.Errorf("failed to parse private key: %w", err)
	}

	if !private.PublicKey.Equal(public) {
		return nil, ErrKeyPairMismatch
	}

	return &KeyPair{public: public, private: private}, nil
}

// LoadKeyPairFromFiles reads both PEM files and delegates to LoadKeyPair
func LoadKeyPairFromFiles(publicPath, privatePath string) (*KeyPair, error) {
	publicPEM, err := os.ReadFile(publicPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read public key file: %w", err)
	}
	privatePEM, err := os.ReadFile(privatePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read private key file: %w", err)
	}
	return LoadKeyPair(publicPEM, privatePEM)
}

// Public returns the verification key
func (k *KeyPair) Public() *rsa.PublicKey {
	return k.public
}

// Private returns the signing key
func (k *KeyPair) Private() *rsa.PrivateKey {
	return k.private
}

func parsePublicKey(pemBytes []byte) (*rsa.PublicKey, error) {
	block, _ := pem.Decode(pemBytes)
	if block == nil {
		return nil, ErrInvalidKeyPEM
	}

	parsed, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		return nil, err
	}

	public, ok := parsed.(*rsa.PublicKey)
	if !ok {
		return nil, ErrUnsupportedKeyType
	}
	return public, nil
}

func parsePrivateKey(pemBytes []byte) (*rsa.PrivateKey, error) {
	block, _ := pem.Decode(pemBytes)
	if block == nil {
		return nil, ErrInvalidKeyPEM
	}

	// PKCS#8 is the common encoding; fall back to PKCS#1 for older keys
	if parsed, err := x509.ParsePKCS8PrivateKey(block.Bytes); err == nil {
		private, ok := parsed.(*rsa.PrivateKey)
		if !ok {
			return nil, ErrUnsupportedKeyType
		}
		return private, nil
	}

	return x509.ParsePKCS1PrivateKey(block.Bytes)
}
