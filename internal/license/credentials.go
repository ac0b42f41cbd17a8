package license

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/blake2b"

	"github.com/michaeldubu/quantum-licensing-engine/internal/catalog"
)

const (
	// CredentialPrefix is the prefix for all access credentials.
	CredentialPrefix = "saam-api-"
	// CredentialEntropyBytes is the number of random bytes in a credential (192 bits).
	CredentialEntropyBytes = 24
	// LicenseKeyPrefix is the prefix for all license keys.
	LicenseKeyPrefix = "SAAAM-"
	// licenseKeyDigestSize is the BLAKE2b digest size in bytes; hex encoding doubles it.
	licenseKeyDigestSize = 16
)

// CredentialGenerator produces access credentials. Implementations must be
// safe for concurrent use.
type CredentialGenerator interface {
	NewCredential() (string, error)
}

// RandomCredentials generates credentials from a cryptographically secure source.
type RandomCredentials struct {
	// Reader supplies entropy. Nil means crypto/rand.Reader.
	Reader io.Reader
}

// NewCredential returns CredentialPrefix followed by 48 lowercase hex characters.
func (g RandomCredentials) NewCredential() (string, error) {
	r := g.Reader
	if r == nil {
		r = rand.Reader
	}

	buf := make([]byte, CredentialEntropyBytes)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", fmt.Errorf("read credential entropy: %w", err)
	}
	return CredentialPrefix + hex.EncodeToString(buf), nil
}

// CredentialFunc adapts a plain function to CredentialGenerator.
type CredentialFunc func() (string, error)

// NewCredential calls f.
func (f CredentialFunc) NewCredential() (string, error) {
	return f()
}

// IsCredential reports whether s has the shape of a generated access credential.
func IsCredential(s string) bool {
	rest, ok := strings.CutPrefix(s, CredentialPrefix)
	if !ok || len(rest) != CredentialEntropyBytes*2 {
		return false
	}
	_, err := hex.DecodeString(rest)
	return err == nil
}

// deriveLicenseKey fingerprints the license identity into a SAAAM- key.
func deriveLicenseKey(company string, tier catalog.TierID, id uuid.UUID, credential string) (string, error) {
	h, err := blake2b.New(licenseKeyDigestSize, nil)
	if err != nil {
		return "", fmt.Errorf("init license key digest: %w", err)
	}
	// Fields are NUL-separated so adjacent values cannot run together.
	for _, part := range []string{company, string(tier), id.String(), credential} {
		h.Write([]byte(part))
		h.Write([]byte{0})
	}
	return LicenseKeyPrefix + strings.ToUpper(hex.EncodeToString(h.Sum(nil))), nil
}
