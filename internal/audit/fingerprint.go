package audit

import (
	"crypto/sha256"
	"encoding/base64"
)

// Fingerprint returns a short stable fingerprint of a credential so that
// decisions can be correlated in logs without ever writing the raw value.
func Fingerprint(credential string) string {
	if credential == "" {
		return "(empty)"
	}
	hash := sha256.Sum256([]byte(credential))
	return base64.RawStdEncoding.EncodeToString(hash[:])[:12]
}
