package fingerprint

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"

	"github.com/mirola777/idempotent-charges/internal/domain"
)

// Compute hashes the charge payload. The idempotency key is not part of
// the payload, so two requests differing only in key share a fingerprint.
func Compute(req domain.ChargeRequest) string {
	data, _ := json.Marshal(req)
	hash := sha256.Sum256(data)
	return fmt.Sprintf("%x", hash)
}
