package idhash

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"

	"github.com/mr-tron/base58"

	"sales-analytics/internal/domain"
)

// ComputeSnapshotID computes a deterministic dataset fingerprint.
// Formula: base58(SHA256(json(sales)))
// The JSON encoding of a []domain.Sale is canonical: struct fields are
// emitted in declaration order and record order is preserved.
func ComputeSnapshotID(sales []domain.Sale) (string, error) {
	if sales == nil {
		sales = []domain.Sale{}
	}
	data, err := json.Marshal(sales)
	if err != nil {
		return "", fmt.Errorf("encode sales for snapshot id: %w", err)
	}
	return ComputeContentID(data), nil
}

// ComputeContentID returns base58(SHA256(data)).
func ComputeContentID(data []byte) string {
	hash := sha256.Sum256(data)
	return base58.Encode(hash[:])
}
