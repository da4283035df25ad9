package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"
)

// GenerateEntityID generates an entity ID from the current timestamp.
// Format: prefix + 6 digits.
// Example: PR483920, PU104577
func GenerateEntityID(prefix string) string {
	return fmt.Sprintf("%s%06d", prefix, time.Now().UnixNano()%1000000)
}

// GenerateProductID generates a product ID: PR followed by 6 digits.
func GenerateProductID() string {
	return GenerateEntityID("PR")
}

// GeneratePurchaseID generates a purchase ID: PU followed by 6 digits.
func GeneratePurchaseID() string {
	return GenerateEntityID("PU")
}

// GenerateBlockchainHash generates a simulated blockchain hash for display.
// Format: 0x + 12 hex characters + ellipsis. The value is random and is not
// anchored to any chain.
func GenerateBlockchainHash() string {
	b := make([]byte, 6) // 12 char hex
	if _, err := rand.Read(b); err != nil {
		return fmt.Sprintf("0x%012x...", time.Now().UnixNano()&0xFFFFFFFFFFFF)
	}
	return fmt.Sprintf("0x%s...", hex.EncodeToString(b))
}

// QRCodeFor derives the printable QR code string for a product ID.
func QRCodeFor(productID string) string {
	return "QR_" + productID
}
