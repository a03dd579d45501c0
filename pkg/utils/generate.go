package utils

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
)

// ==================== UUID ====================

func GenerateUUID() uuid.UUID {
	return uuid.New()
}

func ParseUUID(uuidStr string) (uuid.UUID, error) {
	return uuid.Parse(uuidStr)
}

// ==================== OTP ====================

// GenerateOTP returns a 4-digit numeric code in [1000, 9999].
func GenerateOTP() string {
	rand.New(rand.NewSource(time.Now().UnixNano()))

	return fmt.Sprintf("%d", 1000+rand.Intn(9000))
}
