package utils

import (
	"crypto/rand"
	"fmt"
	"time"
)

// GenerateAppointmentNumber builds a human-readable booking number like
// "WRX-20260830-4F2A". The random suffix keeps same-day numbers unique; the
// column's unique constraint is the final arbiter.
func GenerateAppointmentNumber() string {
	var b [2]byte
	rand.Read(b[:])
	return fmt.Sprintf("WRX-%s-%02X%02X", time.Now().UTC().Format("20060102"), b[0], b[1])
}

func GenerateOTP() string {
	// Generate a 4-digit OTP
	var number [1]byte
	rand.Read(number[:])
	return fmt.Sprintf("%04d", int(number[0])%10000)
}
