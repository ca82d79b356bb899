package utils

import (
	"regexp"
	"testing"
)

func TestGenerateAppointmentNumber(t *testing.T) {
	pattern := regexp.MustCompile(`^WRX-\d{8}-[0-9A-F]{4}$`)
	for i := 0; i < 100; i++ {
		n := GenerateAppointmentNumber()
		if !pattern.MatchString(n) {
			t.Fatalf("malformed appointment number %q", n)
		}
	}
}

func TestGenerateOTP(t *testing.T) {
	for i := 0; i < 100; i++ {
		otp := GenerateOTP()
		if len(otp) != 4 {
			t.Fatalf("OTP %q is not 4 digits", otp)
		}
	}
}
