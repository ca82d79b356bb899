package models

import (
	"testing"
	"time"
)

func TestHasCredential(t *testing.T) {
	cases := []struct {
		name string
		user User
		want bool
	}{
		{"password only", User{PasswordHash: "$2a$10$hash"}, true},
		{"google only", User{GoogleID: "g-123"}, true},
		{"both", User{PasswordHash: "$2a$10$hash", GoogleID: "g-123"}, true},
		{"neither", User{}, false},
	}
	for _, tc := range cases {
		if got := tc.user.HasCredential(); got != tc.want {
			t.Errorf("%s: HasCredential() = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestOTPMatches(t *testing.T) {
	now := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	future := now.Add(10 * time.Minute)
	past := now.Add(-1 * time.Minute)

	cases := []struct {
		name string
		user User
		code string
		want bool
	}{
		{"matching unexpired code", User{OTP: "4821", OTPExpiresAt: &future}, "4821", true},
		{"wrong code", User{OTP: "4821", OTPExpiresAt: &future}, "0000", false},
		{"expired code", User{OTP: "4821", OTPExpiresAt: &past}, "4821", false},
		{"no code outstanding", User{}, "", false},
		{"code without expiry", User{OTP: "4821"}, "4821", false},
	}
	for _, tc := range cases {
		if got := tc.user.OTPMatches(tc.code, now); got != tc.want {
			t.Errorf("%s: OTPMatches(%q) = %v, want %v", tc.name, tc.code, got, tc.want)
		}
	}
}
