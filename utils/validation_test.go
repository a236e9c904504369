// utils/validation_test.go
package utils

import "testing"

func TestValidatePhone(t *testing.T) {
	valid := []string{"+919812345678", "9812345678", "+1 (415) 555-2671", "415-555-2671"}
	for _, p := range valid {
		if !ValidatePhone(p) {
			t.Errorf("ValidatePhone(%q) = false, want true", p)
		}
	}

	invalid := []string{"", "abc", "+0123456", "0"}
	for _, p := range invalid {
		if ValidatePhone(p) {
			t.Errorf("ValidatePhone(%q) = true, want false", p)
		}
	}
}
