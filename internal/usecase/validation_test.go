package usecase

import "testing"

func TestValidateEmail(t *testing.T) {
	valid := []string{
		"budi@example.com",
		"budi.santoso@mail.co.id",
		"a+b@sub.domain.io",
	}
	for _, email := range valid {
		if !ValidateEmail(email) {
			t.Errorf("expected %q to be valid", email)
		}
	}

	invalid := []string{
		"",
		"plain",
		"missing-domain@",
		"@missing-local.com",
		"no-dot@localhost",
		"Budi <budi@example.com>",
		"two@@example.com",
	}
	for _, email := range invalid {
		if ValidateEmail(email) {
			t.Errorf("expected %q to be invalid", email)
		}
	}
}
