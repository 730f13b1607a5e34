package crypto

import (
	"testing"
)

func TestEncryptDecryptFieldsRoundTrip(t *testing.T) {
	codec := NewCodec(newTestCipher(t), nil)

	record := map[string]string{
		"legalName":   "Acme S.A. de C.V.",
		"taxId":       "ACM010101AB1",
		"address":     "Av. Reforma 123",
		"phone":       "+52 55 1234 5678",
		"bankAccount": "012345678901234567",
		"country":     "MX",
	}

	encrypted, err := codec.EncryptFields(record, CompanyFields)
	if err != nil {
		t.Fatalf("EncryptFields failed: %v", err)
	}

	for _, name := range CompanyFields {
		if encrypted[name] == record[name] {
			t.Fatalf("field %q was not encrypted", name)
		}
	}
	if encrypted["country"] != "MX" {
		t.Fatalf("non-sensitive field mutated: %q", encrypted["country"])
	}

	decrypted, failed := codec.DecryptFields(encrypted, CompanyFields)
	if len(failed) != 0 {
		t.Fatalf("unexpected failed fields: %v", failed)
	}
	for k, v := range record {
		if decrypted[k] != v {
			t.Fatalf("field %q round trip mismatch: got %q want %q", k, decrypted[k], v)
		}
	}
}

func TestDecryptFieldsIsolatesFailures(t *testing.T) {
	codec := NewCodec(newTestCipher(t), nil)

	encrypted, err := codec.EncryptFields(map[string]string{
		"taxId": "ACM010101AB1",
		"phone": "+52 55 1234 5678",
	}, []string{"taxId", "phone"})
	if err != nil {
		t.Fatalf("EncryptFields failed: %v", err)
	}

	// Corrupt one field only.
	encrypted["taxId"] = "not:a:valid:payload"

	decrypted, failed := codec.DecryptFields(encrypted, []string{"taxId", "phone"})
	if len(failed) != 1 || failed[0] != "taxId" {
		t.Fatalf("expected only taxId to fail, got %v", failed)
	}
	if decrypted["taxId"] != "" {
		t.Fatalf("failed field should resolve to empty, got %q", decrypted["taxId"])
	}
	if decrypted["phone"] != "+52 55 1234 5678" {
		t.Fatalf("sibling field did not decrypt: %q", decrypted["phone"])
	}
}

func TestEncryptFieldsSkipsAbsentFields(t *testing.T) {
	codec := NewCodec(newTestCipher(t), nil)

	encrypted, err := codec.EncryptFields(map[string]string{"fullName": "Jane Roe"}, ClientFields)
	if err != nil {
		t.Fatalf("EncryptFields failed: %v", err)
	}
	if len(encrypted) != 1 {
		t.Fatalf("expected 1 field, got %d", len(encrypted))
	}
	if _, ok := encrypted["notes"]; ok {
		t.Fatalf("absent field materialized in output")
	}
}
