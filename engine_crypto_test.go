package securecore

import (
	"errors"
	"strings"
	"testing"
)

func TestEngineEncryptDecryptRoundTrip(t *testing.T) {
	engine, _ := newTestEngine(t)

	payload, err := engine.Encrypt("12.345.678/0001-90")
	if err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}
	if strings.Count(payload, ":") != 3 {
		t.Fatalf("expected salt:iv:tag:ciphertext payload, got %q", payload)
	}

	plain, err := engine.Decrypt(payload)
	if err != nil {
		t.Fatalf("Decrypt failed: %v", err)
	}
	if plain != "12.345.678/0001-90" {
		t.Fatalf("round trip mismatch: %q", plain)
	}
}

func TestEngineDecryptRejectsGarbage(t *testing.T) {
	engine, _ := newTestEngine(t)

	if _, err := engine.Decrypt("not-a-payload"); !errors.Is(err, ErrDecrypt) {
		t.Fatalf("expected ErrDecrypt, got %v", err)
	}
}

func TestEncryptEntityFieldsCompany(t *testing.T) {
	engine, _ := newTestEngine(t)

	record := map[string]string{
		"legalName": "Acme Contábil Ltda",
		"taxId":     "12.345.678/0001-90",
		"website":   "https://acme.example",
	}

	encrypted, err := engine.EncryptEntityFields(EntityCompany, record)
	if err != nil {
		t.Fatalf("EncryptEntityFields failed: %v", err)
	}

	if encrypted["taxId"] == record["taxId"] {
		t.Fatal("taxId left in plaintext")
	}
	if encrypted["legalName"] == record["legalName"] {
		t.Fatal("legalName left in plaintext")
	}
	if encrypted["website"] != record["website"] {
		t.Fatal("unregistered field should pass through")
	}

	decrypted, failed, err := engine.DecryptEntityFields(EntityCompany, encrypted)
	if err != nil {
		t.Fatalf("DecryptEntityFields failed: %v", err)
	}
	if len(failed) != 0 {
		t.Fatalf("unexpected failed fields: %v", failed)
	}
	if decrypted["taxId"] != record["taxId"] || decrypted["legalName"] != record["legalName"] {
		t.Fatalf("round trip mismatch: %v", decrypted)
	}
}

func TestDecryptEntityFieldsIsolatesCorruption(t *testing.T) {
	engine, _ := newTestEngine(t)

	encrypted, err := engine.EncryptEntityFields(EntityClient, map[string]string{
		"fullName": "Maria Silva",
		"phone":    "+55 11 91234-5678",
	})
	if err != nil {
		t.Fatalf("EncryptEntityFields failed: %v", err)
	}

	encrypted["phone"] = "corrupted"

	decrypted, failed, err := engine.DecryptEntityFields(EntityClient, encrypted)
	if err != nil {
		t.Fatalf("DecryptEntityFields failed: %v", err)
	}
	if len(failed) != 1 || failed[0] != "phone" {
		t.Fatalf("expected phone to fail, got %v", failed)
	}
	if decrypted["phone"] != "" {
		t.Fatalf("failed field should decode empty, got %q", decrypted["phone"])
	}
	if decrypted["fullName"] != "Maria Silva" {
		t.Fatalf("sibling field should decrypt normally, got %q", decrypted["fullName"])
	}
}

func TestEntityFieldsUnknownEntity(t *testing.T) {
	engine, _ := newTestEngine(t)

	if _, err := engine.EncryptEntityFields("invoice", nil); !errors.Is(err, ErrUnknownEntity) {
		t.Fatalf("expected ErrUnknownEntity, got %v", err)
	}
	if _, _, err := engine.DecryptEntityFields("invoice", nil); !errors.Is(err, ErrUnknownEntity) {
		t.Fatalf("expected ErrUnknownEntity, got %v", err)
	}
}

func TestEngineHashAndToken(t *testing.T) {
	engine, _ := newTestEngine(t)

	if engine.Hash("abc") != engine.Hash("abc") {
		t.Fatal("Hash must be deterministic")
	}

	token, err := engine.GenerateToken(16)
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}
	if len(token) != 32 {
		t.Fatalf("expected 32 hex chars for 16 bytes, got %d", len(token))
	}
}
