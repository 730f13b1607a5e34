package securecore

import (
	"strings"
	"testing"
)

func TestGenerateBackupCodes(t *testing.T) {
	engine, _ := newTestEngine(t)

	codes, err := engine.GenerateBackupCodes()
	if err != nil {
		t.Fatalf("GenerateBackupCodes failed: %v", err)
	}
	if len(codes) != 10 {
		t.Fatalf("expected 10 codes, got %d", len(codes))
	}

	seen := make(map[string]bool, len(codes))
	for _, code := range codes {
		if len(code) != 8 {
			t.Fatalf("expected 8-char code, got %q", code)
		}
		for _, r := range code {
			if !strings.ContainsRune("ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789", r) {
				t.Fatalf("unexpected character %q in code %q", r, code)
			}
		}
		if seen[code] {
			t.Fatalf("duplicate code %q in batch", code)
		}
		seen[code] = true
	}
}

func TestFormatBackupCode(t *testing.T) {
	cases := map[string]string{
		"ABCD1234":  "ABCD-1234",
		"ABCDEF123": "ABCD-EF12-3",
		"ABC":       "ABC",
		"":          "",
	}
	for in, want := range cases {
		if got := FormatBackupCode(in); got != want {
			t.Fatalf("FormatBackupCode(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestVerifyBackupCodeConsumesOnce(t *testing.T) {
	engine, _ := newTestEngine(t)

	codes, err := engine.GenerateBackupCodes()
	if err != nil {
		t.Fatalf("GenerateBackupCodes failed: %v", err)
	}

	blob, err := engine.EncryptBackupCodes(codes)
	if err != nil {
		t.Fatalf("EncryptBackupCodes failed: %v", err)
	}

	result := engine.VerifyBackupCode(blob, codes[0])
	if !result.Valid {
		t.Fatal("freshly generated code should verify")
	}
	if result.Remaining != 9 {
		t.Fatalf("expected 9 remaining, got %d", result.Remaining)
	}
	if result.UpdatedBlob == "" || result.UpdatedBlob == blob {
		t.Fatal("expected a new blob with the code consumed")
	}

	// The original blob is untouched until the caller commits the update.
	if again := engine.VerifyBackupCode(blob, codes[0]); !again.Valid {
		t.Fatal("uncommitted blob should still accept the code")
	}

	// Against the committed blob the code is spent.
	if spent := engine.VerifyBackupCode(result.UpdatedBlob, codes[0]); spent.Valid {
		t.Fatal("consumed code accepted twice")
	}
}

func TestVerifyBackupCodeAcceptsFormattedInput(t *testing.T) {
	engine, _ := newTestEngine(t)

	codes, err := engine.GenerateBackupCodes()
	if err != nil {
		t.Fatalf("GenerateBackupCodes failed: %v", err)
	}

	blob, err := engine.EncryptBackupCodes(codes)
	if err != nil {
		t.Fatalf("EncryptBackupCodes failed: %v", err)
	}

	formatted := strings.ToLower(FormatBackupCode(codes[3]))
	if result := engine.VerifyBackupCode(blob, formatted); !result.Valid {
		t.Fatalf("expected formatted input %q to verify", formatted)
	}
}

func TestVerifyBackupCodeRejectsUnknown(t *testing.T) {
	engine, _ := newTestEngine(t)

	codes, err := engine.GenerateBackupCodes()
	if err != nil {
		t.Fatalf("GenerateBackupCodes failed: %v", err)
	}

	blob, err := engine.EncryptBackupCodes(codes)
	if err != nil {
		t.Fatalf("EncryptBackupCodes failed: %v", err)
	}

	if result := engine.VerifyBackupCode(blob, "WRONG999"); result.Valid {
		t.Fatal("unknown code accepted")
	}
}

func TestVerifyBackupCodeUnreadableBlob(t *testing.T) {
	engine, _ := newTestEngine(t)

	result := engine.VerifyBackupCode("garbage", "ABCD1234")
	if result.Valid {
		t.Fatal("unreadable blob must never validate")
	}
	if result.UpdatedBlob != "" {
		t.Fatal("unreadable blob must not produce an update")
	}
}

func TestRemainingBackupCodes(t *testing.T) {
	engine, _ := newTestEngine(t)

	codes, err := engine.GenerateBackupCodes()
	if err != nil {
		t.Fatalf("GenerateBackupCodes failed: %v", err)
	}

	blob, err := engine.EncryptBackupCodes(codes)
	if err != nil {
		t.Fatalf("EncryptBackupCodes failed: %v", err)
	}

	remaining, err := engine.RemainingBackupCodes(blob)
	if err != nil {
		t.Fatalf("RemainingBackupCodes failed: %v", err)
	}
	if remaining != 10 {
		t.Fatalf("expected 10 remaining, got %d", remaining)
	}

	result := engine.VerifyBackupCode(blob, codes[5])
	remaining, err = engine.RemainingBackupCodes(result.UpdatedBlob)
	if err != nil {
		t.Fatalf("RemainingBackupCodes failed: %v", err)
	}
	if remaining != 9 {
		t.Fatalf("expected 9 remaining after consumption, got %d", remaining)
	}
}
