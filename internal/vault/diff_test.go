package vault

import (
	"strings"
	"testing"
)

func TestFingerprint(t *testing.T) {
	fp := Fingerprint("Tr0ub4dor&3")
	if !strings.HasPrefix(fp, "sha256:") {
		t.Errorf("Fingerprint() = %q, want sha256: prefix", fp)
	}
	if len(fp) != len("sha256:")+12 {
		t.Errorf("Fingerprint() = %q, want 12 hex digits after the prefix", fp)
	}
	if fp != Fingerprint("Tr0ub4dor&3") {
		t.Error("Fingerprint() is not deterministic")
	}
	if fp == Fingerprint("Tr0ub4dor&4") {
		t.Error("Fingerprint() collides for different passwords")
	}
}

func TestDiffRecordsIdentical(t *testing.T) {
	rec := Record{"email": "Tr0ub4dor&3", "bank": "hunter2"}
	if out := DiffRecords("snapshot 3", "current", rec, rec); out != "" {
		t.Errorf("DiffRecords() of identical records = %q, want empty", out)
	}
	if out := DiffRecords("a", "b", Record{}, Record{}); out != "" {
		t.Errorf("DiffRecords() of empty records = %q, want empty", out)
	}
}

func TestDiffRecordsAddedAndRemoved(t *testing.T) {
	from := Record{"email": "Tr0ub4dor&3", "old-site": "hunter2"}
	to := Record{"email": "Tr0ub4dor&3", "new-site": "hunter2"}

	out := DiffRecords("snapshot 3", "current", from, to)

	if !strings.Contains(out, "--- snapshot 3\n") || !strings.Contains(out, "+++ current\n") {
		t.Errorf("DiffRecords() missing name header:\n%s", out)
	}
	if !strings.Contains(out, "- old-site ") {
		t.Errorf("DiffRecords() missing removed label:\n%s", out)
	}
	if !strings.Contains(out, "+ new-site ") {
		t.Errorf("DiffRecords() missing added label:\n%s", out)
	}
	if strings.Contains(out, "email") {
		t.Errorf("DiffRecords() lists unchanged label:\n%s", out)
	}
}

func TestDiffRecordsChangedPassword(t *testing.T) {
	from := Record{"email": "Tr0ub4dor&3"}
	to := Record{"email": "correct horse battery staple"}

	out := DiffRecords("before", "after", from, to)

	if !strings.Contains(out, "- email "+Fingerprint("Tr0ub4dor&3")) {
		t.Errorf("DiffRecords() missing old fingerprint line:\n%s", out)
	}
	if !strings.Contains(out, "+ email "+Fingerprint("correct horse battery staple")) {
		t.Errorf("DiffRecords() missing new fingerprint line:\n%s", out)
	}
}

func TestDiffRecordsNeverLeaksPasswords(t *testing.T) {
	from := Record{
		"email":  "Tr0ub4dor&3",
		"bank":   "hunter2",
		"почта":  "пароль-123",
		"erased": "do-not-print-me",
	}
	to := Record{
		"email": "rotated-secret",
		"bank":  "hunter2",
		"почта": "пароль-123",
		"added": "also-secret",
	}

	out := DiffRecords("before", "after", from, to)

	for _, rec := range []Record{from, to} {
		for label, password := range rec {
			if strings.Contains(out, password) {
				t.Errorf("DiffRecords() output contains password for %q:\n%s", label, out)
			}
		}
	}
}

func TestDiffRecordsUnicodeLabels(t *testing.T) {
	out := DiffRecords("before", "after", Record{}, Record{"почта": "x", "日本語": "y"})

	if !strings.Contains(out, "+ почта ") || !strings.Contains(out, "+ 日本語 ") {
		t.Errorf("DiffRecords() mangles unicode labels:\n%s", out)
	}
}
