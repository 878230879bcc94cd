package vault

import (
	"encoding/base64"
	"errors"
	"reflect"
	"testing"

	"github.com/passvault/passvault/internal/crypto"
)

func testKey(t *testing.T) []byte {
	t.Helper()
	key, err := crypto.GenerateKey()
	if err != nil {
		t.Fatalf("GenerateKey() error = %v", err)
	}
	return key
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		rec  Record
	}{
		{"empty", Record{}},
		{"single entry", Record{"email": "Tr0ub4dor&3"}},
		{
			"several entries",
			Record{
				"email":   "correct horse battery staple",
				"banking": `x$B9"q\3>Z{`,
				"wifi":    "hunter2",
			},
		},
		{
			"unicode labels and passwords",
			Record{
				"почта":   "пароль-123",
				"日本語":     "パスワード",
				"emoji 🔑": "🔒🔒🔒",
			},
		},
		{"empty password", Record{"placeholder": ""}},
		{"empty label", Record{"": "anonymous"}},
	}

	key := testKey(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			blob, err := Encode(tt.rec, key)
			if err != nil {
				t.Fatalf("Encode() error = %v", err)
			}

			got, err := Decode(blob, key)
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.rec) {
				t.Errorf("round trip mismatch: got %v, want %v", got, tt.rec)
			}
		})
	}
}

func TestEncodeNilRecord(t *testing.T) {
	key := testKey(t)

	blob, err := Encode(nil, key)
	if err != nil {
		t.Fatalf("Encode(nil) error = %v", err)
	}
	got, err := Decode(blob, key)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("Decode() = %v, want empty non-nil record", got)
	}
}

func TestDecodeWrongKey(t *testing.T) {
	key := testKey(t)
	other := testKey(t)

	blob, err := Encode(Record{"email": "Tr0ub4dor&3"}, key)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	rec, err := Decode(blob, other)
	if !errors.Is(err, ErrIntegrity) {
		t.Errorf("Decode() with wrong key: error = %v, want ErrIntegrity", err)
	}
	if rec != nil {
		t.Errorf("Decode() with wrong key released record %v", rec)
	}
}

func TestDecodeTamperEveryByte(t *testing.T) {
	key := testKey(t)

	blob, err := Encode(Record{"email": "Tr0ub4dor&3", "wifi": "hunter2"}, key)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	raw, err := base64.URLEncoding.DecodeString(string(blob))
	if err != nil {
		t.Fatalf("blob is not valid base64: %v", err)
	}

	for i := range raw {
		mut := make([]byte, len(raw))
		copy(mut, raw)
		mut[i] ^= 0x01

		rec, err := Decode([]byte(base64.URLEncoding.EncodeToString(mut)), key)
		if !errors.Is(err, ErrIntegrity) {
			t.Fatalf("Decode() with byte %d flipped: error = %v, want ErrIntegrity", i, err)
		}
		if rec != nil {
			t.Fatalf("Decode() with byte %d flipped released record %v", i, rec)
		}
	}
}

func TestDecodeGarbageInput(t *testing.T) {
	key := testKey(t)

	cases := [][]byte{
		nil,
		{},
		[]byte("not a vault blob"),
		[]byte(base64.URLEncoding.EncodeToString([]byte("short"))),
	}
	for i, in := range cases {
		if _, err := Decode(in, key); !errors.Is(err, ErrIntegrity) {
			t.Errorf("case %d: Decode() error = %v, want ErrIntegrity", i, err)
		}
	}
}

func TestDecodeTruncatedBlob(t *testing.T) {
	key := testKey(t)

	blob, err := Encode(Record{"email": "Tr0ub4dor&3"}, key)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	if _, err := Decode(blob[:len(blob)-8], key); !errors.Is(err, ErrIntegrity) {
		t.Errorf("Decode() of truncated blob: error = %v, want ErrIntegrity", err)
	}
}

func TestDecodeMalformedPayload(t *testing.T) {
	key := testKey(t)

	// Authenticates fine but is not a record.
	blob, err := crypto.Seal(key, []byte("definitely not json"))
	if err != nil {
		t.Fatalf("Seal() error = %v", err)
	}

	rec, err := Decode(blob, key)
	if !errors.Is(err, ErrDecode) {
		t.Errorf("Decode() error = %v, want ErrDecode", err)
	}
	if errors.Is(err, ErrIntegrity) {
		t.Error("malformed payload reported as integrity failure")
	}
	if rec != nil {
		t.Errorf("Decode() released record %v for malformed payload", rec)
	}
}

func TestLabels(t *testing.T) {
	rec := Record{"wifi": "a", "banking": "b", "email": "c"}

	got := rec.Labels()
	want := []string{"banking", "email", "wifi"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Labels() = %v, want %v", got, want)
	}

	if got := (Record{}).Labels(); len(got) != 0 {
		t.Errorf("Labels() of empty record = %v, want none", got)
	}
}
