package util

import (
	"bytes"
	"strings"
	"testing"
)

func TestRandomString(t *testing.T) {
	str, err := RandomString(32)
	if err != nil {
		t.Fatalf("RandomString: %v", err)
	}
	if len(str) != 32 {
		t.Errorf("len = %d, want 32", len(str))
	}

	str2, _ := RandomString(32)
	if str == str2 {
		t.Error("two calls returned the same string")
	}

	if _, err := RandomString(0); err == nil {
		t.Error("length 0 should fail")
	}
	if _, err := RandomString(-5); err == nil {
		t.Error("negative length should fail")
	}
}

func TestSealer_RoundTrip(t *testing.T) {
	s, err := NewSealer("test-encryption-key")
	if err != nil {
		t.Fatalf("NewSealer: %v", err)
	}

	testCases := []string{
		"Hello World",
		"中文测试",
		"",
		"Special!@#$%^&*()",
		strings.Repeat("A", 1000),
	}
	for _, plaintext := range testCases {
		sealed, err := s.Seal([]byte(plaintext))
		if err != nil {
			t.Fatalf("Seal(%q): %v", plaintext, err)
		}
		opened, err := s.Open(sealed)
		if err != nil {
			t.Fatalf("Open(%q): %v", plaintext, err)
		}
		if string(opened) != plaintext {
			t.Errorf("round trip = %q, want %q", opened, plaintext)
		}
	}
}

func TestSealer_RandomNonce(t *testing.T) {
	s, _ := NewSealer("k")
	a, _ := s.Seal([]byte("same"))
	b, _ := s.Seal([]byte("same"))
	if bytes.Equal(a, b) {
		t.Error("sealing twice produced identical output")
	}
}

func TestSealer_WrongKey(t *testing.T) {
	right, _ := NewSealer("correct-key")
	wrong, _ := NewSealer("wrong-key")
	sealed, _ := right.Seal([]byte("data"))

	if _, err := wrong.Open(sealed); err == nil {
		t.Error("wrong key should fail to open")
	}
}

func TestSealer_InvalidData(t *testing.T) {
	s, _ := NewSealer("test-key")
	if _, err := s.Open([]byte{1, 2, 3}); err == nil {
		t.Error("short data should fail")
	}
	if _, err := s.Open(nil); err == nil {
		t.Error("empty data should fail")
	}
	if _, err := s.OpenString("%%%"); err == nil {
		t.Error("invalid base64 should fail")
	}
}

func TestSealer_Strings(t *testing.T) {
	s, _ := NewSealer("test-key")
	enc, err := s.SealString("/api/accounts/3")
	if err != nil {
		t.Fatalf("SealString: %v", err)
	}
	if strings.Contains(enc, "accounts") {
		t.Error("sealed string leaks plaintext")
	}
	dec, err := s.OpenString(enc)
	if err != nil {
		t.Fatalf("OpenString: %v", err)
	}
	if dec != "/api/accounts/3" {
		t.Errorf("OpenString = %q", dec)
	}
	if got, err := s.OpenString(""); err != nil || got != "" {
		t.Errorf("OpenString(\"\") = %q, %v", got, err)
	}
}

func TestNewSealer_EmptyKey(t *testing.T) {
	if _, err := NewSealer(""); err == nil {
		t.Error("empty key should fail")
	}
}

func BenchmarkSeal(b *testing.B) {
	s, _ := NewSealer("bench-key")
	data := []byte("Benchmark data")
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = s.Seal(data)
	}
}
