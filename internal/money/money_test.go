package money

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{"12.34", 1234, false},
		{"1200", 120000, false},
		{"0.5", 50, false},
		{"-50", -5000, false},
		{"0.001", 0, true},
		{"abc", 0, true},
		{"", 0, true},
		{"100000000.01", 0, true},
	}
	for _, tt := range tests {
		got, err := Parse(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("Parse(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("Parse(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestToCentsFromJSONNumber(t *testing.T) {
	var d decimal.Decimal
	if err := d.UnmarshalJSON([]byte(`19.99`)); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	got, err := ToCents(d)
	if err != nil || got != 1999 {
		t.Errorf("ToCents(19.99) = %d, %v", got, err)
	}
}

func TestFormat(t *testing.T) {
	tests := map[int64]string{
		0:      "0.00",
		5:      "0.05",
		1250:   "12.50",
		-5000:  "-50.00",
		120000: "1200.00",
	}
	for in, want := range tests {
		if got := Format(in); got != want {
			t.Errorf("Format(%d) = %q, want %q", in, got, want)
		}
	}
}
