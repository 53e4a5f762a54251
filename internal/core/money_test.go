package core

import (
	"encoding/json"
	"testing"
)

func TestParseDecimalToCents(t *testing.T) {
	cases := []struct {
		in  string
		out int64
		ok  bool
	}{
		{"1", 100, true},
		{"1.0", 100, true},
		{"1.23", 123, true},
		{"1,23", 123, true},
		{"0.01", 1, true},
		{"1.005", 101, true}, // half-up rounding
		{"12.344", 1234, true},
		{" 2.50 ", 250, true},
		{"5000", 500000, true},
		{"1000000000000", MaxAmountCents, true},
		{"1000000000000.01", 0, false},
		{"92233720368547758.07", 0, false},
		{"-1", 0, false},
		{"+1", 0, false},
		{"0", 0, false},
		{"0.001", 0, false}, // rounds to zero
		{"abc", 0, false},
		{"1.2.3", 0, false},
		{"", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseDecimalToCents(tc.in)
		if tc.ok {
			if err != nil || got != tc.out {
				t.Fatalf("%q expected %d, got %d (err=%v)", tc.in, tc.out, got, err)
			}
		} else {
			if err == nil {
				t.Fatalf("%q expected error", tc.in)
			}
		}
	}
}

func TestMoneyString(t *testing.T) {
	cases := map[int64]string{
		0:      "0.00",
		1:      "0.01",
		123:    "1.23",
		500000: "5000.00",
		-380:   "-3.80",
	}
	for cents, want := range cases {
		if got := (Money{Cents: cents}).String(); got != want {
			t.Errorf("Money{%d}.String() = %q, want %q", cents, got, want)
		}
	}
}

func TestMoneyJSON(t *testing.T) {
	var payload struct {
		Amount Money `json:"amount"`
	}

	if err := json.Unmarshal([]byte(`{"amount": 12.5}`), &payload); err != nil {
		t.Fatalf("number: %v", err)
	}
	if payload.Amount.Cents != 1250 {
		t.Fatalf("number: got %d cents", payload.Amount.Cents)
	}

	if err := json.Unmarshal([]byte(`{"amount": "7,25"}`), &payload); err != nil {
		t.Fatalf("string: %v", err)
	}
	if payload.Amount.Cents != 725 {
		t.Fatalf("string: got %d cents", payload.Amount.Cents)
	}

	for _, bad := range []string{`{"amount": 0}`, `{"amount": -3}`, `{"amount": "abc"}`, `{"amount": null}`, `{"amount": true}`} {
		if err := json.Unmarshal([]byte(bad), &payload); err == nil {
			t.Errorf("%s: expected error", bad)
		}
	}

	out, err := json.Marshal(struct {
		Balance Money `json:"balance"`
	}{Money{Cents: -12345}})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != `{"balance":-123.45}` {
		t.Fatalf("marshal = %s", out)
	}
}
