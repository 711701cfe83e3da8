package domain

import (
	"errors"
	"math/big"
	"testing"
)

func TestParseBitLength_RejectsInvalid(t *testing.T) {
	for _, bits := range []int{-8, 0, 8, 24, 31, 33, 36, 100} {
		if _, err := ParseBitLength(bits); !errors.Is(err, ErrInvalidBitLength) {
			t.Fatalf("bits=%d: expected ErrInvalidBitLength, got %v", bits, err)
		}
	}
}

func TestParseBitLength_AcceptsMultiplesOf8(t *testing.T) {
	for _, bits := range []int{32, 40, 64, 128, 1024} {
		b, err := ParseBitLength(bits)
		if err != nil {
			t.Fatalf("bits=%d: unexpected error %v", bits, err)
		}
		if b.Bytes() != bits/8 {
			t.Fatalf("bits=%d: expected %d bytes, got %d", bits, bits/8, b.Bytes())
		}
	}
}

func TestNewSearchRequest_ValidatesCount(t *testing.T) {
	if _, err := NewSearchRequest(64, 0, 10); !errors.Is(err, ErrInvalidCount) {
		t.Fatalf("expected ErrInvalidCount, got %v", err)
	}
	if _, err := NewSearchRequest(64, -3, 10); !errors.Is(err, ErrInvalidCount) {
		t.Fatalf("expected ErrInvalidCount, got %v", err)
	}
}

func TestNewSearchRequest_DefaultsRounds(t *testing.T) {
	req, err := NewSearchRequest(64, 2, 0)
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if req.Rounds != DefaultRounds {
		t.Fatalf("expected rounds=%d, got %d", DefaultRounds, req.Rounds)
	}
	if req.Bits != 64 || req.Target != 2 {
		t.Fatalf("unexpected request %+v", req)
	}
}

func TestFoundPrime_String(t *testing.T) {
	p := FoundPrime{Index: 3, Value: big.NewInt(7919)}
	if got := p.String(); got != "3: 7919" {
		t.Fatalf("expected %q, got %q", "3: 7919", got)
	}
}

func TestPhase_String(t *testing.T) {
	want := map[Phase]string{
		PhaseIdle:      "idle",
		PhaseRunning:   "running",
		PhaseDraining:  "draining",
		PhaseCompleted: "completed",
		Phase(42):      "unknown",
	}
	for p, s := range want {
		if p.String() != s {
			t.Fatalf("expected %q, got %q", s, p.String())
		}
	}
}
