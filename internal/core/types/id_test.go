package types

import (
	"encoding/json"
	"testing"
)

func TestPackEntityID_RoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		typ   uint8
		gen   uint16
		index uint64
	}{
		{"zero index", 1, 0, 0},
		{"typical", 2, 3, 42},
		{"max gen", 1, 65535, 100},
		{"large index", 4, 1, (1 << 40) - 1},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			id := PackEntityID(tc.typ, tc.gen, tc.index)

			if id.Type() != tc.typ {
				t.Errorf("Type mismatch. Got %d, want %d", id.Type(), tc.typ)
			}
			if id.Generation() != tc.gen {
				t.Errorf("Generation mismatch. Got %d, want %d", id.Generation(), tc.gen)
			}
			if id.Index() != tc.index {
				t.Errorf("Index mismatch. Got %d, want %d", id.Index(), tc.index)
			}
		})
	}
}

func TestEntityID_GenerationDistinguishesSlots(t *testing.T) {
	// Один и тот же слот с разными поколениями - это разные ID
	a := PackEntityID(1, 1, 7)
	b := PackEntityID(1, 2, 7)

	if a == b {
		t.Error("IDs with different generations must not be equal")
	}
}

func TestEntityID_Nil(t *testing.T) {
	if !NilEntityID.IsNil() {
		t.Error("NilEntityID.IsNil() must be true")
	}
	if PackEntityID(1, 0, 1).IsNil() {
		t.Error("Non-zero ID must not be nil")
	}
}

func TestEntityID_JSON(t *testing.T) {
	id := PackEntityID(3, 9, 123456)

	data, err := json.Marshal(id)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	// Должна быть строка, а не число (JS теряет точность на uint64)
	if data[0] != '"' {
		t.Errorf("Expected JSON string, got %s", data)
	}

	var decoded EntityID
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if decoded != id {
		t.Errorf("Round trip mismatch. Got %v, want %v", decoded, id)
	}
}
