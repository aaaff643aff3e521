package veil

import "testing"

func TestMaskTransformer(t *testing.T) {
	tests := []struct {
		name     string
		keep     []int
		maskChar rune
		value    any
		want     any
	}{
		{"keep first and last", []int{0, -1}, '*', "John", "J**n"},
		{"empty input", []int{0, -1}, '*', "", ""},
		{"nil input", []int{0, -1}, '*', nil, ""},
		{"no keep positions", nil, '*', "John", "****"},
		{"full mask 16 chars", []int{}, '*', "john@example.com", "****************"},
		{"out of range ignored", []int{0, 10}, '*', "abc", "a**"},
		{"negative out of range ignored", []int{-10}, '*', "abc", "***"},
		{"negative indexes from end", []int{-2}, '*', "abcd", "**c*"},
		{"custom mask char", []int{0}, '#', "abc", "a##"},
		{"non-string value", []int{}, '*', 1234, "****"},
		{"single char keep both ends", []int{0, -1}, '*', "x", "x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMaskTransformer(tt.keep, tt.maskChar)
			if got := m.Transform(tt.value); got != tt.want {
				t.Errorf("Transform(%v) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}

func TestMaskTransformer_Deterministic(t *testing.T) {
	m := NewMaskTransformer([]int{0, -1}, '*')
	first := m.Transform("Jonathan")
	for i := 0; i < 5; i++ {
		if got := m.Transform("Jonathan"); got != first {
			t.Fatalf("Transform not deterministic: %v != %v", got, first)
		}
	}
}
