package mathutil

import (
	"math"
	"testing"
)

func TestClamp(t *testing.T) {
	tests := []struct {
		name     string
		value    float64
		lo, hi   float64
		expected float64
	}{
		{"Inside", 5, 0, 10, 5},
		{"Below", -3, 0, 10, 0},
		{"Above", 12, 0, 10, 10},
		{"At lower bound", 0, 0, 10, 0},
		{"At upper bound", 10, 0, 10, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Clamp(tt.value, tt.lo, tt.hi)
			if result != tt.expected {
				t.Errorf("Clamp(%v, %v, %v) = %v, expected %v", tt.value, tt.lo, tt.hi, result, tt.expected)
			}
		})
	}
}

func TestClampPercent(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		expected float64
	}{
		{"Negative", -5, 0},
		{"Zero", 0, 0},
		{"Middle", 42.5, 42.5},
		{"Hundred", 100, 100},
		{"Over hundred", 150, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ClampPercent(tt.input)
			if result != tt.expected {
				t.Errorf("ClampPercent(%v) = %v, expected %v", tt.input, result, tt.expected)
			}
		})
	}
}

func TestInRange(t *testing.T) {
	tests := []struct {
		name      string
		value     float64
		lo, hi    float64
		tolerance float64
		expected  bool
	}{
		{"Inside", 12.5, 10, 15, 1e-9, true},
		{"On lower edge", 10, 10, 15, 0, true},
		{"On upper edge", 15, 10, 15, 0, true},
		{"Rounding noise above upper edge", 15.0000000000001, 10, 15, 1e-9, true},
		{"Below", 9.9, 10, 15, 1e-9, false},
		{"Above", 15.1, 10, 15, 1e-9, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := InRange(tt.value, tt.lo, tt.hi, tt.tolerance)
			if result != tt.expected {
				t.Errorf("InRange(%v, %v, %v, %v) = %v, expected %v", tt.value, tt.lo, tt.hi, tt.tolerance, result, tt.expected)
			}
		})
	}
}

func TestCalculatePercentage(t *testing.T) {
	tests := []struct {
		name     string
		value    float64
		total    float64
		expected float64
	}{
		{"Half", 10, 20, 50},
		{"One of eight", 2, 16, 12.5},
		{"All", 20, 20, 100},
		{"Zero total", 5, 0, 0},
		{"Zero value", 0, 20, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CalculatePercentage(tt.value, tt.total)
			if math.Abs(result-tt.expected) > 1e-9 {
				t.Errorf("CalculatePercentage(%v, %v) = %v, expected %v", tt.value, tt.total, result, tt.expected)
			}
		})
	}
}

func TestRound1(t *testing.T) {
	tests := []struct {
		input    float64
		expected float64
	}{
		{12.5, 12.5},
		{33.333333, 33.3},
		{66.666666, 66.7},
		{0, 0},
	}

	for _, tt := range tests {
		result := Round1(tt.input)
		if math.Abs(result-tt.expected) > 1e-9 {
			t.Errorf("Round1(%v) = %v, expected %v", tt.input, result, tt.expected)
		}
	}
}
