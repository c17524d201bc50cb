package errors

import (
	"math"
	"testing"
)

func TestValidateDimensions(t *testing.T) {
	tests := []struct {
		name    string
		w, h    int
		wantErr bool
	}{
		{"valid", 4, 4, false},
		{"single pixel", 1, 1, false},
		{"zero width", 0, 4, true},
		{"zero height", 4, 0, true},
		{"negative", -1, 4, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDimensions(tt.w, tt.h)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateDimensions(%d, %d) error = %v, wantErr %v", tt.w, tt.h, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidInput) {
				t.Errorf("error code = %v, want %v", GetCode(err), ErrCodeInvalidInput)
			}
		})
	}
}

func TestValidatePixels(t *testing.T) {
	tests := []struct {
		name    string
		w, h    int
		wantErr bool
	}{
		{"under limit", 10, 10, false},
		{"at limit", 20, 5, false},
		{"over limit", 11, 10, true},
		{"wide strip", 101, 1, true},
		{"zero", 0, 10, true},
		{"huge sides", 3_000_000_000, 3_000_000_000, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePixels(tt.w, tt.h, 100)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePixels(%d, %d) error = %v, wantErr %v", tt.w, tt.h, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidInput) {
				t.Errorf("error code = %v, want %v", GetCode(err), ErrCodeInvalidInput)
			}
		})
	}
}

func TestValidateCount(t *testing.T) {
	if err := ValidateCount("points", 1); err != nil {
		t.Errorf("ValidateCount(1) error = %v", err)
	}
	if err := ValidateCount("points", 0); err == nil {
		t.Error("ValidateCount(0) should fail")
	}
	if err := ValidateCount("iterations", -3); err == nil {
		t.Error("ValidateCount(-3) should fail")
	}
}

func TestValidateUnitValues(t *testing.T) {
	tests := []struct {
		name    string
		values  []float64
		n       int
		wantErr bool
	}{
		{"valid", []float64{0, 0.5, 1}, 3, false},
		{"empty", nil, 0, false},
		{"length mismatch", []float64{0, 1}, 3, true},
		{"negative", []float64{0, -0.1}, 2, true},
		{"above one", []float64{1.01}, 1, true},
		{"NaN", []float64{math.NaN()}, 1, true},
		{"infinite", []float64{math.Inf(1)}, 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateUnitValues(tt.values, tt.n)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateUnitValues(%v, %d) error = %v, wantErr %v", tt.values, tt.n, err, tt.wantErr)
			}
		})
	}
}

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"relative", "photo.png", false},
		{"absolute", "/tmp/photo.jpg", false},
		{"nested", "images/2024/photo.webp", false},

		{"empty", "", true},
		{"too long", string(make([]byte, 5000)), true},
		{"null byte", "foo\x00.png", true},
		{"newline", "foo\n.png", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePath(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateAddr(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"localhost:6379", false},
		{":8080", false},
		{"[::1]:6379", false},
		{"", true},
		{"localhost", true},
		{"localhost:", true},
		{"localhost:http", true},
	}

	for _, tt := range tests {
		err := ValidateAddr(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateAddr(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
		}
	}
}
