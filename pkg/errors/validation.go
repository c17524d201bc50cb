package errors

import (
	"math"
	"strings"
	"unicode"
)

// ValidateDimensions checks that a raster has a positive width and height.
func ValidateDimensions(width, height int) error {
	if width <= 0 || height <= 0 {
		return New(ErrCodeInvalidInput, "dimensions must be positive, got %dx%d", width, height)
	}
	return nil
}

// ValidatePixels checks that a raster has a positive size of at most
// maxPixels pixels. The product is never formed, so huge sides cannot
// overflow.
func ValidatePixels(width, height, maxPixels int) error {
	if err := ValidateDimensions(width, height); err != nil {
		return err
	}
	if width > maxPixels/height {
		return New(ErrCodeInvalidInput, "%dx%d exceeds the limit of %d pixels", width, height, maxPixels)
	}
	return nil
}

// ValidateCount checks that a named count is at least one.
func ValidateCount(name string, v int) error {
	if v < 1 {
		return New(ErrCodeInvalidInput, "%s must be >= 1, got %d", name, v)
	}
	return nil
}

// ValidateUnitValues checks that values has exactly n entries, each a finite
// number in [0, 1]. The index of the first offending value is reported.
func ValidateUnitValues(values []float64, n int) error {
	if len(values) != n {
		return New(ErrCodeInvalidInput, "expected %d values, got %d", n, len(values))
	}
	for i, v := range values {
		if math.IsNaN(v) || v < 0 || v > 1 {
			return New(ErrCodeInvalidInput, "value %d out of range [0, 1]: %v", i, v)
		}
	}
	return nil
}

// ValidatePath validates a local file path supplied by a user.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 4096 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidInput, "path cannot be empty")
	}

	const maxPathLength = 4096
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidInput, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "path contains invalid characters")
		}
	}
	return nil
}

// ValidateAddr validates a host:port network address, as used for the
// redis cache and the HTTP server.
func ValidateAddr(addr string) error {
	if addr == "" {
		return New(ErrCodeInvalidConfig, "address cannot be empty")
	}
	i := strings.LastIndex(addr, ":")
	if i < 0 || i == len(addr)-1 {
		return New(ErrCodeInvalidConfig, "address %q must be host:port", addr)
	}
	for _, r := range addr[i+1:] {
		if r < '0' || r > '9' {
			return New(ErrCodeInvalidConfig, "address %q has a non-numeric port", addr)
		}
	}
	return nil
}
