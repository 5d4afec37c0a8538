package utils

// GetOrDefault returns fallback when value is the zero value of its type.
func GetOrDefault[T comparable](value T, fallback T) T {
	var zero T
	if value == zero {
		return fallback
	}
	return value
}
