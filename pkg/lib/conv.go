package lib

// Map: maps a slice of one type to a slice of another
func Map[V any, W any](values []V, f func(V) W) []W {
	mapped := make([]W, len(values))

	for index, value := range values {
		mapped[index] = f(value)
	}

	return mapped
}

// Filter: returns the elements of the slice the predicate holds for,
// preserving relative order
func Filter[V any](values []V, f func(V) bool) []V {
	filtered := make([]V, 0)

	for _, value := range values {
		if f(value) {
			filtered = append(filtered, value)
		}
	}

	return filtered
}

// MapValues converts a map to a slice of its values
func MapValues[K comparable, V any](m map[K]V) []V {
	values := make([]V, len(m))

	i := 0
	for _, v := range m {
		values[i] = v
		i++
	}

	return values
}

func MapKeys[K comparable, V any](m map[K]V) []K {
	keys := make([]K, len(m))

	i := 0
	for k := range m {
		keys[i] = k
		i++
	}

	return keys
}
