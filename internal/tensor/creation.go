package tensor

import (
	"math"
	"math/rand"
)

// Zeros creates a tensor filled with zeros.
//
// Example:
//
//	t := tensor.Zeros[float32](Shape{2, 3}, backend)
func Zeros[T DType, B Backend](shape Shape, b B) *Tensor[T, B] {
	var dummy T
	dtype := inferDataType(dummy)

	raw, err := NewRaw(shape, dtype)
	if err != nil {
		panic(err) // Shape validation should prevent this
	}

	// Data is already zero-initialized by make()
	return New[T, B](raw, b)
}

// Ones creates a tensor filled with ones.
func Ones[T DType, B Backend](shape Shape, b B) *Tensor[T, B] {
	var dummy T
	switch any(dummy).(type) {
	case float32:
		return Full[T, B](shape, any(float32(1)).(T), b)
	case int32:
		return Full[T, B](shape, any(int32(1)).(T), b)
	case bool:
		return Full[T, B](shape, any(true).(T), b)
	default:
		panic("unsupported type")
	}
}

// Full creates a tensor filled with a specific value.
func Full[T DType, B Backend](shape Shape, value T, b B) *Tensor[T, B] {
	t := Zeros[T, B](shape, b)
	data := t.Data()
	for i := range data {
		data[i] = value
	}
	return t
}

// Randn creates a float32 tensor with values drawn from N(0, 1) using the
// Box-Muller transform.
func Randn[B Backend](shape Shape, b B) *Tensor[float32, B] {
	t := Zeros[float32, B](shape, b)
	data := t.Data()

	for i := 0; i < len(data); i += 2 {
		// 1-Float64() keeps u1 in (0, 1] so the log stays finite.
		u1 := 1 - rand.Float64() //nolint:gosec // math/rand for data generation (not security-critical)
		u2 := rand.Float64()     //nolint:gosec // math/rand for data generation (not security-critical)
		z0 := math.Sqrt(-2.0*math.Log(u1)) * math.Cos(2.0*math.Pi*u2)
		z1 := math.Sqrt(-2.0*math.Log(u1)) * math.Sin(2.0*math.Pi*u2)
		data[i] = float32(z0)
		if i+1 < len(data) {
			data[i+1] = float32(z1)
		}
	}

	return t
}
