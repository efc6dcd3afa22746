// Package tensor provides the CPU tensor substrate for the quant library.
//
// The package is deliberately small: quantization operators are elementwise
// transformations plus a couple of spatial kernels, so the substrate only
// carries what those operators need:
//   - RawTensor: dtype-erased buffer with typed views
//   - Shape: dimensions with NumPy-style broadcasting rules
//   - creation helpers and CPU kernels (elementwise, reductions, pooling,
//     depthwise convolution)
package tensor

// DataType represents runtime type information for tensors.
type DataType int

// Supported data types.
const (
	Float32 DataType = iota
	Float64
)

// Size returns the byte size of the data type.
func (dt DataType) Size() int {
	switch dt {
	case Float32:
		return 4
	case Float64:
		return 8
	default:
		panic("unknown data type")
	}
}

// String returns a human-readable name for the data type.
func (dt DataType) String() string {
	switch dt {
	case Float32:
		return "float32"
	case Float64:
		return "float64"
	default:
		return "unknown"
	}
}
