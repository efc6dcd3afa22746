package autodiff

import "github.com/born-ml/quant/tensor"

// StopGradient returns a detached copy of x: a fresh graph node with no
// producer, so no gradient flows through it to x. Off-tape computation through
// the tensor package is detached already; StopGradient makes the intent
// explicit when the value to detach came from recorded operations.
func StopGradient(x *tensor.RawTensor) *tensor.RawTensor {
	return x.Clone()
}
