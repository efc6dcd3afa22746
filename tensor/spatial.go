package tensor

import "fmt"

// Spatial kernels operate on NHWC tensors ([batch, height, width, channels]),
// stride 1, "same" padding. Float32 only: the operator stack that uses them
// (adaptive binarizers) is float32 throughout.

func checkNHWC(name string, x *RawTensor) (n, h, w, c int) {
	if x.DType() != Float32 {
		panic(fmt.Sprintf("%s: unsupported dtype %s (only float32 supported)", name, x.DType()))
	}
	shape := x.Shape()
	if len(shape) != 4 {
		panic(fmt.Sprintf("%s: expected 4D input [N,H,W,C], got %dD", name, len(shape)))
	}
	return shape[0], shape[1], shape[2], shape[3]
}

// AvgPool2D performs average pooling with a k×k window, stride 1 and same
// padding. Padding positions are excluded from the divisor, so edge windows
// average over the elements actually inside the input.
func AvgPool2D(x *RawTensor, k int) *RawTensor {
	n, h, w, c := checkNHWC("avgpool2d", x)
	if k <= 0 {
		panic(fmt.Sprintf("avgpool2d: invalid window %d", k))
	}
	pad := k / 2

	result, err := NewRaw(Shape{n, h, w, c}, Float32)
	if err != nil {
		panic(fmt.Sprintf("avgpool2d: %v", err))
	}

	src := x.AsFloat32()
	dst := result.AsFloat32()
	for b := 0; b < n; b++ {
		for y := 0; y < h; y++ {
			for xx := 0; xx < w; xx++ {
				for ch := 0; ch < c; ch++ {
					var sum float32
					count := 0
					for ky := 0; ky < k; ky++ {
						for kx := 0; kx < k; kx++ {
							iy, ix := y+ky-pad, xx+kx-pad
							if iy < 0 || iy >= h || ix < 0 || ix >= w {
								continue
							}
							sum += src[((b*h+iy)*w+ix)*c+ch]
							count++
						}
					}
					dst[((b*h+y)*w+xx)*c+ch] = sum / float32(count)
				}
			}
		}
	}
	return result
}

// AvgPool2DBackward routes an output gradient of AvgPool2D back to the input:
// each input position receives 1/count of the gradient of every window that
// covered it.
func AvgPool2DBackward(dy *RawTensor, k int) *RawTensor {
	n, h, w, c := checkNHWC("avgpool2d_backward", dy)
	pad := k / 2

	result, err := NewRaw(Shape{n, h, w, c}, Float32)
	if err != nil {
		panic(fmt.Sprintf("avgpool2d_backward: %v", err))
	}

	grad := dy.AsFloat32()
	dst := result.AsFloat32()
	for b := 0; b < n; b++ {
		for y := 0; y < h; y++ {
			for xx := 0; xx < w; xx++ {
				// Window divisor is determined by the output position.
				count := 0
				for ky := 0; ky < k; ky++ {
					for kx := 0; kx < k; kx++ {
						iy, ix := y+ky-pad, xx+kx-pad
						if iy >= 0 && iy < h && ix >= 0 && ix < w {
							count++
						}
					}
				}
				for ch := 0; ch < c; ch++ {
					g := grad[((b*h+y)*w+xx)*c+ch] / float32(count)
					for ky := 0; ky < k; ky++ {
						for kx := 0; kx < k; kx++ {
							iy, ix := y+ky-pad, xx+kx-pad
							if iy < 0 || iy >= h || ix < 0 || ix >= w {
								continue
							}
							dst[((b*h+iy)*w+ix)*c+ch] += g
						}
					}
				}
			}
		}
	}
	return result
}

// DepthwiseConv2D performs a depthwise convolution with stride 1 and same
// padding. The kernel has shape [kh, kw, C, M] (M = depth multiplier) and the
// output has C*M channels ordered multiplier-major: output channel m*C + c is
// input channel c filtered by multiplier slot m. That ordering lets callers
// reshape [N,H,W,M*C] to [N,H,W,M,C] to address the multiplier axis directly.
func DepthwiseConv2D(x, kernel *RawTensor) *RawTensor {
	n, h, w, c := checkNHWC("dwconv2d", x)
	kshape := kernel.Shape()
	if len(kshape) != 4 || kshape[2] != c {
		panic(fmt.Sprintf("dwconv2d: kernel shape %v incompatible with input channels %d", kshape, c))
	}
	kh, kw, m := kshape[0], kshape[1], kshape[3]
	padY, padX := kh/2, kw/2

	result, err := NewRaw(Shape{n, h, w, c * m}, Float32)
	if err != nil {
		panic(fmt.Sprintf("dwconv2d: %v", err))
	}

	src := x.AsFloat32()
	ker := kernel.AsFloat32()
	dst := result.AsFloat32()
	for b := 0; b < n; b++ {
		for y := 0; y < h; y++ {
			for xx := 0; xx < w; xx++ {
				for ch := 0; ch < c; ch++ {
					for mi := 0; mi < m; mi++ {
						var sum float32
						for ky := 0; ky < kh; ky++ {
							for kx := 0; kx < kw; kx++ {
								iy, ix := y+ky-padY, xx+kx-padX
								if iy < 0 || iy >= h || ix < 0 || ix >= w {
									continue
								}
								sum += src[((b*h+iy)*w+ix)*c+ch] * ker[((ky*kw+kx)*c+ch)*m+mi]
							}
						}
						dst[((b*h+y)*w+xx)*(c*m)+mi*c+ch] = sum
					}
				}
			}
		}
	}
	return result
}

// DepthwiseConv2DBackward computes gradients of DepthwiseConv2D with respect
// to the input and the kernel.
func DepthwiseConv2DBackward(x, kernel, dy *RawTensor) (dx, dkernel *RawTensor) {
	n, h, w, c := checkNHWC("dwconv2d_backward", x)
	kshape := kernel.Shape()
	kh, kw, m := kshape[0], kshape[1], kshape[3]
	padY, padX := kh/2, kw/2

	if !dy.Shape().Equal(Shape{n, h, w, c * m}) {
		panic(fmt.Sprintf("dwconv2d_backward: gradient shape %v does not match output shape %v",
			dy.Shape(), Shape{n, h, w, c * m}))
	}

	dx = Zeros(x.Shape(), Float32)
	dkernel = Zeros(kernel.Shape(), Float32)

	src := x.AsFloat32()
	ker := kernel.AsFloat32()
	grad := dy.AsFloat32()
	dxd := dx.AsFloat32()
	dkd := dkernel.AsFloat32()
	for b := 0; b < n; b++ {
		for y := 0; y < h; y++ {
			for xx := 0; xx < w; xx++ {
				for ch := 0; ch < c; ch++ {
					for mi := 0; mi < m; mi++ {
						g := grad[((b*h+y)*w+xx)*(c*m)+mi*c+ch]
						if g == 0 {
							continue
						}
						for ky := 0; ky < kh; ky++ {
							for kx := 0; kx < kw; kx++ {
								iy, ix := y+ky-padY, xx+kx-padX
								if iy < 0 || iy >= h || ix < 0 || ix >= w {
									continue
								}
								in := ((b*h+iy)*w+ix)*c + ch
								kidx := ((ky*kw+kx)*c+ch)*m + mi
								dxd[in] += g * ker[kidx]
								dkd[kidx] += g * src[in]
							}
						}
					}
				}
			}
		}
	}
	return dx, dkernel
}
