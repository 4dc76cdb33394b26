// Package gpu provides the packed-integer matrix-multiply backend the
// galois-ring distance engine uses to batch dot products: iris codes are
// split into signed int8 limbs so bulk comparison can run as integer GEMMs,
// the way the original CUDA/cuBLAS path does it, with a CPU reference
// backend standing in for the CUDA kernel.
package gpu

import "context"

// Backend computes signed-int8 matrix products: A is m-by-k, B is n-by-k
// (both row-major), and the result is the m-by-n matrix of int32 dot
// products A[i]·B[j]. Backend is the seam the CUDA/cuBLAS kernel (gemm_ex
// with CUBLAS_COMPUTE_32I_PEDANTIC) would sit behind in a GPU build;
// CPUBackend is the reference implementation used everywhere else.
type Backend interface {
	MatMulI8(ctx context.Context, a, b []int8, m, n, k int) ([]int32, error)
}
