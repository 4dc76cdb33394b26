package gpu

import (
	"context"
	"fmt"
)

// Limbs is the number of 8-bit limbs a uint16 value is split into for the
// int8 GEMM path: low byte and high byte.
const Limbs = 2

// limbBias centers each unsigned byte into the signed int8 range so the
// GEMM itself can run in pure int8 arithmetic; the bias is corrected back
// out analytically after multiplying, mirroring preprocess_query/
// matmul_correct_and_reduce.
const limbBias = 128

// CPUBackend is a pure-Go reference implementation of Backend: a plain
// triple-loop integer matrix multiply, standing in for the CUDA kernel.
type CPUBackend struct{}

// MatMulI8 computes the m-by-n matrix of int32 dot products between the
// rows of a (m-by-k) and the rows of b (n-by-k).
func (CPUBackend) MatMulI8(ctx context.Context, a, b []int8, m, n, k int) ([]int32, error) {
	if len(a) != m*k {
		return nil, fmt.Errorf("gpu: MatMulI8: a has %d elements, want %d", len(a), m*k)
	}
	if len(b) != n*k {
		return nil, fmt.Errorf("gpu: MatMulI8: b has %d elements, want %d", len(b), n*k)
	}
	out := make([]int32, m*n)
	for i := 0; i < m; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		arow := a[i*k : i*k+k]
		for j := 0; j < n; j++ {
			brow := b[j*k : j*k+k]
			var sum int32
			for l := 0; l < k; l++ {
				sum += int32(arow[l]) * int32(brow[l])
			}
			out[i*n+j] = sum
		}
	}
	return out, nil
}

// PreprocessU16 splits a batch of uint16 values into Limbs signed int8
// planes, each centered by limbBias, exactly as preprocess_query does:
// result[p][idx] holds byte p of values[idx], recentered into [-128, 127].
func PreprocessU16(values []uint16) [][]int8 {
	planes := make([][]int8, Limbs)
	for p := range planes {
		planes[p] = make([]int8, len(values))
	}
	for idx, v := range values {
		for p := 0; p < Limbs; p++ {
			byteVal := uint8(uint32(v) >> uint(p*8))
			planes[p][idx] = int8(int32(byteVal) - limbBias)
		}
	}
	return planes
}

// DotU16Batch computes the exact (int64) dot products between m query rows
// and n database rows, each of width k uint16 values, by running the four
// cross-limb int8 GEMMs (lo·lo, lo·hi, hi·lo, hi·hi) and recombining them
// with the corresponding byte weights (1, 256, 256, 65536), correcting for
// the limbBias recentering the same way matmul_correct_and_reduce does.
func DotU16Batch(ctx context.Context, backend Backend, queryRows, dbRows [][]uint16) ([][]int64, error) {
	m := len(queryRows)
	n := len(dbRows)
	if m == 0 || n == 0 {
		return nil, nil
	}
	k := len(queryRows[0])
	for _, r := range queryRows {
		if len(r) != k {
			return nil, fmt.Errorf("gpu: DotU16Batch: ragged query rows")
		}
	}
	for _, r := range dbRows {
		if len(r) != k {
			return nil, fmt.Errorf("gpu: DotU16Batch: ragged db rows")
		}
	}

	flatQuery := make([]uint16, 0, m*k)
	for _, r := range queryRows {
		flatQuery = append(flatQuery, r...)
	}
	flatDB := make([]uint16, 0, n*k)
	for _, r := range dbRows {
		flatDB = append(flatDB, r...)
	}
	qPlanes := PreprocessU16(flatQuery)
	dPlanes := PreprocessU16(flatDB)

	// Row sums of the centered limbs, needed to correct the bias back out.
	querySums := make([][Limbs]int32, m)
	for p := 0; p < Limbs; p++ {
		for i := 0; i < m; i++ {
			var sum int32
			for l := 0; l < k; l++ {
				sum += int32(qPlanes[p][i*k+l])
			}
			querySums[i][p] = sum
		}
	}
	dbSums := make([][Limbs]int32, n)
	for p := 0; p < Limbs; p++ {
		for j := 0; j < n; j++ {
			var sum int32
			for l := 0; l < k; l++ {
				sum += int32(dPlanes[p][j*k+l])
			}
			dbSums[j][p] = sum
		}
	}

	cross := make(map[[2]int][]int32, Limbs*Limbs)
	for pq := 0; pq < Limbs; pq++ {
		for pd := 0; pd < Limbs; pd++ {
			res, err := backend.MatMulI8(ctx, qPlanes[pq], dPlanes[pd], m, n, k)
			if err != nil {
				return nil, fmt.Errorf("gpu: limb (%d,%d) gemm: %w", pq, pd, err)
			}
			cross[[2]int{pq, pd}] = res
		}
	}

	out := make([][]int64, m)
	for i := range out {
		out[i] = make([]int64, n)
	}
	for i := 0; i < m; i++ {
		for j := 0; j < n; j++ {
			var total int64
			for pq := 0; pq < Limbs; pq++ {
				for pd := 0; pd < Limbs; pd++ {
					// raw is the centered-limb product sum x'·y'; recover the
					// true byte-product sum x·y = x'·y' + bias*sum(y') +
					// bias*sum(x') + bias^2*k, the same correction
					// matmul_correct_and_reduce applies post-GEMM.
					raw := int64(cross[[2]int{pq, pd}][i*n+j])
					biasCorrected := raw +
						int64(limbBias)*int64(dbSums[j][pd]) +
						int64(limbBias)*int64(querySums[i][pq]) +
						int64(limbBias)*int64(limbBias)*int64(k)
					weight := int64(1) << uint((pq+pd)*8)
					total += weight * biasCorrected
				}
			}
			out[i][j] = total
		}
	}
	return out, nil
}
