package gpu

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMatMulI8(t *testing.T) {
	backend := CPUBackend{}
	a := []int8{1, 2, -3, 4} // 2x2
	b := []int8{5, -6, 7, 8} // 2x2
	out, err := backend.MatMulI8(context.Background(), a, b, 2, 2, 2)
	require.NoError(t, err)
	require.Equal(t, []int32{
		1*5 + 2*-6, 1*7 + 2*8,
		-3*5 + 4*-6, -3*7 + 4*8,
	}, out)
}

func TestDotU16BatchMatchesPlainSum(t *testing.T) {
	query := [][]uint16{{1, 2, 3, 65535}}
	db := [][]uint16{{4, 5, 6, 1}, {0, 0, 0, 0}}

	got, err := DotU16Batch(context.Background(), CPUBackend{}, query, db)
	require.NoError(t, err)

	for j, row := range db {
		var want int64
		for l := range row {
			want += int64(query[0][l]) * int64(row[l])
		}
		require.Equal(t, want, got[0][j], "row %d", j)
	}
}

func TestDeviceManagerShardsAndCollects(t *testing.T) {
	backends := []Backend{CPUBackend{}, CPUBackend{}}
	dm := NewDeviceManager(backends)

	db := [][]uint16{{1, 1}, {2, 2}, {3, 3}, {4, 4}, {5, 5}}
	shards := dm.ShardRows(db)
	require.Len(t, shards, 2)

	query := [][]uint16{{1, 1}}
	require.NoError(t, dm.RunMatMul(context.Background(), query, shards))

	for _, shard := range shards {
		res, err := dm.FetchResults(shard.DeviceID)
		require.NoError(t, err)
		require.Len(t, res, 1)
		require.Len(t, res[0], len(shard.Rows))
	}
}
