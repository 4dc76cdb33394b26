package gpu

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Shard is one device's slice of the gallery database: the rows it owns
// and their offset into the full database index space.
type Shard struct {
	DeviceID int
	Offset   int
	Rows     [][]uint16
}

// DeviceManager enumerates backend devices and shards a database across
// them, running each shard's GEMM concurrently, mirroring the role
// device_manager.rs plays for the CUDA backend: device count, per-device
// streams, and result collection, reduced here to however many Backend
// instances the caller configures.
type DeviceManager struct {
	backends []Backend
	results  [][][]int64
}

// NewDeviceManager builds a manager over a fixed set of backends, one per
// logical device.
func NewDeviceManager(backends []Backend) *DeviceManager {
	return &DeviceManager{backends: backends, results: make([][][]int64, len(backends))}
}

// NumDevices reports how many backends are configured.
func (d *DeviceManager) NumDevices() int { return len(d.backends) }

// ShardRows splits rows evenly (by count) across the configured devices, in
// contiguous blocks, so result offsets stay stable and predictable.
func (d *DeviceManager) ShardRows(rows [][]uint16) []Shard {
	n := len(d.backends)
	if n == 0 {
		return nil
	}
	shards := make([]Shard, 0, n)
	base := len(rows) / n
	rem := len(rows) % n
	offset := 0
	for dev := 0; dev < n; dev++ {
		size := base
		if dev < rem {
			size++
		}
		shards = append(shards, Shard{DeviceID: dev, Offset: offset, Rows: rows[offset : offset+size]})
		offset += size
	}
	return shards
}

// RunMatMul dispatches query against every shard concurrently, one goroutine
// per device, and stores each device's result matrix for later retrieval via
// FetchResults. The first error from any device cancels the others.
func (d *DeviceManager) RunMatMul(ctx context.Context, query [][]uint16, shards []Shard) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, shard := range shards {
		shard := shard
		g.Go(func() error {
			if shard.DeviceID < 0 || shard.DeviceID >= len(d.backends) {
				return fmt.Errorf("gpu: shard references unknown device %d", shard.DeviceID)
			}
			if len(shard.Rows) == 0 {
				d.results[shard.DeviceID] = nil
				return nil
			}
			res, err := DotU16Batch(ctx, d.backends[shard.DeviceID], query, shard.Rows)
			if err != nil {
				return fmt.Errorf("gpu: device %d gemm: %w", shard.DeviceID, err)
			}
			d.results[shard.DeviceID] = res
			return nil
		})
	}
	return g.Wait()
}

// FetchResults returns the last computed result matrix for the given
// device, or nil if that device hasn't run or owned no rows.
func (d *DeviceManager) FetchResults(deviceID int) ([][]int64, error) {
	if deviceID < 0 || deviceID >= len(d.results) {
		return nil, fmt.Errorf("gpu: unknown device %d", deviceID)
	}
	return d.results[deviceID], nil
}
