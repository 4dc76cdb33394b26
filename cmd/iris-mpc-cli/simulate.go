package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/irismpc/core/pkg/galoisring"
	"github.com/irismpc/core/pkg/matchflow"
	"github.com/irismpc/core/pkg/ringmath"
	"github.com/irismpc/core/pkg/ringshare"
	"github.com/irismpc/core/pkg/session"
	"github.com/irismpc/core/pkg/transport"
	"github.com/irismpc/core/pkg/xparty"
)

var (
	simDBSize     int
	simCodeLength int
	simForceMatch bool
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run a full 3-party uniqueness match locally over an in-memory transport",
	Long: `Builds three in-process parties wired together by an in-memory
transport, shares a query iris and a small synthetic database across them,
and runs the match flow to completion, printing whichever database index
(if any) it finds.`,
	RunE: runSimulate,
}

func init() {
	simulateCmd.Flags().IntVar(&simDBSize, "db-size", 8, "number of synthetic database entries per shard")
	simulateCmd.Flags().IntVar(&simCodeLength, "code-length", 64, "number of iris code/mask words")
	simulateCmd.Flags().BoolVar(&simForceMatch, "force-match", true, "seed one database entry identical to the query")
}

func runSimulate(cmd *cobra.Command, args []string) error {
	routing, err := xparty.NewRoutingTable(
		xparty.Identity{Role: xparty.Role0, ID: 0, Address: "inproc-0"},
		xparty.Identity{Role: xparty.Role1, ID: 1, Address: "inproc-1"},
		xparty.Identity{Role: xparty.Role2, ID: 2, Address: "inproc-2"},
	)
	if err != nil {
		return fmt.Errorf("simulate: building routing table: %w", err)
	}

	tr := transport.NewInMemory()
	sessID := session.DeriveID("cli-simulate", routing, []byte("demo"))

	queryCode := make([]uint16, simCodeLength)
	queryMask := make([]uint16, simCodeLength)
	for i := range queryCode {
		queryCode[i] = uint16(i % 2)
		queryMask[i] = 1
	}

	ctx := context.Background()
	results := make(chan simulateOutcome, 3)
	for _, r := range routing.All() {
		r := r
		go func() {
			sess := session.New(r.Role, routing, tr, sessID)
			if err := sess.SetupReplicatedPRF(ctx); err != nil {
				results <- simulateOutcome{err: fmt.Errorf("party %s: PRF setup: %w", r.Role, err)}
				return
			}
			query := galoisring.GaloisRingSharedIris{
				Code: additiveShareAt(r.Role, queryCode),
				Mask: additiveShareAt(r.Role, queryMask),
			}
			entries := make([]galoisring.GaloisRingSharedIris, simDBSize)
			for i := range entries {
				code := make([]uint16, simCodeLength)
				mask := make([]uint16, simCodeLength)
				for j := range code {
					mask[j] = 1
					if simForceMatch && i == simDBSize/2 {
						code[j] = queryCode[j]
					} else {
						code[j] = uint16((j + i + 1) % 2)
					}
				}
				entries[i] = galoisring.GaloisRingSharedIris{
					Code: additiveShareAt(r.Role, code),
					Mask: additiveShareAt(r.Role, mask),
				}
			}
			shards := []matchflow.Shard{{Index: 0, GlobalOffset: 0, Entries: entries}}
			res, err := matchflow.Run(ctx, sess, query, shards)
			results <- simulateOutcome{res: res, err: err}
		}()
	}

	var last simulateOutcome
	for range routing.All() {
		last = <-results
		if last.err != nil {
			return fmt.Errorf("simulate: %w", last.err)
		}
	}

	if last.res.DBIndex == nil {
		fmt.Println("no match found")
		return nil
	}
	fmt.Printf("match found at database index %d\n", *last.res.DBIndex)
	return nil
}

type simulateOutcome struct {
	res matchflow.MatchResult
	err error
}

func additiveShareAt(own xparty.Role, values []uint16) ringshare.VecShare[ringmath.Ring16] {
	items := make([]ringshare.Share[ringmath.Ring16], len(values))
	for i, v := range values {
		switch own {
		case xparty.Role0:
			items[i] = ringshare.Share[ringmath.Ring16]{A: ringmath.Ring16(v)}
		case xparty.Role1:
			items[i] = ringshare.Share[ringmath.Ring16]{B: ringmath.Ring16(v)}
		default:
		}
	}
	return ringshare.VecShare[ringmath.Ring16]{Items: items}
}
