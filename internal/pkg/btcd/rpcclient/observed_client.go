// Package rpcclient wraps the btcd JSON-RPC client with metrics and context-aware waits.
package rpcclient

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

import (
	"context"
	"time"

	"github.com/btcsuite/btcd/btcjson"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

type (
	// RPCMetrics records metrics for RPC calls.
	RPCMetrics interface {
		Observe(operation string, err error, started time.Time)
	}

	// BlockClient is the subset of *rpcclient.Client used for block lookups.
	BlockClient interface {
		GetBlockHash(blockHeight int64) (*chainhash.Hash, error)
		GetBlockHeaderVerbose(blockHash *chainhash.Hash) (*btcjson.GetBlockHeaderVerboseResult, error)
	}
)

// ObservedClient instruments block lookups and stops waiting when the context ends.
// The underlying HTTP POST keeps running until the client's own timeout fires.
type ObservedClient struct {
	client     BlockClient
	rpcMetrics RPCMetrics
}

// NewObservedClient constructs an instrumented client.
func NewObservedClient(client BlockClient, rpcMetrics RPCMetrics) *ObservedClient {
	return &ObservedClient{
		client:     client,
		rpcMetrics: rpcMetrics,
	}
}

// GetBlockHash returns the hash of the block at the given height.
func (r *ObservedClient) GetBlockHash(ctx context.Context, blockHeight int64) (hash *chainhash.Hash, err error) {
	started := time.Now()
	defer func() {
		r.rpcMetrics.Observe("get_block_hash", err, started)
	}()
	return await(ctx, func() (*chainhash.Hash, error) {
		return r.client.GetBlockHash(blockHeight)
	})
}

// GetBlockHeaderVerbose returns the decoded header of the given block.
func (r *ObservedClient) GetBlockHeaderVerbose(ctx context.Context, blockHash *chainhash.Hash) (res *btcjson.GetBlockHeaderVerboseResult, err error) {
	started := time.Now()
	defer func() {
		r.rpcMetrics.Observe("get_block_header_verbose", err, started)
	}()
	return await(ctx, func() (*btcjson.GetBlockHeaderVerboseResult, error) {
		return r.client.GetBlockHeaderVerbose(blockHash)
	})
}

type result[T any] struct {
	value T
	err   error
}

func await[T any](ctx context.Context, call func() (T, error)) (T, error) {
	if err := ctx.Err(); err != nil {
		var zero T
		return zero, err
	}

	done := make(chan result[T], 1)
	go func() {
		v, err := call()
		done <- result[T]{value: v, err: err}
	}()

	select {
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	case res := <-done:
		return res.value, res.err
	}
}
