package explorer

import (
	"context"
	"fmt"
	"time"

	"github.com/btcsuite/btcd/chaincfg/chainhash"

	"github.com/goodnatureofminers/otsproof-backend/pkg/safe"
)

// NodeRPC resolves blocks through a bitcoind-compatible JSON-RPC node.
type NodeRPC struct {
	client  NodeClient
	timeout time.Duration
}

// NewNodeRPC constructs a NodeRPC explorer. timeout bounds each call; zero means 10s.
func NewNodeRPC(client NodeClient, timeout time.Duration) *NodeRPC {
	if timeout <= 0 {
		timeout = defaultEsploraTimeout
	}
	return &NodeRPC{client: client, timeout: timeout}
}

// BlockHash returns the hash of the main-chain block at height.
func (n *NodeRPC) BlockHash(ctx context.Context, height uint64) (string, error) {
	h, err := safe.Int64(height)
	if err != nil {
		return "", fmt.Errorf("block height: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, n.timeout)
	defer cancel()

	hash, err := n.client.GetBlockHash(ctx, h)
	if err != nil {
		return "", fmt.Errorf("get block hash %d: %w", height, err)
	}
	return hash.String(), nil
}

// BlockTime returns the header timestamp (unix seconds) of the block.
func (n *NodeRPC) BlockTime(ctx context.Context, hash string) (int64, error) {
	parsed, err := chainhash.NewHashFromStr(hash)
	if err != nil {
		return 0, fmt.Errorf("parse block hash %q: %w", hash, err)
	}

	ctx, cancel := context.WithTimeout(ctx, n.timeout)
	defer cancel()

	header, err := n.client.GetBlockHeaderVerbose(ctx, parsed)
	if err != nil {
		return 0, fmt.Errorf("get block header %s: %w", hash, err)
	}
	if header.Time <= 0 {
		return 0, fmt.Errorf("block %s has no timestamp", hash)
	}
	return header.Time, nil
}
