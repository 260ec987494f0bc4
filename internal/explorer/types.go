// Package explorer looks up Bitcoin block hashes and header times.
package explorer

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/btcsuite/btcd/btcjson"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

// ErrUnexpectedStatus is returned when an explorer answers with a non-200 status.
var ErrUnexpectedStatus = errors.New("unexpected explorer status")

type (
	// Metrics records explorer lookups.
	Metrics interface {
		Observe(operation string, err error, started time.Time)
	}

	// HTTPDoer is satisfied by *http.Client.
	HTTPDoer interface {
		Do(req *http.Request) (*http.Response, error)
	}

	// NodeClient is the context-aware node RPC surface used by NodeRPC.
	NodeClient interface {
		GetBlockHash(ctx context.Context, blockHeight int64) (*chainhash.Hash, error)
		GetBlockHeaderVerbose(ctx context.Context, blockHash *chainhash.Hash) (*btcjson.GetBlockHeaderVerboseResult, error)
	}
)
