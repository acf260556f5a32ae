// Package reclass provides the main entry point for the reclass review system.
// It ties the master record store, the hierarchy option store and the response
// ledger to the reconciliation engine, and exposes the operations the
// presentation layers (CLI, TUI, HTTP) build on.
//
// A reviewer works inside a session. The session holds the records skipped so
// far and the alias being typed; it is never persisted, so skipped records
// return after a restart. Accepted reclassifications go to the ledger and stay
// completed for good.
//
// Example usage:
//
//	rc, err := reclass.New(
//	    reclass.WithMasterPath("master_space_data.csv"),
//	    reclass.WithHierarchyPath("options.csv"),
//	    reclass.WithLedgerPath("responses.csv"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer rc.Close()
//
//	sess := rc.NewSession()
//	res, err := rc.NextUnresolved(sess)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if !res.AllComplete() {
//	    opts := rc.CascadeOptions("A", "")
//	    fmt.Println(opts.Types, opts.Categories)
//	    _, err = rc.Submit(sess, res.Record.ID, reconcile.Selection{Name: "A", Type: "Office", Category: "Admin"}, "")
//	}
package reclass

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/agentstation/reclass/pkg/errors"
	"github.com/agentstation/reclass/pkg/hierarchy"
	"github.com/agentstation/reclass/pkg/ledger"
	"github.com/agentstation/reclass/pkg/logging"
	"github.com/agentstation/reclass/pkg/reconcile"
	"github.com/agentstation/reclass/pkg/records"
)

// Compile-time interface check to ensure proper implementation.
var _ Client = (*client)(nil)

// Client is the reclass facade used by every adapter.
type Client interface {

	// Reviewer runs review sessions
	Reviewer

	// Catalog gives read access to master records and the hierarchy
	Catalog

	// Ledger gives read access to accepted reclassifications
	Ledger

	// Hooks provides access to event callback registration
	Hooks

	// Close releases the ledger
	Close() error
}

// client is the internal implementation of the Client interface.
type client struct {
	options *options

	// mu serializes engine calls; HTTP handlers call in concurrently
	mu     sync.Mutex
	engine *reconcile.Engine
	ledger ledger.Ledger

	hooks  *hooks
	logger *zerolog.Logger
}

// New creates a Client, loading the master records and the hierarchy once.
// Failures to load a required source are *errors.LoadError.
func New(opts ...Option) (Client, error) {
	o, err := defaults().apply(opts...)
	if err != nil {
		return nil, err
	}
	logger := logging.OrNop(o.logger)

	rs := o.masterStore
	if rs == nil {
		if rs, err = records.Load(o.masterPath, logger); err != nil {
			return nil, err
		}
	}

	hs := o.hierarchyStore
	if hs == nil {
		if hs, err = hierarchy.Load(o.hierarchyPath, logger); err != nil {
			return nil, err
		}
	}

	l := o.ledger
	if l == nil {
		if l, err = ledger.Open(o.ledgerDriver, o.ledgerPath, logger); err != nil {
			return nil, err
		}
	}

	engine, err := reconcile.New(rs, hs, l, reconcile.WithLogger(logger))
	if err != nil {
		_ = l.Close()
		return nil, errors.NewConfigError("engine", err.Error(), err)
	}

	logger.Debug().
		Int("records", rs.Len()).
		Int("options", hs.Len()).
		Str("ledger_driver", o.ledgerDriver).
		Msg("Reclass client ready")

	return &client{
		options: o,
		engine:  engine,
		ledger:  l,
		hooks:   newHooks(),
		logger:  logger,
	}, nil
}

// Close releases the ledger.
func (c *client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ledger.Close()
}
