package reclass

import (
	"io"
	"path/filepath"

	"github.com/agentstation/reclass/pkg/constants"
	"github.com/agentstation/reclass/pkg/ledger"
)

// Ledger gives read access to the accepted reclassifications.
type Ledger interface {
	// LedgerRows returns every ledger row in insertion order.
	LedgerRows() ([]ledger.Response, error)

	// ExportLedger writes the ledger for download. A file ledger is copied
	// byte for byte; other backends are rendered as CSV.
	ExportLedger(w io.Writer) error

	// ExportName is the file name suggested for an export download.
	ExportName() string
}

// LedgerRows returns every ledger row in insertion order.
func (c *client) LedgerRows() ([]ledger.Response, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ledger.Rows()
}

// ExportLedger writes the ledger to w.
func (c *client) ExportLedger(w io.Writer) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ledger.Export(w)
}

// ExportName is the file name suggested for an export download.
func (c *client) ExportName() string {
	if c.options.ledger == nil && c.options.ledgerDriver == constants.LedgerDriverFile {
		return filepath.Base(c.options.ledgerPath)
	}
	return filepath.Base(constants.DefaultLedgerPath)
}
