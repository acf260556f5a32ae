package ledger

import (
	"io"
	"sync"

	"github.com/agentstation/reclass/pkg/constants"
	"github.com/agentstation/reclass/pkg/tabular"
)

// Memory is a ledger that lives only as long as the process.
type Memory struct {
	mu   sync.RWMutex
	rows []Response
}

// NewMemory returns a ledger seeded with rows.
func NewMemory(rows ...Response) *Memory {
	return &Memory{rows: append([]Response(nil), rows...)}
}

// Rows returns a copy of the stored rows.
func (m *Memory) Rows() ([]Response, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Response, len(m.rows))
	copy(out, m.rows)
	return out, nil
}

// CompletedIDs returns the distinct IDs of the stored rows.
func (m *Memory) CompletedIDs() (IDSet, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return completedIDs(m.rows), nil
}

// Append stores r.
func (m *Memory) Append(r Response) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows = append(m.rows, r)
	return nil
}

// Export renders the rows as CSV.
func (m *Memory) Export(w io.Writer) error {
	rows, _ := m.Rows()
	cells := make([][]string, 0, len(rows))
	for _, r := range rows {
		cells = append(cells, r.Values())
	}
	return tabular.Encode(w, tabular.FormatCSV, constants.LedgerColumns, cells)
}

// Close is a no-op.
func (m *Memory) Close() error {
	return nil
}
