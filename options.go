package reclass

import (
	"github.com/rs/zerolog"

	"github.com/agentstation/reclass/pkg/constants"
	"github.com/agentstation/reclass/pkg/errors"
	"github.com/agentstation/reclass/pkg/hierarchy"
	"github.com/agentstation/reclass/pkg/ledger"
	"github.com/agentstation/reclass/pkg/records"
)

// Option is a function that configures a Client
type Option func(*options) error

type options struct {
	masterPath    string
	hierarchyPath string
	ledgerPath    string
	ledgerDriver  string

	masterStore    *records.Store
	hierarchyStore *hierarchy.Store
	ledger         ledger.Ledger

	logger *zerolog.Logger
}

func defaults() *options {
	return &options{
		masterPath:    constants.DefaultMasterPath,
		hierarchyPath: constants.DefaultHierarchyPath,
		ledgerPath:    constants.DefaultLedgerPath,
		ledgerDriver:  constants.LedgerDriverFile,
	}
}

func (o *options) apply(opts ...Option) (*options, error) {
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	return o, nil
}

// WithMasterPath sets the master records file
func WithMasterPath(path string) Option {
	return func(o *options) error {
		if path == "" {
			return errors.NewConfigError("master", "path cannot be empty", nil)
		}
		o.masterPath = path
		return nil
	}
}

// WithHierarchyPath sets the hierarchy options file
func WithHierarchyPath(path string) Option {
	return func(o *options) error {
		if path == "" {
			return errors.NewConfigError("hierarchy", "path cannot be empty", nil)
		}
		o.hierarchyPath = path
		return nil
	}
}

// WithLedgerPath sets where the response ledger is stored
func WithLedgerPath(path string) Option {
	return func(o *options) error {
		if path == "" {
			return errors.NewConfigError("ledger", "path cannot be empty", nil)
		}
		o.ledgerPath = path
		return nil
	}
}

// WithLedgerDriver selects the ledger backend: "file" or "sqlite"
func WithLedgerDriver(driver string) Option {
	return func(o *options) error {
		switch driver {
		case constants.LedgerDriverFile, constants.LedgerDriverSQLite:
			o.ledgerDriver = driver
			return nil
		default:
			return errors.NewConfigError("ledger", "unknown driver "+driver, nil)
		}
	}
}

// WithLedger uses an already opened ledger. The client closes it on Close.
func WithLedger(l ledger.Ledger) Option {
	return func(o *options) error {
		o.ledger = l
		return nil
	}
}

// WithMasterStore uses already loaded master records instead of a file.
func WithMasterStore(s *records.Store) Option {
	return func(o *options) error {
		o.masterStore = s
		return nil
	}
}

// WithHierarchyStore uses an already loaded hierarchy instead of a file.
func WithHierarchyStore(s *hierarchy.Store) Option {
	return func(o *options) error {
		o.hierarchyStore = s
		return nil
	}
}

// WithLogger sets the logger used by the client and its stores.
func WithLogger(logger *zerolog.Logger) Option {
	return func(o *options) error {
		o.logger = logger
		return nil
	}
}
