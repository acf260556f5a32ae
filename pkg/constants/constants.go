// Package constants provides shared constants used throughout the reclass codebase.
// This includes default source locations, tabular column names, file permissions
// and server timeouts that must stay consistent between the stores and adapters.
package constants

import "time"

// Default source locations, relative to the working directory
const (
	// DefaultMasterPath is the read-only catalog of records awaiting reclassification
	DefaultMasterPath = "master_space_data.csv"

	// DefaultHierarchyPath is the catalog of valid replacement classifications
	DefaultHierarchyPath = "options.csv"

	// DefaultLedgerPath is the append-only log of accepted reclassifications
	DefaultLedgerPath = "responses.csv"

	// DefaultConfigName is the config file name searched in $HOME and the working directory
	DefaultConfigName = ".reclass"

	// EnvPrefix prefixes every environment variable read by viper
	EnvPrefix = "RECLASS"
)

// Ledger drivers
const (
	// LedgerDriverFile stores the ledger in a tabular file (csv, tsv or xlsx)
	LedgerDriverFile = "file"

	// LedgerDriverSQLite stores the ledger in a SQLite database
	LedgerDriverSQLite = "sqlite"
)

// Master record columns
const (
	ColumnID                 = "ID"
	ColumnSpaceAliasName     = "space_alias_name"
	ColumnSpaceCategory      = "space_category"
	ColumnSpaceType          = "space_type"
	ColumnDepartmentOccupied = "department_occupied"
)

// Hierarchy option columns
const (
	ColumnSpaceName          = "SPACE NAME"
	ColumnSpaceTypeUpper     = "SPACE TYPE"
	ColumnSpaceCategoryUpper = "SPACE CATEGORY"
)

// Response ledger columns
const (
	ColumnOldSpaceName      = "Old Space Name"
	ColumnOldType           = "Old Type"
	ColumnOldCategory       = "Old Category"
	ColumnDepartment        = "Department"
	ColumnNewSpaceName      = "New Space Name"
	ColumnNewType           = "New Type"
	ColumnNewCategory       = "New Category"
	ColumnNewSpaceAliasName = "New Space Alias Name"
)

// MasterColumns lists the required master record columns in source order.
var MasterColumns = []string{
	ColumnID,
	ColumnSpaceAliasName,
	ColumnSpaceCategory,
	ColumnSpaceType,
	ColumnDepartmentOccupied,
}

// HierarchyColumns lists the hierarchy option columns in write order.
var HierarchyColumns = []string{
	ColumnSpaceName,
	ColumnSpaceTypeUpper,
	ColumnSpaceCategoryUpper,
}

// LedgerColumns lists the response ledger columns in write order.
var LedgerColumns = []string{
	ColumnID,
	ColumnOldSpaceName,
	ColumnOldType,
	ColumnOldCategory,
	ColumnDepartment,
	ColumnNewSpaceName,
	ColumnNewType,
	ColumnNewCategory,
	ColumnNewSpaceAliasName,
}

// File permission constants define standard Unix file permissions
const (
	// DirPermissions is the default permission for created directories (rwxr-xr-x)
	DirPermissions = 0755

	// FilePermissions is the default permission for created files (rw-r--r--)
	FilePermissions = 0644
)

// Timeout constants
const (
	// DefaultSessionTTL is how long an idle HTTP review session is kept
	DefaultSessionTTL = 12 * time.Hour

	// ShutdownTimeout bounds graceful shutdown of the HTTP server
	ShutdownTimeout = 5 * time.Second

	// DefaultReadTimeout is the HTTP read timeout
	DefaultReadTimeout = 10 * time.Second

	// DefaultWriteTimeout is the HTTP write timeout
	DefaultWriteTimeout = 10 * time.Second

	// DefaultIdleTimeout is the HTTP keep-alive idle timeout
	DefaultIdleTimeout = 120 * time.Second
)
