package app

import (
	stderrors "errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/agentstation/reclass/pkg/constants"
	"github.com/agentstation/reclass/pkg/errors"
)

// clearEnv unsets the variables LoadConfig reads for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"RECLASS_CONFIG", "RECLASS_MASTER_PATH", "RECLASS_HIERARCHY_PATH", "RECLASS_LEDGER_PATH",
		"RECLASS_LEDGER_DRIVER", "RECLASS_SESSION_TTL", "RECLASS_FORMAT", "RECLASS_VERBOSE",
		"RECLASS_LOG_LEVEL", "LOG_LEVEL", "LOG_FORMAT", "LOG_OUTPUT",
	} {
		t.Setenv(key, "")
	}
}

// TestLoadConfig verifies defaults.
func TestLoadConfig(t *testing.T) {
	clearEnv(t)

	config, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() failed: %v", err)
	}

	if config.MasterPath != constants.DefaultMasterPath {
		t.Errorf("MasterPath = %s, want %s", config.MasterPath, constants.DefaultMasterPath)
	}
	if config.HierarchyPath != constants.DefaultHierarchyPath {
		t.Errorf("HierarchyPath = %s, want %s", config.HierarchyPath, constants.DefaultHierarchyPath)
	}
	if config.LedgerPath != constants.DefaultLedgerPath {
		t.Errorf("LedgerPath = %s, want %s", config.LedgerPath, constants.DefaultLedgerPath)
	}
	if config.LedgerDriver != constants.LedgerDriverFile {
		t.Errorf("LedgerDriver = %s, want %s", config.LedgerDriver, constants.LedgerDriverFile)
	}
	if config.SessionTTL != constants.DefaultSessionTTL {
		t.Errorf("SessionTTL = %v, want %v", config.SessionTTL, constants.DefaultSessionTTL)
	}
	if config.LogFormat != "auto" {
		t.Errorf("LogFormat = %s, want auto", config.LogFormat)
	}
	if config.LogOutput != "stderr" {
		t.Errorf("LogOutput = %s, want stderr", config.LogOutput)
	}
}

// TestConfig_EnvironmentVariables verifies RECLASS_ prefixed variables.
func TestConfig_EnvironmentVariables(t *testing.T) {
	clearEnv(t)
	t.Setenv("RECLASS_MASTER_PATH", "spaces.xlsx")
	t.Setenv("RECLASS_LEDGER_DRIVER", "sqlite")
	t.Setenv("RECLASS_LEDGER_PATH", "responses.db")
	t.Setenv("RECLASS_SESSION_TTL", "30m")
	t.Setenv("RECLASS_FORMAT", "json")
	t.Setenv("RECLASS_VERBOSE", "true")
	t.Setenv("LOG_LEVEL", "warn")

	config, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() failed: %v", err)
	}

	if config.MasterPath != "spaces.xlsx" {
		t.Errorf("MasterPath = %s, want spaces.xlsx", config.MasterPath)
	}
	if config.LedgerDriver != "sqlite" {
		t.Errorf("LedgerDriver = %s, want sqlite", config.LedgerDriver)
	}
	if config.LedgerPath != "responses.db" {
		t.Errorf("LedgerPath = %s, want responses.db", config.LedgerPath)
	}
	if config.SessionTTL != 30*time.Minute {
		t.Errorf("SessionTTL = %v, want 30m", config.SessionTTL)
	}
	if config.Format != "json" {
		t.Errorf("Format = %s, want json", config.Format)
	}
	if !config.Verbose {
		t.Error("RECLASS_VERBOSE not loaded")
	}
	if config.LogLevel != "warn" {
		t.Errorf("LogLevel = %s, want warn", config.LogLevel)
	}
}

// TestLoadConfigFile verifies an explicit YAML config file.
func TestLoadConfigFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "reclass.yaml")
	data := "master_path: /data/master.csv\nhierarchy_path: /data/options.tsv\nsession_ttl: 1h\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	config, err := LoadConfigFile(path)
	if err != nil {
		t.Fatalf("LoadConfigFile() failed: %v", err)
	}
	if config.MasterPath != "/data/master.csv" {
		t.Errorf("MasterPath = %s, want /data/master.csv", config.MasterPath)
	}
	if config.HierarchyPath != "/data/options.tsv" {
		t.Errorf("HierarchyPath = %s, want /data/options.tsv", config.HierarchyPath)
	}
	if config.LedgerPath != constants.DefaultLedgerPath {
		t.Errorf("LedgerPath = %s, want default", config.LedgerPath)
	}
	if config.SessionTTL != time.Hour {
		t.Errorf("SessionTTL = %v, want 1h", config.SessionTTL)
	}
	if config.ConfigFile != path {
		t.Errorf("ConfigFile = %s, want %s", config.ConfigFile, path)
	}
}

// TestLoadConfigFile_Missing verifies an explicit file must exist.
func TestLoadConfigFile_Missing(t *testing.T) {
	_, err := LoadConfigFile(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Fatal("expected error for missing config file")
	}
	var cerr *errors.ConfigError
	if !stderrors.As(err, &cerr) {
		t.Errorf("error = %T, want *errors.ConfigError", err)
	}
}

// TestUpdateFromFlags verifies flags take precedence.
func TestUpdateFromFlags(t *testing.T) {
	config := &Config{Format: "yaml", LogLevel: "info"}
	config.UpdateFromFlags(true, false, true, "json", "debug")

	if !config.Verbose || config.Quiet || !config.NoColor {
		t.Errorf("flags not applied: %+v", config)
	}
	if config.Format != "json" {
		t.Errorf("Format = %s, want json", config.Format)
	}
	if config.LogLevel != "debug" {
		t.Errorf("LogLevel = %s, want debug", config.LogLevel)
	}

	// Empty values keep what was loaded
	config.UpdateFromFlags(false, false, false, "", "")
	if config.Format != "json" || config.LogLevel != "debug" || !config.Verbose {
		t.Errorf("empty flags overwrote config: %+v", config)
	}
}
