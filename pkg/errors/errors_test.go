package errors_test

import (
	"errors"
	"os"
	"testing"

	pkgerrors "github.com/agentstation/reclass/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	err := pkgerrors.New("test error")
	assert.NotNil(t, err)
	assert.Equal(t, "test error", err.Error())
}

func TestLoadError(t *testing.T) {
	t.Run("with path", func(t *testing.T) {
		err := pkgerrors.NewLoadError("master", "master.csv", "missing column ID", nil)
		assert.Equal(t, "failed to load master from master.csv: missing column ID", err.Error())
		assert.True(t, pkgerrors.IsLoad(err))
		assert.False(t, pkgerrors.IsPersistence(err))
	})

	t.Run("without path", func(t *testing.T) {
		err := pkgerrors.NewLoadError("hierarchy", "", "empty source", nil)
		assert.Equal(t, "failed to load hierarchy: empty source", err.Error())
	})

	t.Run("unwraps cause", func(t *testing.T) {
		err := pkgerrors.NewLoadError("master", "x.csv", "open", os.ErrNotExist)
		assert.True(t, errors.Is(err, os.ErrNotExist))
	})

	t.Run("wrap keeps existing load error", func(t *testing.T) {
		inner := pkgerrors.NewLoadError("ledger", "a.csv", "bad", nil)
		wrapped := pkgerrors.WrapLoad("master", "b.csv", inner)
		var le *pkgerrors.LoadError
		require.True(t, errors.As(wrapped, &le))
		assert.Equal(t, "ledger", le.Source)
	})

	t.Run("wrap nil", func(t *testing.T) {
		assert.NoError(t, pkgerrors.WrapLoad("master", "", nil))
	})
}

func TestValidationError(t *testing.T) {
	t.Run("with field", func(t *testing.T) {
		err := &pkgerrors.ValidationError{
			Field:   "category",
			Message: "cannot be empty",
		}
		assert.Equal(t, "validation failed for field category: cannot be empty", err.Error())
		assert.True(t, errors.Is(err, pkgerrors.ErrInvalidInput))
	})

	t.Run("without field", func(t *testing.T) {
		err := pkgerrors.NewValidationError("", nil, "blank entry")
		assert.Equal(t, "validation failed: blank entry", err.Error())
		assert.True(t, pkgerrors.IsValidation(err))
	})
}

func TestPersistenceError(t *testing.T) {
	base := errors.New("disk full")
	err := pkgerrors.NewPersistenceError("append", "responses.csv", base)
	assert.Equal(t, "persistence error during append of responses.csv: disk full", err.Error())
	assert.True(t, pkgerrors.IsPersistence(err))
	assert.ErrorIs(t, err, base)

	assert.NoError(t, pkgerrors.WrapPersistence("append", "x", nil))
	wrapped := pkgerrors.WrapPersistence("append", "y", base)
	assert.True(t, pkgerrors.IsPersistence(wrapped))
}

func TestNotFoundError(t *testing.T) {
	err := pkgerrors.NewNotFoundError("record", "42")
	assert.Equal(t, "record with ID 42 not found", err.Error())
	assert.True(t, pkgerrors.IsNotFound(err))

	noID := pkgerrors.NewNotFoundError("ledger", "")
	assert.Equal(t, "ledger not found", noID.Error())

	joined := errors.Join(errors.New("failed"), err)
	assert.True(t, pkgerrors.IsNotFound(joined))
}

func TestConfigError(t *testing.T) {
	base := errors.New("unknown driver")
	err := pkgerrors.NewConfigError("ledger", "bad driver", base)
	assert.Equal(t, "configuration error in ledger: bad driver", err.Error())
	assert.ErrorIs(t, err, base)
}

func TestAllComplete(t *testing.T) {
	assert.True(t, pkgerrors.IsAllComplete(pkgerrors.ErrAllComplete))
	assert.False(t, pkgerrors.IsAllComplete(pkgerrors.ErrNotFound))
}
