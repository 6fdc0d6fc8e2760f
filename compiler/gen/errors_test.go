package gen

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigError(t *testing.T) {
	t.Run("Error message with value", func(t *testing.T) {
		err := NewConfigError("Workers", 0, "must be at least 1")

		assert.Contains(t, err.Error(), "prismarest: config error")
		assert.Contains(t, err.Error(), "Workers")
		assert.Contains(t, err.Error(), "0")
		assert.Contains(t, err.Error(), "must be at least 1")
	})

	t.Run("Error message without value", func(t *testing.T) {
		err := NewConfigError("Package", nil, "cannot be empty")

		assert.Contains(t, err.Error(), "Package")
		assert.Contains(t, err.Error(), "cannot be empty")
		assert.NotContains(t, err.Error(), "value:")
	})

	t.Run("Is matches ErrInvalidConfig", func(t *testing.T) {
		err := NewConfigError("Target", nil, "missing")
		assert.True(t, errors.Is(err, ErrInvalidConfig))
	})

	t.Run("IsConfigError helper", func(t *testing.T) {
		err := NewConfigError("Target", nil, "missing")
		assert.True(t, IsConfigError(err))
		assert.False(t, IsConfigError(errors.New("other")))
	})
}

func TestGenerationError(t *testing.T) {
	t.Run("Error message with all fields", func(t *testing.T) {
		cause := errors.New("write failed")
		err := NewGenerationError("User", "user.go", "cannot write file", cause)

		assert.Contains(t, err.Error(), "prismarest: generation error")
		assert.Contains(t, err.Error(), "for entity User")
		assert.Contains(t, err.Error(), "file: user.go")
		assert.Contains(t, err.Error(), "cannot write file")
		assert.Contains(t, err.Error(), "write failed")
	})

	t.Run("Error message with entity only", func(t *testing.T) {
		err := &GenerationError{Entity: "User"}
		assert.Contains(t, err.Error(), "for entity User")
		assert.NotContains(t, err.Error(), "file:")
	})

	t.Run("Unwrap returns cause", func(t *testing.T) {
		cause := errors.New("io error")
		err := NewGenerationError("User", "", "", cause)

		assert.Equal(t, cause, err.Unwrap())
		assert.True(t, errors.Is(err, cause))
	})

	t.Run("Is matches ErrGenerationFailed", func(t *testing.T) {
		err := NewGenerationError("User", "", "", nil)
		assert.True(t, errors.Is(err, ErrGenerationFailed))
	})

	t.Run("IsGenerationError helper", func(t *testing.T) {
		err := NewGenerationError("User", "user.go", "", nil)
		assert.True(t, IsGenerationError(err))
		assert.False(t, IsGenerationError(errors.New("other")))
	})
}

func TestSentinelErrors(t *testing.T) {
	assert.Equal(t, "prismarest: invalid configuration", ErrInvalidConfig.Error())
	assert.Equal(t, "prismarest: no entities to generate", ErrNoEntities.Error())
	assert.Equal(t, "prismarest: code generation failed", ErrGenerationFailed.Error())
}

func TestErrorsAs(t *testing.T) {
	t.Run("As ConfigError", func(t *testing.T) {
		err := NewConfigError("Package", "my.api", "not a valid package identifier")
		var configErr *ConfigError
		require.True(t, errors.As(err, &configErr))
		assert.Equal(t, "Package", configErr.Option)
		assert.Equal(t, "my.api", configErr.Value)
	})

	t.Run("As GenerationError", func(t *testing.T) {
		err := NewGenerationError("User", "user.go", "failed", nil)
		var genErr *GenerationError
		require.True(t, errors.As(err, &genErr))
		assert.Equal(t, "User", genErr.Entity)
		assert.Equal(t, "user.go", genErr.File)
	})
}
