package models

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/schema"
)

func TestEmployeeActiveHasNoColumnDefault(t *testing.T) {
	s, err := schema.Parse(&Employee{}, &sync.Map{}, schema.NamingStrategy{})
	require.NoError(t, err)

	field := s.LookUpField("Active")
	require.NotNil(t, field)

	// Active=false must reach the INSERT.
	assert.False(t, field.HasDefaultValue)
	assert.Empty(t, field.DefaultValue)
	assert.True(t, field.NotNull)
}
