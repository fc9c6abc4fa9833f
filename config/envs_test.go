package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaults(t *testing.T) {
	t.Setenv("REST_PORT", "9090")
	t.Setenv("AUTO_ADVANCE", "true")
	t.Setenv("STORE_BACKEND", "redis")

	c := initConfig()
	assert.Equal(t, 9090, c.RESTPort)
	assert.True(t, c.AutoAdvance)
	assert.Equal(t, "redis", c.StoreBackend)
	assert.Equal(t, "vinom-maze", c.JWTIssuer)
	assert.Equal(t, 300, c.InitialTime)
	assert.Equal(t, 60, c.MutationInterval)
	assert.False(t, c.OTelEnabled)
}
