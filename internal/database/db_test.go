package database

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPoolDefaults(t *testing.T) {
	p := Pool{}.withDefaults()
	assert.Equal(t, 25, p.MaxOpenConns)
	assert.Equal(t, 25, p.MaxIdleConns)
	assert.Equal(t, 30*time.Minute, p.ConnMaxLifetime)

	p = Pool{MaxOpenConns: 10}.withDefaults()
	assert.Equal(t, 10, p.MaxOpenConns)
	assert.Equal(t, 10, p.MaxIdleConns)

	p = Pool{MaxOpenConns: 10, MaxIdleConns: 4, ConnMaxLifetime: time.Hour}.withDefaults()
	assert.Equal(t, 4, p.MaxIdleConns)
	assert.Equal(t, time.Hour, p.ConnMaxLifetime)
}
