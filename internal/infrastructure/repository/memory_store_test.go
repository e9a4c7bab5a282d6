package repository

import (
	"testing"

	"outblog-shopify-app/internal/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

func TestMemoryStore(t *testing.T) {
	suite.Run(t, &StoreSuite{newStore: func() ports.Store { return NewMemoryStore() }})
}

func TestMemoryStore_IsNotARegistry(t *testing.T) {
	var store ports.Store = NewMemoryStore()
	_, ok := store.(ports.ShopRegistry)
	assert.False(t, ok)
}
