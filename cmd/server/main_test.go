package main

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"resala-backend/internal/config"
)

func TestRunReturnsStartupErrors(t *testing.T) {
	cfg := &config.Config{
		Server:    config.ServerConfig{Port: 0},
		Store:     config.StoreConfig{Backend: config.BackendMemory},
		Inventory: config.InventoryConfig{Policy: "fifo"},
	}

	err := run(cfg)
	assert.ErrorContains(t, err, "unknown inventory policy")
}

func TestRunRejectsBadTrustedProxy(t *testing.T) {
	cfg := &config.Config{
		Server: config.ServerConfig{TrustedProxies: []string{"not-an-ip"}},
		Store:  config.StoreConfig{Backend: config.BackendMemory},
	}

	err := run(cfg)
	assert.ErrorContains(t, err, "invalid trusted proxy")
}
