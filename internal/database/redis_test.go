package database

import (
	"context"
	"testing"

	"github.com/Luckyraj9295/Bharat-Yatra/internal/config"
	"github.com/alicebob/miniredis/v2"
)

func TestNewRedisClient(t *testing.T) {
	t.Run("Disabled", func(t *testing.T) {
		client, err := NewRedisClient(context.Background(), &config.Config{})
		if err != nil || client != nil {
			t.Errorf("expected nil client and nil error, got %v, %v", client, err)
		}
	})

	t.Run("Connected", func(t *testing.T) {
		mr := miniredis.RunT(t)
		client, err := NewRedisClient(context.Background(), &config.Config{RedisAddr: mr.Addr()})
		if err != nil {
			t.Fatalf("NewRedisClient returned error: %v", err)
		}
		defer client.Close()
		if err := client.Set(context.Background(), "k", "v", 0).Err(); err != nil {
			t.Errorf("expected set to succeed, got %v", err)
		}
	})

	t.Run("Unreachable", func(t *testing.T) {
		mr := miniredis.RunT(t)
		addr := mr.Addr()
		mr.Close()
		if _, err := NewRedisClient(context.Background(), &config.Config{RedisAddr: addr}); err == nil {
			t.Error("expected error for unreachable redis, got nil")
		}
	})
}
