package utils

import (
	"context"
	"testing"
	"time"
)

func TestRedisConfigDefaults(t *testing.T) {
	got := RedisConfig{Addr: "localhost:6379"}.withDefaults()
	if got.DialTimeout != 3*time.Second {
		t.Fatalf("dial timeout default: %v", got.DialTimeout)
	}
	if got.PoolSize != 20 {
		t.Fatalf("pool size default: %d", got.PoolSize)
	}
	if got.PingTimeout != 2*time.Second {
		t.Fatalf("ping timeout default: %v", got.PingTimeout)
	}
}

func TestRedisConfigDefaults_KeepsExplicitValues(t *testing.T) {
	in := RedisConfig{Addr: "localhost:6379", PoolSize: 5, ReadTimeout: 10 * time.Second}
	got := in.withDefaults()
	if got.PoolSize != 5 || got.ReadTimeout != 10*time.Second {
		t.Fatalf("explicit values overwritten: %+v", got)
	}
}

func TestOpenRedis_RequiresAddr(t *testing.T) {
	if _, err := OpenRedis(context.Background(), RedisConfig{}); err == nil {
		t.Fatalf("expected error for missing addr")
	}
}
