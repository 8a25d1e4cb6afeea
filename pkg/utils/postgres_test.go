package utils

import (
	"testing"
	"time"
)

func TestPostgresPoolDefaults(t *testing.T) {
	got := PostgresPoolConfig{}.withDefaults()
	if got.MaxOpenConns != 25 || got.MaxIdleConns != 25 {
		t.Fatalf("conn defaults: %+v", got)
	}
	if got.ConnMaxLifetime != 30*time.Minute {
		t.Fatalf("lifetime default: %v", got.ConnMaxLifetime)
	}
	if got.PingTimeout != 5*time.Second {
		t.Fatalf("ping timeout default: %v", got.PingTimeout)
	}
}

func TestPostgresPoolDefaults_KeepsExplicitValues(t *testing.T) {
	in := PostgresPoolConfig{MaxOpenConns: 10, PingTimeout: time.Second}
	got := in.withDefaults()
	if got.MaxOpenConns != 10 || got.PingTimeout != time.Second {
		t.Fatalf("explicit values overwritten: %+v", got)
	}
}
