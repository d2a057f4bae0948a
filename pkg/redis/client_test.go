package redis

import (
	"testing"

	"github.com/adityakhanna/trendora-backend/pkg/config"
)

func TestOptionsFromConfigRequiresTarget(t *testing.T) {
	if _, err := optionsFromConfig(config.RedisConfig{}); err == nil {
		t.Fatal("expected error when neither url nor address provided")
	}
}

func TestOptionsFromConfigParsesURL(t *testing.T) {
	opts, err := optionsFromConfig(config.RedisConfig{URL: "redis://:secret@localhost:6380/2"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opts.Addr != "localhost:6380" {
		t.Fatalf("unexpected addr %s", opts.Addr)
	}
	if opts.Password != "secret" {
		t.Fatalf("unexpected password %s", opts.Password)
	}
	if opts.DB != 2 {
		t.Fatalf("unexpected db %d", opts.DB)
	}
}

func TestBuildKeySkipsEmptyParts(t *testing.T) {
	c := &Client{}
	if got := c.buildKey("session", "", "access", "abc"); got != "trnd:session:access:abc" {
		t.Fatalf("unexpected key %s", got)
	}
	if got := c.RateLimitKey("check:ip:1.2.3.4"); got != "trnd:rate_limit:check:ip:1.2.3.4" {
		t.Fatalf("unexpected key %s", got)
	}
}
