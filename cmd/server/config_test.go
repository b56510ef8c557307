package main

import "testing"

func TestDefaultConfigSeedsPools(t *testing.T) {
	cfg := DefaultConfig()

	if len(cfg.Pools) != 2 {
		t.Fatalf("expected 2 default pools, got %d", len(cfg.Pools))
	}
	if cfg.Pools[0].Name != "HWSET1" || cfg.Pools[0].Capacity != 250 {
		t.Errorf("unexpected first pool: %+v", cfg.Pools[0])
	}
	if cfg.Pools[1].Name != "HWSET2" || cfg.Pools[1].Capacity != 300 {
		t.Errorf("unexpected second pool: %+v", cfg.Pools[1])
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("validate default config: %v", err)
	}
}

func TestConfigValidate_RejectsDuplicatePools(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Pools = []PoolConfig{
		{Name: "HWSET1", Capacity: 100},
		{Name: "HWSET1", Capacity: 200},
	}

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected validation error for duplicate pool name")
	}
}

func TestConfigValidate_RejectsNegativeCapacity(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Pools = []PoolConfig{{Name: "HWSET1", Capacity: -1}}

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected validation error for negative capacity")
	}
}

func TestConfigSignupEnabledDefaultsTrue(t *testing.T) {
	cfg := DefaultConfig()
	if !cfg.SignupEnabled() {
		t.Fatal("expected signup enabled by default")
	}

	off := false
	cfg.API.SignupEnabled = &off
	if cfg.SignupEnabled() {
		t.Fatal("expected signup disabled when set to false")
	}
}
