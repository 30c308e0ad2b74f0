package config

import "testing"

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.StoreDriver != StoreMongo {
		t.Errorf("expected default store driver %q, got %q", StoreMongo, cfg.StoreDriver)
	}
	if cfg.HTTPAddr == "" {
		t.Error("expected non-empty HTTP addr")
	}
	if cfg.Environment != EnvDevelopment {
		t.Errorf("expected default environment %q, got %q", EnvDevelopment, cfg.Environment)
	}
}

func TestValidateForProduction_NonProductionNoOp(t *testing.T) {
	cfg := &Config{Environment: EnvDevelopment, CORSAllowedOrigins: "*", LogLevel: "debug"}
	if err := ValidateForProduction(cfg); err != nil {
		t.Fatalf("expected nil for non-production, got %v", err)
	}
}

func TestValidateForProduction_RejectsWildcardCORS(t *testing.T) {
	cfg := &Config{Environment: EnvProduction, CORSAllowedOrigins: "*", LogLevel: "info"}
	if err := ValidateForProduction(cfg); err == nil {
		t.Fatal("expected error for wildcard CORS in production")
	}
}

func TestValidateForProduction_RejectsDebugLogging(t *testing.T) {
	cfg := &Config{Environment: EnvProduction, CORSAllowedOrigins: "https://shop.example.com", LogLevel: "debug"}
	if err := ValidateForProduction(cfg); err == nil {
		t.Fatal("expected error for debug logging in production")
	}
}

func TestValidateForProduction_Valid(t *testing.T) {
	cfg := &Config{Environment: EnvProduction, CORSAllowedOrigins: "https://shop.example.com", LogLevel: "info"}
	if err := ValidateForProduction(cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
