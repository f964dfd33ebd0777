package config

import (
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("STORE_BACKEND", "")
	t.Setenv("TEXT_PROVIDER", "")
	t.Setenv("INSTRUCTIONS_CACHE_TTL", "")
	t.Setenv("GEMINI_MODEL", "")

	cfg := LoadConfig()

	if cfg.StoreBackend != BackendPostgres {
		t.Errorf("StoreBackend = %q, want %q", cfg.StoreBackend, BackendPostgres)
	}
	if cfg.TextProvider != ProviderGemini {
		t.Errorf("TextProvider = %q, want %q", cfg.TextProvider, ProviderGemini)
	}
	if cfg.InstructionsCacheTTL != time.Minute {
		t.Errorf("InstructionsCacheTTL = %s, want 1m", cfg.InstructionsCacheTTL)
	}
	if cfg.GeminiModel != "gemini-2.0-flash" {
		t.Errorf("GeminiModel = %q", cfg.GeminiModel)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("REDIS_DB", "3")
	t.Setenv("AUTO_MIGRATE", "false")
	t.Setenv("INSTRUCTIONS_CACHE_TTL", "30s")
	t.Setenv("TEXT_PROVIDER", ProviderOpenAI)
	t.Setenv("OPENAI_KEY", "sk-test")
	t.Setenv("GEMINI_API_KEY", "gm-test")

	cfg := LoadConfig()

	if cfg.RedisDB != 3 {
		t.Errorf("RedisDB = %d, want 3", cfg.RedisDB)
	}
	if cfg.AutoMigrate {
		t.Error("AutoMigrate should be false")
	}
	if cfg.InstructionsCacheTTL != 30*time.Second {
		t.Errorf("InstructionsCacheTTL = %s, want 30s", cfg.InstructionsCacheTTL)
	}
	if got := cfg.DefaultCredential(); got != "sk-test" {
		t.Errorf("DefaultCredential() = %q, want sk-test", got)
	}
}

func TestInvalidValuesFallBack(t *testing.T) {
	t.Setenv("REDIS_DB", "abc")
	t.Setenv("INSTRUCTIONS_CACHE_TTL", "soon")

	cfg := LoadConfig()

	if cfg.RedisDB != 0 {
		t.Errorf("RedisDB = %d, want 0", cfg.RedisDB)
	}
	if cfg.InstructionsCacheTTL != time.Minute {
		t.Errorf("InstructionsCacheTTL = %s, want 1m", cfg.InstructionsCacheTTL)
	}
}
