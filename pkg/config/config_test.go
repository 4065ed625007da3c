package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/awhite/quill/pkg/models"
)

func TestDefault_CoversAllProviders(t *testing.T) {
	cfg := Default()
	for _, p := range []string{models.Anthropic, models.OpenAI, models.Gemini, models.Llama} {
		pc, ok := cfg.Providers[p]
		if !ok {
			t.Errorf("Default() missing provider %q", p)
			continue
		}
		if pc.APIKeyEnv == "" {
			t.Errorf("provider %q has no api_key_env", p)
		}
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default().Validate() = %v", err)
	}
}

func TestAPIKey(t *testing.T) {
	cfg := Default()

	t.Setenv("ANTHROPIC_API_KEY", "sk-test")
	key, err := cfg.APIKey(models.Anthropic)
	if err != nil {
		t.Fatalf("APIKey(anthropic) error = %v", err)
	}
	if key != "sk-test" {
		t.Errorf("APIKey(anthropic) = %q, want %q", key, "sk-test")
	}
}

func TestAPIKey_Missing(t *testing.T) {
	cfg := Default()

	t.Setenv("OPENAI_API_KEY", "")
	_, err := cfg.APIKey(models.OpenAI)
	if !errors.Is(err, ErrMissingCredential) {
		t.Fatalf("APIKey(openai) error = %v, want ErrMissingCredential", err)
	}
	// The message must name the offending variable.
	if got := err.Error(); !strings.Contains(got, "OPENAI_API_KEY") {
		t.Errorf("error %q does not name OPENAI_API_KEY", got)
	}
}

func TestAPIKey_UnknownProvider(t *testing.T) {
	cfg := Default()
	if _, err := cfg.APIKey("cohere"); err == nil {
		t.Error("APIKey(cohere) = nil error, want error")
	}
}

func TestBaseURL_Default(t *testing.T) {
	cfg := Default()

	t.Setenv("ANTHROPIC_BASE_URL", "")
	url, err := cfg.BaseURL(models.Anthropic)
	if err != nil {
		t.Fatalf("BaseURL(anthropic) error = %v", err)
	}
	if url != "https://api.anthropic.com" {
		t.Errorf("BaseURL(anthropic) = %q, want public default", url)
	}
}

func TestBaseURL_EnvOverride(t *testing.T) {
	cfg := Default()

	t.Setenv("OPENAI_BASE_URL", "http://localhost:8080/v1")
	url, err := cfg.BaseURL(models.OpenAI)
	if err != nil {
		t.Fatalf("BaseURL(openai) error = %v", err)
	}
	if url != "http://localhost:8080/v1" {
		t.Errorf("BaseURL(openai) = %q, want env override", url)
	}
}

func TestBaseURL_LlamaRequired(t *testing.T) {
	cfg := Default()

	t.Setenv("LLAMA_BASE_URL", "")
	_, err := cfg.BaseURL(models.Llama)
	if !errors.Is(err, ErrMissingBaseURL) {
		t.Fatalf("BaseURL(llama) error = %v, want ErrMissingBaseURL", err)
	}
	if got := err.Error(); !strings.Contains(got, "LLAMA_BASE_URL") {
		t.Errorf("error %q does not name LLAMA_BASE_URL", got)
	}

	t.Setenv("LLAMA_BASE_URL", "https://llama.example.com/v1")
	url, err := cfg.BaseURL(models.Llama)
	if err != nil {
		t.Fatalf("BaseURL(llama) error = %v", err)
	}
	if url != "https://llama.example.com/v1" {
		t.Errorf("BaseURL(llama) = %q, want env value", url)
	}
}

func TestBaseURL_NoEndpointConfigured(t *testing.T) {
	// A hand-built config can leave both base_url and base_url_env blank;
	// the error must name the provider rather than an empty variable.
	cfg := &Config{Providers: map[string]ProviderConfig{
		"openai": {APIKeyEnv: "OPENAI_API_KEY"},
	}}

	_, err := cfg.BaseURL("openai")
	if !errors.Is(err, ErrMissingBaseURL) {
		t.Fatalf("BaseURL(openai) error = %v, want ErrMissingBaseURL", err)
	}
	if got := err.Error(); !strings.Contains(got, "openai") {
		t.Errorf("error %q does not name the provider", got)
	}
}

func TestLoad_OverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	doc := `providers:
  llama:
    api_key_env: MY_LLAMA_KEY
    base_url: https://llama.internal/v1
`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got := cfg.Providers[models.Llama].APIKeyEnv; got != "MY_LLAMA_KEY" {
		t.Errorf("llama api_key_env = %q, want %q", got, "MY_LLAMA_KEY")
	}
	// Providers absent from the file keep their defaults.
	if got := cfg.Providers[models.OpenAI].APIKeyEnv; got != "OPENAI_API_KEY" {
		t.Errorf("openai api_key_env = %q, want default", got)
	}
}

func TestLoad_RejectsUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	doc := `providers:
  openai:
    api_key: literal-secret-here
`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); err == nil {
		t.Error("Load() with unknown key = nil error, want schema violation")
	}
}

func TestLoadOrDefault_MissingFile(t *testing.T) {
	cfg, err := LoadOrDefault(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("LoadOrDefault() error = %v", err)
	}
	if len(cfg.Providers) != 4 {
		t.Errorf("LoadOrDefault() providers = %d, want 4 defaults", len(cfg.Providers))
	}
}

func TestValidate_ReportsAllProblems(t *testing.T) {
	cfg := &Config{Providers: map[string]ProviderConfig{
		"openai": {},
	}}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("Validate() = nil, want error")
	}
	msg := err.Error()
	if !strings.Contains(msg, "api_key_env") || !strings.Contains(msg, "base_url") {
		t.Errorf("Validate() error %q missing expected fields", msg)
	}
}

