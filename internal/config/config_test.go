package config

import (
	"os"
	"path/filepath"
	"testing"
)

const sampleConfig = `
transport:
  host: 0.0.0.0
  port: 5060
  username: ivr
  password: secret
  media_port_low: 10000
  media_port_high: 10100
tts:
  cmd: espeak -w %s "%s"
  phrases:
    authprompt: "Please enter your PIN"
clips:
  dir: ./clips
  files:
    beep: beep.wav
ivr:
  auth: true
  users:
    "9999": "*"
    "1234": ["22", "24"]
  actions:
    "22": echobeep
    "24": echobeep
    "32": echobeep
  auth_prompt_clips: [authprompt]
  cmd_prompt_clips: [beep]
  auth_fail_clips: [beep]
  cmd_fail_clips: [beep]
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	cfg, err := Load(writeConfig(t, sampleConfig))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Transport.Addr() != "0.0.0.0:5060" {
		t.Errorf("transport addr = %q", cfg.Transport.Addr())
	}
	if cfg.Clips.Files["beep"] != "beep.wav" {
		t.Errorf("clip file = %q", cfg.Clips.Files["beep"])
	}
	if !cfg.IVR.Auth {
		t.Error("auth should be enabled")
	}
	if cfg.IVR.Actions["32"] != "echobeep" {
		t.Errorf("action 32 = %q", cfg.IVR.Actions["32"])
	}
	if cfg.TTS.Phrases["authprompt"] == "" {
		t.Error("missing TTS phrase")
	}
}

func TestPolicy_Wildcard(t *testing.T) {
	cfg, err := Load(writeConfig(t, sampleConfig))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	admin := cfg.IVR.Users["9999"]
	for _, root := range []string{"22", "24", "32", "1"} {
		if !admin.Allows(root) {
			t.Errorf("wildcard policy denied %q", root)
		}
	}
}

func TestPolicy_FiniteSet(t *testing.T) {
	cfg, err := Load(writeConfig(t, sampleConfig))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	limited := cfg.IVR.Users["1234"]
	if !limited.Allows("22") || !limited.Allows("24") {
		t.Error("finite policy denied a listed root")
	}
	if limited.Allows("32") || limited.Allows("*") {
		t.Error("finite policy allowed an unlisted root")
	}
}

func TestPolicy_InvalidScalar(t *testing.T) {
	_, err := Load(writeConfig(t, `
transport:
  port: 5060
ivr:
  auth: true
  users:
    "1111": everything
`))
	if err == nil {
		t.Error("expected error for invalid policy scalar")
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("METRICS_ENABLED", "false")

	cfg, err := Load(writeConfig(t, sampleConfig))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.LogLevel != "debug" {
		t.Errorf("log level = %q, want debug", cfg.Server.LogLevel)
	}
	if cfg.Server.MetricsEnabled {
		t.Error("metrics should be disabled via env")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoad_AuthWithoutUsers(t *testing.T) {
	_, err := Load(writeConfig(t, `
transport:
  port: 5060
ivr:
  auth: true
`))
	if err == nil {
		t.Error("expected error when auth is enabled without users")
	}
}
