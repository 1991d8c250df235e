package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// DefaultPath is used when no configuration file argument is given.
const DefaultPath = "./config.yaml"

// Config is the full process configuration, loaded once at startup and
// read-only afterwards.
type Config struct {
	Transport TransportConfig `yaml:"transport"`
	TTS       TTSConfig       `yaml:"tts"`
	Clips     ClipsConfig     `yaml:"clips"`
	IVR       IVRConfig       `yaml:"ivr"`

	// Server holds process-level knobs taken from the environment,
	// not from the configuration file.
	Server ServerConfig `yaml:"-"`
}

// ServerConfig is processed from environment variables.
type ServerConfig struct {
	LogLevel       string `envconfig:"LOG_LEVEL" default:"info"`
	LogPretty      bool   `envconfig:"LOG_PRETTY" default:"false"`
	MetricsEnabled bool   `envconfig:"METRICS_ENABLED" default:"true"`
}

// TransportConfig describes the call-transport listener.
type TransportConfig struct {
	Host         string `yaml:"host"`
	Port         int    `yaml:"port"`
	Username     string `yaml:"username"`
	Password     string `yaml:"password"`
	MediaPortLow int    `yaml:"media_port_low"`
	MediaPortHi  int    `yaml:"media_port_high"`
}

// Addr returns the listen address of the transport.
func (t TransportConfig) Addr() string {
	return fmt.Sprintf("%s:%d", t.Host, t.Port)
}

// TTSConfig configures the external text-to-speech renderer.
type TTSConfig struct {
	// Cmd is a command template with two %s verbs: output WAV path and
	// the text to render, e.g. `espeak -w %s "%s"`.
	Cmd string `yaml:"cmd"`
	// Phrases are pre-rendered into the clip table at startup.
	Phrases map[string]string `yaml:"phrases"`
}

// ClipsConfig lists static audio clips to preload.
type ClipsConfig struct {
	Dir   string            `yaml:"dir"`
	Files map[string]string `yaml:"files"`
}

// IVRConfig holds the session engine settings.
type IVRConfig struct {
	Auth    bool              `yaml:"auth"`
	Users   map[string]Policy `yaml:"users"`
	Actions map[string]string `yaml:"actions"`

	AuthPromptClips []string `yaml:"auth_prompt_clips"`
	CmdPromptClips  []string `yaml:"cmd_prompt_clips"`
	AuthFailClips   []string `yaml:"auth_fail_clips"`
	CmdFailClips    []string `yaml:"cmd_fail_clips"`
}

// Policy is a per-user authorization policy: either the wildcard or a
// finite set of permitted action roots. The YAML form is the string "*"
// or a list of roots.
type Policy struct {
	Wildcard bool
	Roots    map[string]bool
}

// Allows reports whether the policy permits the given action root.
func (p Policy) Allows(root string) bool {
	return p.Wildcard || p.Roots[root]
}

// WildcardPolicy permits every action root.
func WildcardPolicy() Policy {
	return Policy{Wildcard: true}
}

// UnmarshalYAML accepts "*" or a sequence of action roots.
func (p *Policy) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err == nil {
		if s != "*" {
			return fmt.Errorf("invalid policy %q: must be \"*\" or a list", s)
		}
		p.Wildcard = true
		return nil
	}
	var roots []string
	if err := value.Decode(&roots); err != nil {
		return fmt.Errorf("invalid policy: %w", err)
	}
	p.Roots = make(map[string]bool, len(roots))
	for _, r := range roots {
		p.Roots[r] = true
	}
	return nil
}

// Load reads the YAML configuration file at path and overlays the
// environment-driven server settings (a .env file is honored if present).
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	_ = godotenv.Load()
	if err := envconfig.Process("", &cfg.Server); err != nil {
		return nil, fmt.Errorf("process environment: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Transport.Port == 0 {
		return fmt.Errorf("transport.port is required")
	}
	if c.TTS.Cmd == "" && len(c.TTS.Phrases) > 0 {
		return fmt.Errorf("tts.cmd is required when tts.phrases are configured")
	}
	if c.IVR.Auth && len(c.IVR.Users) == 0 {
		return fmt.Errorf("ivr.auth is enabled but no users are configured")
	}
	return nil
}
