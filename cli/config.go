package cli

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/identityops/idctl/observe"
	"github.com/identityops/idctl/status"
)

// Profile is the explicit configuration struct handed to commands. Viper
// resolves flags, environment, file, and defaults behind loadProfile; the
// rest of the codebase only ever sees this struct.
type Profile struct {
	Backend         string
	InstanceARN     string
	IdentityStoreID string
	AccessTokenFile string

	Check   CheckSettings
	Observe ObserveSettings
}

// CheckSettings mirrors status.CheckConfig in file-friendly units.
type CheckSettings struct {
	TimeoutSeconds    int
	Parallel          bool
	MaxConcurrent     int
	RetryAttempts     int
	RetryDelaySeconds int
}

// ObserveSettings selects logging and telemetry exporters.
type ObserveSettings struct {
	LogLevel        string
	TracingExporter string
	MetricsExporter string
	SamplePct       float64
}

// loadProfile reads the profile file and returns an explicit Profile.
// An empty path falls back to ~/.idctl/config.yaml; a missing file is not
// an error, the defaults apply. String values go through strict ${VAR}
// environment expansion so profiles can reference secrets without
// embedding them.
func loadProfile(path string) (*Profile, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath("$HOME/.idctl")
		v.AddConfigPath(".")
	}

	v.SetDefault("backend", "memory")
	v.SetDefault("check.timeout-seconds", 30)
	v.SetDefault("check.parallel", true)
	v.SetDefault("check.max-concurrent", 3)
	v.SetDefault("check.retry-attempts", 2)
	v.SetDefault("check.retry-delay-seconds", 1)
	v.SetDefault("observe.log-level", "info")
	v.SetDefault("observe.tracing-exporter", "none")
	v.SetDefault("observe.metrics-exporter", "none")
	v.SetDefault("observe.sample-pct", 1.0)

	v.SetEnvPrefix("IDCTL")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			// An explicitly named profile must exist and parse.
			if path != "" {
				return nil, fmt.Errorf("failed to read profile %s: %w", path, err)
			}
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	p := &Profile{
		Backend:         v.GetString("backend"),
		InstanceARN:     v.GetString("instance-arn"),
		IdentityStoreID: v.GetString("identity-store-id"),
		AccessTokenFile: v.GetString("access-token-file"),
		Check: CheckSettings{
			TimeoutSeconds:    v.GetInt("check.timeout-seconds"),
			Parallel:          v.GetBool("check.parallel"),
			MaxConcurrent:     v.GetInt("check.max-concurrent"),
			RetryAttempts:     v.GetInt("check.retry-attempts"),
			RetryDelaySeconds: v.GetInt("check.retry-delay-seconds"),
		},
		Observe: ObserveSettings{
			LogLevel:        v.GetString("observe.log-level"),
			TracingExporter: v.GetString("observe.tracing-exporter"),
			MetricsExporter: v.GetString("observe.metrics-exporter"),
			SamplePct:       v.GetFloat64("observe.sample-pct"),
		},
	}

	if err := p.expand(); err != nil {
		return nil, err
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// expand applies strict environment expansion to the string fields.
func (p *Profile) expand() error {
	for _, field := range []*string{&p.Backend, &p.InstanceARN, &p.IdentityStoreID, &p.AccessTokenFile} {
		expanded, err := expandEnvStrict(*field)
		if err != nil {
			return fmt.Errorf("profile: %w", err)
		}
		*field = expanded
	}
	return nil
}

// Validate ensures the profile is sane before any command runs with it.
func (p *Profile) Validate() error {
	if !hasBackend(p.Backend) {
		return fmt.Errorf("profile: unknown backend %q", p.Backend)
	}
	if p.Check.TimeoutSeconds <= 0 {
		return fmt.Errorf("profile: check.timeout-seconds must be positive, got %d", p.Check.TimeoutSeconds)
	}
	if p.Check.MaxConcurrent <= 0 {
		return fmt.Errorf("profile: check.max-concurrent must be positive, got %d", p.Check.MaxConcurrent)
	}
	if p.Check.RetryAttempts <= 0 {
		return fmt.Errorf("profile: check.retry-attempts must be positive, got %d", p.Check.RetryAttempts)
	}
	if p.Check.RetryDelaySeconds <= 0 {
		return fmt.Errorf("profile: check.retry-delay-seconds must be positive, got %d", p.Check.RetryDelaySeconds)
	}
	return nil
}

// checkConfig converts the profile's check settings, applying any flag
// overrides the command captured.
func (p *Profile) checkConfig() status.CheckConfig {
	return status.CheckConfig{
		Timeout:       time.Duration(p.Check.TimeoutSeconds) * time.Second,
		Parallel:      p.Check.Parallel,
		MaxConcurrent: p.Check.MaxConcurrent,
		RetryAttempts: p.Check.RetryAttempts,
		RetryDelay:    time.Duration(p.Check.RetryDelaySeconds) * time.Second,
	}
}

// observeConfig converts the profile's telemetry settings.
func (p *Profile) observeConfig(version, logLevel string) observe.Config {
	level := p.Observe.LogLevel
	if logLevel != "" {
		level = logLevel
	}
	return observe.Config{
		ServiceName: "idctl",
		Version:     version,
		Tracing: observe.TracingConfig{
			Enabled:   p.Observe.TracingExporter != "" && p.Observe.TracingExporter != "none",
			Exporter:  p.Observe.TracingExporter,
			SamplePct: p.Observe.SamplePct,
		},
		Metrics: observe.MetricsConfig{
			Enabled:  p.Observe.MetricsExporter != "" && p.Observe.MetricsExporter != "none",
			Exporter: p.Observe.MetricsExporter,
		},
		Logging: observe.LoggingConfig{
			Enabled: true,
			Level:   level,
		},
	}
}
