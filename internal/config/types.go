package config

import "time"

// Config is the asynctask configuration file.
type Config struct {
	Version int           `yaml:"version" toml:"version"`
	Session SessionConfig `yaml:"session" toml:"session"`
	Output  OutputConfig  `yaml:"output" toml:"output"`
	Journal JournalConfig `yaml:"journal" toml:"journal"`
	Units   []UnitConfig  `yaml:"units" toml:"units"`
	Waits   []WaitConfig  `yaml:"waits" toml:"waits"`
}

// SessionConfig tunes the owner loop and the execution slots.
type SessionConfig struct {
	PollInterval string `yaml:"poll_interval" toml:"poll_interval"`
	Jobs         int    `yaml:"jobs" toml:"jobs"`
	Yield        bool   `yaml:"yield" toml:"yield"`
}

// OutputConfig selects how progress is shown.
type OutputConfig struct {
	UI        string `yaml:"ui" toml:"ui"`
	NoColor   bool   `yaml:"no_color" toml:"no_color"`
	Verbosity string `yaml:"verbosity" toml:"verbosity"`
}

// JournalConfig enables the event journal when Path is set.
type JournalConfig struct {
	Driver string `yaml:"driver" toml:"driver"`
	Path   string `yaml:"path" toml:"path"`
}

// UnitConfig describes one background command.
type UnitConfig struct {
	Name      string            `yaml:"name" toml:"name"`
	Category  string            `yaml:"category" toml:"category"`
	Command   []string          `yaml:"command" toml:"command"`
	Dir       string            `yaml:"dir" toml:"dir"`
	Env       map[string]string `yaml:"env" toml:"env"`
	Timeout   string            `yaml:"timeout" toml:"timeout"`
	ErrorCode string            `yaml:"error_code" toml:"error_code"`
}

// WaitConfig is one wait step run on the owner after all units started.
type WaitConfig struct {
	Categories []string `yaml:"categories" toml:"categories"`
	ErrorCode  string   `yaml:"error_code" toml:"error_code"`
}

// PollIntervalDuration returns the parsed poll interval, zero when unset or
// invalid.
func (s SessionConfig) PollIntervalDuration() time.Duration {
	return parseDuration(s.PollInterval)
}

// TimeoutDuration returns the parsed timeout, zero when unset or invalid.
func (u UnitConfig) TimeoutDuration() time.Duration {
	return parseDuration(u.Timeout)
}

func parseDuration(value string) time.Duration {
	if value == "" {
		return 0
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0
	}
	return d
}

// Categories returns the distinct unit categories in first-seen order.
func (c Config) Categories() []string {
	seen := map[string]struct{}{}
	var out []string
	for _, unit := range c.Units {
		if _, ok := seen[unit.Category]; ok {
			continue
		}
		seen[unit.Category] = struct{}{}
		out = append(out, unit.Category)
	}
	return out
}
