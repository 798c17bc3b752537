package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
)

// Config 是配置文件的结构，命令行参数会覆盖这里的值
type Config struct {
	Output OutputConfig `toml:"output"`
	Run    RunConfig    `toml:"run"`
	Log    LogConfig    `toml:"log"`
}

type OutputConfig struct {
	Indent    string `toml:"indent"`    // 缩进
	Extension string `toml:"extension"` // 输出文件扩展名
}

type RunConfig struct {
	FailFast bool `toml:"fail_fast"`
	Workers  int  `toml:"workers"` // 0 表示每个文件一个 worker
}

type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

func DefaultConfig() Config {
	return Config{
		Output: OutputConfig{Indent: "  ", Extension: ".json"},
		Log:    LogConfig{Level: "info", Format: "text"},
	}
}

// LoadConfig decodes the file at path over base. Keys missing from the
// file keep the values of base.
func LoadConfig(path string, base Config) (Config, error) {
	cfg := base
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("load config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("load config %s: unknown keys %s", path, strings.Join(keys, ", "))
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level %q: must be 'debug', 'info', 'warn', or 'error'", c.Log.Level)
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("invalid log format %q: must be 'text' or 'json'", c.Log.Format)
	}
	if !strings.HasPrefix(c.Output.Extension, ".") || len(c.Output.Extension) < 2 {
		return fmt.Errorf("invalid extension %q: must start with '.'", c.Output.Extension)
	}
	if c.Run.Workers < 0 {
		return errors.New("workers must not be negative")
	}
	return nil
}
