package scaler

import (
	"fmt"
	"io"

	"github.com/xaionaro-go/hwscaler/types"
	"gopkg.in/yaml.v3"
)

// Config is the serializable configuration of a scaler and of the stream
// it is negotiated for.
type Config struct {
	Input          types.VideoFormat `yaml:"input"`
	Output         types.VideoFormat `yaml:"output"`
	Layer          int32             `yaml:"layer,omitempty"`
	UpdatePriority int32             `yaml:"update_priority,omitempty"`
}

func DefaultConfig() Config {
	return Config{
		Input: types.VideoFormat{
			PixelFormat: types.PixelFormatPackedRGBA32,
		},
		Output: types.VideoFormat{
			PixelFormat: types.PixelFormatPackedRGBA32,
		},
	}
}

func (cfg Config) Options() Options {
	return Options{
		OptionLayer{Layer: cfg.Layer},
		OptionUpdatePriority{Priority: cfg.UpdatePriority},
	}
}

// ReadConfig parses a YAML config on top of DefaultConfig.
func ReadConfig(r io.Reader) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.NewDecoder(r).Decode(&cfg); err != nil && err != io.EOF {
		return cfg, fmt.Errorf("unable to decode the config: %w", err)
	}
	return cfg, nil
}

func (cfg Config) WriteTo(w io.Writer) (int64, error) {
	b, err := yaml.Marshal(cfg)
	if err != nil {
		return 0, fmt.Errorf("unable to encode the config: %w", err)
	}
	n, err := w.Write(b)
	return int64(n), err
}
