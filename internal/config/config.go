package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/san-kum/decay/internal/dynamo"
	"gopkg.in/yaml.v3"
)

const (
	DefaultI       = 1.0
	DefaultA       = 2.0
	DefaultT       = 8.0
	DefaultDt      = 0.8
	DefaultImgDir  = "./img/chap1/"
	DefaultDataDir = ".decay"
)

// DefaultThetas is the sweep used by the unifying demo.
var DefaultThetas = []float64{0, 0.5, 1}

// Environment variables read by ApplyEnv.
const (
	EnvImgDir  = "DECAY_IMG_DIR"
	EnvDataDir = "DECAY_DATA_DIR"
	EnvDt      = "DECAY_DT"
)

type Config struct {
	Problem ProblemConfig `yaml:"problem"`
	Thetas  []float64     `yaml:"thetas"`
	Output  OutputConfig  `yaml:"output"`
}

type ProblemConfig struct {
	I  float64 `yaml:"I"`
	A  float64 `yaml:"a"`
	T  float64 `yaml:"T"`
	Dt float64 `yaml:"dt"`
}

type OutputConfig struct {
	ImgDir  string `yaml:"img_dir"`
	DataDir string `yaml:"data_dir"`
	Plot    bool   `yaml:"plot"`
	Save    bool   `yaml:"save"`
}

func DefaultConfig() *Config {
	return &Config{
		Problem: ProblemConfig{
			I:  DefaultI,
			A:  DefaultA,
			T:  DefaultT,
			Dt: DefaultDt,
		},
		Thetas: append([]float64(nil), DefaultThetas...),
		Output: OutputConfig{
			ImgDir:  DefaultImgDir,
			DataDir: DefaultDataDir,
			Plot:    true,
		},
	}
}

func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if err := LoadInto(path, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadInto decodes the file at path over cfg. Keys missing from the file
// keep their current values.
func LoadInto(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ApplyEnv loads envFile (if it exists) into the process environment and
// applies the DECAY_* overrides to cfg. Variables already set in the
// environment win over the file.
func (c *Config) ApplyEnv(envFile string) error {
	if envFile != "" {
		if _, err := os.Stat(envFile); err == nil {
			if err := godotenv.Load(envFile); err != nil {
				return fmt.Errorf("load %s: %w", envFile, err)
			}
		}
	}

	if v := os.Getenv(EnvImgDir); v != "" {
		c.Output.ImgDir = v
	}
	if v := os.Getenv(EnvDataDir); v != "" {
		c.Output.DataDir = v
	}
	if v := os.Getenv(EnvDt); v != "" {
		dt, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvDt, err)
		}
		c.Problem.Dt = dt
	}
	return nil
}

// MeshSpec returns the problem as a mesh spec with the given theta.
func (c *Config) MeshSpec(theta float64) dynamo.MeshSpec {
	return dynamo.MeshSpec{
		I:     c.Problem.I,
		A:     c.Problem.A,
		T:     c.Problem.T,
		Dt:    c.Problem.Dt,
		Theta: theta,
	}
}

// Validate checks the problem parameters and every sweep theta.
func (c *Config) Validate() error {
	if len(c.Thetas) == 0 {
		return fmt.Errorf("%w: empty theta list", dynamo.ErrParameterBounds)
	}
	for _, theta := range c.Thetas {
		if err := c.MeshSpec(theta).Validate(); err != nil {
			return err
		}
	}
	return nil
}
