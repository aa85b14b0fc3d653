// SPDX-License-Identifier: MIT

package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "LADDER"

// Load returns Defaults overlaid with the YAML file at path (skipped when
// path is empty) and the LADDER_* environment, then validated.
func Load(path string) (Config, error) {
	cfg := Defaults()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("%w: %v", ErrRead, err)
		}
		if err = decodeYAML(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("%w: %s: %v", ErrRead, path, err)
		}
	}
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return Config{}, fmt.Errorf("%w: environment: %v", ErrRead, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// decodeYAML overlays data onto cfg, rejecting unknown keys.
func decodeYAML(data []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// Marshal renders cfg as YAML.
func Marshal(cfg Config) ([]byte, error) {
	return yaml.Marshal(cfg)
}

var validate = validator.New()

// Validate checks field ranges and cross-field consistency.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if !c.Cepheids.Include && !c.TRGB.Include {
		return fmt.Errorf("%w: neither Cepheids nor TRGB is included", ErrInvalid)
	}
	if c.Cepheids.FixedZP && c.Cepheids.MultipleZP {
		return fmt.Errorf("%w: fixed_zp and multiple_zp are exclusive", ErrInvalid)
	}
	if c.SNe.ZMin >= c.SNe.ZMax {
		return fmt.Errorf("%w: z_min %g must be below z_max %g", ErrInvalid, c.SNe.ZMin, c.SNe.ZMax)
	}
	if c.Outliers.Enabled && !c.Cepheids.Include && !c.SNe.FitAB {
		return fmt.Errorf("%w: outlier rejection needs Cepheids or fit_ab", ErrInvalid)
	}
	if (c.Corrections.KCorrCep || c.Corrections.KCorrTRGB) && c.Paths.ReferenceTable == "" {
		return fmt.Errorf("%w: K-corrections need paths.reference_table", ErrInvalid)
	}
	return nil
}
