package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/dd0wney/cluso-atlas/pkg/algorithms"
	"github.com/dd0wney/cluso-atlas/pkg/layoutcache"
	"github.com/dd0wney/cluso-atlas/pkg/validation"
)

// Load reads, resolves and validates a config file. ${VAR} references are
// expanded from the environment before parsing.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	cfg.resolvePaths(filepath.Dir(path))
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes a config document over Default. Unknown keys are rejected.
// The result is not validated.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader([]byte(os.ExpandEnv(string(data)))))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

func (c *Config) resolvePaths(base string) {
	for _, p := range []*string{
		&c.Inputs.Aliases,
		&c.Inputs.Documents,
		&c.Inputs.Posts,
		&c.Inputs.Categories,
		&c.Export.Dir,
		&c.Metrics.Textfile,
		&c.Cache.Dir,
		&c.Cache.Path,
	} {
		if *p != "" && !filepath.IsAbs(*p) {
			*p = filepath.Join(base, *p)
		}
	}
}

// Validate checks field constraints and then the rules that span sections
func (c *Config) Validate() error {
	if err := validation.Struct(c); err != nil {
		return err
	}

	cv := validation.NewConfigValidator("config")
	cv.Custom("inputs", func() error {
		if !c.HasLink() && !c.HasCoMention() {
			return errors.New("documents or posts are required")
		}
		return nil
	})
	cv.When(c.HasLink() && c.HasCoMention(), func(v *validation.ConfigValidator) {
		v.Custom("comention.name", func() error {
			if c.CoMention.Name == c.Link.Name {
				return fmt.Errorf("graph name %q is already used by the link graph", c.Link.Name)
			}
			return nil
		})
	})
	cv.When(c.Inputs.Categories != "", func(v *validation.ConfigValidator) {
		v.Required("inputs.documents", c.Inputs.Documents)
	})
	cv.When(len(c.Categories.Axes) > 0, func(v *validation.ConfigValidator) {
		v.Required("inputs.categories", c.Inputs.Categories)
	})

	for i, run := range c.Communities {
		field := fmt.Sprintf("communities[%d].graph", i)
		switch run.Graph {
		case GraphLink:
			cv.When(!c.HasLink(), func(v *validation.ConfigValidator) {
				v.Custom(field, func() error { return errors.New("link graph needs inputs.documents") })
			})
		case GraphCoMention:
			cv.When(!c.HasCoMention(), func(v *validation.ConfigValidator) {
				v.Custom(field, func() error { return errors.New("co-mention graph needs inputs.posts") })
			})
		case GraphJoint:
			cv.When(!c.HasLink() || !c.HasCoMention(), func(v *validation.ConfigValidator) {
				v.Custom(field, func() error { return errors.New("joint detection needs inputs.documents and inputs.posts") })
			})
		}
		cv.Custom(fmt.Sprintf("communities[%d].prefix", i), func() error {
			return validation.ValidateAttributeName(run.Prefix)
		})
	}

	cv.NonNegativeDuration("layout.max_age", c.Layout.MaxAge)
	cv.When(c.Cache.Backend == layoutcache.BackendPostgres, func(v *validation.ConfigValidator) {
		v.Custom("cache.dsn", func() error {
			if c.Cache.DSN == "" && os.Getenv("ATLAS_CACHE_DSN") == "" {
				return errors.New("postgres cache needs a dsn or ATLAS_CACHE_DSN")
			}
			return nil
		})
	})

	for i, attr := range c.Export.NodeAttributes {
		cv.Custom(fmt.Sprintf("export.node_attributes[%d]", i), func() error {
			return validation.ValidateAttributeName(attr)
		})
	}
	for i, attr := range c.Export.EdgeAttributes {
		cv.Custom(fmt.Sprintf("export.edge_attributes[%d]", i), func() error {
			return validation.ValidateAttributeName(attr)
		})
	}

	cv.NonEmpty("stats.metrics", len(c.Stats.Metrics))
	for i, m := range c.Stats.Metrics {
		cv.Custom(fmt.Sprintf("stats.metrics[%d]", i), func() error {
			_, err := algorithms.ParseMetric(m)
			return err
		})
	}

	return cv.Validate()
}
