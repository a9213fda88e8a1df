package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	gorevalidate "github.com/validstore/go-revalidate"
)

type config struct {
	Listen   string        `yaml:"listen"`
	Defaults policyConfig  `yaml:"defaults"`
	Routes   []routeConfig `yaml:"routes"`
}

type routeConfig struct {
	Path   string       `yaml:"path"`
	Policy policyConfig `yaml:",inline"`
}

type policyConfig struct {
	NoStore         *bool `yaml:"no_store"`
	NoCache         *bool `yaml:"no_cache"`
	MustRevalidate  *bool `yaml:"must_revalidate"`
	ProxyRevalidate *bool `yaml:"proxy_revalidate"`
	NoTransform     *bool `yaml:"no_transform"`
	MaxAge          *int  `yaml:"max_age"`
	SharedMaxAge    *int  `yaml:"s_max_age"`
	Public          *bool `yaml:"public"`
	Private         *bool `yaml:"private"`

	WeakETag *bool    `yaml:"weak_etag"`
	VaryBy   []string `yaml:"vary_by"`
}

func (p policyConfig) policy() gorevalidate.Policy {
	return gorevalidate.Policy{
		Expiration: gorevalidate.ExpirationPolicy{
			NoStore:         p.NoStore,
			NoCache:         p.NoCache,
			MustRevalidate:  p.MustRevalidate,
			ProxyRevalidate: p.ProxyRevalidate,
			NoTransform:     p.NoTransform,
			MaxAge:          p.MaxAge,
			SharedMaxAge:    p.SharedMaxAge,
			Public:          p.Public,
			Private:         p.Private,
		},
		Validation: gorevalidate.ValidationPolicy{
			WeakETag: p.WeakETag,
			VaryBy:   p.VaryBy,
		},
	}
}

func loadConfig(path string) (config, error) {
	c := config{Listen: ":8080"}
	if path == "" {
		return c, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return c, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &c); err != nil {
		return c, fmt.Errorf("parse config: %w", err)
	}
	if c.Listen == "" {
		c.Listen = ":8080"
	}
	return c, nil
}
