package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.yaml.in/yaml/v4"

	"github.com/erraggy/oascompose/docserver"
	"github.com/erraggy/oascompose/document"
	"github.com/erraggy/oascompose/joiner"
	"github.com/erraggy/oascompose/registry"
)

// ComposeConfig captures everything that influences join, nest and serve
// after merging defaults, config file values and CLI overrides.
type ComposeConfig struct {
	Inputs          []string      `yaml:"inputs"`
	Parent          string        `yaml:"parent"`
	Mounts          []MountConfig `yaml:"mounts"`
	Output          string        `yaml:"output"`
	Format          string        `yaml:"format"`
	OpenAPIVersion  string        `yaml:"openapi_version"`
	DuplicatePolicy string        `yaml:"duplicate_policy"`
	InfoOverride    bool          `yaml:"info_override"`
	PropertyOrder   string        `yaml:"property_order"`
	PathOrder       string        `yaml:"path_order"`
	Validate        bool          `yaml:"validate"`
	Serve           ServeConfig   `yaml:"serve"`

	ConfigPath string `yaml:"-"`
	Verbose    bool   `yaml:"-"`
}

// MountConfig is one child document of the nest command.
type MountConfig struct {
	Prefix string   `yaml:"prefix"`
	File   string   `yaml:"file"`
	Tags   []string `yaml:"tags"`
	Name   string   `yaml:"name"`
}

// ServeConfig holds the documentation server settings.
type ServeConfig struct {
	Addr             string         `yaml:"addr"`
	BasePath         string         `yaml:"base_path"`
	Viewers          []string       `yaml:"viewers"`
	SpecURL          string         `yaml:"spec_url"`
	Title            string         `yaml:"title"`
	DisableYAML      bool           `yaml:"disable_yaml"`
	SwaggerUIOptions map[string]any `yaml:"swagger_ui_options"`
}

func defaultComposeConfig() ComposeConfig {
	return ComposeConfig{
		DuplicatePolicy: string(document.PolicyMergeTagsAndResponses),
		PropertyOrder:   string(registry.Insertion),
		PathOrder:       string(registry.Insertion),
		Serve: ServeConfig{
			Addr:     "127.0.0.1:8080",
			BasePath: "/",
		},
	}
}

// addComposeFlags registers the flags shared by join, nest and serve.
func addComposeFlags(flags *pflag.FlagSet) {
	flags.String("openapi-version", "", "OpenAPI version to emit (3.0|3.1); defaults to the first input's version")
	flags.String("duplicate-policy", "", "Duplicate operation policy (reject|overwrite|merge); defaults to merge")
	flags.Bool("info-override", false, "Let later documents replace non-empty info fields")
	flags.String("property-order", "", "Property and component order (insertion|lexicographic)")
	flags.String("path-order", "", "Path order (insertion|lexicographic)")
}

// addOutputFlags registers the flags of commands that write a document.
func addOutputFlags(flags *pflag.FlagSet) {
	flags.StringP("output", "o", "", "Output file (stdout when omitted or -)")
	flags.StringP("format", "f", "", "Output format (json|yaml); defaults to the output extension, then yaml")
	flags.Bool("validate", false, "Validate the composed document before writing it")
}

// resolveComposeConfig merges defaults, the --config file and the flags the
// user changed, in that order. Positional args replace the inputs.
func resolveComposeConfig(cmd *cobra.Command, args []string) (*ComposeConfig, error) {
	cfg := defaultComposeConfig()

	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	configPath = strings.TrimSpace(configPath)
	if configPath != "" {
		cfg.ConfigPath = configPath
		if err := applyComposeConfigFromFile(&cfg, configPath); err != nil {
			return nil, err
		}
	}

	if err := applyComposeFlagOverrides(cmd.Flags(), &cfg); err != nil {
		return nil, err
	}
	if len(args) > 0 {
		cfg.Inputs = args
	}

	cfg.normalize()
	if err := cfg.validate(cmd.Name()); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyComposeConfigFromFile(cfg *ComposeConfig, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return newUsageError(fmt.Sprintf("config: %v", err))
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return newUsageError(fmt.Sprintf("config %s: %v", path, err))
	}
	return nil
}

func applyComposeFlagOverrides(flags *pflag.FlagSet, cfg *ComposeConfig) error {
	stringFlags := map[string]*string{
		"output":           &cfg.Output,
		"format":           &cfg.Format,
		"openapi-version":  &cfg.OpenAPIVersion,
		"duplicate-policy": &cfg.DuplicatePolicy,
		"property-order":   &cfg.PropertyOrder,
		"path-order":       &cfg.PathOrder,
		"parent":           &cfg.Parent,
		"addr":             &cfg.Serve.Addr,
		"base-path":        &cfg.Serve.BasePath,
		"spec-url":         &cfg.Serve.SpecURL,
		"title":            &cfg.Serve.Title,
	}
	for name, dst := range stringFlags {
		if flags.Lookup(name) == nil || !flags.Changed(name) {
			continue
		}
		value, err := flags.GetString(name)
		if err != nil {
			return err
		}
		*dst = value
	}

	boolFlags := map[string]*bool{
		"info-override": &cfg.InfoOverride,
		"validate":      &cfg.Validate,
		"no-yaml":       &cfg.Serve.DisableYAML,
		"verbose":       &cfg.Verbose,
	}
	for name, dst := range boolFlags {
		if flags.Lookup(name) == nil || !flags.Changed(name) {
			continue
		}
		value, err := flags.GetBool(name)
		if err != nil {
			return err
		}
		*dst = value
	}

	if flags.Lookup("viewer") != nil && flags.Changed("viewer") {
		value, err := flags.GetStringSlice("viewer")
		if err != nil {
			return err
		}
		cfg.Serve.Viewers = value
	}
	if flags.Lookup("mount") != nil && flags.Changed("mount") {
		values, err := flags.GetStringArray("mount")
		if err != nil {
			return err
		}
		mounts := make([]MountConfig, 0, len(values))
		for _, v := range values {
			m, err := parseMountFlag(v)
			if err != nil {
				return err
			}
			mounts = append(mounts, m)
		}
		cfg.Mounts = mounts
	}
	return nil
}

// parseMountFlag parses PREFIX=FILE[,TAG...].
func parseMountFlag(s string) (MountConfig, error) {
	prefix, rest, ok := strings.Cut(s, "=")
	if !ok || strings.TrimSpace(rest) == "" {
		return MountConfig{}, newUsageError(fmt.Sprintf("--mount %q: expected PREFIX=FILE[,TAG...]", s))
	}
	parts := strings.Split(rest, ",")
	return MountConfig{
		Prefix: prefix,
		File:   parts[0],
		Tags:   parts[1:],
	}, nil
}

func (c *ComposeConfig) normalize() {
	c.Inputs = trimAll(c.Inputs)
	c.Parent = strings.TrimSpace(c.Parent)
	c.Output = strings.TrimSpace(c.Output)
	c.Format = strings.ToLower(strings.TrimSpace(c.Format))
	c.OpenAPIVersion = strings.TrimSpace(c.OpenAPIVersion)
	for i := range c.Mounts {
		m := &c.Mounts[i]
		m.Prefix = strings.TrimSpace(m.Prefix)
		m.File = strings.TrimSpace(m.File)
		m.Name = strings.TrimSpace(m.Name)
		m.Tags = trimAll(m.Tags)
	}
	c.Serve.Addr = strings.TrimSpace(c.Serve.Addr)
	c.Serve.BasePath = strings.TrimSpace(c.Serve.BasePath)
	c.Serve.Viewers = trimAll(c.Serve.Viewers)
}

func (c *ComposeConfig) validate(command string) error {
	if _, err := document.ParseDuplicatePolicy(c.DuplicatePolicy); err != nil {
		return newUsageError(fmt.Sprintf("%s: %v", command, err))
	}
	if c.OpenAPIVersion != "" {
		if _, err := document.ParseVersion(c.OpenAPIVersion); err != nil {
			return newUsageError(fmt.Sprintf("%s: %v", command, err))
		}
	}
	for _, order := range []string{c.PropertyOrder, c.PathOrder} {
		if _, err := registry.ParseOrder(order); err != nil {
			return newUsageError(fmt.Sprintf("%s: %v", command, err))
		}
	}
	switch c.Format {
	case "", "json", "yaml", "yml":
	default:
		return newUsageError(fmt.Sprintf("%s: unsupported --format %q (allowed: json, yaml)", command, c.Format))
	}
	for _, v := range c.Serve.Viewers {
		if _, err := docserver.ParseViewer(v); err != nil {
			return newUsageError(fmt.Sprintf("%s: %v", command, err))
		}
	}

	switch command {
	case "join":
		if len(c.Inputs) < 2 {
			return newUsageError("join: at least 2 input files are required (set via args or config file)")
		}
	case "nest":
		if len(c.Mounts) == 0 {
			return newUsageError("nest: at least 1 --mount is required (set via flag or config file)")
		}
		for i, m := range c.Mounts {
			if m.File == "" {
				return newUsageError(fmt.Sprintf("nest: mounts[%d]: file is required", i))
			}
		}
	case "serve":
		if len(c.Inputs) == 0 && len(c.Mounts) == 0 {
			return newUsageError("serve: at least 1 input file or mount is required")
		}
		if c.Serve.Addr == "" {
			return newUsageError("serve: --addr must not be empty")
		}
	}
	return nil
}

// joinerConfig builds the joiner configuration. The version falls back to
// first, the version of the first input, when none was configured.
func (c *ComposeConfig) joinerConfig(first document.OASVersion) (joiner.JoinerConfig, error) {
	jc := joiner.DefaultConfig()
	policy, err := document.ParseDuplicatePolicy(c.DuplicatePolicy)
	if err != nil {
		return jc, err
	}
	jc.DuplicatePolicy = policy
	jc.InfoOverride = c.InfoOverride

	switch {
	case c.OpenAPIVersion != "":
		v, err := document.ParseVersion(c.OpenAPIVersion)
		if err != nil {
			return jc, err
		}
		jc.Document.OpenAPIVersion = v
	case first != "":
		jc.Document.OpenAPIVersion = first
	}
	if jc.Document.PropertyOrder, err = registry.ParseOrder(c.PropertyOrder); err != nil {
		return jc, err
	}
	if jc.Document.PathOrder, err = registry.ParseOrder(c.PathOrder); err != nil {
		return jc, err
	}
	return jc, jc.Validate()
}

// docserverConfig converts the serve settings.
func (c *ComposeConfig) docserverConfig() (docserver.Config, error) {
	sc := docserver.Config{
		BasePath:         c.Serve.BasePath,
		SpecURL:          c.Serve.SpecURL,
		Title:            c.Serve.Title,
		DisableYAML:      c.Serve.DisableYAML,
		SwaggerUIOptions: c.Serve.SwaggerUIOptions,
	}
	for _, name := range c.Serve.Viewers {
		v, err := docserver.ParseViewer(name)
		if err != nil {
			return sc, err
		}
		sc.Viewers = append(sc.Viewers, v)
	}
	return sc, nil
}

func trimAll(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
