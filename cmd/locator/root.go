package main

import (
	"io"
	"maps"

	"github.com/spf13/cobra"

	"github.com/kbukum/locator/bootstrap"
	"github.com/kbukum/locator/config"
	"github.com/kbukum/locator/di"
	"github.com/kbukum/locator/validation"
	"github.com/kbukum/locator/version"
)

var (
	cfgFile string
	envFile string
)

var rootCmd = &cobra.Command{
	Use:   "locator",
	Short: "Compose, validate and inspect a service container",
	Long: `locator builds the dojo composition into a container and lets you
inspect it: list its registrations, run the eager validation pass, or serve
the introspection endpoints over HTTP.`,
	Version:       version.Get().String(),
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: ./config/config.yml or ./config.yml)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "",
		"env file to load before binding LOCATOR_* variables")

	rootCmd.AddCommand(listCmd, validateCmd, serveCmd)
}

// Config is the CLI configuration: the service block plus the dojo.
type Config struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`
	Dojo                 DojoConfig `yaml:"dojo" mapstructure:"dojo"`
}

// DojoConfig selects what the dojo composition registers.
type DojoConfig struct {
	Master        string   `yaml:"master" mapstructure:"master" validate:"required"`
	DefaultWeapon string   `yaml:"default_weapon" mapstructure:"default_weapon" validate:"oneof=katana shuriken"`
	Scrolls       []string `yaml:"scrolls" mapstructure:"scrolls"`
}

// ApplyDefaults fills the service defaults and the dojo's default weapon.
func (c *Config) ApplyDefaults() {
	c.ServiceConfig.ApplyDefaults()
	if c.Dojo.DefaultWeapon == "" {
		c.Dojo.DefaultWeapon = "katana"
	}
}

// Validate checks the service block, then the dojo block.
func (c *Config) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}
	return validation.Validate(&c.Dojo)
}

func defaults() map[string]any {
	d := config.DefaultValues()
	maps.Copy(d, map[string]any{
		"version":             version.Version,
		"dojo.master":         "Hattori Hanzo",
		"dojo.default_weapon": "katana",
		"dojo.scrolls":        []string{"iaijutsu", "shurikenjutsu"},
	})
	return d
}

func loadConfig() (*Config, error) {
	opts := []config.LoaderOption{config.WithDefaults(defaults())}
	if cfgFile != "" {
		opts = append(opts, config.WithConfigFile(cfgFile))
	}
	if envFile != "" {
		opts = append(opts, config.WithEnvFile(envFile))
	}

	cfg := &Config{}
	if err := config.LoadConfig("locator", cfg, opts...); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newApp creates the app with the dojo composition attached. The summary
// goes to stderr so command output stays machine readable.
func newApp(cfg *Config, summary io.Writer, opts ...bootstrap.Option) (*bootstrap.App[*Config], error) {
	wirer := di.NewReflectWirer()
	if err := wirer.Provide(NewDojo); err != nil {
		return nil, err
	}

	opts = append([]bootstrap.Option{
		bootstrap.WithContainerOptions(di.WithAutoWirer(wirer)),
		bootstrap.WithSummaryOutput(summary),
	}, opts...)

	app, err := bootstrap.NewApp(cfg, opts...)
	if err != nil {
		return nil, err
	}
	app.OnConfigure(composeDojo)
	return app, nil
}
