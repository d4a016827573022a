package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/ppiankov/qfilter/internal/cache"
	"github.com/ppiankov/qfilter/internal/filters"
	"github.com/ppiankov/qfilter/internal/logging"
	"github.com/ppiankov/qfilter/internal/model"
	"github.com/ppiankov/qfilter/internal/query"
)

// Version is the release reported by the version command
const Version = "v0.3.0"

// envPrefix scopes environment overrides, e.g. QFILTER_SERVER_ADDR
const envPrefix = "QFILTER"

// options holds state shared by every subcommand of one root command
type options struct {
	cfgFile string
	verbose bool
	format  string

	cfg    *model.Config
	logger *zap.Logger
	editor *filters.Editor
}

// NewRootCmd builds the command tree
func NewRootCmd() *cobra.Command {
	o := &options{}

	rootCmd := &cobra.Command{
		Use:   "qfilter",
		Short: "qfilter - search query filter editor",
		Long: `qfilter reads and rewrites code search queries.

It resolves which result type a query asks for (code, repositories, paths,
symbols, commits, diffs), rewrites the type: filter when the type changes,
toggles sidebar filters and builds permalinks for result pages.

Queries are treated as plain text: only the filters qfilter edits are
touched, everything else is left exactly as written.`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return o.init(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if o.logger != nil {
				_ = o.logger.Sync()
			}
		},
	}

	rootCmd.PersistentFlags().StringVar(&o.cfgFile, "config", "", "config file (default: $HOME/.qfilter/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&o.verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVarP(&o.format, "format", "o", "", "output format: text, json, yaml")

	rootCmd.AddCommand(
		newVersionCmd(),
		newConfigCmd(o),
		newResolveCmd(o),
		newSetTypeCmd(o),
		newToggleCmd(o),
		newSidebarCmd(o),
		newFieldsCmd(o),
		newBatchCmd(o),
		newPermalinkCmd(o),
		newServeCmd(o),
	)
	return rootCmd
}

// Execute runs the root command
func Execute() error {
	return NewRootCmd().Execute()
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long:  `Display the version number of qfilter.`,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "qfilter %s\n", Version)
		},
	}
}

// init loads configuration and builds the shared logger and editor
func (o *options) init(cmd *cobra.Command) error {
	cfg, err := loadConfig(cmd, o.cfgFile)
	if err != nil {
		return err
	}
	if err := checkFormat(cfg.Output.Format); err != nil {
		return err
	}
	o.cfg = cfg

	logger, err := logging.New(cfg.Output.Verbose)
	if err != nil {
		return err
	}
	o.logger = logger
	o.editor = newEditor(cfg.Cache)
	return nil
}

// newEditor returns an editor whose scans are memoized when caching is on
func newEditor(cfg model.CacheConfig) *filters.Editor {
	if !cfg.Enabled {
		return filters.NewEditor(nil)
	}
	mem := cache.NewMemoryCache(cfg.TTL, cfg.CleanupInterval)
	return filters.NewEditor(cache.NewCachingScanner(query.DefaultScanner, mem, cfg.TTL))
}

// loadConfig merges defaults, the config file, QFILTER_* environment
// variables and flags, lowest priority first
func loadConfig(cmd *cobra.Command, cfgFile string) (*model.Config, error) {
	v := viper.New()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			v.AddConfigPath(filepath.Join(home, ".qfilter"))
		}
		v.SetConfigType("yaml")
		v.SetConfigName("config")
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := setDefaults(v, model.DefaultConfig()); err != nil {
		return nil, err
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	flags := cmd.Root().PersistentFlags()
	if flags.Changed("verbose") {
		_ = v.BindPFlag("output.verbose", flags.Lookup("verbose"))
	}
	if flags.Changed("format") {
		_ = v.BindPFlag("output.format", flags.Lookup("format"))
	}

	cfg := model.DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return cfg, nil
}

// setDefaults registers every default key so environment variables can
// override nested settings
func setDefaults(v *viper.Viper, cfg *model.Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal defaults: %w", err)
	}
	var tree map[string]any
	if err := yaml.Unmarshal(data, &tree); err != nil {
		return fmt.Errorf("unmarshal defaults: %w", err)
	}
	setDefaultTree(v, "", tree)
	return nil
}

func setDefaultTree(v *viper.Viper, prefix string, tree map[string]any) {
	for key, val := range tree {
		if prefix != "" {
			key = prefix + "." + key
		}
		if sub, ok := val.(map[string]any); ok {
			setDefaultTree(v, key, sub)
			continue
		}
		v.SetDefault(key, val)
	}
}
