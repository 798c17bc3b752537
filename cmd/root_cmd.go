package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/dzjyyds666/tomljson/convert"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const version = "tomljson v0.1 -- HEAD"

type ConvertParams struct {
	Config   string `json:"config"`    // 配置文件路径
	Indent   string `json:"indent"`    // 缩进
	Ext      string `json:"ext"`       // 输出文件扩展名
	FailFast bool   `json:"fail_fast"` // 第一个错误后停止其他文件
	Workers  int    `json:"workers"`
	LogLevel string `json:"log_level"`
	LogFmt   string `json:"log_format"`
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	params := &ConvertParams{}
	rootCmd := &cobra.Command{
		Use:   "tomljson [flags] FILE...",
		Short: "tomljson converts block-structured config files to JSON.",
		Long: "tomljson converts config files made of [block] headers and key = value lines into JSON.\n" +
			"Each FILE is converted independently and written next to it with its extension replaced.\n" +
			"A file named like a subcommand (e.g. version) needs a path prefix: ./version.",
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return params.run(cmd, args)
		},
	}

	defaults := DefaultConfig()
	flags := rootCmd.Flags()
	flags.StringVarP(&params.Config, "config", "c", "", "config file path")
	flags.StringVar(&params.Indent, "indent", defaults.Output.Indent, "indentation of the JSON output")
	flags.StringVar(&params.Ext, "ext", defaults.Output.Extension, "extension of the output files")
	flags.BoolVar(&params.FailFast, "fail-fast", defaults.Run.FailFast, "stop pending conversions after the first failure")
	flags.IntVar(&params.Workers, "workers", defaults.Run.Workers, "max concurrent conversions, 0 for one per file")
	flags.StringVar(&params.LogLevel, "log-level", defaults.Log.Level, "log level: debug, info, warn, error")
	flags.StringVar(&params.LogFmt, "log-format", defaults.Log.Format, "log format: text or json")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version number of tomljson",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version)
		},
	})
	return rootCmd
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := NewRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		for _, line := range strings.Split(err.Error(), "\n") {
			fmt.Fprintln(os.Stderr, "error:", line)
		}
		os.Exit(1)
	}
}

// resolve merges defaults, the config file and explicitly set flags, in
// that order.
func (p *ConvertParams) resolve(flags *pflag.FlagSet) (Config, error) {
	cfg := DefaultConfig()
	if p.Config != "" {
		var err error
		if cfg, err = LoadConfig(p.Config, cfg); err != nil {
			return Config{}, err
		}
	}
	if flags.Changed("indent") {
		cfg.Output.Indent = p.Indent
	}
	if flags.Changed("ext") {
		cfg.Output.Extension = p.Ext
	}
	if flags.Changed("fail-fast") {
		cfg.Run.FailFast = p.FailFast
	}
	if flags.Changed("workers") {
		cfg.Run.Workers = p.Workers
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = p.LogLevel
	}
	if flags.Changed("log-format") {
		cfg.Log.Format = p.LogFmt
	}
	return cfg, cfg.Validate()
}

func (p *ConvertParams) run(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return convert.ErrMissingArguments
	}
	cfg, err := p.resolve(cmd.Flags())
	if err != nil {
		return err
	}

	logger := newLogger(cfg.Log.Level, cfg.Log.Format, cmd.ErrOrStderr())
	logger.Debug("starting conversion", "files", len(args), "workers", cfg.Run.Workers, "fail_fast", cfg.Run.FailFast)

	results, err := convert.Run(cmd.Context(), args, convert.Options{
		Indent:    cfg.Output.Indent,
		Extension: cfg.Output.Extension,
		FailFast:  cfg.Run.FailFast,
		Workers:   cfg.Run.Workers,
		Logger:    logger,
	})
	for _, r := range results {
		fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s\n", r.Path, r.Output)
	}
	return err
}
