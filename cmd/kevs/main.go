package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/fatih/color"
	"github.com/mitchellh/go-homedir"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var version = "dev"

// app holds the state shared by every command of one invocation.
type app struct {
	v   *viper.Viper
	log zerolog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New(), log: zerolog.Nop()}

	cmd := &cobra.Command{
		Use:           "kevs",
		Short:         "Compile and run kevs register-machine scripts",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			path := a.v.GetString("file")
			if path == "" && len(args) > 0 {
				path = args[0]
			}
			if path == "" {
				return cmd.Help()
			}
			return a.run(cmd, path, a.v.GetBool("debug"))
		},
		Args: cobra.MaximumNArgs(1),
	}

	pf := cmd.PersistentFlags()
	pf.String("config", "", "config file (default is $HOME/.kevs.yaml)")
	pf.Bool("no-color", false, "Disable colored output")
	pf.String("log-level", "warn", "Log level (trace, debug, info, warn, error)")
	pf.StringSlice("load-path", nil, "Directories searched by load statements")

	f := cmd.Flags()
	f.StringP("file", "f", "", "Source file to run")
	f.BoolP("debug", "d", false, "Print the instruction listing and trace execution")

	for _, name := range []string{"no-color", "log-level", "load-path"} {
		_ = a.v.BindPFlag(name, pf.Lookup(name))
	}
	for _, name := range []string{"file", "debug"} {
		_ = a.v.BindPFlag(name, f.Lookup(name))
	}

	cmd.AddCommand(
		a.newRunCmd(),
		a.newCompileCmd(),
		a.newDisCmd(),
		a.newBuiltinsCmd(),
	)
	return cmd
}

// init reads the config file and environment, then configures color and
// logging. Flags take precedence over both.
func (a *app) init(cmd *cobra.Command) error {
	a.v.SetEnvPrefix("kevs")
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()

	if cfgFile, _ := cmd.Flags().GetString("config"); cfgFile != "" {
		a.v.SetConfigFile(cfgFile)
		if err := a.v.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config: %w", err)
		}
	} else if home, err := homedir.Dir(); err == nil {
		path := filepath.Join(home, ".kevs.yaml")
		if _, err := os.Stat(path); err == nil {
			a.v.SetConfigFile(path)
			if err := a.v.ReadInConfig(); err != nil {
				return fmt.Errorf("reading config: %w", err)
			}
		}
	}

	noColor = a.v.GetBool("no-color")
	if noColor || !isTerminal(os.Stdout) {
		color.NoColor = true
	}
	level, err := zerolog.ParseLevel(a.v.GetString("log-level"))
	if err != nil {
		return fmt.Errorf("invalid log level %q", a.v.GetString("log-level"))
	}
	a.log = zerolog.New(zerolog.ConsoleWriter{
		Out:     cmd.ErrOrStderr(),
		NoColor: !colorEnabled(cmd.ErrOrStderr(), noColor),
	}).Level(level).With().Timestamp().Logger()
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		fatal(err)
	}
}
