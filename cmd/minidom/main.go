package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/vango-dev/minidom/internal/config"
	"github.com/vango-dev/minidom/internal/errors"
	"github.com/vango-dev/minidom/internal/logging"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// cli carries state shared by the subcommands.
type cli struct {
	v       *viper.Viper
	cfgFile string
	cfg     *config.Config
	logger  *slog.Logger
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		errors.Print(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	c := &cli{v: config.NewViper()}

	rootCmd := &cobra.Command{
		Use:   "minidom",
		Short: "A miniature UI runtime",
		Long: `minidom compiles markup templates into node descriptions, reconciles
them into a live document, and routes between components.

Commands:
  render    compile a template file and print the committed HTML
  serve     run the demo app headlessly behind the devtools server
  version   print build information`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if noColor, _ := cmd.Flags().GetBool("no-color"); noColor {
				errors.DisableColors()
			}
			return c.load(cmd.ErrOrStderr())
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&c.cfgFile, "config", "", "config file (default is ./minidom.{json,yaml,toml})")
	flags.String("log-level", "info", "log level (debug, info, warn, error)")
	flags.String("log-format", "text", "log format (text, json)")
	flags.Bool("no-color", false, "disable colored error output")
	_ = c.v.BindPFlag("log.level", flags.Lookup("log-level"))
	_ = c.v.BindPFlag("log.format", flags.Lookup("log-format"))

	rootCmd.AddCommand(
		renderCmd(c),
		serveCmd(c),
		versionCmd(),
	)
	return rootCmd
}

// load reads the configuration and installs the logger.
func (c *cli) load(logOut io.Writer) error {
	cfg, err := config.LoadWith(c.v, c.cfgFile)
	if err != nil {
		return err
	}
	c.cfg = cfg
	c.logger = logging.New(logOut, cfg.Log)
	slog.SetDefault(c.logger)
	if p := cfg.Path(); p != "" {
		c.logger.Debug("config loaded", "path", p)
	}
	return nil
}

// success prints a success message.
func success(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}
