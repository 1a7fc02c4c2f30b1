// Package cli holds the jackut command line.
package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/sidereusnuntius/jackut/internal/config"
	"github.com/sidereusnuntius/jackut/internal/dispatch"
	"github.com/sidereusnuntius/jackut/internal/initialization"
	"github.com/sidereusnuntius/jackut/internal/script"
	"github.com/sidereusnuntius/jackut/internal/service/impl"
	"github.com/sidereusnuntius/jackut/internal/session"
	"github.com/sidereusnuntius/jackut/internal/state"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var ErrScriptFailed = errors.New("script failed")

type app struct {
	v   *viper.Viper
	cfg config.Configuration
}

// NewRootCommand builds the jackut command tree. Flags override the config file and environment.
func NewRootCommand() *cobra.Command {
	a := &app{v: viper.New()}

	root := &cobra.Command{
		Use:           "jackut",
		Short:         "A small social network driven by acceptance scripts",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.configure(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.String("config", "", "config file (default: jackut.{yaml,toml,json} in . or $HOME/.jackut)")
	flags.Bool("debug", false, "log at debug level")
	flags.String("data-dir", "", "directory of the persisted documents")
	flags.String("backend", "", "storage backend: file or sqlite")
	a.v.BindPFlag("debug", flags.Lookup("debug"))
	a.v.BindPFlag("data_dir", flags.Lookup("data-dir"))
	a.v.BindPFlag("backend", flags.Lookup("backend"))

	root.AddCommand(
		&cobra.Command{
			Use:   "run <script>...",
			Short: "Run acceptance scripts in order, sharing one network",
			Args:  cobra.MinimumNArgs(1),
			RunE:  a.runScripts,
		},
		&cobra.Command{
			Use:   "shell",
			Short: "Read commands from standard input and print their output",
			Args:  cobra.NoArgs,
			RunE:  a.shell,
		},
		&cobra.Command{
			Use:   "reset",
			Short: "Remove every account and community",
			Args:  cobra.NoArgs,
			RunE:  a.reset,
		},
	)
	return root
}

func (a *app) configure(cmd *cobra.Command) (err error) {
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		a.v.SetConfigFile(path)
	}
	if a.cfg, err = config.Load(a.v); err != nil {
		return err
	}

	if a.cfg.Debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
	log.Debug().Interface("config", a.cfg).Msg("configuration loaded")
	return nil
}

// open wires storage, service and dispatcher. The returned function releases the storage.
func (a *app) open() (*dispatch.Dispatcher, *impl.AppService, func() error, error) {
	store, closeFn, err := initialization.OpenStorage(&a.cfg)
	if err != nil {
		return nil, nil, nil, err
	}

	svc, err := impl.New(&state.State{Storage: store, Config: a.cfg})
	if err != nil {
		closeFn()
		return nil, nil, nil, err
	}
	return dispatch.New(svc, session.NewManager()), svc, closeFn, nil
}

func (a *app) runScripts(cmd *cobra.Command, args []string) error {
	d, _, closeFn, err := a.open()
	if err != nil {
		return err
	}
	defer closeFn()

	in := script.New(d, cmd.OutOrStdout())
	failed := 0
	for _, path := range args {
		res, err := runFile(in, path)
		if err != nil {
			return err
		}
		for _, f := range res.Failures {
			fmt.Fprintln(cmd.ErrOrStderr(), f)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %d commands, %d failed\n", path, res.Commands, len(res.Failures))
		failed += len(res.Failures)
	}

	if failed > 0 {
		return fmt.Errorf("%w: %d expectations not met", ErrScriptFailed, failed)
	}
	return nil
}

func runFile(in *script.Interpreter, path string) (script.Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return script.Result{}, err
	}
	defer f.Close()
	return in.Run(path, f)
}

func (a *app) shell(cmd *cobra.Command, args []string) error {
	d, _, closeFn, err := a.open()
	if err != nil {
		return err
	}
	defer closeFn()

	in := script.New(d, cmd.OutOrStdout())
	in.Trace = true
	return interact(in, cmd.InOrStdin(), cmd.ErrOrStderr())
}

// interact runs one line at a time so failures show up as soon as they happen.
func interact(in *script.Interpreter, r io.Reader, errOut io.Writer) error {
	sc := bufio.NewScanner(r)
	for n := 1; sc.Scan(); n++ {
		line := strings.TrimSpace(sc.Text())
		if line == "quit" {
			return nil
		}

		res, err := in.Run(fmt.Sprintf("stdin:%d", n), strings.NewReader(line))
		if err != nil {
			return err
		}
		for _, f := range res.Failures {
			fmt.Fprintln(errOut, f.Message)
		}
	}
	return sc.Err()
}

func (a *app) reset(cmd *cobra.Command, args []string) error {
	_, svc, closeFn, err := a.open()
	if err != nil {
		return err
	}
	defer closeFn()

	if err = svc.Reset(); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "network reset")
	return nil
}
