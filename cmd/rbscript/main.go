package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/chzyer/readline"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/benz9527/xrbset/lib/infra"
	"github.com/benz9527/xrbset/rbscript"
	"github.com/benz9527/xrbset/xlog"
)

var errScriptFailed = errors.New("script failed")

type banner struct{}

func (banner) JSON() string {
	return `{"app":"rbscript","desc":"ordered set scripting on red-black trees"}`
}

func (banner) PlainText() string {
	return "rbscript: ordered set scripting on red-black trees"
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		if !errors.Is(err, errScriptFailed) {
			_, _ = fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "rbscript [script-file]",
		Short:         "Run ordered set scripts against red-black trees",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.Flags().BoolP("interact", "i", false, "Run rbscript with readline.")
	rootCmd.Flags().String("log-level", "", "Log level: DEBUG, INFO, WARN or ERROR. XLOG_LVL if not set.")
	rootCmd.Flags().String("log-encoder", "text", "Log encoder: json or text.")

	rootCmd.RunE = func(cmd *cobra.Command, args []string) error {
		logger, err := newLogger(cmd.Flags())
		if err != nil {
			return err
		}
		defer func() {
			_ = logger.Sync()
		}()

		if v, err := cmd.Flags().GetBool("interact"); err == nil && v {
			return interact(logger)
		}
		return runScript(cmd, args, logger)
	}
	return rootCmd
}

func newLogger(flags *pflag.FlagSet) (xlog.XLogger, error) {
	opts := make([]xlog.XLoggerOption, 0, 2)
	if lvl, err := flags.GetString("log-level"); err == nil && len(lvl) > 0 {
		level, ok := xlog.ParseLogLevel(lvl)
		if !ok {
			return nil, infra.NewErrorStack("unknown log level " + lvl)
		}
		opts = append(opts, xlog.WithXLoggerLevel(level))
	}
	if enc, err := flags.GetString("log-encoder"); err == nil {
		encoder, ok := xlog.ParseLogEncoder(enc)
		if !ok {
			return nil, infra.NewErrorStack("unknown log encoder " + enc)
		}
		opts = append(opts, xlog.WithXLoggerEncoder(encoder))
	}
	return xlog.NewXLogger(opts...), nil
}

func runScript(cmd *cobra.Command, args []string, logger xlog.XLogger) (err error) {
	var r io.Reader = cmd.InOrStdin()
	source := "stdin"
	if len(args) == 1 {
		f, openErr := os.Open(args[0])
		if openErr != nil {
			return infra.WrapErrorStackWithMessage(openErr, "open script")
		}
		defer func() {
			err = multierr.Append(err, f.Close())
		}()
		r, source = f, args[0]
	}

	it := rbscript.NewInterpreter(
		rbscript.WithOutput(cmd.OutOrStdout()),
		rbscript.WithLogger(logger.Named("rbscript")),
		rbscript.WithEchoComments(true),
	)
	runErr := it.Run(cmd.Context(), r)
	if dumpErr := it.Dump(cmd.OutOrStdout()); dumpErr != nil {
		return dumpErr
	}
	if runErr != nil {
		errs := multierr.Errors(runErr)
		logger.Error(errs[0], "script failed",
			zap.String("script", source),
			zap.Int("failedLines", len(errs)),
		)
		return errScriptFailed
	}
	return nil
}

func interact(logger xlog.XLogger) error {
	logger.Banner(banner{})

	items := lo.Map(append(rbscript.Commands(), "quit", "exit"), func(name string, _ int) readline.PrefixCompleterInterface {
		return readline.PcItem(name)
	})
	l, err := readline.NewEx(&readline.Config{
		Prompt:            "\033[31m»\033[0m ",
		HistoryFile:       filepath.Join(os.TempDir(), "rbscript.history"),
		AutoComplete:      readline.NewPrefixCompleter(items...),
		InterruptPrompt:   "^C",
		EOFPrompt:         "^D",
		HistorySearchFold: true,
	})
	if err != nil {
		return infra.WrapErrorStackWithMessage(err, "readline")
	}
	defer func() {
		_ = l.Close()
	}()

	it := rbscript.NewInterpreter(
		rbscript.WithOutput(l.Stdout()),
		rbscript.WithLogger(logger.Named("rbscript")),
	)
	for {
		line, err := l.Readline()
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) || errors.Is(err, io.EOF) {
				break
			}
			continue
		}
		if line == "exit" {
			break
		}
		if err = it.Exec(line); errors.Is(err, rbscript.ErrQuit) {
			break
		}
	}
	return it.Dump(l.Stdout())
}
