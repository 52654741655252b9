package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"strings"
	"syscall"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"tocgen/build"
	"tocgen/common"
	"tocgen/config"
	"tocgen/misc"
	"tocgen/state"
)

// stdoutBusy reports whether requested command writes its results to
// standard output, console logging should stay away from it then.
func stdoutBusy(args []string) bool {
	if len(args) == 0 {
		return false
	}
	switch args[0] {
	case "dump":
		return true
	case "dumpconfig":
		return len(args) == 1 || strings.HasPrefix(args[len(args)-1], "-")
	}
	return args[len(args)-1] == build.StdoutName
}

func panicLogName(cfg *config.Config) string {
	return filepath.Join(filepath.Dir(cfg.Logging.FileLogger.Destination), misc.GetAppName()+"-panic.log")
}

// initializeAppContext prepares application context before command execution but
// after command line has been parsed
func initializeAppContext(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	var err error

	if cmd.NArg() == 0 {
		// nothing to do, just return
		return ctx, nil
	}

	env := state.EnvFromContext(ctx)

	configFile := cmd.String("config")
	if env.Cfg, err = config.LoadConfiguration(configFile); err != nil {
		return ctx, fmt.Errorf("unable to prepare configuration: %w", err)
	}
	if cmd.Bool("debug") {
		env.Cfg.Logging.ConsoleLogger.Level = "debug"
		if env.Cfg.Logging.FileLogger.Level != "none" {
			env.Cfg.Logging.FileLogger.Level = "debug"
		}
	}
	if env.Log, err = env.Cfg.Logging.Prepare(stdoutBusy(cmd.Args().Slice())); err != nil {
		return ctx, fmt.Errorf("unable to prepare logs: %w", err)
	}
	env.RedirectStdLog()

	// keep unrecovered panics next to the log file
	if env.Cfg.Logging.FileLogger.Level != "none" && len(env.Cfg.Logging.FileLogger.Destination) > 0 {
		if f, err := os.Create(panicLogName(env.Cfg)); err == nil {
			if err := debug.SetCrashOutput(f, debug.CrashOptions{}); err != nil {
				env.Log.Warn("Unable to set crash output", zap.Error(err))
			}
			f.Close()
		}
	}

	env.Log.Debug("Program started", zap.Strings("args", os.Args), zap.String("ver", misc.GetVersion()), zap.String("runtime", runtime.Version()), zap.String("hash", misc.GetGitHash()))

	if len(configFile) == 0 {
		env.Log.Debug("Using defaults (no configuration file)")
	}
	return ctx, nil
}

func destroyAppContext(ctx context.Context, cmd *cli.Command) (err error) {
	env := state.EnvFromContext(ctx)

	if env.Log != nil {
		env.Log.Debug("Program ended", zap.Duration("elapsed", env.Uptime()), zap.Strings("parsed args", cmd.Args().Slice()))
	}

	// close logging
	env.RestoreStdLog()

	// remove empty panic file if any
	if env.Cfg != nil && env.Cfg.Logging.FileLogger.Level != "none" && len(env.Cfg.Logging.FileLogger.Destination) > 0 {
		if er := debug.SetCrashOutput(nil, debug.CrashOptions{}); er != nil {
			err = multierr.Append(err, fmt.Errorf("unable to reset crash output: %w", er))
		}
		fname := panicLogName(env.Cfg)
		if fi, er := os.Stat(fname); er == nil && fi.Size() == 0 {
			if er := os.Remove(fname); er != nil {
				err = multierr.Append(err, fmt.Errorf("unable to remove empty panic log file '%s': %w", fname, er))
			}
		}
	}
	return
}

// Ignore urfave/cli default error handling - cli.Exit() looks non-transparent
// and unnecessary, subcommands return regular errors.
var errWasHandled bool

// this is called before appContext is destroyed, so we have a chance to
// properly log any error from subcommand
func exitErrHandler(ctx context.Context, _ *cli.Command, err error) {

	env := state.EnvFromContext(ctx)

	if env.Log != nil {
		env.Log.Error("Program ended with error", zap.Error(err))
		errWasHandled = true
	}
}

func usageErrorHandler(_ context.Context, _ *cli.Command, err error, _ bool) error {
	// do nothing special, error is reported either by exitErrHandler or on
	// exit directly to stderr.
	return err
}

func subcommandNotFoundHandler(ctx context.Context, _ *cli.Command, name string) {
	if env := state.EnvFromContext(ctx); env.Log != nil {
		env.Log.Warn("Unknown command, nothing to do", zap.String("command", name))
	}
}

const sourceHelp = `
SOURCE:
    content document(s) to build table of contents from, following forms are supported:
        path to XHTML file: "[path_to_file]chapter.xhtml"
        path to YAML outline: "[path_to_file]outline.yaml"
        path to a directory: "[path_to_directory]directory" - all XHTML files under directory in natural order (symbolic links are not followed)
        path to EPUB or zip archive: "[path_to_archive]book.epub" - content documents in spine order (natural order for plain archives)
        path to archive with path inside archive: "[path_to_archive]book.epub[path_in_archive]" - only documents under archive path

	Processing of archives inside archives is not supported.
`

func main() {

	// allow graceful shutdown on interrupt.
	ctx, stop := signal.NotifyContext(state.ContextWithEnv(context.Background()), os.Interrupt, syscall.SIGTERM)

	zipCPFlag := func() cli.Flag {
		return &cli.StringFlag{Name: "force-zip-cp",
			Usage: "Force `ENCODING` for ALL non UTF-8 file names in processed archives (see IANA.org for character set names)"}
	}

	app := &cli.Command{
		Name:            misc.GetAppName(),
		Usage:           "table of contents builder for e-book content documents",
		Version:         misc.GetVersion() + " (" + runtime.Version() + ") : " + misc.GetGitHash(),
		HideHelpCommand: true,
		Before:          initializeAppContext,
		After:           destroyAppContext,
		OnUsageError:    usageErrorHandler,
		ExitErrHandler:  exitErrHandler,
		CommandNotFound: subcommandNotFoundHandler,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, DefaultText: "", Usage: "load configuration from `FILE` (YAML)"},
			&cli.BoolFlag{Name: "debug", Aliases: []string{"d"}, Usage: "changes program behavior to help troubleshooting, forces debug logging"},
		},
		Commands: []*cli.Command{
			{
				Name:         "build",
				Usage:        "Builds table of contents document",
				OnUsageError: usageErrorHandler,
				Action:       build.Run,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "to", DefaultText: "from configuration",
						Usage: "output document `TYPE` (supported types: " + strings.Join(common.OutputFmtNames(), ", ") + ")"},
					&cli.BoolFlag{Name: "numbered", Aliases: []string{"n"}, Usage: "use ordered list for contents page and fragment"},
					&cli.BoolFlag{Name: "assign-ids", Aliases: []string{"ids"}, Usage: "generate missing heading ids and store them in source documents (not in archives)"},
					&cli.BoolFlag{Name: "overwrite", Aliases: []string{"ow"}, Usage: "continue even if destination exits, overwrite files"},
					zipCPFlag(),
				},
				ArgsUsage: "SOURCE [DESTINATION]",
				CustomHelpTemplate: fmt.Sprintf(`%s%s
DESTINATION:
    "-" - STDOUT
    path to a directory (existing or ending with path separator) - output file name is derived from source name or "output_name_template"
    anything else - output file name
    if absent - current working directory
`, cli.CommandHelpTemplate, sourceHelp),
			},
			{
				Name:         "dump",
				Usage:        "Prints collected table of contents tree (to STDOUT)",
				OnUsageError: usageErrorHandler,
				Action:       build.Dump,
				Flags:        []cli.Flag{zipCPFlag()},
				ArgsUsage:    "SOURCE",
				CustomHelpTemplate: fmt.Sprintf(`%s%s
Shows every entry with its level, title and link, useful to see why
table of contents looks the way it does.
`, cli.CommandHelpTemplate, sourceHelp),
			},
			{
				Name:  "dumpconfig",
				Usage: "Dumps either default or actual configuration (YAML)",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "default", Usage: "output default embedded configuration"},
				},
				OnUsageError: usageErrorHandler,
				Action:       outputConfiguration,
				ArgsUsage:    "DESTINATION",
				CustomHelpTemplate: fmt.Sprintf(`%s

DESTINATION:
    file name to write configuration to, if absent - STDOUT

Produces file with actual "active" configuration values wich is composition of
default values and values specified in configuration file. To see default
configuration embedded into the program use --default flag.
`, cli.CommandHelpTemplate),
			},
		},
	}

	var err error
	// NOTE: os.Exit is called at the end of main to set exit code, make sure
	// there are no other deffered functions after that
	defer func() {
		stop()
		if err != nil {
			// It may happen that log is either not set yet (argument parsing) or already closed,
			// report errors to stderr directly
			if !errWasHandled {
				fmt.Fprintf(os.Stderr, "Program ended with error: %v\n", err)
			}
			os.Exit(1)
		}
	}()
	err = app.Run(ctx, os.Args)
}

func outputConfiguration(ctx context.Context, cmd *cli.Command) error {

	env := state.EnvFromContext(ctx)
	if cmd.Args().Len() > 1 {
		env.Log.Warn("Malformed command line, too many destinations", zap.Strings("ignoring", cmd.Args().Slice()[1:]))
	}

	fname := cmd.Args().Get(0)

	var (
		err   error
		data  []byte
		state string
	)

	out := os.Stdout
	if len(fname) > 0 && fname != build.StdoutName {
		out, err = os.Create(fname)
		if err != nil {
			return fmt.Errorf("unable to create destination file '%s': %w", fname, err)
		}
		defer out.Close()
	} else {
		fname = "STDOUT"
	}

	if cmd.Bool("default") {
		state = "default"
		data, err = config.Prepare()
	} else {
		state = "actual"
		data, err = config.Dump(env.Cfg)
	}
	if err != nil {
		return fmt.Errorf("unable to get configuration: %w", err)
	}

	env.Log.Info("Outputing configuration", zap.String("state", state), zap.String("file", fname))

	_, err = out.Write(data)
	if err != nil {
		return fmt.Errorf("unable to write configuration: %w", err)
	}
	return nil
}
