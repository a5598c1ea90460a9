package compiler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
)

// Compiler turns an intermediate text file into a binary dictionary.
type Compiler interface {
	// Compile builds outputPath from intermediatePath. It blocks until
	// the compiler finishes and returns nil only on success.
	Compile(ctx context.Context, intermediatePath, outputPath string) error
}

// Func adapts an ordinary function to the Compiler interface.
type Func func(ctx context.Context, intermediatePath, outputPath string) error

// Compile implements Compiler.
func (f Func) Compile(ctx context.Context, intermediatePath, outputPath string) error {
	return f(ctx, intermediatePath, outputPath)
}

// Noop is a Compiler that does nothing and always succeeds.
var Noop Compiler = Func(func(context.Context, string, string) error { return nil })

// DefaultJar is the dicttool jar looked up in the working directory.
const DefaultJar = "dicttool_aosp.jar"

// DefaultCommand returns the command used to run dicttool, without the
// makedict arguments.
func DefaultCommand() []string {
	return []string{"java", "-jar", DefaultJar}
}

// DictTool runs dicttool's makedict subcommand as a child process.
type DictTool struct {
	// command is the program and its leading arguments.
	command []string

	// env holds extra "KEY=value" pairs for the child process.
	env []string

	// stdout and stderr receive the child's output.
	stdout io.Writer
	stderr io.Writer

	// logger for structured logging.
	logger *slog.Logger
}

// Option configures a DictTool.
type Option func(*DictTool)

// WithCommand replaces the command used to run dicttool.
// An empty command makes Compile fail with ErrNoCommand.
func WithCommand(command ...string) Option {
	return func(d *DictTool) {
		d.command = command
	}
}

// WithJar runs dicttool from the given jar with "java -jar".
func WithJar(jar string) Option {
	return func(d *DictTool) {
		d.command = []string{"java", "-jar", jar}
	}
}

// WithEnv adds environment variables ("KEY=value") to the child process.
func WithEnv(env ...string) Option {
	return func(d *DictTool) {
		d.env = append(d.env, env...)
	}
}

// WithOutput sets where the child's stdout and stderr go.
func WithOutput(stdout, stderr io.Writer) Option {
	return func(d *DictTool) {
		d.stdout = stdout
		d.stderr = stderr
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(d *DictTool) {
		d.logger = logger
	}
}

// NewDictTool creates a DictTool running DefaultCommand with the child's
// output attached to the current process.
func NewDictTool(opts ...Option) *DictTool {
	d := &DictTool{
		command: DefaultCommand(),
		stdout:  os.Stdout,
		stderr:  os.Stderr,
		logger:  slog.Default(),
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

// Args returns the full argument vector used to compile intermediatePath
// into outputPath.
func (d *DictTool) Args(intermediatePath, outputPath string) []string {
	args := make([]string, 0, len(d.command)+5)
	args = append(args, d.command...)
	return append(args, "makedict", "-s", intermediatePath, "-d", outputPath)
}

// Compile implements Compiler. Cancelling ctx kills the child process.
func (d *DictTool) Compile(ctx context.Context, intermediatePath, outputPath string) error {
	if len(d.command) == 0 {
		return ErrNoCommand
	}

	args := d.Args(intermediatePath, outputPath)
	cmd := exec.CommandContext(ctx, args[0], args[1:]...) //nolint:gosec // Command is user configuration
	cmd.Stdout = d.stdout
	cmd.Stderr = d.stderr
	if len(d.env) > 0 {
		cmd.Env = append(os.Environ(), d.env...)
	}

	d.logger.Debug("running dictionary compiler", "args", args)

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("%w: %w", ErrSpawn, err)
	}

	if err := cmd.Wait(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("%w: %w", ErrCompileFailed, ctxErr)
		}

		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return &ExitError{Command: args[0], Code: exitErr.ExitCode()}
		}
		return fmt.Errorf("%w: %w", ErrCompileFailed, err)
	}

	d.logger.Debug("dictionary compiler finished", "output", outputPath)
	return nil
}
