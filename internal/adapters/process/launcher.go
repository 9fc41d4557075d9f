// Package process starts new instances of the running program, used to put a
// backup in place next to a primary.
package process

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/bft-labs/standby/internal/domain"
	"github.com/bft-labs/standby/internal/ports"
)

// Config holds launcher settings.
type Config struct {
	// Executable is the program to start. Defaults to os.Executable().
	Executable string

	// Args are forwarded to every child. Any role flag in Args is replaced
	// according to the role being spawned.
	Args []string

	// BackupFlag is the long flag name (without dashes) that selects the
	// backup role.
	BackupFlag string

	// Stdout and Stderr receive the child's output. Default: inherited.
	Stdout io.Writer
	Stderr io.Writer
}

// Launcher implements ports.Launcher with os/exec.
type Launcher struct {
	exe        string
	args       []string
	backupFlag string
	stdout     io.Writer
	stderr     io.Writer
	logger     ports.Logger
}

// New creates a launcher. It fails if the path of the running executable
// cannot be determined.
func New(cfg Config, logger ports.Logger) (*Launcher, error) {
	exe := cfg.Executable
	if exe == "" {
		var err error
		exe, err = os.Executable()
		if err != nil {
			return nil, fmt.Errorf("resolve executable: %w", err)
		}
	}
	if cfg.BackupFlag == "" {
		return nil, fmt.Errorf("%w: backup flag name is required", domain.ErrInvalidConfig)
	}
	if cfg.Stdout == nil {
		cfg.Stdout = os.Stdout
	}
	if cfg.Stderr == nil {
		cfg.Stderr = os.Stderr
	}

	return &Launcher{
		exe:        exe,
		args:       stripFlag(cfg.Args, cfg.BackupFlag),
		backupFlag: cfg.BackupFlag,
		stdout:     cfg.Stdout,
		stderr:     cfg.Stderr,
		logger:     logger,
	}, nil
}

// Spawn starts a detached child running in role. The child is not tied to
// ctx; it keeps running after the caller exits.
func (l *Launcher) Spawn(ctx context.Context, role domain.Role) (ports.Handle, error) {
	if err := ctx.Err(); err != nil {
		return ports.Handle{}, err
	}

	cmd := exec.Command(l.exe, l.argsFor(role)...)
	cmd.Stdout = l.stdout
	cmd.Stderr = l.stderr
	cmd.SysProcAttr = detachedProcAttr()

	if err := cmd.Start(); err != nil {
		return ports.Handle{}, fmt.Errorf("%w: %w", domain.ErrSpawnFailed, err)
	}

	pid := cmd.Process.Pid
	l.logger.Info("spawned process",
		ports.String("role", role.String()),
		ports.Int("pid", pid),
	)

	// Reap the child so it does not linger as a zombie while we run.
	go func() {
		err := cmd.Wait()
		fields := []ports.Field{ports.Int("pid", pid), ports.String("role", role.String())}
		if err != nil {
			fields = append(fields, ports.Err(err))
		}
		l.logger.Info("spawned process exited", fields...)
	}()

	return ports.Handle{PID: pid}, nil
}

// argsFor returns the child's argument list for role.
func (l *Launcher) argsFor(role domain.Role) []string {
	args := make([]string, 0, len(l.args)+1)
	args = append(args, l.args...)
	if role == domain.RoleBackup {
		args = append(args, "--"+l.backupFlag)
	}
	return args
}

// stripFlag removes every occurrence of --name and --name=value from args.
func stripFlag(args []string, name string) []string {
	long := "--" + name
	out := make([]string, 0, len(args))
	for _, a := range args {
		if a == long || strings.HasPrefix(a, long+"=") {
			continue
		}
		out = append(out, a)
	}
	return out
}

var _ ports.Launcher = (*Launcher)(nil)
