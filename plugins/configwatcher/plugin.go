// Package configwatcher reloads the standby config file when it changes.
// It watches the file's directory with fsnotify so that editors which
// replace the file by rename are noticed too.
package configwatcher

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/bft-labs/standby/internal/ports"
	"github.com/bft-labs/standby/pkg/standby"
)

// ReloadFunc applies the config file at path. A returned error is logged and
// the previous settings stay in effect.
type ReloadFunc func(path string) error

// Config holds configuration options for the config watcher plugin.
type Config struct {
	// Path is the config file to watch. The plugin is disabled when empty.
	Path string

	// DebounceDelay is how long the file must stay quiet before reloading.
	// Default: 100 milliseconds
	DebounceDelay time.Duration

	// Reload is called with Path after every settled change.
	Reload ReloadFunc
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		DebounceDelay: 100 * time.Millisecond,
	}
}

// Plugin implements config watching functionality.
type Plugin struct {
	path          string
	debounceDelay time.Duration
	reload        ReloadFunc

	mu     sync.Mutex
	logger standby.Logger
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a new config watcher plugin with the given configuration.
func New(cfg Config) *Plugin {
	if cfg.DebounceDelay <= 0 {
		cfg.DebounceDelay = 100 * time.Millisecond
	}

	return &Plugin{
		path:          cfg.Path,
		debounceDelay: cfg.DebounceDelay,
		reload:        cfg.Reload,
	}
}

// Name returns the plugin identifier.
func (p *Plugin) Name() string {
	return "configwatcher"
}

// Initialize starts watching the config file. A file that cannot be watched
// disables the plugin without failing Start.
func (p *Plugin) Initialize(ctx context.Context, cfg standby.PluginConfig) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.logger = cfg.Logger

	if p.path == "" || p.reload == nil {
		p.logger.Debug("config watcher disabled: no config file")
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		p.logger.Warn("config watcher disabled", ports.Err(err))
		return nil
	}

	dir := filepath.Dir(p.path)
	if err := watcher.Add(dir); err != nil {
		_ = watcher.Close()
		p.logger.Warn("config watcher disabled",
			ports.String("dir", dir),
			ports.Err(err))
		return nil
	}

	watchCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel

	p.logger.Info("watching config file", ports.String("path", p.path))

	p.wg.Add(1)
	go p.watchLoop(watchCtx, watcher)

	return nil
}

// Shutdown stops the config watcher.
func (p *Plugin) Shutdown(ctx context.Context) error {
	p.mu.Lock()
	cancel := p.cancel
	p.cancel = nil
	p.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	p.wg.Wait()
	return nil
}

// watchLoop reloads the file once events for it have settled.
func (p *Plugin) watchLoop(ctx context.Context, watcher *fsnotify.Watcher) {
	defer p.wg.Done()
	defer watcher.Close()

	name := filepath.Base(p.path)

	var debounce *time.Timer
	var fire <-chan time.Time
	defer func() {
		if debounce != nil {
			debounce.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != name {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if debounce == nil {
				debounce = time.NewTimer(p.debounceDelay)
			} else {
				debounce.Reset(p.debounceDelay)
			}
			fire = debounce.C

		case <-fire:
			fire = nil
			if err := p.reload(p.path); err != nil {
				p.logger.Error("config reload failed",
					ports.String("path", p.path),
					ports.Err(err))
				continue
			}
			p.logger.Info("config reloaded", ports.String("path", p.path))

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			p.logger.Error("config watcher error", ports.Err(err))
		}
	}
}
