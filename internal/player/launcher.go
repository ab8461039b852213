package player

import (
	"errors"
	"log/slog"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/mmcdole/reel/internal/domain"
)

// ErrNoViewer is returned when no candidate viewer could be started
var ErrNoViewer = errors.New("no candidate viewers found")

// Launcher opens full-size media URLs in an external viewer
type Launcher struct {
	command string   // configured viewer command, empty for auto-detection
	args    []string // additional arguments for the viewer
	logger  *slog.Logger

	// hooks, replaced in tests
	lookPath func(string) (string, error)
	start    func(name string, args ...string) error // async
	run      func(name string, args ...string) error // waits; "open -a" reports a missing app
}

// launchPath defines a single way to launch a viewer
type launchPath struct {
	path      string   // Command path: "mpv", "imv", or "open-a:AppName"
	openFlags []string // For "open-a:" paths only - flags for macOS open
}

// viewerConfig defines platform-specific launch paths of a viewer
type viewerConfig struct {
	platforms map[string][]launchPath
}

// viewers registry - single source of truth for all viewer configuration
var viewers = map[string]viewerConfig{
	"mpv": {
		platforms: map[string][]launchPath{
			"darwin":  {{path: "mpv"}},
			"linux":   {{path: "mpv"}},
			"windows": {{path: "mpv"}},
		},
	},
	"vlc": {
		platforms: map[string][]launchPath{
			"darwin": {
				{path: "vlc"},
				{path: "open-a:VLC"},
			},
			"linux":   {{path: "vlc"}},
			"windows": {{path: "vlc"}},
		},
	},
	"iina": {
		platforms: map[string][]launchPath{
			"darwin": {{path: "open-a:IINA", openFlags: []string{"-n"}}},
		},
	},
	"imv": {
		platforms: map[string][]launchPath{
			"linux": {{path: "imv"}},
		},
	},
	"feh": {
		platforms: map[string][]launchPath{
			"linux": {{path: "feh"}},
		},
	},
	"preview": {
		platforms: map[string][]launchPath{
			"darwin": {{path: "open-a:Preview"}},
		},
	},
}

// candidates defines the preferred viewer order per platform and media kind
var candidates = map[domain.MediaKind]map[string][]string{
	domain.MediaKindImage: {
		"darwin":  {"preview", "iina", "mpv"},
		"linux":   {"imv", "feh", "mpv"},
		"windows": {"mpv"},
	},
	domain.MediaKindVideo: {
		"darwin":  {"iina", "vlc", "mpv"},
		"linux":   {"mpv", "vlc"},
		"windows": {"vlc", "mpv"},
	},
}

// NewLauncher creates a launcher. An empty command auto-detects a viewer.
func NewLauncher(command string, args []string, logger *slog.Logger) *Launcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Launcher{
		command:  command,
		args:     args,
		logger:   logger,
		lookPath: exec.LookPath,
		start: func(name string, args ...string) error {
			return exec.Command(name, args...).Start()
		},
		run: func(name string, args ...string) error {
			return exec.Command(name, args...).Run()
		},
	}
}

// Launch opens url in the configured viewer, a detected one, or the system default
func (l *Launcher) Launch(url string, kind domain.MediaKind) error {
	// Tier 1: User configured a specific viewer
	if l.command != "" {
		return l.launchConfigured(url)
	}

	// Tier 2: Try the candidate chain for this media kind
	if name, err := l.detectAndLaunch(url, kind); err == nil {
		l.logger.Info("launched with detected viewer", "viewer", name)
		return nil
	}

	// Tier 3: Fall back to system default (open/xdg-open/start)
	l.logger.Info("no candidate viewers found, using system default")
	return l.launchDefault(url)
}

func (l *Launcher) detectAndLaunch(url string, kind domain.MediaKind) (string, error) {
	byOS := candidates[kind]
	names, ok := byOS[runtime.GOOS]
	if !ok {
		names = byOS["linux"]
	}

	for _, name := range names {
		paths, ok := viewers[name].platforms[runtime.GOOS]
		if !ok {
			continue
		}
		for _, lp := range paths {
			var err error
			if app, isApp := strings.CutPrefix(lp.path, "open-a:"); isApp {
				err = l.run("open", openArgs(app, lp.openFlags, nil, url)...)
			} else if _, err = l.lookPath(lp.path); err == nil {
				err = l.start(lp.path, url)
			}
			if err == nil {
				return name, nil
			}
			l.logger.Debug("launch path not available", "viewer", name, "path", lp.path, "error", err)
		}
	}
	return "", ErrNoViewer
}

// launchConfigured starts the configured command with the URL as last argument
func (l *Launcher) launchConfigured(url string) error {
	args := append([]string{}, l.args...)
	l.logger.Info("launching viewer", "command", l.command, "args", args, "url", url)

	// On macOS, launch GUI apps with 'open -a' when the command is not in PATH
	if runtime.GOOS == "darwin" {
		if _, err := l.lookPath(l.command); err != nil {
			var openFlags []string
			base := strings.ToLower(filepath.Base(l.command))
			base = strings.TrimSuffix(base, filepath.Ext(base))
			for _, lp := range viewers[base].platforms["darwin"] {
				if strings.HasPrefix(lp.path, "open-a:") {
					openFlags = lp.openFlags
					break
				}
			}
			return l.start("open", openArgs(l.command, openFlags, args, url)...)
		}
	}

	return l.start(l.command, append(args, url)...)
}

// launchDefault opens the URL using the system default handler
func (l *Launcher) launchDefault(url string) error {
	l.logger.Info("launching with system default", "os", runtime.GOOS, "url", url)
	switch runtime.GOOS {
	case "darwin":
		return l.start("open", url)
	case "windows":
		return l.start("cmd", "/c", "start", "", url)
	default:
		return l.start("xdg-open", url)
	}
}

func openArgs(app string, openFlags, appArgs []string, url string) []string {
	args := append([]string{}, openFlags...)
	args = append(args, "-a", app)
	if len(appArgs) > 0 {
		args = append(args, "--args")
		args = append(args, appArgs...)
	}
	return append(args, url)
}
