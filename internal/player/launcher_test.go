package player

import (
	"errors"
	"runtime"
	"testing"

	"github.com/mmcdole/reel/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type call struct {
	name string
	args []string
}

// fakeExec records started commands; only commands in installed are found
func fakeExec(l *Launcher, installed ...string) *[]call {
	var calls []call
	have := map[string]bool{}
	for _, c := range installed {
		have[c] = true
	}
	l.lookPath = func(name string) (string, error) {
		if have[name] {
			return "/usr/bin/" + name, nil
		}
		return "", errors.New("not found")
	}
	record := func(name string, args ...string) error {
		calls = append(calls, call{name: name, args: args})
		return nil
	}
	l.start = record
	l.run = record
	return &calls
}

const testURL = "http://reel.test/main/img/7/download"

func TestLaunchConfigured(t *testing.T) {
	l := NewLauncher("mpv", []string{"--fs"}, nil)
	calls := fakeExec(l, "mpv")

	require.NoError(t, l.Launch(testURL, domain.MediaKindVideo))
	require.Len(t, *calls, 1)
	assert.Equal(t, call{name: "mpv", args: []string{"--fs", testURL}}, (*calls)[0])
}

func TestLaunchDetectsByKind(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("candidate order is platform specific")
	}

	l := NewLauncher("", nil, nil)
	calls := fakeExec(l, "feh", "mpv")

	require.NoError(t, l.Launch(testURL, domain.MediaKindImage))
	assert.Equal(t, "feh", (*calls)[0].name, "imv is missing, feh is next")

	require.NoError(t, l.Launch(testURL, domain.MediaKindVideo))
	assert.Equal(t, "mpv", (*calls)[1].name)
}

func TestLaunchFallsBackToSystemDefault(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("fallback command is platform specific")
	}

	l := NewLauncher("", nil, nil)
	calls := fakeExec(l)

	require.NoError(t, l.Launch(testURL, domain.MediaKindVideo))
	require.Len(t, *calls, 1)
	assert.Equal(t, call{name: "xdg-open", args: []string{testURL}}, (*calls)[0])
}

func TestOpenArgs(t *testing.T) {
	assert.Equal(t, []string{"-n", "-a", "IINA", testURL}, openArgs("IINA", []string{"-n"}, nil, testURL))
	assert.Equal(t, []string{"-a", "mpv", "--args", "--fs", testURL}, openArgs("mpv", nil, []string{"--fs"}, testURL))
}
