package style

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/arthur-debert/stager/pkg/actions"
	"github.com/arthur-debert/stager/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadTheme(t *testing.T) {
	theme, err := LoadTheme(embeddedStyles)
	require.NoError(t, err)

	for _, name := range []string{"Header", "Muted", "Path", "Done", "Failed", "Skipped", "Planned", "Kind", "Symlink", "Error"} {
		_, ok := theme.styles[name]
		assert.True(t, ok, "style %s", name)
	}

	_, err = LoadTheme([]byte("colors: ["))
	assert.Error(t, err)
}

func TestThemePlain(t *testing.T) {
	theme := DefaultTheme(true)
	assert.True(t, theme.Plain())
	assert.Equal(t, "hello", theme.Render("Header", "hello"))
	assert.Equal(t, "x", theme.Render("NoSuchStyle", "x"))
}

func TestRenderPlan(t *testing.T) {
	r := NewRenderer(DefaultTheme(true))

	out := r.RenderPlan("/stage", []string{`mkdir "/stage/usr"`, `cp "/src/a" "/stage/usr/a"`})
	assert.Equal(t, "Plan for /stage\n  mkdir \"/stage/usr\"\n  cp \"/src/a\" \"/stage/usr/a\"\n", out)

	empty := r.RenderPlan("/stage", nil)
	assert.Contains(t, empty, "nothing to stage")
}

func TestRenderResults(t *testing.T) {
	r := NewRenderer(DefaultTheme(true))

	results := []actions.Result{
		{Action: actions.CreateDirectory{Dir: "/stage/usr"}, Status: actions.StatusDone, Duration: time.Millisecond},
		{Action: actions.Symlink{Link: "/stage/usr/t", Target: "tool"}, Status: actions.StatusFailed, Error: fmt.Errorf("exists")},
		{Action: actions.CopyFile{Source: "/a", Destination: "/stage/a"}, Status: actions.StatusSkipped},
	}

	out := r.RenderResults(results)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, `✓ mkdir    mkdir "/stage/usr"`, lines[0])
	assert.Equal(t, `✗ symlink  ln -s "tool" "/stage/usr/t"`, lines[1])
	assert.Equal(t, "    exists", lines[2])
	assert.Equal(t, `- copy     cp "/a" "/stage/a"`, lines[3])
	assert.Equal(t, "1 done, 1 failed, 1 skipped in 1ms", lines[4])
}

func TestRenderResultsPlanned(t *testing.T) {
	r := NewRenderer(DefaultTheme(true))
	out := r.RenderResults([]actions.Result{
		{Action: actions.CreateDirectory{Dir: "/stage"}, Status: actions.StatusPlanned},
	})
	assert.Contains(t, out, "○ mkdir")
	assert.Contains(t, out, "1 planned")
}

func TestRenderError(t *testing.T) {
	r := NewRenderer(DefaultTheme(true))

	assert.Empty(t, r.RenderError(nil))

	single := errors.New(errors.ErrStagingFailed, "disk full")
	assert.Equal(t, "Error: "+single.Error()+"\n", r.RenderError(single))

	var batch errors.Errors
	batch.Push(errors.New(errors.ErrInvalidConfiguration, "one"))
	batch.Push(errors.New(errors.ErrHarvestingFailed, "two"))
	out := r.RenderError(batch.Err())
	assert.True(t, strings.HasPrefix(out, "2 errors:\n"))
	assert.Contains(t, out, "✗ [INVALID_CONFIGURATION] one")
	assert.Contains(t, out, "✗ [HARVESTING_FAILED] two")
}
