package paths

import (
	"strings"
	"testing"

	"github.com/arthur-debert/stager/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeStagePath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "plain", input: "/hello/world", want: "hello/world"},
		{name: "repeated separators collapse", input: "/hello//world", want: "hello/world"},
		{name: "dot components dropped", input: "/hello/./world", want: "hello/world"},
		{name: "parent pops one component", input: "/hello/../goodbye/world", want: "goodbye/world"},
		{name: "repeated parents", input: "/hello/world/../../foo/bar", want: "foo/bar"},
		{name: "parents at the leaf", input: "/hello/world/foo/bar/../..", want: "hello/world"},
		{name: "trailing separator", input: "/usr/bin/", want: "usr/bin"},
		{name: "root", input: "/", want: ""},
		{name: "back to root", input: "/a/..", want: ""},
		{name: "relative rejected", input: "hello/world", wantErr: true},
		{name: "dot relative rejected", input: "./hello/world", wantErr: true},
		{name: "empty rejected", input: "", wantErr: true},
		{name: "escape at start", input: "/../etc", wantErr: true},
		{name: "escape after pops", input: "/a/../../etc", wantErr: true},
		{name: "only parents", input: "/../..", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeStagePath(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidConfiguration))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeStagePathEquivalences(t *testing.T) {
	a, err := NormalizeStagePath("/hello//world")
	require.NoError(t, err)
	b, err := NormalizeStagePath("/hello/./world")
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.Equal(t, "hello/world", a)
}

func TestNormalizeStagePathNeverEscapes(t *testing.T) {
	segments := []string{"a", "b", "..", ".", "", "c"}
	// Every combination of up to four segments either fails or stays inside.
	var walk func(prefix []string, depth int)
	walk = func(prefix []string, depth int) {
		input := "/" + strings.Join(prefix, "/")
		got, err := NormalizeStagePath(input)
		if err == nil {
			assert.True(t, IsStageRelative(got), "input %q produced %q", input, got)
		} else {
			assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidConfiguration))
		}
		if depth == 0 {
			return
		}
		for _, s := range segments {
			walk(append(append([]string{}, prefix...), s), depth-1)
		}
	}
	walk(nil, 4)
}

func TestFileName(t *testing.T) {
	tests := []struct {
		input  string
		want   string
		wantOK bool
	}{
		{"/opt/app", "app", true},
		{"/opt/app/", "app", true},
		{"relative/file.txt", "file.txt", true},
		{"file", "file", true},
		{"/", "", false},
		{"", "", false},
		{"/opt/..", "", false},
		{".", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := FileName(tt.input)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestJoinStage(t *testing.T) {
	assert.Equal(t, "usr/bin/tool", JoinStage("usr/bin", "tool"))
	assert.Equal(t, "tool", JoinStage("", "tool"))
	assert.Equal(t, "", JoinStage("", ""))
	assert.Equal(t, "/stage/usr/tool", JoinStage("/stage", "usr", "tool"))
}

func TestRelativeTo(t *testing.T) {
	tests := []struct {
		dir    string
		target string
		want   string
	}{
		{"usr/bin", "usr/bin/tool", "tool"},
		{"", "tool", "tool"},
		{"usr/bin", "usr/lib/libfoo.so", "../lib/libfoo.so"},
		{"a/b/c", "x", "../../../x"},
		{"usr/bin", "usr/bin", "."},
	}

	for _, tt := range tests {
		t.Run(tt.dir+"->"+tt.target, func(t *testing.T) {
			assert.Equal(t, tt.want, RelativeTo(tt.dir, tt.target))
		})
	}
}
