package paths

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name        string
		path        string
		wantErr     bool
		errContains string
	}{
		{
			name:        "empty path",
			path:        "",
			wantErr:     true,
			errContains: "path cannot be empty",
		},
		{
			name:    "valid path",
			path:    "/home/user/file.txt",
			wantErr: false,
		},
		{
			name:        "path with null bytes",
			path:        "/home/user\x00/file.txt",
			wantErr:     true,
			errContains: "null bytes",
		},
		{
			name:        "excessively long path",
			path:        "/" + strings.Repeat("a", 4097),
			wantErr:     true,
			errContains: "exceeds maximum length",
		},
		{
			name:    "path at max length",
			path:    "/" + strings.Repeat("a", 4095),
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePath(tt.path)
			if tt.wantErr {
				require.Error(t, err)
				if tt.errContains != "" {
					assert.Contains(t, err.Error(), tt.errContains)
				}
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestIsSingleComponent(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"app", true},
		{"libfoo.so.1", true},
		{".hidden", true},
		{"", false},
		{".", false},
		{"..", false},
		{"sub/evil", false},
		{`sub\evil`, false},
		{"/abs", false},
		{"trailing/", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsSingleComponent(tt.name))
		})
	}
}

func TestIsStageRelative(t *testing.T) {
	assert.True(t, IsStageRelative(""))
	assert.True(t, IsStageRelative("usr/bin"))
	assert.True(t, IsStageRelative("usr/..bin"))
	assert.False(t, IsStageRelative("/usr/bin"))
	assert.False(t, IsStageRelative("../usr"))
	assert.False(t, IsStageRelative("usr/../../x"))
}
