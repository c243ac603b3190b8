package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseParameter(t *testing.T) {
	tests := []struct {
		name      string
		parameter string
		want      *Options
	}{
		{
			name:      "empty selects per-file plain",
			parameter: "",
			want:      &Options{AnchorStyle: AnchorPlain},
		},
		{
			name:      "single file",
			parameter: "output=api.md",
			want:      &Options{Output: "api.md", AnchorStyle: AnchorPlain},
		},
		{
			name:      "explicit anchors",
			parameter: "anchor_style=explicit",
			want:      &Options{AnchorStyle: AnchorExplicit},
		},
		{
			name:      "both with whitespace and trailing comma",
			parameter: " output = docs/api.md , anchor_style=plain,",
			want:      &Options{Output: "docs/api.md", AnchorStyle: AnchorPlain},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts, err := ParseParameter(tt.parameter)
			require.NoError(t, err)
			assert.Equal(t, tt.want, opts)
		})
	}
}

func TestParseParameter_Invalid(t *testing.T) {
	tests := []struct {
		name      string
		parameter string
		key       string
		contains  string
	}{
		{"unknown key", "format=html", "format", "unknown option"},
		{"missing value separator", "api.md", "api.md", "expected key=value"},
		{"empty output", "output=", "output", "must not be empty"},
		{"repeated key", "output=a.md,output=b.md", "output", "more than once"},
		{"bad anchor style", "anchor_style=fancy", "anchor_style", "must be one of: plain, explicit"},
		{"empty anchor style", "anchor_style=", "anchor_style", "value required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts, err := ParseParameter(tt.parameter)
			require.Error(t, err)
			assert.Nil(t, opts)

			var invalid *InvalidOptionError
			require.True(t, errors.As(err, &invalid))
			assert.Equal(t, tt.key, invalid.Key)
			assert.Contains(t, err.Error(), tt.contains)
			assert.True(t, IsInvalidOption(err))
		})
	}
}

func TestOptions_SingleFile(t *testing.T) {
	assert.False(t, DefaultOptions().SingleFile())
	assert.True(t, (&Options{Output: "x.md", AnchorStyle: AnchorPlain}).SingleFile())
}

func TestOptions_ValidateOutputLength(t *testing.T) {
	opts := &Options{Output: strings.Repeat("a", 256), AnchorStyle: AnchorPlain}
	err := opts.Validate()

	var invalid *InvalidOptionError
	require.True(t, errors.As(err, &invalid))
	assert.Equal(t, "output", invalid.Key)
	assert.Contains(t, invalid.Reason, "at most 255")
}

func TestLoad(t *testing.T) {
	t.Run("full file", func(t *testing.T) {
		opts, err := Load(strings.NewReader("output: api.md\nanchor_style: explicit\n"))
		require.NoError(t, err)
		assert.Equal(t, &Options{Output: "api.md", AnchorStyle: AnchorExplicit}, opts)
	})

	t.Run("empty file keeps defaults", func(t *testing.T) {
		opts, err := Load(strings.NewReader(""))
		require.NoError(t, err)
		assert.Equal(t, DefaultOptions(), opts)
	})

	t.Run("unknown key", func(t *testing.T) {
		_, err := Load(strings.NewReader("format: html\n"))
		require.Error(t, err)
		assert.True(t, IsInvalidOption(err))
		assert.Contains(t, err.Error(), "format")
	})

	t.Run("bad anchor style", func(t *testing.T) {
		_, err := Load(strings.NewReader("anchor_style: loud\n"))
		var invalid *InvalidOptionError
		require.True(t, errors.As(err, &invalid))
		assert.Equal(t, "anchor_style", invalid.Key)
		assert.Equal(t, "loud", invalid.Value)
	})
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rpcdoc.yaml")
	require.NoError(t, os.WriteFile(path, []byte("output: all.md\n"), 0o644))

	opts, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "all.md", opts.Output)
	assert.Equal(t, AnchorPlain, opts.AnchorStyle)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.False(t, IsInvalidOption(err))
}

func TestInvalidOptionError_Error(t *testing.T) {
	assert.Equal(t, "invalid option: bad yaml", (&InvalidOptionError{Reason: "bad yaml"}).Error())
	assert.Equal(t, `invalid option "x": unknown option`, (&InvalidOptionError{Key: "x", Reason: "unknown option"}).Error())
	assert.Equal(t, `invalid option x="y": unknown option`, (&InvalidOptionError{Key: "x", Value: "y", Reason: "unknown option"}).Error())
}
