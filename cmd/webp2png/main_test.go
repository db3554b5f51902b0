package main

import (
	"bytes"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/John-Robertt/webp2png/internal/config"
)

func TestParseArgs(t *testing.T) {
	cases := []struct {
		name string
		args []string
		want config.CLIArgs
	}{
		{"empty", nil, config.CLIArgs{}},
		{"flag", []string{"--base-path", "/data"}, config.CLIArgs{BasePath: "/data"}},
		{"short", []string{"-b", "/data"}, config.CLIArgs{BasePath: "/data"}},
		{"positional", []string{"/data"}, config.CLIArgs{BasePath: "/data"}},
		{"removals", []string{"/data", "--remove-first=[x] ", "--remove-second", "_raw", "--dry-run"},
			config.CLIArgs{BasePath: "/data", RemoveFirst: "[x] ", RemoveSecond: "_raw", DryRun: true}},
	}
	for _, c := range cases {
		got, err := parseArgs(c.args, &bytes.Buffer{})
		require.NoError(t, err, c.name)
		assert.Equal(t, c.want, got, c.name)
	}
}

func TestParseArgs_Errors(t *testing.T) {
	for _, args := range [][]string{
		{"-b", "/a", "/b"},
		{"/a", "/b"},
		{"--unknown"},
	} {
		_, err := parseArgs(args, &bytes.Buffer{})
		assert.Error(t, err, "%v", args)
	}
}

func TestParseArgs_Help(t *testing.T) {
	var out bytes.Buffer
	_, err := parseArgs([]string{"--help"}, &out)
	assert.ErrorIs(t, err, pflag.ErrHelp)
	assert.Contains(t, out.String(), "--remove-first")
	assert.Contains(t, out.String(), "用法：")
}
