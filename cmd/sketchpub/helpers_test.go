// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/sketchpub/sketchpub/internal/config"
	"github.com/sketchpub/sketchpub/internal/testutil"
)

const partDescriptor = `
kind = "part"
path = "C:/models/gear.sldprt"

[summary]
title = "Spur gear"
description = "20 teeth"
tags = "gear"

[[components]]
name = "gear"
mesh = "gear.stl"
`

const assemblyDescriptor = `
kind = "assembly"
path = "C:/models/gearbox.sldasm"

[summary]
description = "two-stage reducer"

[[components]]
name = "housing"
mesh = "meshes/housing.stl"

[[components]]
name = "shaft"
mesh = "meshes/shaft.stl"
`

type (
	// staticConfig is a ConfigProvider returning a copy of cfg, or err.
	staticConfig struct {
		cfg *config.Config
		err error
	}

	// sourceConfig is a staticConfig that also reports the file it read.
	sourceConfig struct {
		staticConfig
		path string
	}
)

func (s staticConfig) Load(_ context.Context, _ config.LoadOptions) (*config.Config, error) {
	if s.err != nil {
		return nil, s.err
	}
	cfg := *s.cfg
	return &cfg, nil
}

func (s sourceConfig) LoadWithSource(ctx context.Context, opts config.LoadOptions) (*config.Config, string, error) {
	cfg, err := s.Load(ctx, opts)
	return cfg, s.path, err
}

// testConfig returns the default configuration with artifacts and host
// preferences kept in a temp dir.
func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.TempDir = config.OptionalPath(dir)
	cfg.Host.PreferencesFile = config.OptionalPath(filepath.Join(dir, "preferences.toml"))
	return cfg
}

func writePart(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	testutil.MustWriteFile(t, filepath.Join(dir, "gear.stl"), testutil.BinarySTL("gear", 4))
	desc := filepath.Join(dir, "gear.toml")
	testutil.MustWriteFile(t, desc, []byte(partDescriptor))
	return desc
}

func writeAssembly(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	testutil.MustWriteFile(t, filepath.Join(dir, "meshes", "housing.stl"), testutil.ASCIISTL("housing", 2))
	testutil.MustWriteFile(t, filepath.Join(dir, "meshes", "shaft.stl"), testutil.ASCIISTL("shaft", 3))
	desc := filepath.Join(dir, "gearbox.toml")
	testutil.MustWriteFile(t, desc, []byte(assemblyDescriptor))
	return desc
}

// runCLI executes the command tree with args and returns what it printed.
func runCLI(t *testing.T, deps Dependencies, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	var out, errOut bytes.Buffer
	deps.Stdout = &out
	deps.Stderr = &errOut
	app, err := NewApp(deps)
	if err != nil {
		t.Fatalf("NewApp() error: %v", err)
	}
	root := NewRootCommand(app)
	root.SetArgs(args)
	root.SetOut(&out)
	root.SetErr(&errOut)
	err = root.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}
