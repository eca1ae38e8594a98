package main

import (
	"strings"
	"testing"

	"github.com/nalgeon/be"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, name := range []string{"JACKC_KEEP_GOING", "JACKC_VERBOSE", "JACKC_MAX_STEPS", "JACKC_OUT_DIR", "JACKC_HISTORY"} {
		t.Setenv(name, "")
	}
	cfg := LoadConfig()
	be.Equal(t, cfg.KeepGoing, false)
	be.Equal(t, cfg.Verbose, 0)
	be.Equal(t, cfg.MaxSteps, defaultMaxSteps)
	be.Equal(t, cfg.OutDir, "")
	be.Equal(t, cfg.History, ".jackc_history")
}

func TestLoadConfigFromEnvironment(t *testing.T) {
	t.Setenv("JACKC_KEEP_GOING", "true")
	t.Setenv("JACKC_VERBOSE", "3")
	t.Setenv("JACKC_MAX_STEPS", "500")
	t.Setenv("JACKC_OUT_DIR", "build")
	t.Setenv("JACKC_HISTORY", "/tmp/jackc_history")

	cfg := LoadConfig()
	be.Equal(t, cfg.KeepGoing, true)
	be.Equal(t, cfg.Verbose, 3)
	be.Equal(t, cfg.MaxSteps, 500)
	be.Equal(t, cfg.OutDir, "build")
	be.Equal(t, cfg.History, "/tmp/jackc_history")
}

func TestLoadConfigSeesEnvironmentChanges(t *testing.T) {
	t.Setenv("JACKC_MAX_STEPS", "10")
	be.Equal(t, LoadConfig().MaxSteps, 10)
	t.Setenv("JACKC_MAX_STEPS", "20")
	be.Equal(t, LoadConfig().MaxSteps, 20)
}

func TestFlagsOverrideConfig(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"A.jack": "class A { function int f() { return p; } }",
		"B.jack": "class B { function int g() { return q; } }",
	})
	cmd := newRootCmd(Config{KeepGoing: true, MaxSteps: defaultMaxSteps})
	cmd.SetArgs([]string{"check", "--keep-going=false", dir})
	err := cmd.Execute()
	be.Err(t, err, `"p" is undefined`)
	be.True(t, err != nil && !strings.Contains(err.Error(), `"q"`))

	cmd = newRootCmd(Config{KeepGoing: true, MaxSteps: defaultMaxSteps})
	cmd.SetArgs([]string{"check", dir})
	err = cmd.Execute()
	be.Err(t, err, `"q" is undefined`)
}
