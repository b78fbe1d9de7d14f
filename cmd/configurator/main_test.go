package main

import (
	"context"
	"testing"
)

func envLookup(t *testing.T) func(string) (string, bool) {
	t.Helper()
	env := map[string]string{
		"STORAGE_TYPE": "memory",
		"UPLOAD_DIR":   t.TempDir(),
		"PUBLISH_DIR":  t.TempDir(),
		"LOG_LEVEL":    "error",
	}
	return func(key string) (string, bool) {
		value, ok := env[key]
		return value, ok
	}
}

func TestParseFlags(t *testing.T) {
	opts, err := parseFlags([]string{"-sweep", "-dry-run", "-addr", " :9000 "})
	if err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	if !opts.sweep || !opts.dryRun || opts.addr != ":9000" || opts.publishID != "" {
		t.Fatalf("unexpected options %+v", opts)
	}
	if _, err := parseFlags([]string{"-unknown"}); err == nil {
		t.Fatalf("expected unknown flag to fail")
	}
}

func TestRunSweepOnce(t *testing.T) {
	if err := run(context.Background(), []string{"-sweep", "-dry-run"}, envLookup(t)); err != nil {
		t.Fatalf("expected sweep to succeed, got %v", err)
	}
	if err := run(context.Background(), []string{"-sweep"}, envLookup(t)); err != nil {
		t.Fatalf("expected sweep to succeed, got %v", err)
	}
}

func TestRunPublishUnknownSiteFails(t *testing.T) {
	if err := run(context.Background(), []string{"-publish", "missing"}, envLookup(t)); err == nil {
		t.Fatalf("expected publish of unknown draft to fail")
	}
}

func TestRunRejectsInvalidConfig(t *testing.T) {
	lookup := func(key string) (string, bool) {
		if key == "STORAGE_TYPE" {
			return "cassandra", true
		}
		return "", false
	}
	if err := run(context.Background(), []string{"-sweep"}, lookup); err == nil {
		t.Fatalf("expected invalid storage type to fail")
	}
}
