package main

import (
	"testing"
)

func TestRootCommandTree(t *testing.T) {
	root := newRootCmd()

	for _, path := range [][]string{
		{"serve"},
		{"migrate", "up"},
		{"migrate", "down"},
		{"migrate", "status"},
	} {
		cmd, rest, err := root.Find(path)
		if err != nil {
			t.Fatalf("find %v: %v", path, err)
		}
		if len(rest) != 0 || cmd.Name() != path[len(path)-1] {
			t.Fatalf("find %v resolved to %q with leftover %v", path, cmd.Name(), rest)
		}
		if cmd.RunE == nil {
			t.Fatalf("%v has no RunE", path)
		}
	}
}

func TestMigrateRejectsArgs(t *testing.T) {
	root := newRootCmd()
	root.SetArgs([]string{"migrate", "up", "extra"})
	if err := root.Execute(); err == nil {
		t.Fatalf("expected an error for unexpected arguments")
	}
}
