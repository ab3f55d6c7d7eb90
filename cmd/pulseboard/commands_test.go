package main

import (
	"strings"
	"testing"
)

func TestIngest_RequiresSource(t *testing.T) {
	defer rootCmd.SetArgs(nil)

	rootCmd.SetArgs([]string{"ingest"})
	err := rootCmd.Execute()
	if err == nil || !strings.Contains(err.Error(), "--source is required") {
		t.Errorf("err = %v, want missing --source error", err)
	}
}

func TestIngest_TodoRequiresTodoText(t *testing.T) {
	defer rootCmd.SetArgs(nil)

	rootCmd.SetArgs([]string{"ingest", "--source", "Email", "--todo"})
	err := rootCmd.Execute()
	if err == nil || !strings.Contains(err.Error(), "--todo-text is required") {
		t.Errorf("err = %v, want missing --todo-text error", err)
	}
}

func TestList_MutuallyExclusiveFilters(t *testing.T) {
	defer rootCmd.SetArgs(nil)

	rootCmd.SetArgs([]string{"list", "--todos", "--notifications"})
	err := rootCmd.Execute()
	if err == nil || !strings.Contains(err.Error(), "mutually exclusive") {
		t.Errorf("err = %v, want mutually exclusive error", err)
	}
}

func TestColorize(t *testing.T) {
	old := noColor
	defer func() { noColor = old }()

	noColor = true
	if result := colorize(colorGreen, "hi"); strings.Contains(result, "\033") {
		t.Errorf("colorize with noColor=true should not contain ANSI codes, got %q", result)
	}

	noColor = false
	if result := colorize(colorGreen, "hi"); !strings.Contains(result, "\033") {
		t.Errorf("colorize with noColor=false should contain ANSI codes, got %q", result)
	}
}
