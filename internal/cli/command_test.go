package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/spf13/pflag"
)

func testTree(calls *[]string) *Command {
	var verbose bool
	return &Command{
		Name:    "tool",
		Summary: "A test tool",
		Subcommands: []*Command{
			{
				Name:    "echo",
				Summary: "Echo arguments",
				Flags: func() *pflag.FlagSet {
					fs := pflag.NewFlagSet("echo", pflag.ContinueOnError)
					fs.BoolVarP(&verbose, "verbose", "v", false, "verbose output")
					return fs
				},
				Run: func(_ context.Context, args []string) error {
					entry := strings.Join(args, ",")
					if verbose {
						entry = "v:" + entry
					}
					*calls = append(*calls, entry)
					return nil
				},
			},
			{
				Name:    "group",
				Summary: "A group",
				Subcommands: []*Command{
					{Name: "leaf", Run: func(context.Context, []string) error {
						*calls = append(*calls, "leaf")
						return nil
					}},
				},
			},
		},
	}
}

func TestExecuteDispatch(t *testing.T) {
	var calls []string
	var help bytes.Buffer
	root := testTree(&calls)
	ctx := context.Background()

	if err := root.Execute(ctx, []string{"echo", "-v", "a", "b"}, &help); err != nil {
		t.Fatalf("echo: %v", err)
	}
	if err := root.Execute(ctx, []string{"group", "leaf"}, &help); err != nil {
		t.Fatalf("group leaf: %v", err)
	}
	if len(calls) != 2 || calls[0] != "v:a,b" || calls[1] != "leaf" {
		t.Errorf("calls = %v", calls)
	}
}

func TestExecuteErrors(t *testing.T) {
	var calls []string
	var help bytes.Buffer
	root := testTree(&calls)
	ctx := context.Background()

	err := root.Execute(ctx, []string{"nope"}, &help)
	if err == nil || !strings.Contains(err.Error(), `unknown command "nope"`) {
		t.Errorf("unknown command err = %v", err)
	}

	err = root.Execute(ctx, []string{"group"}, &help)
	if err == nil || !strings.Contains(err.Error(), "subcommand required") {
		t.Errorf("missing subcommand err = %v", err)
	}

	err = root.Execute(ctx, []string{"echo", "--bogus"}, &help)
	if err == nil || !strings.Contains(err.Error(), "tool echo --help") {
		t.Errorf("bad flag err = %v", err)
	}
	if len(calls) != 0 {
		t.Errorf("no command should have run, got %v", calls)
	}
}

func TestPrintHelp(t *testing.T) {
	var calls []string
	var help bytes.Buffer
	root := testTree(&calls)

	if err := root.Execute(context.Background(), []string{"--help"}, &help); err != nil {
		t.Fatalf("help: %v", err)
	}
	out := help.String()
	for _, want := range []string{"A test tool", "tool <command> [flags]", "echo", "Echo arguments", "group"} {
		if !strings.Contains(out, want) {
			t.Errorf("root help missing %q:\n%s", want, out)
		}
	}

	help.Reset()
	if err := root.Execute(context.Background(), []string{"echo", "-h"}, &help); err != nil {
		t.Fatalf("echo help: %v", err)
	}
	if !strings.Contains(help.String(), "--verbose") {
		t.Errorf("echo help missing flags:\n%s", help.String())
	}
}

func TestExitError(t *testing.T) {
	err := &ExitError{Code: 3}
	if err.ExitCode() != 3 || err.Error() != "exit code 3" {
		t.Errorf("ExitError = %d %q", err.ExitCode(), err.Error())
	}
}
