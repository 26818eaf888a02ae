package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"prebib/src/cmd/prebib/prebibcmd"
	"prebib/src/internal/diag"
)

var rootCmd = prebibcmd.New()

// run executes the command with args and returns the process exit status.
func run(root *cobra.Command, args []string, stdout, stderr io.Writer) int {
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	err := root.Execute()
	if err == nil {
		return 0
	}
	if errors.Is(err, prebibcmd.ErrUsage) {
		_, _ = fmt.Fprintln(stderr, err)
		return 1
	}
	diag.NewLogger(stderr, diag.Options{}).Error(err.Error())
	return 1
}

func main() {
	os.Exit(run(rootCmd, os.Args[1:], os.Stdout, os.Stderr))
}
