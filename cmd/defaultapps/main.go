package main

import (
	"fmt"
	"os"
)

func main() {
	os.Exit(execute(os.Args[1:]))
}

// execute runs the CLI and maps the outcome to a process exit code: 0 when
// the run completed or the user cancelled, 1 on any fatal error.
func execute(args []string) int {
	root := newRootCmd()
	root.SetArgs(args)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(root.ErrOrStderr(), "defaultapps:", err)
		return 1
	}
	return 0
}
