// Package main provides the entry point for the dbindex CLI, a small
// operator tool for disk-backed B+ tree index files.
package main

import (
	"fmt"
	"io"
	"os"
)

func main() {
	exitCode := run(os.Args)
	os.Exit(exitCode)
}

// run executes the CLI and returns an exit code.
// This is separated from main() to facilitate testing.
func run(args []string) int {
	if len(args) < 2 {
		printUsage(os.Stdout)
		return 1
	}

	switch args[1] {
	case "create":
		return createCmd(args[2:])
	case "load":
		return loadCmd(args[2:])
	case "remove":
		return removeCmd(args[2:])
	case "get":
		return getCmd(args[2:])
	case "scan":
		return scanCmd(args[2:])
	case "stats":
		return statsCmd(args[2:])
	case "help", "-h", "--help":
		printUsage(os.Stdout)
		return 0
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", args[1])
		fmt.Fprintln(os.Stderr, "Run 'dbindex help' for usage.")
		return 1
	}
}

// printUsage writes the top-level usage text.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: dbindex <command> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  create   Create an index file")
	fmt.Fprintln(w, "  load     Insert integer keys from a file, one per line")
	fmt.Fprintln(w, "  remove   Remove integer keys listed in a file")
	fmt.Fprintln(w, "  get      Look up a single key")
	fmt.Fprintln(w, "  scan     Scan keys in order, optionally from a start key")
	fmt.Fprintln(w, "  stats    Print index file statistics")
	fmt.Fprintln(w, "  help     Show this help")
}
