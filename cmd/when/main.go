// Package main is the entry point for the when CLI.
package main

import "github.com/basecamp/when/internal/cli"

func main() {
	cli.Execute()
}
