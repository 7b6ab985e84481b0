package main

import "github.com/vibe-coder/vibe/internal/cli"

func main() {
	cli.Execute()
}
