package main

import "github.com/kamusis/vibe-cli/cmd"

func main() {
	cmd.Execute()
}
