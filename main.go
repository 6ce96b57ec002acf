package main

import "github.com/agentic-research/semtree/cmd"

func main() {
	cmd.Execute()
}
