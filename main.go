package main

import "github.com/naka-gawa/pr-quality-stats/cmd"

func main() {
	cmd.Execute()
}
