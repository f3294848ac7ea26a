package main

import "github.com/banshee-data/gptrack/internal/cli"

func main() {
	cli.Execute()
}
