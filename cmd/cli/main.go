package main

import "degview/internal/cli"

func main() {
	cli.Execute()
}
