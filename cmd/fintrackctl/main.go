package main

import "fintrack/internal/cli"

func main() {
	cli.LoadEnvFile()
	cli.Execute()
}
