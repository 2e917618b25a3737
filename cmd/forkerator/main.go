package main

import "forkerator/internal/cli"

func main() {
	cli.Execute()
}
