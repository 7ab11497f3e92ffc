package main

import "github.com/robalobadob/palavramestre/internal/cli"

func main() {
	cli.Execute()
}
