package main

import "github.com/homescreen/homescreen/internal/cli"

func main() {
	cli.Execute()
}
