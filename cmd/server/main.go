package main

import "kisaan/pkg/cli"

var version = "dev"

func main() {
	cli.Execute(version)
}
