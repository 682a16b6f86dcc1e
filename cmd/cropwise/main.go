package main

import "github.com/agrosense/cropwise/pkg/cli"

func main() {
	cli.Execute()
}
