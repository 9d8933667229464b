package main

import "github.com/piwi3910/FleetPack/internal/cli"

func main() {
	cli.Execute()
}
