package main

import "github.com/vogtb/go-gridcalc/cmd/gridcalc/cmd"

func main() {
	cmd.Execute()
}
