package main

import "github.com/notargets/meshinterp/cmd"

func main() {
	cmd.Execute()
}
