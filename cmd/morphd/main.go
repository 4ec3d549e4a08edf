package main

import "github.com/filemorph/morph/cmd/morphd/cmd"

func main() {
	cmd.Execute()
}
