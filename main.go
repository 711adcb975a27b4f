package main

import "github.com/gauchoracing/aamctl/cmd"

func main() {
	cmd.Execute()
}
