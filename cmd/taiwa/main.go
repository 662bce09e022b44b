package main

import "github.com/sat8bit/taiwa/cmd/taiwa/cmd"

func main() {
	cmd.Execute()
}
