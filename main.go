package main

import (
	"greeter-node/cmd"
)

func main() {
	_ = cmd.RootCmd.Execute()
}
