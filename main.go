package main

import "github.com/hostsh/hostsh/cmd"

func main() {
	cmd.Execute()
}
