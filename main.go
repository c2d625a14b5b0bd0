package main

import "github.com/VoxDroid/fnr/cmd"

func main() {
	cmd.Execute()
}
