package main

import "github.com/Nehorai4/git-project/cmd"

func main() {
	cmd.Execute()
}
