package main

import "github.com/trackerlab/keylogic/cmd/keylogic/commands"

func main() {
	commands.Execute()
}
