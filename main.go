package main

import "github.com/RyanBlaney/sonido-sig/cmd"

func main() {
	cmd.Execute()
}
