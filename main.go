package main

import "github.com/kozaktomas/face-register/cmd"

func main() {
	cmd.Execute()
}
