package main

import "ptzctl/cmd"

func main() {
	cmd.Execute()
}
