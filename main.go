package main

import "vindecoder/cmd"

func main() {
	cmd.Execute()
}
