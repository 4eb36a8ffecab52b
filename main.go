package main

import "hush/cmd"

func main() {
	cmd.Execute()
}
