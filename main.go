package main

import "stage-merge/cmd"

func main() {
	cmd.Execute()
}
