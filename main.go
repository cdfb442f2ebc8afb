package main

import "github.com/rasterd/rasterd/cmd"

func main() {
	cmd.Execute()
}
