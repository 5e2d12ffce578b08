package main

import "github.com/vios-project/vios/cmd"

func main() {
	cmd.Execute()
}
