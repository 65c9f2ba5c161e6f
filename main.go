package main

import "github.com/KaramelBytes/datavista-cli/cmd"

func main() {
	cmd.Execute()
}
