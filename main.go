package main

import "github.com/KaramelBytes/paxsat-cli/cmd"

func main() {
	cmd.Execute()
}
