package main

import "github.com/KaramelBytes/shopstats-cli/cmd"

func main() {
	cmd.Execute()
}
