package main

import "github.com/fakeyudi/domainlog/cmd"

func main() {
	cmd.Execute()
}
