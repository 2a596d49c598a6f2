package main

import (
	"github.com/findy-network/findy-agent-vcx/cmd"
)

func main() {
	cmd.Execute()
}
