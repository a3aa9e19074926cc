package main

import "github.com/linkpred/golinkpred/cmd"

func main() {
	cmd.Execute()
}
