package main

import "github.com/frahmantamala/smart-budget/cmd"

func main() {
	cmd.Execute()
}
