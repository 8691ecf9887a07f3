package main

import "masterclass/schemagraph/cmd"

func main() {
	cmd.Execute()
}
