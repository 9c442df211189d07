package main

import "github.com/alexiusacademia/gotensile/cmd"

func main() {
	cmd.Execute()
}
