package main

import "github.com/Tiliavir/hora-obra/cmd"

func main() {
	cmd.Execute()
}
