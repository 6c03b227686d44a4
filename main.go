package main

import "thoreinstein.com/prepush/cmd"

func main() {
	cmd.Execute()
}
