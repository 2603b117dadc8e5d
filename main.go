package main

import "github.com/josephlewis42/guish/cmd"

func main() {
	cmd.Execute()
}
