package main

import "github.com/dayuer/voxbot/cmd"

func main() {
	cmd.Execute()
}
