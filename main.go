package main

import "scene-mirror/cmd"

func main() {
	cmd.Execute()
}
