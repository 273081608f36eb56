package main

import "github.com/ankit-chaubey/exif-surgery/cli/cmd"

func main() {
	cmd.Execute()
}
