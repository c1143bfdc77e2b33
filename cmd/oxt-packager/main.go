package main

import "github.com/ossii/oxt-packager/cmd/oxt-packager/cmd"

func main() {
	cmd.Execute()
}
