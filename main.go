package main

import "github.com/dzjyyds666/tomljson/cmd"

func main() {
	cmd.Execute()
}
