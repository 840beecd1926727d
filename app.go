package main

import "github.com/masmgr/gitpikchr/cmd"

func main() {
	cmd.Run()
}
