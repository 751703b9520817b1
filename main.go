package main

import "github.com/jfmyers9/tapdeck/cmd"

func main() {
	cmd.Execute()
}
