package main

import "github.com/davidngn/walletcard/cmd"

func main() {
	cmd.Execute()
}
