package main

import "paygram/cmd/pay-cli/cmd"

func main() {
	cmd.Execute()
}
