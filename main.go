package main

import "github.com/darmiel/ordergate/cmd"

func main() {
	cmd.Execute()
}
