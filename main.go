package main

import "splitrip-backend/cmd"

func main() {
	cmd.Run()
}
