package main

import "booking-mirror/cmd"

func main() {
	cmd.Execute()
}
