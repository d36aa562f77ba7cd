package main

import "github.com/example/gym-sniper/cmd"

func main() {
	cmd.Execute()
}
