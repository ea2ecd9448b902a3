package main

import "github.com/jeongjhs/workon/cmd"

func main() {
	cmd.Execute()
}
