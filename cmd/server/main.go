package main

import "github.com/fastygo/timetracker/cmd"

func main() {
	cmd.Execute()
}
