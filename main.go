package main

import "github.com/naka-gawa/weekly-changelog/cmd"

func main() {
	cmd.Execute()
}
