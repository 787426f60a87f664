package main

import "github.com/Mohsinsiddi/aaveborrow/cmd"

func main() {
	cmd.Execute()
}
