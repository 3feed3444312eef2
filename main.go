package main

import "github.com/sunilav888-lab/RedHawk-Hunter/cmd"

func main() {
	cmd.Execute()
}
