package main

import "s3-manager/cmd"

func main() {
	cmd.Execute()
}
