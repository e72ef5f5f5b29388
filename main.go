package main

import "contactus-backend/cmd"

func main() {
	cmd.Execute()
}
