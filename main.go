package main

import "github.com/frahmantamala/helpdesk-console/cmd"

func main() {
	cmd.Execute()
}
