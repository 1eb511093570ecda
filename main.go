package main

import "github.com/portal-hq/portalex/cmd"

func main() {
	cmd.Execute()
}
