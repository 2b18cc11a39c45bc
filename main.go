package main

import "cineadmin-tui/cmd"

var (
	version = "dev"
	commit  = "none"
)

func main() {
	v := version
	if commit != "none" && commit != "" {
		v = version + " (" + commit + ")"
	}
	cmd.Execute(v)
}
