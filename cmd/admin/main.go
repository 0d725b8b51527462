package main

import "github.com/jrsteele09/go-admin-session/cmd/admin/cmd"

func main() {
	cmd.Execute()
}
