package main

import "github.com/frahmantamala/rbac-admin/cmd"

func main() {
	cmd.Execute()
}
