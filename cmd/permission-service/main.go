package main

import (
	"os"

	"github.com/permissionhub/server/permissionservice"
)

func main() {
	if err := permissionservice.Run(); err != nil {
		os.Exit(1)
	}
}
