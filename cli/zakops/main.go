package main

import (
	"os"

	zakopscmder "github.com/zakopshq/zakops/cmd/zakops"
)

func main() {
	cmd := zakopscmder.NewZakopsCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
