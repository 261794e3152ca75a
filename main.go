package main

import (
	"fmt"
	"os"

	"fjacquet/trendfit/cmd/fit"
	"fjacquet/trendfit/cmd/forecast"
	"fjacquet/trendfit/cmd/root"
	"fjacquet/trendfit/cmd/show"
	"fjacquet/trendfit/cmd/watch"
)

func init() {
	// Register persistent flags before any subcommand is attached
	root.Init()

	root.Cmd.AddCommand(fit.Cmd)
	root.Cmd.AddCommand(forecast.Cmd)
	root.Cmd.AddCommand(show.Cmd)
	root.Cmd.AddCommand(watch.Cmd)
}

func main() {
	if err := root.Cmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
