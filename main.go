package main

import "github.com/llehouerou/hush/internal/cli"

func main() {
	cli.Execute()
}
