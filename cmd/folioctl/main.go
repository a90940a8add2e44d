package main

import "github.com/kailas-cloud/folio/internal/cli"

func main() {
	cli.Execute()
}
