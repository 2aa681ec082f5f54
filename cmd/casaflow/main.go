package main

import "github.com/osanchezp/casaflow/internal/cli"

func main() {
	cli.Execute()
}
