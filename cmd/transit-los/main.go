package main

import "github.com/theoremus-urban-solutions/transit-los/cmd/transit-los/cmd"

func main() {
	cmd.Execute()
}
