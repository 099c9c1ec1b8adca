package main

import (
	"fmt"
	"log"
	"os"

	"github.com/akamensky/argparse"
	"github.com/nebtools/nebgen/pkg/api"
)

func main() {
	parser := argparse.NewParser("nebgen-api",
		"nebgen-api serves a read-only HTTP view of a nebula network topology")

	var topologyPath *string = parser.String("t", "topology", &argparse.Options{Required: true})
	var addr *string = parser.String("l", "listen", &argparse.Options{Default: ":40000"})

	err := parser.Parse(os.Args)

	if err != nil {
		fmt.Print(parser.Usage(err))
		return
	}

	apiServer, err := api.NewApiServer(api.ApiServerConf{
		TopologyPath: *topologyPath,
	})

	if err != nil {
		log.Fatal(err.Error())
	}

	apiServer.Run(*addr)
}
