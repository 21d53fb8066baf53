package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/peterbourgon/ff/v3"
	assesscore "github.com/sentaku/assess-core"
)

func main() {

	fs := flag.NewFlagSet("assess-core", flag.ExitOnError)
	var (
		_           = fs.String("config", "", "config file (optional), json format.")
		serviceName = fs.String("name", "", "name for this assessment service instance")
		serviceID   = fs.String("id", "", "id for this assessment service instance, leave blank to auto-generate a unique id")
		serviceHost = fs.String("host", "localhost", "name/address of host for this service")
		servicePort = fs.Int("port", 0, "port to run service on, if not specified will assign an available port automatically")
		catalogSrc  = fs.String("items", "items.json", "file path or url of the assessment item catalog")
		storePath   = fs.String("store", "", "sqlite file for the assessment record store, leave blank to run in-memory")
	)

	ff.Parse(fs, os.Args[1:],
		ff.WithConfigFileFlag("config"),
		ff.WithConfigFileParser(ff.JSONParser),
		ff.WithEnvVarPrefix("ASSESS_CORE"),
	)

	opts := []assesscore.Option{
		assesscore.Name(*serviceName),
		assesscore.ID(*serviceID),
		assesscore.Host(*serviceHost),
		assesscore.Port(*servicePort),
		assesscore.CatalogSource(*catalogSrc),
		assesscore.StorePath(*storePath),
	}

	srvc, err := assesscore.New(opts...)
	if err != nil {
		fmt.Printf("\nCannot create assess-core service:\n%s\n\n", err)
		return
	}

	srvc.PrintConfig()

	// signal handler for shutdown
	closed := make(chan struct{})
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt)
	go func() {
		<-c
		fmt.Println("\nassess-core shutting down")
		srvc.Shutdown()
		fmt.Println("assess-core closed")
		close(closed)
	}()

	srvc.Start()

	// block until shutdown by sig-handler
	<-closed

}
