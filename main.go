package main

import (
	"os"

	"port-scanner/cmd"
	"port-scanner/logging"
)

func main() {

	if err := cmd.RunApp(); err != nil {
		logger := logging.GetSugar()
		logger.Errorf("Error when run app. Error: %+v", err)
		logging.Sync()
		os.Exit(1)
	}

}
