package main

import (
	"fmt"

	"github.com/HellFiveOsborn/codebase-mcp/internal/cli"
	"github.com/HellFiveOsborn/codebase-mcp/internal/utils"
)

// main is the entry point for the codebase-mcp command.
func main() {
	loggerInstance, loggerInitializationError := utils.NewApplicationLogger()
	if loggerInitializationError != nil {
		panic(fmt.Errorf(utils.LoggerInitializationFailedMessageFormat, loggerInitializationError))
	}
	defer loggerInstance.Sync()
	if applicationExecutionError := cli.Execute(); applicationExecutionError != nil {
		loggerInstance.Fatal(utils.ApplicationExecutionFailedMessage + ": " + applicationExecutionError.Error())
	}
}
