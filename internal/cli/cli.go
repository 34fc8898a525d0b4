// Package cli provides the command line interface.
package cli

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/HellFiveOsborn/codebase-mcp/internal/config"
	"github.com/HellFiveOsborn/codebase-mcp/internal/services/clipboard"
	"github.com/HellFiveOsborn/codebase-mcp/internal/services/mcp"
	"github.com/HellFiveOsborn/codebase-mcp/internal/tokenizer"
	"github.com/HellFiveOsborn/codebase-mcp/internal/utils"
)

const (
	addressFlagName      = "address"
	ignoreFlagName       = "ignore"
	outputFlagName       = "output"
	styleFlagName        = "style"
	bundleFlagName       = "bundle"
	linesFlagName        = "lines"
	tokensFlagName       = "tokens"
	modelFlagName        = "model"
	copyFlagName         = "copy"
	versionFlagName      = "version"
	versionTemplate      = "codebase-mcp version: %s\n"
	defaultPath          = "."
	defaultServerAddress = "127.0.0.1:8391"
	rootUse              = "codebase-mcp"
	rootShortDescription = "codebase-mcp command line interface"
	rootLongDescription  = `codebase-mcp packs a codebase into a single bundle via repomix and serves it
to AI agents. Run serve to expose the tools over HTTP, fetch to pack a local
directory, fetch-remote to pack a remote repository, and search to excerpt a
file from a previously saved bundle.`
	versionFlagDescription = "display application version"
	serveUse               = "serve"
	fetchUse               = "fetch [directory]"
	fetchRemoteUse         = "fetch-remote <repository-url>"
	searchUse              = "search <file-path>"
	serveShortDescription  = "run the MCP server"
	fetchShortDescription  = "pack a local directory into a bundle"
	fetchRemoteShort       = "pack a remote repository into a bundle"
	searchShortDescription = "excerpt a file from a saved bundle"

	// fetchUsageExample demonstrates fetch command usage.
	fetchUsageExample = `  # Pack the current directory
  codebase-mcp fetch

  # Pack a project excluding generated files
  codebase-mcp fetch ./service --ignore "dist/**" --ignore "*.lock"`

	// searchUsageExample demonstrates search command usage.
	searchUsageExample = `  # Excerpt a file from the default bundle
  codebase-mcp search src/cli.ts

  # Widen the excerpt and count its tokens
  codebase-mcp search src/cli.ts --lines 120 --tokens`

	addressFlagDescription     = "listen address for the MCP server"
	ignoreFlagDescription      = "additional ignore pattern passed to repomix"
	outputFlagDescription      = "bundle output file"
	styleFlagDescription       = "bundle style requested from repomix"
	bundleFlagDescription      = "bundle file to search"
	linesFlagDescription       = "maximum excerpt lines"
	tokensFlagDescription      = "include token counts"
	modelFlagDescription       = "tokenizer model to use for token counting"
	copyFlagDescription        = "copy the result to the clipboard"
	serveListeningMessage      = "MCP server listening on %s"
	warningClipboardFormat     = "Warning: clipboard copy failed: %v\n"
	workingDirectoryErrFormat  = "unable to determine working directory: %w"
	configurationLoadErrFormat = "load configuration: %w"
)

// Execute runs the codebase-mcp application.
func Execute() error {
	rootCommand := createRootCommand()
	return rootCommand.Execute()
}

// createRootCommand builds the root Cobra command.
func createRootCommand() *cobra.Command {
	var showVersion bool

	rootCommand := &cobra.Command{
		Use:          rootUse,
		Short:        rootShortDescription,
		Long:         rootLongDescription,
		SilenceUsage: true,
		RunE: func(command *cobra.Command, arguments []string) error {
			return command.Help()
		},
		PersistentPreRun: func(command *cobra.Command, arguments []string) {
			if showVersion {
				fmt.Printf(versionTemplate, utils.GetApplicationVersion())
				os.Exit(0)
			}
		},
	}
	rootCommand.PersistentFlags().BoolVar(&showVersion, versionFlagName, false, versionFlagDescription)
	rootCommand.AddCommand(
		createServeCommand(),
		createFetchCommand(),
		createFetchRemoteCommand(),
		createSearchCommand(),
	)
	rootCommand.InitDefaultHelpCmd()
	rootCommand.InitDefaultCompletionCmd()
	return rootCommand
}

type tokenOptions struct {
	enabled bool
	model   string
}

func (options tokenOptions) toConfig() tokenizer.Config {
	return tokenizer.Config{Model: options.model}
}

// createServeCommand returns the serve subcommand.
func createServeCommand() *cobra.Command {
	var listenAddress string

	serveCommand := &cobra.Command{
		Use:   serveUse,
		Short: serveShortDescription,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			applicationConfiguration, configurationError := loadConfiguration()
			if configurationError != nil {
				return configurationError
			}
			resolvedAddress := listenAddress
			if resolvedAddress == "" {
				resolvedAddress = applicationConfiguration.Server.Address
			}
			if resolvedAddress == "" {
				resolvedAddress = defaultServerAddress
			}

			logger, loggerError := utils.NewApplicationLogger()
			if loggerError != nil {
				return fmt.Errorf(utils.LoggerInitializationFailedMessageFormat, loggerError)
			}
			defer logger.Sync()

			serveContext, stopNotify := signal.NotifyContext(command.Context(), os.Interrupt, syscall.SIGTERM)
			defer stopNotify()

			server := mcp.NewServer(mcp.Config{
				Address:   resolvedAddress,
				Tools:     mcpTools(),
				Executors: mcpToolExecutors(applicationConfiguration),
			})
			return server.Run(serveContext, func(boundAddress string) {
				logger.Info(fmt.Sprintf(serveListeningMessage, boundAddress))
			})
		},
	}

	serveCommand.Flags().StringVar(&listenAddress, addressFlagName, "", addressFlagDescription)
	return serveCommand
}

// createFetchCommand returns the fetch subcommand.
func createFetchCommand() *cobra.Command {
	var ignorePatterns []string
	var outputFile string
	var bundleStyle string
	var copyEnabled bool
	var tokenConfiguration tokenOptions
	tokenConfiguration.model = tokenizer.DefaultModel

	fetchCommand := &cobra.Command{
		Use:     fetchUse,
		Short:   fetchShortDescription,
		Example: fetchUsageExample,
		Args:    cobra.MaximumNArgs(1),
		RunE: func(command *cobra.Command, arguments []string) error {
			targetDirectory := defaultPath
			if len(arguments) == 1 {
				targetDirectory = arguments[0]
			}
			applicationConfiguration, configurationError := loadConfiguration()
			if configurationError != nil {
				return configurationError
			}
			parameters := fetchParameters{
				Directory:      targetDirectory,
				IgnorePatterns: ignorePatterns,
				OutputFile:     outputFile,
				Style:          bundleStyle,
				Tokens:         tokenConfiguration,
			}
			renderedText := runFetchOperation(command.Context(), parameters, applicationConfiguration)
			return emitResult(renderedText, copyEnabled)
		},
	}

	fetchCommand.Flags().StringArrayVar(&ignorePatterns, ignoreFlagName, nil, ignoreFlagDescription)
	fetchCommand.Flags().StringVar(&outputFile, outputFlagName, "", outputFlagDescription)
	fetchCommand.Flags().StringVar(&bundleStyle, styleFlagName, "", styleFlagDescription)
	fetchCommand.Flags().BoolVar(&copyEnabled, copyFlagName, false, copyFlagDescription)
	fetchCommand.Flags().BoolVar(&tokenConfiguration.enabled, tokensFlagName, false, tokensFlagDescription)
	fetchCommand.Flags().StringVar(&tokenConfiguration.model, modelFlagName, tokenizer.DefaultModel, modelFlagDescription)
	return fetchCommand
}

// createFetchRemoteCommand returns the fetch-remote subcommand.
func createFetchRemoteCommand() *cobra.Command {
	var ignorePatterns []string
	var outputFile string
	var bundleStyle string
	var copyEnabled bool
	var tokenConfiguration tokenOptions
	tokenConfiguration.model = tokenizer.DefaultModel

	fetchRemoteCommand := &cobra.Command{
		Use:   fetchRemoteUse,
		Short: fetchRemoteShort,
		Args:  cobra.ExactArgs(1),
		RunE: func(command *cobra.Command, arguments []string) error {
			applicationConfiguration, configurationError := loadConfiguration()
			if configurationError != nil {
				return configurationError
			}
			parameters := fetchParameters{
				RemoteURL:      strings.TrimSpace(arguments[0]),
				IgnorePatterns: ignorePatterns,
				OutputFile:     outputFile,
				Style:          bundleStyle,
				Tokens:         tokenConfiguration,
			}
			renderedText := runFetchOperation(command.Context(), parameters, applicationConfiguration)
			return emitResult(renderedText, copyEnabled)
		},
	}

	fetchRemoteCommand.Flags().StringArrayVar(&ignorePatterns, ignoreFlagName, nil, ignoreFlagDescription)
	fetchRemoteCommand.Flags().StringVar(&outputFile, outputFlagName, "", outputFlagDescription)
	fetchRemoteCommand.Flags().StringVar(&bundleStyle, styleFlagName, "", styleFlagDescription)
	fetchRemoteCommand.Flags().BoolVar(&copyEnabled, copyFlagName, false, copyFlagDescription)
	fetchRemoteCommand.Flags().BoolVar(&tokenConfiguration.enabled, tokensFlagName, false, tokensFlagDescription)
	fetchRemoteCommand.Flags().StringVar(&tokenConfiguration.model, modelFlagName, tokenizer.DefaultModel, modelFlagDescription)
	return fetchRemoteCommand
}

// createSearchCommand returns the search subcommand.
func createSearchCommand() *cobra.Command {
	var bundleFile string
	var maximumLines int
	var copyEnabled bool
	var tokenConfiguration tokenOptions
	tokenConfiguration.model = tokenizer.DefaultModel

	searchCommand := &cobra.Command{
		Use:     searchUse,
		Short:   searchShortDescription,
		Example: searchUsageExample,
		Args:    cobra.MaximumNArgs(1),
		RunE: func(command *cobra.Command, arguments []string) error {
			requestedPath := ""
			if len(arguments) == 1 {
				requestedPath = arguments[0]
			}
			applicationConfiguration, configurationError := loadConfiguration()
			if configurationError != nil {
				return configurationError
			}
			parameters := searchParameters{
				BundleFile:    bundleFile,
				RequestedPath: requestedPath,
				Tokens:        tokenConfiguration,
			}
			if command.Flags().Changed(linesFlagName) {
				parameters.MaxLines = &maximumLines
			}
			renderedText := runSearchOperation(parameters, applicationConfiguration)
			return emitResult(renderedText, copyEnabled)
		},
	}

	searchCommand.Flags().StringVar(&bundleFile, bundleFlagName, "", bundleFlagDescription)
	searchCommand.Flags().IntVar(&maximumLines, linesFlagName, 0, linesFlagDescription)
	searchCommand.Flags().BoolVar(&copyEnabled, copyFlagName, false, copyFlagDescription)
	searchCommand.Flags().BoolVar(&tokenConfiguration.enabled, tokensFlagName, false, tokensFlagDescription)
	searchCommand.Flags().StringVar(&tokenConfiguration.model, modelFlagName, tokenizer.DefaultModel, modelFlagDescription)
	return searchCommand
}

// loadConfiguration reads the layered application configuration relative to
// the current working directory.
func loadConfiguration() (config.ApplicationConfiguration, error) {
	workingDirectory, workingDirectoryError := os.Getwd()
	if workingDirectoryError != nil {
		return config.ApplicationConfiguration{}, fmt.Errorf(workingDirectoryErrFormat, workingDirectoryError)
	}
	applicationConfiguration, loadError := config.LoadApplicationConfiguration(config.LoadOptions{WorkingDirectory: workingDirectory})
	if loadError != nil {
		return config.ApplicationConfiguration{}, fmt.Errorf(configurationLoadErrFormat, loadError)
	}
	return applicationConfiguration, nil
}

// emitResult prints the rendered text and optionally copies it to the
// clipboard. Clipboard failures degrade to a warning.
func emitResult(renderedText string, copyEnabled bool) error {
	fmt.Println(renderedText)
	if copyEnabled {
		if copyError := clipboard.NewCopier().Copy(renderedText); copyError != nil {
			fmt.Fprintf(os.Stderr, warningClipboardFormat, copyError)
		}
	}
	return nil
}
