package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/homedash/home-dash/services/viewer/config"
	"github.com/homedash/home-dash/services/viewer/factory"
	logger "github.com/multiversx/mx-chain-logger-go"
	"github.com/urfave/cli"
)

// appVersion should be populated at build time using ldflags
var appVersion = "undefined"

var (
	log = logger.GetOrCreate("viewer")

	// logLevel defines the logger level
	logLevel = cli.StringFlag{
		Name:  "log-level",
		Usage: "This flag specifies the logger `level(s)`. It can contain multiple comma-separated value.",
		Value: "*:" + logger.LogWarning.String(),
	}
	// serverURL points at the dashboard service to fetch from
	serverURL = cli.StringFlag{
		Name:  "server",
		Usage: "Base `URL` of the dashboard service.",
		Value: "http://127.0.0.1:8080",
	}
	// clientConfigFile is the renderer configuration JSON document
	clientConfigFile = cli.StringFlag{
		Name:  "config",
		Usage: "Path to the client configuration JSON `file`.",
		Value: "./client-config.json",
	}
	// noCharts disables the sparkline charter, timeseries cards then degrade to json
	noCharts = cli.BoolFlag{
		Name:  "no-charts",
		Usage: "Boolean option for disabling charts. If set, timeseries metrics are rendered as json.",
	}
	// renderOnce renders a single frame and exits
	renderOnce = cli.BoolFlag{
		Name:  "once",
		Usage: "Boolean option for rendering a single frame instead of refreshing periodically.",
	}
)

func main() {
	app := cli.NewApp()
	app.Name = "Home metrics dashboard viewer"
	app.Version = fmt.Sprintf("%s/%s/%s-%s", appVersion, runtime.Version(), runtime.GOOS, runtime.GOARCH)
	app.Usage = "Terminal client that periodically fetches the dashboard metrics and renders them"
	app.Flags = []cli.Flag{
		logLevel,
		serverURL,
		clientConfigFile,
		noCharts,
		renderOnce,
	}

	app.Action = run

	err := app.Run(os.Args)
	if err != nil {
		log.Error(err.Error())
		os.Exit(1)
	}
}

func run(ctx *cli.Context) error {
	err := logger.SetLogLevel(ctx.GlobalString(logLevel.Name))
	if err != nil {
		return err
	}

	clientConfig := config.LoadClientConfig(ctx.GlobalString(clientConfigFile.Name))

	componentsHandler, err := factory.NewComponentsHandler(factory.ArgsComponentsHandler{
		ServerURL:      ctx.GlobalString(serverURL.Name),
		ClientConfig:   clientConfig,
		ChartsDisabled: ctx.GlobalBool(noCharts.Name),
	})
	if err != nil {
		return err
	}

	if len(clientConfig.Metrics) == 0 {
		componentsHandler.SeedFromServer(context.Background())
	}

	if ctx.GlobalBool(renderOnce.Name) {
		componentsHandler.Refresh(context.Background())
		return nil
	}

	componentsHandler.Start()
	defer componentsHandler.Close()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

	<-sigs

	return nil
}
