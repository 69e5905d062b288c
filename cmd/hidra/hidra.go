package main

import (
	"os"
	"strings"

	"github.com/alecthomas/kong"
	kongtoml "github.com/alecthomas/kong-toml"
	kongyaml "github.com/alecthomas/kong-yaml"

	"github.com/Alia5/HIDRA/internal/config"
	"github.com/Alia5/HIDRA/internal/configpaths"
	"github.com/Alia5/HIDRA/internal/log"

	_ "github.com/Alia5/HIDRA/internal/registry" // Register all drivers
)

func main() {
	paths := configpaths.Resolve(userConfigArg(os.Args[1:]))

	var cli config.CLI
	ctx := kong.Parse(&cli,
		kong.Name("hidra"),
		kong.Description("Host Input Driver Adapter: attach HID drivers to real devices over hidapi."),
		kong.UsageOnError(),
		// Flags and env vars override values loaded from config files.
		kong.Configuration(kong.JSON, paths.JSON...),
		kong.Configuration(kongyaml.Loader, paths.YAML...),
		kong.Configuration(kongtoml.Loader, paths.TOML...),
	)

	logger, rawLogger, closers, err := log.Setup(log.Options{
		Level:   cli.Log.Level,
		File:    cli.Log.File,
		RawFile: cli.Log.RawFile,
	})
	ctx.FatalIfErrorf(err)
	defer log.CloseAll(closers)

	ctx.Bind(logger)
	ctx.BindTo(rawLogger, (*log.RawLogger)(nil))

	ctx.FatalIfErrorf(ctx.Run())
}

// userConfigArg pre-scans the raw arguments for --config so the candidate
// paths are known before kong parses; kong resolves the flag again for help
// and validation.
func userConfigArg(args []string) string {
	for i, a := range args {
		if v, ok := strings.CutPrefix(a, "--config="); ok {
			return v
		}
		if a == "--config" && i+1 < len(args) {
			return args[i+1]
		}
	}
	return os.Getenv("HIDRA_CONFIG")
}
