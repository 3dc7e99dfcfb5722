package main

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Alphacentaura/FarmSquare/booter"
	"github.com/Alphacentaura/FarmSquare/mods"
	"github.com/Alphacentaura/FarmSquare/mods/args"
	"github.com/Alphacentaura/FarmSquare/mods/logging"
	"github.com/Alphacentaura/FarmSquare/mods/render"
	"github.com/Alphacentaura/FarmSquare/mods/source"
	"github.com/Alphacentaura/FarmSquare/mods/tracker"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
)

//go:embed farmsquare.hcl
var DefaultConfig []byte

const DefaultPname = "farmsquare"

func main() {
	cli, err := args.ParseCommand(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, "farmsquare:", err.Error())
		os.Exit(2)
	}
	booter.SetFallbackPname(DefaultPname)
	booter.SetVersionString(mods.VersionString())

	switch cli.Command() {
	case "version":
		fmt.Printf("farmsquare %s\n", mods.VersionString())
		if c := mods.BuildCompiler(); c != "" {
			fmt.Printf("  compiler %s\n", c)
		}
	case "gen-config":
		os.Stdout.Write(DefaultConfig)
	case "area":
		err = doArea(cli)
	case "replay":
		err = doReplay(cli)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "farmsquare:", err.Error())
		os.Exit(1)
	}
}

func doArea(cli *args.FarmCommand) error {
	conf := logging.PresetConfigDiscard
	if cli.LogFilename != "" {
		conf.Filename = cli.LogFilename
	}
	if cli.LogLevel != "" {
		conf.DefaultLevel = cli.LogLevel
	}
	if err := logging.Configure(&conf); err != nil {
		return err
	}
	defer logging.Close()

	points, err := args.ParsePoints(cli.Area.Points)
	if err != nil {
		return err
	}
	consoleConf := render.DefaultConsoleConfig()
	if cli.Area.Format != "" {
		consoleConf.Format = cli.Area.Format
	}
	console, err := render.NewConsole(os.Stdout, consoleConf)
	if err != nil {
		return err
	}
	console.ShowArea(tracker.Measure(points))
	return nil
}

var requiresFunc = function.New(&function.Spec{
	Params: []function.Parameter{
		{Name: "constraint", Type: cty.String},
	},
	Type: function.StaticReturnType(cty.String),
	Impl: func(vals []cty.Value, retType cty.Type) (cty.Value, error) {
		if err := mods.CheckConfigVersion(vals[0].AsString()); err != nil {
			return cty.NilVal, err
		}
		return vals[0], nil
	},
})

func buildBooter(cli *args.FarmCommand) (booter.Booter, error) {
	bld := booter.NewBuilder()
	bld.SetFunction("requires", requiresFunc)
	for name, value := range map[string]string{
		"CLI_format":       cli.Replay.Format,
		"CLI_geojson":      cli.Replay.GeoJSON,
		"CLI_kml":          cli.Replay.KML,
		"CLI_log_level":    cli.LogLevel,
		"CLI_log_filename": cli.LogFilename,
	} {
		if err := bld.SetVariable(name, value); err != nil {
			return nil, err
		}
	}
	if cli.Config == "" {
		return bld.BuildWithContent(DefaultConfig)
	}
	if fi, err := os.Stat(cli.Config); err != nil {
		return nil, err
	} else if fi.IsDir() {
		return bld.BuildWithDir(cli.Config)
	}
	return bld.BuildWithFiles([]string{cli.Config})
}

func doReplay(cli *args.FarmCommand) error {
	if lvl, ok := logging.ParseLogLevelP(cli.LogLevel); ok && lvl <= logging.LevelDebug {
		bootLog := logging.GetLog("booter")
		bootLog.SetLevel(lvl)
		booter.SetBootLogger(logging.Wrap(bootLog, nil))
	}
	b, err := buildBooter(cli)
	if err != nil {
		return err
	}
	if err := b.Startup(); err != nil {
		b.Shutdown()
		return err
	}
	defer b.Shutdown()

	mod, ok := b.GetInstance(tracker.ModuleId).(*tracker.Module)
	if !ok {
		return errors.New("module farmsquare/tracker is not configured")
	}
	loop := mod.Loop()

	var src source.Source
	if cli.Replay.GPX != "" {
		src = &source.GPXSource{
			Path:    cli.Replay.GPX,
			Speed:   cli.Replay.Speed,
			NoStart: cli.Replay.NoStart,
			NoStop:  cli.Replay.NoStop,
		}
	} else {
		src = &source.JSONLinesSource{Path: cli.Replay.JSONL}
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	runErr := src.Run(ctx, loop)

	// report the parcel walked so far when interrupted
	final, finalCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer finalCancel()
	if errors.Is(runErr, context.Canceled) {
		_, err := loop.Stop(final)
		return err
	}
	if err := loop.Sync(final); err != nil {
		return err
	}
	return runErr
}
