package args

import (
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/Alphacentaura/FarmSquare/mods/nums"
	"github.com/alecthomas/kong"
)

type FarmCommand struct {
	Config      string `name:"config" short:"c" help:"boot configuration file or directory"`
	LogLevel    string `name:"log-level" help:"default log level, TRACE DEBUG INFO WARN ERROR"`
	LogFilename string `name:"log-filename" help:"log file, '-' for stdout"`

	Replay    ReplayCmd `cmd:"" help:"replay recorded positions through the tracker"`
	Area      AreaCmd   `cmd:"" help:"print the area enclosed by positions"`
	GenConfig struct{}  `cmd:"" name:"gen-config" help:"print the default boot configuration"`
	Version   struct{}  `cmd:"" help:"show version"`

	command string
}

// Command is the selected sub command.
func (cli *FarmCommand) Command() string {
	return cli.command
}

type ReplayCmd struct {
	GPX     string  `name:"gpx" xor:"input" help:"GPX track file"`
	JSONL   string  `name:"jsonl" xor:"input" help:"JSON lines event file, '-' for stdin"`
	Speed   float64 `name:"speed" default:"0" help:"playback speed factor of GPX timestamps, 0 replays without delay"`
	NoStart bool    `name:"no-start" help:"do not start a session before the GPX track"`
	NoStop  bool    `name:"no-stop" help:"do not stop the session after the GPX track"`
	Format  string  `name:"format" short:"f" help:"output format, text json yaml"`
	GeoJSON string  `name:"geojson" help:"export the parcel as GeoJSON"`
	KML     string  `name:"kml" help:"export the parcel as KML"`
}

type AreaCmd struct {
	Points []string `arg:"" name:"LAT,LNG" sep:"none" help:"positions in degrees"`
	Format string   `name:"format" short:"f" help:"output format, text json yaml"`
}

var ErrNoInput = errors.New("replay requires --gpx or --jsonl")

func parser(cli *FarmCommand, options ...kong.Option) (*kong.Kong, error) {
	opts := append([]kong.Option{
		kong.Name("farmsquare"),
		kong.Description("Parcel area estimation from walked GPS positions."),
		kong.HelpOptions{NoAppSummary: false, Compact: true, FlagsLast: true},
	}, options...)
	return kong.New(cli, opts...)
}

// ParseCommand parses args without the program name.
func ParseCommand(args []string, options ...kong.Option) (*FarmCommand, error) {
	cli := &FarmCommand{}
	k, err := parser(cli, options...)
	if err != nil {
		return nil, err
	}
	ctx, err := k.Parse(quoteNegativePoints(args))
	if err != nil {
		return nil, err
	}
	if fields := strings.Fields(ctx.Command()); len(fields) > 0 {
		cli.command = fields[0]
	}
	if cli.command == "replay" && cli.Replay.GPX == "" && cli.Replay.JSONL == "" {
		return nil, ErrNoInput
	}
	return cli, nil
}

var pointPattern = regexp.MustCompile(`^[-+]?[0-9.]+\s*,\s*[-+]?[0-9.]+$`)

// global flags taking the next argument as value
var globalValueFlags = []string{"--config", "-c", "--log-level", "--log-filename"}

// quoteNegativePoints moves the positions of the area command behind "--",
// otherwise "-33.9,18.4" is taken for a short flag.
func quoteNegativePoints(args []string) []string {
	idx := -1
	for i, arg := range args {
		if arg == "area" && (i == 0 || !slices.Contains(globalValueFlags, args[i-1])) {
			idx = i
			break
		}
		if arg == "--" {
			return args
		}
	}
	if idx < 0 || slices.Contains(args[idx+1:], "--") {
		return args
	}
	var flags, points []string
	negative := false
	for _, arg := range args[idx+1:] {
		if pointPattern.MatchString(arg) {
			points = append(points, arg)
			negative = negative || strings.HasPrefix(arg, "-")
		} else {
			flags = append(flags, arg)
		}
	}
	if !negative {
		return args
	}
	ret := make([]string, 0, len(args)+1)
	ret = append(ret, args[:idx+1]...)
	ret = append(ret, flags...)
	ret = append(ret, "--")
	return append(ret, points...)
}

// ParsePoints parses "lat,lng" pairs.
func ParsePoints(args []string) ([]nums.LatLng, error) {
	ret := make([]nums.LatLng, 0, len(args))
	for _, arg := range args {
		lat, lng, ok := strings.Cut(arg, ",")
		if !ok {
			return nil, fmt.Errorf("position %q, LAT,LNG expected", arg)
		}
		la, err := strconv.ParseFloat(strings.TrimSpace(lat), 64)
		if err != nil {
			return nil, fmt.Errorf("position %q, invalid latitude", arg)
		}
		ln, err := strconv.ParseFloat(strings.TrimSpace(lng), 64)
		if err != nil {
			return nil, fmt.Errorf("position %q, invalid longitude", arg)
		}
		p := nums.NewLatLng(la, ln)
		if !p.Valid() {
			return nil, fmt.Errorf("position %q is out of range", arg)
		}
		ret = append(ret, p)
	}
	return ret, nil
}
