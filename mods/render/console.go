package render

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/Alphacentaura/FarmSquare/mods/logging"
	"github.com/Alphacentaura/FarmSquare/mods/nums"
	"github.com/Alphacentaura/FarmSquare/mods/tracker"
	"github.com/jedib0t/go-pretty/v6/table"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gopkg.in/yaml.v3"
)

const (
	msgPermissionTitle = "Location permission not granted"
	msgPermissionBody  = "The app needs access to the current location to work properly. Open Settings to allow it."
	msgUnavailable     = "Location unavailable: %s"
)

func init() {
	message.SetString(language.Russian, msgPermissionTitle, "Не дано разрешение на получение координат")
	message.SetString(language.Russian, msgPermissionBody, "Для нормальной работы приложения необходимо предоставить доступ к текущему местоположению!")
	message.SetString(language.Russian, msgUnavailable, "Координаты недоступны: %s")
}

type ConsoleConfig struct {
	// text, json or yaml
	Format string
	// table style: default, bold, double, light, round
	Style    string
	Language string
	// TimeFormat of the table, Go layout
	TimeFormat string
}

func DefaultConsoleConfig() *ConsoleConfig {
	return &ConsoleConfig{
		Format:     "text",
		Style:      "default",
		Language:   "en",
		TimeFormat: time.RFC3339,
	}
}

// Console prints measurements and notices to a writer.
type Console struct {
	log     logging.Log
	out     io.Writer
	conf    ConsoleConfig
	printer *message.Printer
}

var _ tracker.Presenter = (*Console)(nil)

func NewConsole(out io.Writer, conf *ConsoleConfig) (*Console, error) {
	if conf == nil {
		conf = DefaultConsoleConfig()
	}
	c := &Console{
		log:  logging.GetLog("render-console"),
		out:  out,
		conf: *conf,
	}
	switch c.conf.Format {
	case "":
		c.conf.Format = "text"
	case "text", "json", "yaml":
	default:
		return nil, fmt.Errorf("unknown console format %q", c.conf.Format)
	}
	if c.conf.Language == "" {
		c.conf.Language = "en"
	}
	tag, err := language.Parse(c.conf.Language)
	if err != nil {
		return nil, fmt.Errorf("console language %q: %w", c.conf.Language, err)
	}
	if c.conf.TimeFormat == "" {
		c.conf.TimeFormat = time.RFC3339
	}
	c.printer = message.NewPrinter(tag)
	return c, nil
}

func (c *Console) ShowPath(points []nums.LatLng) {
	if len(points) == 0 {
		c.log.Debug("path cleared")
		return
	}
	if c.log.DebugEnabled() {
		c.log.Debugf("path %d points, last %s, zoom %d", len(points), points[len(points)-1], nums.ViewZoom(points, ViewPixels))
	}
}

func (c *Console) ShowArea(m tracker.Measurement) {
	var err error
	switch c.conf.Format {
	case "json":
		err = c.writeJSON(m)
	case "yaml":
		err = c.writeYAML(m)
	default:
		c.writeTable(m)
		_, err = fmt.Fprintln(c.out, m.Text())
	}
	if err != nil {
		c.log.Errorf("console write, %s", err.Error())
	}
}

func (c *Console) ShowPermissionPrompt() {
	c.printer.Fprintf(c.out, msgPermissionTitle)
	fmt.Fprintln(c.out)
	c.printer.Fprintf(c.out, msgPermissionBody)
	fmt.Fprintln(c.out)
}

func (c *Console) ShowLocationUnavailable(err error) {
	c.printer.Fprintf(c.out, msgUnavailable, err.Error())
	fmt.Fprintln(c.out)
}

func tableStyle(name string) table.Style {
	switch name {
	case "bold":
		return table.StyleBold
	case "double":
		return table.StyleDouble
	case "light":
		return table.StyleLight
	case "round":
		return table.StyleRounded
	default:
		return table.StyleDefault
	}
}

func (c *Console) formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format(c.conf.TimeFormat)
}

func (c *Console) writeTable(m tracker.Measurement) {
	w := table.NewWriter()
	w.SetOutputMirror(c.out)
	w.SetStyle(tableStyle(c.conf.Style))
	w.AppendHeader(table.Row{"SESSION", "POINTS", "PERIMETER (m)", "AREA (sq.m.)"})
	session := m.SessionID
	if session == "" {
		session = "-"
	}
	w.AppendRow(table.Row{
		session,
		c.printer.Sprintf("%d", m.PointCount),
		c.printer.Sprintf("%.1f", m.Perimeter),
		c.printer.Sprintf("%.4f", m.Area),
	})
	if !m.StartedAt.IsZero() {
		w.AppendFooter(table.Row{"", "", c.formatTime(m.StartedAt), c.formatTime(m.StoppedAt)})
	}
	w.Render()
}

type report struct {
	tracker.Measurement `yaml:",inline"`
	Text                string `json:"text" yaml:"text"`
}

func (c *Console) writeJSON(m tracker.Measurement) error {
	enc := json.NewEncoder(c.out)
	enc.SetIndent("", "  ")
	return enc.Encode(report{Measurement: m, Text: m.Text()})
}

func (c *Console) writeYAML(m tracker.Measurement) error {
	b, err := yaml.Marshal(report{Measurement: m, Text: m.Text()})
	if err != nil {
		return err
	}
	_, err = c.out.Write(b)
	return err
}
