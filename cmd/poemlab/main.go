// Command poemlab analyzes poems: meter, rhyme, sound, singability, emotion and form.
package main

import (
	"github.com/alecthomas/kong"
)

var CLI struct {
	Config    string `name:"config" short:"c" help:"Config file (yaml, json, toml or env)." type:"path"`
	Workspace string `name:"workspace" short:"w" help:"Workspace directory for reports and the file cache." type:"path"`
	LogLevel  string `name:"log-level" help:"Override the configured log level."`

	Analyze AnalyzeCmd `cmd:"" help:"Analyze one poem file (or - for stdin)."`
	Batch   BatchCmd   `cmd:"" help:"Analyze many poem files concurrently."`
	Forms   FormsCmd   `cmd:"" help:"List the recognised poem forms in priority order."`
	Report  ReportCmd  `cmd:"" help:"Print a report saved with analyze --save."`
	Sketch  SketchCmd  `cmd:"" help:"Write a MIDI melody sketch for a poem."`
	Serve   ServeCmd   `cmd:"" help:"Serve the HTTP and websocket API."`
	Cache   CacheCmd   `cmd:"" help:"Maintain the analysis cache."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("poemlab"),
		kong.Description("Prosody and form analysis for poems and lyrics"),
		kong.UsageOnError(),
	)

	app, err := newApp(CLI.Config, CLI.Workspace, CLI.LogLevel)
	ctx.FatalIfErrorf(err)
	defer app.Close()

	err = ctx.Run(app)
	ctx.FatalIfErrorf(err)
}
