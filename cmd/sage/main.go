// Command sage serves the Mahabharata AI Sage site shell and provides
// helpers to inspect its head and start a new site.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kingpin/v2"

	"github.com/eringen/sage"
	"github.com/eringen/sage/head"
	"github.com/eringen/sage/logger"
	"github.com/eringen/sage/scaffold"
)

// version is set at build time via ldflags.
var version = "dev"

type cli struct {
	app *kingpin.Application

	serveCmd  *kingpin.CmdClause
	addr      *string
	headFile  *string
	profile   *string
	staticDir *string

	headCmd  *kingpin.CmdClause
	headJSON *bool
	headProf *string
	headPath *string

	initCmd     *kingpin.CmdClause
	initDir     *string
	initName    *string
	initURL     *string
	initLogo    *string
	initDesc    *string
	initAPIBase *string
	initGtag    *string

	versionCmd *kingpin.CmdClause
}

func newCLI() *cli {
	c := &cli{app: kingpin.New("sage", "Mahabharata AI Sage site shell built with Go, Echo and templ")}

	c.serveCmd = c.app.Command("serve", "Serve the site").Default()
	c.addr = c.serveCmd.Flag("addr", "Listen address (overrides SAGE_ADDR)").String()
	c.headFile = c.serveCmd.Flag("head-file", "YAML head descriptor (overrides SAGE_HEAD_FILE)").String()
	c.profile = c.serveCmd.Flag("profile", "Built-in head profile: full or minimal (overrides SAGE_HEAD_PROFILE)").String()
	c.staticDir = c.serveCmd.Flag("static-dir", "Directory with favicons and assets/ (overrides SAGE_STATIC_DIR)").String()

	c.headCmd = c.app.Command("head", "Print the rendered <head>")
	c.headJSON = c.headCmd.Flag("json", "Print the descriptor as JSON instead").Bool()
	c.headProf = c.headCmd.Flag("profile", "Built-in head profile").String()
	c.headPath = c.headCmd.Flag("head-file", "YAML head descriptor").String()

	c.initCmd = c.app.Command("init", "Write starter files for a new site")
	c.initDir = c.initCmd.Arg("dir", "Target directory").Required().String()
	c.initName = c.initCmd.Flag("name", "Site name").Default("Mahabharata AI Sage").String()
	c.initURL = c.initCmd.Flag("url", "Canonical site URL").Default(head.SiteURL).String()
	c.initLogo = c.initCmd.Flag("logo", "Logo image URL for social cards and JSON-LD").String()
	c.initDesc = c.initCmd.Flag("description", "Site description").Default("Explore the legends, warriors, and dharma of the Kurukshetra.").String()
	c.initAPIBase = c.initCmd.Flag("api-base", "Chat API base URL").Default(sage.EnvOr("API_BASE_URL", sage.DefaultAPIBase)).String()
	c.initGtag = c.initCmd.Flag("gtag-id", "Google Analytics measurement id").String()

	c.versionCmd = c.app.Command("version", "Print the sage version")
	return c
}

func main() {
	c := newCLI()
	cmd := kingpin.MustParse(c.app.Parse(os.Args[1:]))
	if err := c.run(cmd, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func (c *cli) run(cmd string, out io.Writer) error {
	switch cmd {
	case c.serveCmd.FullCommand():
		return c.runServe()
	case c.headCmd.FullCommand():
		return c.runHead(out)
	case c.initCmd.FullCommand():
		return c.runInit(out)
	case c.versionCmd.FullCommand():
		fmt.Fprintf(out, "sage %s\n", version)
	}
	return nil
}

func (c *cli) loadConfig() (sage.SiteConfig, error) {
	cfg, err := sage.LoadConfigFromEnv()
	if err != nil {
		return cfg, err
	}
	override(&cfg.Addr, c.addr)
	override(&cfg.HeadFile, c.headFile)
	override(&cfg.HeadProfile, c.profile)
	override(&cfg.StaticDir, c.staticDir)
	return cfg, nil
}

func override(dst *string, flag *string) {
	if flag != nil && *flag != "" {
		*dst = *flag
	}
}

func (c *cli) runServe() error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	log := logger.New("server", cfg.LogLevel)

	app, err := sage.New(cfg, sage.WithLogger(log))
	if err != nil {
		return err
	}
	defer app.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.Start(ctx); err != nil {
		log.Error().Err(err).Msg("server stopped")
		return err
	}
	return nil
}

func (c *cli) runHead(out io.Writer) error {
	cfg, err := sage.LoadConfigFromEnv()
	if err != nil {
		return err
	}
	override(&cfg.HeadFile, c.headPath)
	override(&cfg.HeadProfile, c.headProf)

	d, err := sage.BuildDescriptor(cfg)
	if err != nil {
		return err
	}
	if *c.headJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(d)
	}
	if err := head.Render(out, d, cfg.RuntimeConfig()); err != nil {
		return err
	}
	_, err = fmt.Fprintln(out)
	return err
}

func (c *cli) runInit(out io.Writer) error {
	fmt.Fprintf(out, "Creating new sage site: %s\n\n", *c.initDir)
	err := scaffold.Write(*c.initDir, scaffold.Data{
		SiteName:    *c.initName,
		SiteURL:     *c.initURL,
		Logo:        *c.initLogo,
		Description: *c.initDesc,
		APIBase:     *c.initAPIBase,
		GtagID:      *c.initGtag,
	}, out)
	if err != nil {
		return err
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Done! Next steps:")
	fmt.Fprintf(out, "  cd %s\n", *c.initDir)
	fmt.Fprintln(out, "  cp .env.example .env")
	fmt.Fprintln(out, "  sage serve")
	return nil
}
