// Command collide_sim steps a scene of moving meshes and reports how the
// collisions played out.
package main

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"collide3d/internal/config"
	"collide3d/internal/engine"
	"collide3d/internal/logging"
	"collide3d/internal/world"
)

const (
	flagConfig = "config"
	flagScene  = "scene"
	flagSteps  = "steps"
	flagDT     = "dt"
	flagDebug  = "debug"
)

func main() {
	app := &cli.App{
		Name:  "collide_sim",
		Usage: "simulate colliding meshes",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  flagDebug,
				Usage: "enable debug logging",
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "run",
				Usage: "load a scene and step it",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    flagConfig,
						Aliases: []string{"c"},
						Usage:   "load configuration from `FILE` (.toml, .yaml)",
					},
					&cli.StringFlag{
						Name:     flagScene,
						Aliases:  []string{"s"},
						Usage:    "scene `FILE` to simulate",
						Required: true,
					},
					&cli.IntFlag{
						Name:  flagSteps,
						Value: 600,
						Usage: "number of steps",
					},
					&cli.Float64Flag{
						Name:  flagDT,
						Value: 1.0 / 60.0,
						Usage: "seconds per step",
					},
				},
				Action: runAction,
			},
			{
				Name:  "components",
				Usage: "list the component types scene files may use",
				Action: func(c *cli.Context) error {
					for _, name := range engine.RegisteredComponents() {
						fmt.Fprintln(c.App.Writer, name)
					}
					return nil
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func runAction(c *cli.Context) error {
	cfg := config.Default()
	if path := c.String(flagConfig); path != "" {
		var err error
		if cfg, err = config.Load(path); err != nil {
			return err
		}
	}
	if c.Bool(flagDebug) {
		cfg.Logging.Level = "debug"
	}

	logger, err := logging.New("collide_sim", cfg.Logging.Level)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	steps, dt := c.Int(flagSteps), float32(c.Float64(flagDT))
	if steps < 0 || dt <= 0 {
		return errors.Errorf("need steps >= 0 and dt > 0, got %d and %v", steps, dt)
	}
	return simulate(c.App.Writer, cfg, logger, c.String(flagScene), steps, dt)
}

func simulate(out io.Writer, cfg config.Config, logger *zap.SugaredLogger, scenePath string, steps int, dt float32) error {
	w, err := world.New(cfg, logger)
	if err != nil {
		return err
	}
	if err := w.LoadScene(scenePath); err != nil {
		return err
	}
	w.Start()

	tally := newTally()
	for step := 0; step < steps; step++ {
		for _, contact := range w.Step(dt) {
			tally.record(contact)
		}
	}
	logger.Infow("simulation finished", "steps", steps, "contacts", tally.total)

	fmt.Fprintln(out, tally.render(w.Scene))
	return nil
}
