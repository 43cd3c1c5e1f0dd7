// Package serve contains the CLI command that runs the HTTP API.
package serve

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/spf13/cobra"

	"github.com/finwise/statement-extractor/cmd/root"
	"github.com/finwise/statement-extractor/internal/api"
	"github.com/finwise/statement-extractor/internal/extract"
	"github.com/finwise/statement-extractor/internal/textsource"
)

var (
	addrFlag string

	// Cmd is the serve command.
	Cmd = &cobra.Command{
		Use:   "serve",
		Short: "Run the statement extraction HTTP API",
		RunE:  run,
	}
)

func init() {
	Cmd.Flags().StringVar(&addrFlag, "addr", "", "Listen address (overrides configured server.address)")
}

func run(cmd *cobra.Command, args []string) error {
	ts := &textsource.Service{
		Layer:      &textsource.PDFReader{Log: root.Log},
		Log:        root.Log,
		MinTextLen: root.Cfg.Extract.MinTextLen,
		OCRPages:   root.Cfg.OCR.PageCap,
	}
	if root.Cfg.OCR.Enabled {
		ts.OCR = &textsource.TesseractOCR{Log: root.Log, DPI: root.Cfg.OCR.DPI}
	}

	app := fiber.New(fiber.Config{
		AppName:   "statement-extractor",
		BodyLimit: 32 << 20, // statements are small; 32MB covers scanned PDFs
	})
	app.Use(recover.New())
	app.Use(cors.New())

	h := &api.Handler{
		Extractor: extract.NewService(ts, root.Log),
		Log:       root.Log,
	}
	h.Register(app)

	addr := addrFlag
	if addr == "" {
		addr = root.Cfg.Server.Address
	}
	root.Log.WithField("addr", addr).Info("starting API server")
	return app.Listen(addr)
}
