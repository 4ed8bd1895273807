package app

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/womat/debug"
)

// runWebServer starts the applications web server and listens for web requests.
//  It's designed to run in a separate go function to not block the main go function.
//  e.g.: go runWebServer()
//  See app.Run()
func (app *App) runWebServer() {
	err := app.web.Listen(app.urlParsed.Host)
	debug.ErrorLog.Print(err)
}

// HandleData is the get current edge count web handler.
// It returns the last drained report together with the monitored lines.
func (app *App) HandleData() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		debug.InfoLog.Print("web request data")

		app.data.Lock()
		r := app.data.Report
		app.data.Unlock()

		return ctx.JSON(fiber.Map{
			"timestamp": r.TimeStamp,
			"count":     r.Count,
			"total":     r.Total,
			"gpios":     app.config.Gpios,
			"mask":      fmt.Sprintf("%#08x", uint32(app.monitor.Mask())),
		})
	}
}
