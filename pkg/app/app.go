package app

import (
	"net/url"
	"sync"
	"time"

	"gpiomon/pkg/app/config"
	"gpiomon/pkg/monitor"
	"gpiomon/pkg/mqtt"
	"gpiomon/pkg/port"
	"gpiomon/pkg/raspberry"

	"github.com/gofiber/fiber/v2"
	"github.com/womat/debug"
)

// App is the main application struct.
// App is where the application is wired up.
type App struct {
	// web is the fiber web framework instance
	web *fiber.App

	// config is the application configuration
	config *config.Config

	// urlParsed contains the parsed Config.Webserver.URL parameter
	// and makes it easier to get params out of e.g.
	// url: https://0.0.0.0:7844/?minTls=1.2&bodyLimit=50MB
	urlParsed *url.URL

	// mqtt is the handler to the mqtt broker
	mqtt *mqtt.Handler

	// gpio is the handler to the gpio chip
	gpio raspberry.GPIO

	// monitor counts rising edges on the monitored lines
	monitor *monitor.Monitor

	// data is the last drained report, kept for the web api
	data struct {
		sync.Mutex
		Report
	}

	// shutdown signals application shutdown
	shutdown chan struct{}
}

// Report is one drained edge count as published to mqtt and served by
// the data webservice.
type Report struct {
	// TimeStamp is the time of the drain
	TimeStamp time.Time
	// Count is the number of rising edges within the last interval
	Count uint64
	// Total is the cumulative number of rising edges since startup
	Total uint64
}

// New checks the web server URL and initializes the main app structure
func New(config *config.Config) (*App, error) {
	u, err := url.Parse(config.Webserver.URL)
	if err != nil {
		debug.ErrorLog.Printf("Error parsing url %q: %s", config.Webserver.URL, err.Error())
		return &App{}, err
	}

	return &App{
		config:    config,
		urlParsed: u,

		web:  fiber.New(),
		mqtt: mqtt.New(),

		shutdown: make(chan struct{}),
	}, err
}

// Run starts the application.
func (app *App) Run() error {
	if err := app.init(); err != nil {
		return err
	}

	go app.mqtt.Service()
	go app.runWebServer()
	go app.monitor.Run()

	return nil
}

// init initializes the application.
//
// The order matters: the port is requested and read before the monitor
// exists, and the monitor exists before it is registered as the watch
// handler. A line event can therefore never meet an unseeded monitor.
func (app *App) init() (err error) {
	var initial port.State

	if err = app.mqtt.Connect(app.config.MQTT.Connection); err != nil {
		debug.ErrorLog.Printf("can't open mqtt broker %v", err)
		return err
	}

	if app.gpio, err = raspberry.Open(app.config.Chip); err != nil {
		debug.ErrorLog.Printf("can't open gpio chip %q: %v", app.config.Chip, err)
		return err
	}

	if err = app.gpio.RequestPort(app.config.Gpios, app.config.Terminator); err != nil {
		debug.ErrorLog.Printf("can't request gpio lines %v: %v", app.config.Gpios, err)
		return err
	}

	if initial, err = app.gpio.ReadPort(); err != nil {
		debug.ErrorLog.Printf("can't read gpio port: %v", err)
		return err
	}

	mask := port.MaskOf(seq(len(app.config.Gpios))...)
	app.monitor = monitor.New(mask, initial, app.config.Interval, app.report)
	app.gpio.Watch(app.monitor.OnStateChange)

	// initDefaultRoutes should always be called last because it may
	// access things which must be initialized before
	app.initDefaultRoutes()

	return nil
}

// seq returns the line numbers 0..n-1.
func seq(n int) []int {
	s := make([]int, n)
	for i := range s {
		s[i] = i
	}
	return s
}

// Shutdown returns the read only shutdown channel.
// Shutdown is used to be able to react on application shutdown. (see cmd/gpiomon.go)
func (app *App) Shutdown() <-chan struct{} {
	return app.shutdown
}

func (app *App) Close() error {
	if app.monitor != nil {
		app.gpio.Unwatch()
		app.monitor.Stop()
	}

	if app.mqtt != nil {
		_ = app.mqtt.Disconnect()
	}

	if app.gpio != nil {
		_ = app.gpio.Close()
	}

	return nil
}
