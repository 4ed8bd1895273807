package app

import (
	"encoding/json"
	"time"

	"gpiomon/pkg/mqtt"

	"github.com/womat/debug"
)

// report receives the drained edge count once per interval.
// It saves the report for the data webservice and sends it to the
// mqtt broker. A count of zero is reported like any other value.
func (app *App) report(count uint64) {
	app.data.Lock()
	app.data.TimeStamp = time.Now()
	app.data.Count = count
	app.data.Total += count
	r := app.data.Report
	app.data.Unlock()

	debug.DebugLog.Printf("report: %v rising edges, %v total", r.Count, r.Total)
	app.sendMQTT(app.config.MQTT.Topic, r)
}

// sendMQTT sends a report struct to the mqtt broker.
func (app *App) sendMQTT(topic string, r Report) {
	go func(t string, r Report) {
		debug.TraceLog.Printf("prepare mqtt message %v %v", t, r)

		b, err := json.MarshalIndent(r, "", "  ")
		if err != nil {
			debug.ErrorLog.Printf("sendMQTT marshal: %v", err)
			return
		}

		app.mqtt.C <- mqtt.Message{
			Qos:      0,
			Retained: true,
			Topic:    t,
			Payload:  b,
		}
	}(topic, r)
}
