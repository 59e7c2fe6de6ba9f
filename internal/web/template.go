package web

import (
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/sweeney/clock-thermo/internal/status"
)

var indexTmpl = template.Must(template.New("index").Funcs(template.FuncMap{
	"uptime": func(d time.Duration) string {
		d = d.Truncate(time.Second)
		days := int(d.Hours()) / 24
		h := int(d.Hours()) % 24
		m := int(d.Minutes()) % 60
		s := int(d.Seconds()) % 60
		if days > 0 {
			return fmt.Sprintf("%dd %dh %dm %ds", days, h, m, s)
		}
		if h > 0 {
			return fmt.Sprintf("%dh %dm %ds", h, m, s)
		}
		if m > 0 {
			return fmt.Sprintf("%dm %ds", m, s)
		}
		return fmt.Sprintf("%ds", s)
	},
	"letter": func(b byte) string {
		return string(b)
	},
	"ms": func(v int64) string {
		if v == 0 {
			return "disabled"
		}
		return fmt.Sprintf("%dms", v)
	},
}).Parse(indexHTML))

const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Clock Thermo</title>
<style>
body { font-family: monospace; max-width: 600px; margin: 2em auto; padding: 0 1em; }
h1 { font-size: 1.4em; }
table { border-collapse: collapse; width: 100%; margin: 1em 0; }
td, th { text-align: left; padding: 4px 8px; border-bottom: 1px solid #ddd; }
th { width: 40%; }
pre.lcd { background: #1b3d1b; color: #8f8; padding: 8px 12px; font-size: 1.3em; width: 16ch; white-space: pre; }
.normal { color: green; font-weight: bold; }
.set { color: orange; font-weight: bold; }
.error { color: red; font-weight: bold; }
.connected { color: green; }
.disconnected { color: red; }
</style>
</head>
<body>
<h1>Clock Thermo</h1>

<pre class="lcd" id="display">{{.Display}}</pre>

<h2>State</h2>
<table>
<tr><th>Mode</th><td id="mode" class="{{if eq .Mode.String "NORMAL"}}normal{{else if eq .Mode.String "SET"}}set{{else}}error{{end}}">{{.Mode}}</td></tr>
{{if ne .Mode.String "NORMAL"}}<tr><th>Field</th><td>{{.Field}}</td></tr>
<tr><th>Entry</th><td>{{.Entry}}</td></tr>{{end}}
{{with .Reading}}<tr><th>Time</th><td>{{.Clock.Format "15:04:05"}}</td></tr>
<tr><th>Temperature</th><td id="temp">{{.Temp}} {{letter .Unit}}</td></tr>{{end}}
</table>
{{if .UnitToggle}}<form method="post" action="/unit"><button type="submit">Toggle C/F</button></form>{{end}}

<h2>Connectivity</h2>
<table>
<tr><th>MQTT</th><td class="{{if .MQTTConnected}}connected{{else}}disconnected{{end}}">{{if .MQTTConnected}}connected{{else}}disconnected{{end}}</td></tr>
<tr><th>Broker</th><td>{{.Config.Broker}}</td></tr>
</table>

<h2>Counts</h2>
<table>
<tr><th>Keys</th><td>{{.Counts.Keys}}</td></tr>
<tr><th>Clock sets</th><td>{{.Counts.ClockSets}}</td></tr>
<tr><th>Entry errors</th><td>{{.Counts.EntryErrors}}</td></tr>
<tr><th>Frames</th><td>{{.Counts.Frames}}</td></tr>
</table>

<h2>System</h2>
<table>
<tr><th>Uptime</th><td>{{uptime .Uptime}}</td></tr>
<tr><th>Started</th><td>{{.StartTime.UTC.Format "2006-01-02T15:04:05Z"}}</td></tr>
<tr><th>Poll</th><td>{{ms .Config.PollMs}}</td></tr>
<tr><th>Debounce</th><td>{{ms .Config.DebounceMs}}</td></tr>
<tr><th>Refresh</th><td>{{ms .Config.RefreshMs}}</td></tr>
<tr><th>Error banner</th><td>{{ms .Config.ErrorMs}}</td></tr>
<tr><th>Heartbeat</th><td>{{ms .Config.HeartbeatMs}}</td></tr>
{{if .Config.Display}}<tr><th>Display</th><td>{{.Config.Display}}</td></tr>{{end}}
<tr><th>HTTP</th><td>{{.Config.HTTPPort}}</td></tr>
</table>

<p><a href="/index.json">JSON</a></p>
</body>
</html>
`

func renderHTML(w io.Writer, snap status.Snapshot, unitToggle bool) {
	// Snapshot has Uptime() method but template needs a Duration field.
	data := struct {
		status.Snapshot
		Uptime     time.Duration
		UnitToggle bool
	}{
		Snapshot:   snap,
		Uptime:     snap.Uptime(),
		UnitToggle: unitToggle,
	}
	indexTmpl.Execute(w, data)
}
