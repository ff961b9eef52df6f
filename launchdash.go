// Package launchdash is an interactive dashboard over SpaceX launch records.
//
// Usage:
//
//	d, err := dashboard.Load("spacex_launch_dash.csv")
//	pie := d.PieChart(dashboard.AllSites)
//	scatter := d.ScatterChart("KSC LC-39A", engine.Range{Min: 2500, Max: 7500})
//
// The dataset is loaded once (helpers.LoadCSVFile against schema.Launches)
// and never changes. Chart handlers run the engine pipeline
// (filter → group → aggregate → build) and return render-ready ChartConfig
// values, which the server package serves as JSON or, via render, as PNG/SVG.
//
// cmd/launchdash wires everything into a CLI and web server.
package launchdash
