// Serex exports labeled series data to CSV, JSON, Excel, and Google
// Sheets, renders charts, and serves the export API over HTTP.
//
// Usage:
//
//	# Start the export server
//	serex serve
//
//	# Export a series payload to a file
//	serex export --input series.json --format csv --out prices.csv
//
//	# Show version information
//	serex version
package main

func main() {
	Execute()
}
