package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"

	"port-scanner/service"
)

func newProgressBar(total int) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(30),
		progressbar.OptionSetDescription("[cyan][scanning][reset]"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)
}

func statusText(status service.PortStatus) string {
	switch status {
	case service.StatusOpen:
		return color.GreenString(string(status))
	case service.StatusClosed:
		return color.RedString(string(status))
	default:
		return color.YellowString(string(status))
	}
}

func printTable(w io.Writer, outcome *service.ScanOutcome) error {
	fmt.Fprintf(w, "Host: %s  Ports: %d-%d\n", outcome.Host, outcome.StartPort, outcome.EndPort)
	fmt.Fprintf(w, "Scanned %d ports in %dms, %d open\n\n", outcome.TotalPortsScanned, outcome.TotalTimeMs, outcome.OpenPorts)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "PORT\tSTATUS\tSERVICE")
	fmt.Fprintln(tw, "----\t------\t-------")
	for _, r := range outcome.Results {
		svc := r.Service
		if svc == "" {
			svc = "-"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\n", r.Port, statusText(r.Status), svc)
	}
	return tw.Flush()
}

func printJSON(w io.Writer, outcome *service.ScanOutcome) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(service.ScanResponse{Success: true, ScanOutcome: outcome})
}
