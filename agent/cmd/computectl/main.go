// Program computectl drives a computedemo server from the command line.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/creachadair/command"
	"github.com/creachadair/flax"

	"github.com/obsidianstack/computedemo/agent/internal/client"
	"github.com/obsidianstack/computedemo/agent/internal/scraper"
	"github.com/obsidianstack/computedemo/pkg/types"
)

// The sizes offered by the demo page.
var pageSizes = []int{10_000_000, 50_000_000, 100_000_000}

var rootFlags struct {
	Server  string        `flag:"server,default=http://localhost:8080,Base URL of the computedemo server"`
	Timeout time.Duration `flag:"timeout,default=10m,Per-request timeout (0 for none)"`
}

var computeFlags struct {
	Size int `flag:"size,default=-1,Number of values to process (negative uses the server default)"`
}

var sweepFlags struct {
	Concurrency int `flag:"concurrency,default=3,Maximum requests in flight"`
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	root := &command.C{
		Name:     filepath.Base(os.Args[0]),
		Usage:    "<command> [arguments]",
		Help:     "Run aggregations against a computedemo server and read its counters.",
		SetFlags: command.Flags(flax.MustBind, &rootFlags),
		Commands: []*command.C{
			{
				Name:     "compute",
				Usage:    "[-size N]",
				Help:     "Request one aggregation and print the server's reply.",
				SetFlags: command.Flags(flax.MustBind, &computeFlags),
				Run: func(env *command.Env) error {
					if len(env.Args) != 0 {
						return env.Usagef("extra arguments: %q", env.Args)
					}
					c, err := newClient()
					if err != nil {
						return err
					}
					res, err := c.Compute(ctx, computeFlags.Size)
					if err != nil {
						return err
					}
					fmt.Println(res)
					return nil
				},
			},
			{
				Name:  "sweep",
				Usage: "[-concurrency K] [size ...]",
				Help: `Request several aggregations concurrently and print a table.

Without arguments the sizes are the demo page's buttons: 10M, 50M and 100M.`,
				SetFlags: command.Flags(flax.MustBind, &sweepFlags),
				Run: func(env *command.Env) error {
					sizes, err := parseSizes(env.Args)
					if err != nil {
						return env.Usagef("%v", err)
					}
					c, err := newClient()
					if err != nil {
						return err
					}
					results, err := c.Sweep(ctx, sizes, sweepFlags.Concurrency)
					if err != nil {
						return err
					}
					return printTable(results)
				},
			},
			{
				Name:  "metrics",
				Usage: "",
				Help:  "Scrape the server's /metrics endpoint and print its counters.",
				Run: func(env *command.Env) error {
					c, err := newClient()
					if err != nil {
						return err
					}
					snap, err := scraper.Scrape(ctx, c.HTTPClient(), c.URL("metrics"))
					if err != nil {
						return err
					}
					fmt.Printf("page requests:     %.0f\n", snap.PageRequests)
					fmt.Printf("compute requests:  %.0f (%.0f failed, %.0f running)\n",
						snap.ComputeRequests, snap.ComputeFailures, snap.Inflight)
					fmt.Printf("values processed:  %.0f\n", snap.ValuesProcessed)
					fmt.Printf("reduction time:    %s\n",
						types.FormatDuration(time.Duration(snap.ComputeSeconds*float64(time.Second))))
					return nil
				},
			},
			command.VersionCommand(),
			command.HelpCommand(nil),
		},
	}
	command.RunOrFail(root.NewEnv(nil).MergeFlags(true), os.Args[1:])
}

func newClient() (*client.Client, error) {
	return client.New(rootFlags.Server, rootFlags.Timeout)
}

func parseSizes(args []string) ([]int, error) {
	if len(args) == 0 {
		return pageSizes, nil
	}
	sizes := make([]int, len(args))
	for i, arg := range args {
		n, err := strconv.Atoi(arg)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("invalid size %q", arg)
		}
		sizes[i] = n
	}
	return sizes, nil
}

func printTable(results []types.Result) error {
	tw := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "SIZE\tSUM\tTIME\t")
	for _, r := range results {
		fmt.Fprintf(tw, "%d\t%d\t%s\t\n", r.Size, r.Sum, types.FormatDuration(r.Elapsed))
	}
	return tw.Flush()
}
