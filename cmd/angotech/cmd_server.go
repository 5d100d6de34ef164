package main

import (
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/angotech/angotech/config"
	"github.com/angotech/angotech/internal/kernel"
	"github.com/angotech/angotech/internal/server"
	"github.com/angotech/angotech/pkg/cache"
	"github.com/angotech/angotech/pkg/database"
)

// angotech serve — start the HTTP server.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the storefront API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return server.Start()
	},
}

// angotech route:list — print all registered routes.
var routeListCmd = &cobra.Command{
	Use:   "route:list",
	Short: "List all registered named routes",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.MustLoad(); err != nil {
			return err
		}
		if err := database.Connect(); err != nil {
			return err
		}
		cache.Connect()

		k := kernel.NewHTTPKernel(database.DB)
		infos := k.Router.Routes()
		if len(infos) == 0 {
			fmt.Println("No named routes registered.")
			return nil
		}

		sort.Slice(infos, func(i, j int) bool {
			if infos[i].Path != infos[j].Path {
				return infos[i].Path < infos[j].Path
			}
			return infos[i].Method < infos[j].Method
		})

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "METHOD\tPATH\tNAME")
		fmt.Fprintln(w, "------\t----\t----")
		for _, ri := range infos {
			fmt.Fprintf(w, "%s\t%s\t%s\n", ri.Method, ri.Path, ri.Name)
		}
		return w.Flush()
	},
}
