package config

import (
	"flag"
	"fmt"
	"os"

	"github.com/agbru/fibbench/internal/ui"
)

// setCustomUsage installs a colored usage message on fs.
func setCustomUsage(fs *flag.FlagSet) {
	fs.Usage = func() {
		t := ui.Current()
		if _, ok := os.LookupEnv("NO_COLOR"); ok {
			t = ui.NoColorTheme
		}
		out := fs.Output()

		fmt.Fprintf(out, "\n%s\n", t.Paint(t.Bold, "fibbench"))
		fmt.Fprintf(out, "Exact Fibonacci numbers and a benchmark of the strategies that compute them.\n\n")
		fmt.Fprintf(out, "%s\n  %s [flags]\n\n%s\n", t.Paint(t.Warning, "Usage:"), fs.Name(), t.Paint(t.Warning, "Flags:"))

		fs.VisitAll(func(f *flag.Flag) {
			name, usage := flag.UnquoteUsage(f)
			sig := "-" + f.Name
			if name != "" {
				sig += " " + name
			}
			fmt.Fprintf(out, "  %s %s", t.Paint(t.Primary, fmt.Sprintf("%-25s", sig)), usage)
			if f.DefValue != "" && f.DefValue != "0" && f.DefValue != "false" {
				fmt.Fprintf(out, " %s", t.Paint(t.Secondary, "(default "+f.DefValue+")"))
			}
			fmt.Fprintln(out)
		})
		fmt.Fprintf(out, "\nEvery flag can also be set with %s<FLAG> (dashes become underscores) or in the -config file.\n\n", EnvPrefix)
	}
}
