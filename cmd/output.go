package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/okved-cli/internal/okved"
)

// render writes v to w in the given output format.
func render(w io.Writer, format string, v any) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return eris.Wrap(enc.Encode(v), "render json")
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return eris.Wrap(err, "render yaml")
		}
		return eris.Wrap(enc.Close(), "render yaml")
	case "table", "":
		return renderTable(w, v)
	default:
		return eris.Errorf("unknown output format %q", format)
	}
}

func renderTable(w io.Writer, v any) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	switch val := v.(type) {
	case []okved.Entry:
		fmt.Fprintln(tw, "CODE\tNAME")
		for _, e := range val {
			fmt.Fprintf(tw, "%s\t%s\n", e.Code, e.Name)
		}
	case []string:
		for _, s := range val {
			fmt.Fprintln(tw, s)
		}
	case okved.Node:
		fmt.Fprintf(tw, "Code:\t%s\n", val.Code)
		fmt.Fprintf(tw, "Name:\t%s\n", val.Name)
		fmt.Fprintf(tw, "Level:\t%s\n", val.Level)
		if val.Parent != "" {
			fmt.Fprintf(tw, "Parent:\t%s\n", val.Parent)
		}
		if val.TopSection != "" {
			fmt.Fprintf(tw, "Top section:\t%s\n", val.TopSection)
		}
	case string:
		fmt.Fprintln(tw, val)
	default:
		return eris.Errorf("cannot render %T as table", v)
	}

	return eris.Wrap(tw.Flush(), "render table")
}
