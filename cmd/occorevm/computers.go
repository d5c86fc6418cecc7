package main

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/occore/occore/internal/signal"
)

// psCmd lists every computer a running daemon is managing, grounded in
// the teacher's timelineCmd (tabwriter table over a client call).
func psCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ps",
		Short: "List running computers",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := clientFromConfig()
			if err != nil {
				return err
			}
			computers, err := c.ListComputers()
			if err != nil {
				return fmt.Errorf("daemon not reachable: %w", err)
			}
			if len(computers) == 0 {
				fmt.Println("no computers")
				return nil
			}
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tADDRESS\tUPTIME\tFREE/TOTAL MEM\tREBOOT")
			for _, comp := range computers {
				fmt.Fprintf(w, "%s\t%s\t%.1fs\t%d/%d\t%v\n",
					comp.Name, comp.Address, comp.Uptime, comp.FreeMem, comp.TotalMem, comp.RebootRequested)
			}
			return w.Flush()
		},
	}
}

// inspectCmd prints one computer's detail, including its attached
// components, grounded in the teacher's agentCmd "list" subcommand.
func inspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <name>",
		Short: "Show a computer's detail and attached components",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := clientFromConfig()
			if err != nil {
				return err
			}
			detail, err := c.GetComputer(args[0])
			if err != nil {
				return err
			}
			fmt.Printf("name:    %s\naddress: %s\nuptime:  %.1fs\nmemory:  %d/%d free\nreboot:  %v\n",
				detail.Name, detail.Address, detail.Uptime, detail.FreeMem, detail.TotalMem, detail.RebootRequested)
			if len(detail.Components) == 0 {
				return nil
			}
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "\nADDRESS\tNAME\tTYPE\tMETHODS")
			for _, comp := range detail.Components {
				fmt.Fprintf(w, "%s\t%s\t%s\t%v\n", comp.Address, comp.Name, comp.Type, comp.Methods)
			}
			return w.Flush()
		},
	}
}

// signalCmd pushes a host-originated signal onto a computer's queue.
// Each positional argument is parsed as a bool, a number, or else left
// as a string, matching the scalar-only surface hostapi.handlePushSignal
// accepts. --literal takes the whole argument list as one wire-format
// string instead (signal.Parse), which also lets a caller spell out a
// table value even though it's rejected before it reaches the wire,
// since hostapi's push-signal surface is scalar-only by design.
func signalCmd() *cobra.Command {
	var literal string
	cmd := &cobra.Command{
		Use:   "signal <name> [arg]...",
		Short: "Push a signal onto a computer's queue",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := clientFromConfig()
			if err != nil {
				return err
			}
			name := args[0]

			var values []signal.Value
			if literal != "" {
				values, err = signal.Parse(literal)
				if err != nil {
					return fmt.Errorf("parse --literal: %w", err)
				}
			} else {
				for _, raw := range args[1:] {
					values = append(values, scalarToValue(parseSignalArg(raw)))
				}
			}

			scalars := make([]any, 0, len(values))
			for _, v := range values {
				s, err := valueToScalar(v)
				if err != nil {
					return err
				}
				scalars = append(scalars, s)
			}
			if err := c.PushSignal(name, scalars); err != nil {
				return err
			}
			wire, err := signal.Serialize(values)
			if err != nil {
				return err
			}
			fmt.Printf("signal sent: %s\n", wire)
			return nil
		},
	}
	cmd.Flags().StringVar(&literal, "literal", "",
		`full wire-format literal in place of positional args, e.g. "key_down", 65, true`)
	return cmd
}

func parseSignalArg(raw string) any {
	if raw == "true" {
		return true
	}
	if raw == "false" {
		return false
	}
	if n, err := strconv.ParseFloat(raw, 64); err == nil {
		return n
	}
	return raw
}

// scalarToValue mirrors hostapi.scalarToSignal for the values
// parseSignalArg can produce (bool, float64, string).
func scalarToValue(v any) signal.Value {
	switch t := v.(type) {
	case bool:
		return signal.Bool(t)
	case float64:
		return signal.Number(t)
	default:
		return signal.String(fmt.Sprint(t))
	}
}

// valueToScalar reverses scalarToSignal for the JSON transport
// hostapi.handlePushSignal decodes, rejecting tables since that
// surface is documented as scalar-only.
func valueToScalar(v signal.Value) (any, error) {
	switch v.Kind {
	case signal.KindNil:
		return nil, nil
	case signal.KindBool:
		return v.Bool, nil
	case signal.KindNumber:
		return v.Num, nil
	case signal.KindString:
		return v.Str, nil
	default:
		return nil, fmt.Errorf("signal: table arguments aren't accepted by the hostapi push-signal surface")
	}
}
