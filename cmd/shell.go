package cmd

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/KaramelBytes/paxsat-cli/internal/session"
	"github.com/KaramelBytes/paxsat-cli/internal/utils"
	"github.com/spf13/cobra"
)

var shellIn inputFlags

var errQuit = errors.New("quit")

const shellHelp = `commands:
  load <file>                        upload a table (replaces the current one)
  clean                              clean the current table
  regress <feature>                  fit the score against a numeric column
  cluster <k> <f1,f2,...>            k-means over numeric columns
  report <key> <measure> [out.csv]   grouped summary, optionally exported
  survey                             survey overview (survey schema)
  stats                              cache counters and live entries
  reset                              forget the table and every cached result
  quit                               leave the shell
Quote names that contain spaces: regress "Inflight wifi service"`

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Interactive session that keeps one table and its cached results",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := shellIn.newSession(cmd, "")
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "paxsat shell (session %s, contract '%s'); type 'help' for commands\n", s.ID, s.Contract.Name)
		sc := bufio.NewScanner(cmd.InOrStdin())
		for {
			fmt.Fprint(out, "> ")
			if !sc.Scan() {
				fmt.Fprintln(out)
				return sc.Err()
			}
			fields, err := splitLine(sc.Text())
			if err != nil {
				fmt.Fprintln(out, "✗ Error:", err)
				continue
			}
			if len(fields) == 0 {
				continue
			}
			err = runShellLine(cmd, s, out, fields)
			if errors.Is(err, errQuit) {
				return nil
			}
			if err != nil {
				// Analysis errors are local; the session keeps its state.
				fmt.Fprintln(out, "✗ Error:", err)
			}
		}
	},
}

func runShellLine(cmd *cobra.Command, s *session.Session, out io.Writer, f []string) error {
	switch f[0] {
	case "quit", "exit":
		return errQuit
	case "help":
		fmt.Fprintln(out, shellHelp)
	case "load":
		if len(f) != 2 {
			return fmt.Errorf("usage: load <file>")
		}
		format, err := shellIn.formatFlag()
		if err != nil {
			return err
		}
		res, err := s.UploadFile(f[1], format)
		if err != nil {
			return err
		}
		printUpload(out, f[1], res)
	case "clean":
		_, st, hit, err := s.Clean()
		if err != nil {
			return err
		}
		printCleanStats(out, st, hit)
	case "regress":
		if len(f) != 2 {
			return fmt.Errorf("usage: regress <feature>")
		}
		r, err := s.Regress(f[1])
		if err != nil {
			return err
		}
		printRegression(out, r)
	case "cluster":
		if len(f) != 3 {
			return fmt.Errorf("usage: cluster <k> <f1,f2,...>")
		}
		k, err := strconv.Atoi(f[1])
		if err != nil {
			return fmt.Errorf("invalid k %q: %w", f[1], err)
		}
		opt, err := clusterOptions(cmd, strings.Split(f[2], ","))
		if err != nil {
			return err
		}
		opt.K = k
		a, hit, err := s.Cluster(opt)
		if err != nil {
			return err
		}
		printCluster(out, a, hit)
	case "report":
		if len(f) != 3 && len(f) != 4 {
			return fmt.Errorf("usage: report <key> <measure> [out.csv]")
		}
		conf, err := settings()
		if err != nil {
			return err
		}
		rep, err := s.Report(f[1], f[2])
		if err != nil {
			return err
		}
		if len(f) == 3 {
			printReport(out, rep, conf.ReportPrecision)
			return nil
		}
		if err := utils.WriteExport(f[3], func(w io.Writer) error { return rep.WriteCSV(w, conf.ReportPrecision) }); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
		fmt.Fprintf(out, "✓ Wrote %d groups to %s\n", len(rep.Rows), f[3])
	case "survey":
		o, err := s.Survey()
		if err != nil {
			return err
		}
		printOverview(out, o)
	case "stats":
		st := s.Stats()
		fmt.Fprintf(out, "cache: %d hits, %d misses, %d entries\n", st.Hits, st.Misses, st.Entries)
		for _, k := range s.CachedKeys() {
			fmt.Fprintf(out, "  %s\n", k)
		}
	case "reset":
		s.Reset()
		fmt.Fprintln(out, "✓ Session reset")
	default:
		return fmt.Errorf("unknown command %q (type 'help')", f[0])
	}
	return nil
}

// splitLine splits on spaces and honours double quotes.
func splitLine(line string) ([]string, error) {
	r := csv.NewReader(strings.NewReader(line))
	r.Comma = ' '
	r.LazyQuotes = true
	rec, err := r.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	out := rec[:0]
	for _, f := range rec {
		if f != "" {
			out = append(out, f)
		}
	}
	return out, nil
}

func init() {
	rootCmd.AddCommand(shellCmd)
	shellIn.bind(shellCmd)
}
