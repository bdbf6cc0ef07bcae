// Command lexicon-dump prints the contents of compiled lexicons.
package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"runtime"
	"slices"
	"strings"

	"github.com/burdiyan/go/mainutil"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/milden6/lexicon"
	"github.com/milden6/lexicon/internal/logging"
	"github.com/peterbourgon/ff/v4"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Config selects what to print. With nothing selected the words are printed.
type Config struct {
	Name         bool
	Description  bool
	Languages    bool
	Frequencies  bool
	Count        bool
	Words        bool
	Expand       bool
	Instructions bool
	LogLevel     string
}

func defaultConfig() Config {
	return Config{
		LogLevel: "warn",
	}
}

// BindFlags binds the flags to the given FlagSet.
func (c *Config) BindFlags(fs *flag.FlagSet) {
	fs.BoolVar(&c.Name, "name", c.Name, "Print the lexicon name")
	fs.BoolVar(&c.Description, "description", c.Description, "Print the description")
	fs.BoolVar(&c.Languages, "lang", c.Languages, "Print the language codes")
	fs.BoolVar(&c.Frequencies, "frequencies", c.Frequencies, "Print subword frequencies")
	fs.BoolVar(&c.Count, "count", c.Count, "Print the number of words")
	fs.BoolVar(&c.Words, "words", c.Words, "Print the words")
	fs.BoolVar(&c.Expand, "expand", c.Expand, "Print every spelling of merged sortalike entries")
	fs.BoolVar(&c.Instructions, "instructions", c.Instructions, "Print the macro table and instruction stream")
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "Log verbosity debug | info | warn | error")
}

func (c Config) printWords() bool {
	return c.Words || c.Expand ||
		!(c.Name || c.Description || c.Languages || c.Frequencies || c.Count || c.Instructions)
}

func dump(w io.Writer, wl *lexicon.WordList, cfg Config) error {
	meta := wl.Metadata()
	if cfg.Name {
		fmt.Fprintf(w, "name: %s\n", meta.Name)
	}
	if cfg.Description {
		fmt.Fprintf(w, "description: %s\n", meta.Description)
	}
	if cfg.Languages {
		fmt.Fprintf(w, "languages: %s\n", strings.Join(meta.LanguageCodes, ","))
	}
	if cfg.Count {
		fmt.Fprintf(w, "words: %d\n", wl.NumWords())
	}
	if cfg.Frequencies {
		tw := table.NewWriter()
		tw.SetOutputMirror(w)
		tw.SetStyle(table.StyleLight)
		tw.AppendHeader(table.Row{"subword", "count"})
		for _, f := range meta.Frequencies {
			tw.AppendRow(table.Row{f.Subword, f.Count})
		}
		tw.Render()
	}
	if cfg.Instructions {
		if err := wl.Dump(w); err != nil {
			return err
		}
	}
	if !cfg.printWords() {
		return nil
	}
	for entry, err := range wl.All() {
		if err != nil {
			return err
		}
		if !cfg.Expand {
			fmt.Fprintln(w, entry)
			continue
		}
		for _, v := range wl.Variants(entry) {
			fmt.Fprintln(w, v)
		}
	}
	return nil
}

// dumpAll prints every list to w, headed by its file name when there are
// several. Output written before an error is flushed.
func dumpAll(w io.Writer, files []string, lists []*lexicon.WordList, cfg Config) (err error) {
	out := bufio.NewWriter(w)
	defer func() {
		err = multierr.Append(err, out.Flush())
	}()
	for i, wl := range lists {
		if len(lists) > 1 {
			fmt.Fprintf(out, "==> %s <==\n", files[i])
		}
		if err := dump(out, wl, cfg); err != nil {
			return fmt.Errorf("%s: %w", files[i], err)
		}
	}
	return nil
}

func main() {
	const envVarPrefix = "LEXICON"

	mainutil.Run(func() error {
		fs := flag.NewFlagSet("lexicon-dump", flag.ExitOnError)
		fs.Usage = func() {
			fmt.Fprintf(fs.Output(), "Usage: lexicon-dump [flags] files...\n")
			fs.PrintDefaults()
		}

		cfg := defaultConfig()
		cfg.BindFlags(fs)

		err := ff.Parse(fs, slices.Clone(os.Args[1:]), ff.WithEnvVarPrefix(envVarPrefix))
		if err != nil {
			if errors.Is(err, ff.ErrHelp) {
				fs.Usage()
				return nil
			}
			return err
		}
		if fs.NArg() == 0 {
			fs.Usage()
			return errors.New("no input files")
		}

		log, err := logging.New("lexicon-dump", cfg.LogLevel)
		if err != nil {
			return err
		}
		defer log.Sync() //nolint:errcheck

		files := fs.Args()
		lists := make([]*lexicon.WordList, len(files))
		defer func() {
			for _, wl := range lists {
				if wl != nil {
					wl.Close()
				}
			}
		}()

		var g errgroup.Group
		g.SetLimit(runtime.GOMAXPROCS(0))
		for i, path := range files {
			g.Go(func() error {
				wl, err := lexicon.Load(path)
				if err != nil {
					return err
				}
				log.Debug("loaded", zap.String("path", path), zap.Int("words", wl.NumWords()))
				lists[i] = wl
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}

		return dumpAll(os.Stdout, files, lists, cfg)
	})
}
