// Command lexicon-compile builds a lexicon from word list files.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"iter"
	"os"
	"slices"
	"strings"

	"github.com/burdiyan/go/mainutil"
	"github.com/milden6/lexicon"
	"github.com/milden6/lexicon/internal/logging"
	"github.com/milden6/lexicon/wordsource"
	"github.com/peterbourgon/ff/v4"
	"go.uber.org/zap"
)

// Config for the compiler command. When adding or removing fields,
// adjust defaultConfig() and BindFlags() accordingly.
type Config struct {
	Name          string
	Description   string
	Languages     string
	ClearInterval uint64
	Sortalikes    string
	Alphabet      string
	Frequencies   bool
	Output        string
	LogLevel      string
}

func defaultConfig() Config {
	return Config{
		ClearInterval: lexicon.DefaultClearInterval,
		Output:        "out.lexicon",
		LogLevel:      "info",
	}
}

// BindFlags binds the flags to the given FlagSet.
func (c *Config) BindFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.Name, "name", c.Name, "Name stored in the lexicon header")
	fs.StringVar(&c.Description, "description", c.Description, "Description stored in the lexicon header")
	fs.StringVar(&c.Languages, "lang", c.Languages, "Comma separated language codes")
	fs.Uint64Var(&c.ClearInterval, "clear-interval", c.ClearInterval, "Bytes between forced clears, 0 for none")
	fs.StringVar(&c.Sortalikes, "sortalikes", c.Sortalikes, `Letters that sort alike, e.g. "a,á;e,é,è"`)
	fs.StringVar(&c.Alphabet, "alphabet", c.Alphabet, `Comma separated letters in sort order, e.g. "a,b,c,ch,d"`)
	fs.BoolVar(&c.Frequencies, "frequencies", c.Frequencies, "Record subword frequencies")
	fs.StringVar(&c.Output, "o", c.Output, "Output file")
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "Log verbosity debug | info | warn | error")
}

// Lexicon converts the flags into a compiler configuration.
func (c Config) Lexicon(log *zap.Logger) (lexicon.Config, error) {
	cfg := lexicon.DefaultConfig()
	cfg.Name = c.Name
	cfg.Description = c.Description
	cfg.LanguageCodes = splitList(c.Languages, ",")
	cfg.ClearInterval = c.ClearInterval
	cfg.Alphabet = splitList(c.Alphabet, ",")
	cfg.Frequencies = c.Frequencies
	cfg.Logger = log

	for _, group := range splitList(c.Sortalikes, ";") {
		letters := splitList(group, ",")
		if len(letters) < 2 {
			return cfg, fmt.Errorf("sortalike group %q needs at least two letters", group)
		}
		cfg.Sortalikes = append(cfg.Sortalikes, letters)
	}
	return cfg, nil
}

func splitList(s, sep string) []string {
	var out []string
	for _, part := range strings.Split(s, sep) {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// cancellable ends words with the context error once ctx is done.
func cancellable(ctx context.Context, words iter.Seq2[string, error]) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		for w, err := range words {
			if ctxErr := ctx.Err(); ctxErr != nil {
				yield("", ctxErr)
				return
			}
			if !yield(w, err) {
				return
			}
		}
	}
}

// run compiles files into cfg.Output. An interrupted run writes nothing and
// returns the context error.
func run(ctx context.Context, log *zap.Logger, cfg Config, files []string) error {
	lcfg, err := cfg.Lexicon(log)
	if err != nil {
		return err
	}

	log.Info("compiling", zap.Strings("files", files))
	lex, err := lexicon.Compile(cancellable(ctx, wordsource.Files(files...)), lcfg)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			log.Warn("compilation interrupted, nothing written", zap.String("path", cfg.Output))
		}
		return err
	}

	n, err := lex.Save(cfg.Output)
	if err != nil {
		return err
	}
	log.Info("lexicon saved",
		zap.String("path", cfg.Output),
		zap.Int64("bytes", n),
		zap.Uint64("words", lex.Metadata.WordCount),
	)
	return nil
}

func main() {
	const envVarPrefix = "LEXICON"

	mainutil.Run(func() error {
		ctx := mainutil.TrapSignals()

		fs := flag.NewFlagSet("lexicon-compile", flag.ExitOnError)
		fs.Usage = func() {
			fmt.Fprintf(fs.Output(), "Usage: lexicon-compile [flags] files...\n")
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

		log, err := logging.New("lexicon-compile", cfg.LogLevel)
		if err != nil {
			return err
		}
		defer log.Sync() //nolint:errcheck

		return run(ctx, log, cfg, fs.Args())
	})
}
