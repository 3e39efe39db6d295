// Masterpiece - Cultural Recommendations Catalog
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/masterpiece

// Command catalog maintains the catalog data files.
//
//	catalog split -in music.json -out data/music [-size 200]
//	catalog list -data data -category movies [-masterpiece] [-lang en]
//	catalog validate -data data
//
// validate exits with status 1 when a category file is malformed, items
// were rejected or the music dataset fell back to the monolithic file.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"

	"github.com/goccy/go-json"

	"github.com/tomtom215/masterpiece/internal/catalog"
	"github.com/tomtom215/masterpiece/internal/chunked"
	"github.com/tomtom215/masterpiece/internal/filter"
	"github.com/tomtom215/masterpiece/internal/models"
)

var errUsage = errors.New("usage")

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		printUsage(stderr)
		return 2
	}

	var err error
	switch args[0] {
	case "split":
		err = runSplit(args[1:], stdout, stderr)
	case "list":
		err = runList(ctx, args[1:], stdout, stderr)
	case "validate":
		err = runValidate(ctx, args[1:], stdout, stderr)
	case "help", "-h", "-help", "--help":
		printUsage(stdout)
		return 0
	default:
		fmt.Fprintf(stderr, "unknown command %q\n\n", args[0])
		printUsage(stderr)
		return 2
	}

	switch {
	case err == nil:
		return 0
	case errors.Is(err, errUsage), errors.Is(err, flag.ErrHelp):
		return 2
	default:
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, `Usage: catalog <command> [flags]

Commands:
  split      cut a monolithic music.json into chunks plus index.json
  list       print the items of a category as a table
  validate   load the catalog and report counts and problems

Run "catalog <command> -h" for the flags of a command.`)
}

func runSplit(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("split", flag.ContinueOnError)
	fs.SetOutput(stderr)
	in := fs.String("in", "", "monolithic music JSON file (required)")
	out := fs.String("out", "", "output directory (required)")
	size := fs.Int("size", chunked.ChunkSize, "items per chunk")
	index := fs.String("index", "index.json", "manifest file name")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *in == "" || *out == "" {
		fs.Usage()
		return errUsage
	}

	data, err := os.ReadFile(*in)
	if err != nil {
		return err
	}
	var items []models.Item
	if err := json.Unmarshal(data, &items); err != nil {
		return fmt.Errorf("decode %s: %w", *in, err)
	}

	m, err := chunked.WriteDir(*out, *index, items, *size)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "wrote %d items in %d chunks of %d to %s\n", m.TotalItems, len(m.Chunks), m.ChunkSize, *out)
	return nil
}

func runList(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	fs.SetOutput(stderr)
	dataDir := fs.String("data", "data", "catalog data directory")
	musicDir := fs.String("music", "music", "music chunk directory below -data")
	category := fs.String("category", "", "category to list (required)")
	masterpiece := fs.Bool("masterpiece", false, "only masterpieces")
	lang := fs.String("lang", string(models.DefaultLanguage), "title language (es or en)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	l, ok := models.ParseLanguage(*lang)
	if !ok {
		return fmt.Errorf("unknown language %q", *lang)
	}
	c, err := loadCatalog(ctx, *dataDir, *musicDir)
	if err != nil {
		return err
	}
	cat := models.Category(*category)
	if !c.Taxonomy().HasCategory(cat) {
		fmt.Fprintf(stderr, "unknown category %q\n", *category)
		fs.Usage()
		return errUsage
	}

	items := filter.Apply(c.Items(), filter.Criteria{
		Category:        cat,
		MasterpieceOnly: *masterpiece,
		Sort:            filter.SortTitle,
		UILanguage:      l,
	})

	t := newTable("ID", "TITLE", "SUBCATEGORY", "YEAR", "LANG", "★")
	for i := range items {
		it := &items[i]
		year := ""
		if it.Year > 0 {
			year = strconv.Itoa(int(it.Year))
		}
		star := ""
		if it.Masterpiece {
			star = "★"
		}
		t.add(it.GlobalID, it.Title.Get(l), it.Subcategory, year, it.Language, star)
	}
	if err := t.write(stdout); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "\n%d items\n", len(items))
	return nil
}

func runValidate(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("validate", flag.ContinueOnError)
	fs.SetOutput(stderr)
	dataDir := fs.String("data", "data", "catalog data directory")
	musicDir := fs.String("music", "music", "music chunk directory below -data")
	if err := fs.Parse(args); err != nil {
		return err
	}

	c, err := loadCatalog(ctx, *dataDir, *musicDir)
	if err != nil {
		return err
	}

	counts := c.Counts()
	cats := make([]string, 0, len(counts))
	for cat := range counts {
		cats = append(cats, string(cat))
	}
	sort.Strings(cats)

	t := newTable("CATEGORY", "ITEMS")
	for _, cat := range cats {
		t.add(cat, strconv.Itoa(counts[models.Category(cat)]))
	}
	t.add("total", strconv.Itoa(c.Len()))
	if err := t.write(stdout); err != nil {
		return err
	}

	music := c.Music()
	fmt.Fprintf(stdout, "\nmusic: %s (%d chunks)\n", music.Mode, music.Chunks)

	var problems []string
	if c.Rejected() > 0 {
		problems = append(problems, fmt.Sprintf("%d items rejected (unknown category or missing id)", c.Rejected()))
	}
	if music.Error != "" {
		problems = append(problems, "music: "+music.Error)
	}
	if len(problems) == 0 {
		fmt.Fprintln(stdout, "ok")
		return nil
	}
	for _, p := range problems {
		fmt.Fprintln(stdout, "problem: "+p)
	}
	return fmt.Errorf("%d problems found", len(problems))
}

func loadCatalog(ctx context.Context, dataDir, musicDir string) (*catalog.Catalog, error) {
	if _, err := os.Stat(dataDir); err != nil {
		return nil, err
	}
	fsys := os.DirFS(dataDir)
	music := chunked.NewLoader(chunked.FSSource{FS: fsys, Dir: musicDir}, chunked.Config{})
	return catalog.NewLoader(fsys, catalog.DefaultTaxonomy(), music).Load(ctx)
}
