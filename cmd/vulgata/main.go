// Package main is the vulgata CLI entry point.
package main

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/hyperjump/vulgata/internal/bookmarks"
	"github.com/hyperjump/vulgata/internal/cli"
	"github.com/hyperjump/vulgata/internal/config"
	"github.com/hyperjump/vulgata/internal/models"
	"github.com/hyperjump/vulgata/internal/reader"
	"github.com/hyperjump/vulgata/internal/search"
	"github.com/hyperjump/vulgata/internal/server"
	"github.com/hyperjump/vulgata/internal/storage"
	"github.com/hyperjump/vulgata/internal/watcher"
	"github.com/hyperjump/vulgata/pkg/utils"
	"go.uber.org/zap"
)

var version = "dev"

const defaultConfigPath = "/usr/local/etc/vulgata/config.yaml"

// loadConfig loads config from path. When path is the default, config.yaml in the current
// directory takes precedence if it exists. Returns the config and the path actually loaded.
func loadConfig(path string) (*config.Config, string, error) {
	if path == defaultConfigPath {
		if cwd, cwdErr := os.Getwd(); cwdErr == nil {
			fallback := filepath.Join(cwd, "config.yaml")
			if _, statErr := os.Stat(fallback); statErr == nil {
				cfg, loadErr := config.Load(fallback)
				if loadErr != nil {
					return nil, "", loadErr
				}
				return cfg, fallback, nil
			}
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	command := os.Args[1]
	switch command {
	case "server":
		runServer()
	case "search":
		runSearch()
	case "read":
		runRead()
	case "books":
		runBooks()
	case "bookmarks":
		runBookmarks()
	case "define":
		runDefine()
	case "status":
		runStatus()
	case "init":
		runInit()
	case "version", "--version", "-v":
		fmt.Printf("vulgata version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

// setup loads config, creates the logger and initializes components. It exits on failure.
func setup(configPath string, debug bool) (*config.Config, *zap.Logger, *Components) {
	cfg, resolvedConfigPath, err := loadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	debugMode := cfg.Debug || debug
	logger, err := utils.NewLogger(debugMode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	logger.Debug("config loaded",
		zap.String("config_path", resolvedConfigPath),
		zap.Bool("debug", debugMode),
	)
	components, err := initializeComponents(context.Background(), cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	return cfg, logger, components
}

func runServer() {
	fs := flag.NewFlagSet("server", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging")
	_ = fs.Parse(os.Args[2:])

	cfg, logger, components := setup(*configPath, *debug)
	defer logger.Sync()
	defer components.Close()

	deps := server.Dependencies{
		Library:    components.Library,
		Engine:     components.Engine,
		Index:      components.KeywordIndex,
		Bookmarks:  components.Bookmarks,
		Settings:   components.Settings,
		Prayers:    components.Prayers,
		Dictionary: components.Dictionary,
		Config:     cfg,
	}

	watchCtx, watchCancel := context.WithCancel(context.Background())
	defer watchCancel()
	if cfg.Content.WatchOrDefault() {
		dirs, files := watchTargets(components.Repository, &cfg.Content)
		watchSvc := watcher.NewWatcher(dirs, []string{".json"}, func(paths []string) {
			logger.Info("content changed; reloading", zap.Strings("paths", paths))
			if err := components.Library.Reload(watchCtx); err != nil {
				logger.Warn("content reload failed", zap.Error(err))
			}
		}, watcher.WithLogger(utils.Component(logger, "watcher")), watcher.WithFiles(files...))
		if err := watchSvc.Start(watchCtx); err != nil {
			logger.Fatal("Failed to start watcher", zap.Error(err))
		}
		defer watchSvc.Stop()
		deps.Watch = watchSvc
	}

	srv := server.NewServer(deps, &cfg.Server, utils.Component(logger, "server"))
	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down...")
	watchCancel()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Stop(ctx)
}

// printSearchUsage prints search subcommand usage.
func printSearchUsage(fs *flag.FlagSet) {
	fmt.Fprintf(fs.Output(), "Usage: vulgata search [flags] <query>\n\n")
	fmt.Fprintf(fs.Output(), "Query is all remaining arguments joined by spaces. A query of the form \"<book> <chapter>:<verse>\" is looked up as a reference.\n\n")
	fs.PrintDefaults()
	fmt.Fprintf(fs.Output(), `
Examples:
  vulgata search Gen 1:1
  vulgata search in principio --all
  vulgata search --fulltext --fuzzy misericordia
  vulgata search -i                                # interactive, one query per line
`)
}

// buildSearchQuery joins all positional args with spaces so multi-word queries
// work the same with or without shell quoting.
func buildSearchQuery(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}

// searchArgsReorder moves any flags (and their values) that appear after the query
// to the front of the slice so that flag.Parse() sees them.
func searchArgsReorder(args []string) []string {
	for i, a := range args {
		if len(a) > 0 && a[0] == '-' {
			if i == 0 {
				return args
			}
			reordered := make([]string, 0, len(args))
			reordered = append(reordered, args[i:]...)
			reordered = append(reordered, args[:i]...)
			return reordered
		}
	}
	return args
}

// parseOutputFormat maps the -output flag to a format.
func parseOutputFormat(s string) (cli.SearchOutputFormat, error) {
	switch s {
	case "text":
		return cli.OutputText, nil
	case "json":
		return cli.OutputJSON, nil
	case "compact":
		return cli.OutputCompact, nil
	}
	return "", fmt.Errorf("unknown output format %q; use text, compact, or json", s)
}

func runSearch() {
	fs := flag.NewFlagSet("search", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	serverURL := fs.String("server", "", "server URL (empty = load content directly)")
	limit := fs.Int("limit", 0, "maximum number of results (0 = configured default)")
	langFlag := fs.String("lang", "english", "language of book names and results: latin, english, or spanish")
	all := fs.Bool("all", false, "also match Latin and Spanish verse text")
	fulltext := fs.Bool("fulltext", false, "use the full-text index")
	fuzzy := fs.Bool("fuzzy", false, "typo-tolerant full-text matching")
	interactive := fs.Bool("i", false, "interactive: read queries from stdin, newest query wins")
	outputFormat := fs.String("output", "text", "output format: text, compact, or json")
	fs.Usage = func() { printSearchUsage(fs) }
	_ = fs.Parse(searchArgsReorder(os.Args[2:]))

	format, err := parseOutputFormat(*outputFormat)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	lang, err := models.ParseLanguage(*langFlag)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	base := models.SearchQuery{Limit: *limit, Language: lang, AllLanguages: *all, Fuzzy: *fuzzy}

	if *interactive {
		runInteractiveSearch(*configPath, base, format)
		return
	}

	queryStr := buildSearchQuery(fs.Args())
	if queryStr == "" {
		printSearchUsage(fs)
		os.Exit(1)
	}
	query := base
	query.Query = queryStr

	var response *models.SearchResponse
	if *serverURL != "" {
		response, err = searchViaHTTP(*serverURL, &query, *fulltext)
	} else {
		_, logger, components := setup(*configPath, false)
		defer logger.Sync()
		defer components.Close()
		if *fulltext {
			response, err = components.Engine.FullText(context.Background(), &query)
		} else {
			response, err = components.Engine.Search(context.Background(), &query)
		}
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Search failed: %v\n", err)
		os.Exit(1)
	}
	if err := cli.WriteSearchResults(os.Stdout, response, format, lang); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
}

// runInteractiveSearch submits each stdin line to a cancel-and-replace searcher. Results
// of a query are printed only if no newer query was entered meanwhile.
func runInteractiveSearch(configPath string, base models.SearchQuery, format cli.SearchOutputFormat) {
	_, logger, components := setup(configPath, false)
	defer logger.Sync()
	defer components.Close()

	searcher := search.NewSearcher(components.Engine,
		search.WithQueryDefaults(base),
		search.WithSearcherLogger(logger),
		search.WithPublisher(func(resp *models.SearchResponse) {
			_ = cli.WriteSearchResults(os.Stdout, resp, format, base.Language)
			fmt.Print("> ")
		}),
	)
	defer searcher.Close()

	fmt.Print("> ")
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		searcher.Submit(scanner.Text())
	}
	searcher.Wait()
}

func searchViaHTTP(serverURL string, query *models.SearchQuery, fulltext bool) (*models.SearchResponse, error) {
	var resp *http.Response
	var err error
	if fulltext {
		v := url.Values{}
		v.Set("q", query.Query)
		v.Set("fuzzy", strconv.FormatBool(query.Fuzzy))
		v.Set("all", strconv.FormatBool(query.AllLanguages))
		v.Set("lang", string(query.Language))
		if query.Limit > 0 {
			v.Set("limit", strconv.Itoa(query.Limit))
		}
		resp, err = http.Get(serverURL + "/api/v1/search/fulltext?" + v.Encode())
	} else {
		body, marshalErr := json.Marshal(query)
		if marshalErr != nil {
			return nil, marshalErr
		}
		resp, err = http.Post(serverURL+"/api/v1/search", "application/json", bytes.NewReader(body))
	}
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, string(b))
	}
	var response models.SearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &response, nil
}

// splitBookChapter splits "<book words...> <chapter>" so multi-word book names need no quoting.
func splitBookChapter(args []string) (string, int, error) {
	if len(args) < 2 {
		return "", 0, fmt.Errorf("need a book and a chapter")
	}
	chapter, err := strconv.Atoi(args[len(args)-1])
	if err != nil || chapter < 1 {
		return "", 0, fmt.Errorf("invalid chapter %q", args[len(args)-1])
	}
	return strings.Join(args[:len(args)-1], " "), chapter, nil
}

func runRead() {
	fs := flag.NewFlagSet("read", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	wpm := fs.Int("wpm", 0, "words per minute (0 = saved setting)")
	preset := fs.String("preset", "", "speed preset: slow, normal, fast, or turbo")
	langFlag := fs.String("lang", "", "reading language (empty = saved setting)")
	restart := fs.Bool("restart", false, "start from the beginning instead of the saved position")
	wholeBook := fs.Bool("book", false, "read on through the rest of the book")
	prayerID := fs.String("prayer", "", "read the prayer with this id instead of a chapter")
	category := fs.String("category", "", "read every prayer in this category")
	text := fs.String("text", "", "read this text instead of a chapter")
	_ = fs.Parse(searchArgsReorder(os.Args[2:]))

	var bookName string
	var chapter int
	if *prayerID == "" && *category == "" && *text == "" {
		var err error
		if bookName, chapter, err = splitBookChapter(fs.Args()); err != nil {
			fmt.Println("Usage: vulgata read [flags] <book> <chapter>")
			fmt.Println("       vulgata read [flags] -prayer <id> | -category <name> | -text <text>")
			os.Exit(1)
		}
	}

	_, logger, components := setup(*configPath, false)
	defer logger.Sync()
	defer components.Close()

	ctx := context.Background()
	prefs, err := components.Settings.Get(ctx)
	if err != nil {
		logger.Warn("failed to read settings", zap.Error(err))
	}
	if *langFlag != "" {
		if prefs.Language, err = models.ParseLanguage(*langFlag); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}
	if *preset != "" {
		v, ok := reader.PresetWPM(*preset)
		if !ok {
			fmt.Fprintf(os.Stderr, "Unknown preset %q\n", *preset)
			os.Exit(1)
		}
		prefs.WPM = v
	}
	if *wpm != 0 {
		prefs.WPM = *wpm
	}

	renderer := cli.NewRenderer(os.Stdout)
	engine := reader.NewEngine(
		reader.WithCatalog(components.Library.Catalog()),
		reader.WithProgressStore(components.Settings),
		reader.WithListener(renderer.Render),
		reader.WithLogger(utils.Component(logger, "reader")),
		reader.WithWPM(prefs.WPM),
		reader.WithPunctuationPause(prefs.PunctuationPause),
		reader.WithLanguage(prefs.Language),
	)
	defer engine.Close()

	if err := loadReading(engine, components, readTarget{
		book: bookName, chapter: chapter, wholeBook: *wholeBook,
		prayer: *prayerID, category: *category, text: *text, restart: *restart,
	}); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	engine.Play()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	select {
	case <-renderer.Done():
	case <-sigChan:
		engine.Pause()
		fmt.Printf("\nPaused at word %d of %d; run the same command to resume.\n", engine.Index()+1, engine.Len())
	}
}

type readTarget struct {
	book      string
	chapter   int
	wholeBook bool
	prayer    string
	category  string
	text      string
	restart   bool
}

// loadReading loads the requested content into engine. With restart, saved progress is
// cleared before loading.
func loadReading(engine *reader.Engine, c *Components, t readTarget) error {
	switch {
	case t.text != "":
		engine.LoadText(t.text, "Text")
		return nil
	case t.prayer != "" || t.category != "":
		if c.Prayers == nil {
			return fmt.Errorf("no prayers configured")
		}
		if t.category != "" {
			list := c.Prayers.Category(t.category)
			if len(list) == 0 {
				return fmt.Errorf("no prayers in category %q", t.category)
			}
			engine.LoadPrayers(list, t.category)
			return nil
		}
		p, err := c.Prayers.Get(t.prayer)
		if err != nil {
			return err
		}
		if t.restart {
			_ = c.Settings.SaveProgress(reader.PrayerProgressKey(p.ID()), 0)
		}
		engine.LoadPrayer(p)
		return nil
	}

	b := c.Library.Bible()
	canonical, ok := search.ResolveBook(c.Library.Catalog(), b, t.book)
	if !ok {
		return fmt.Errorf("book not found: %s", t.book)
	}
	if t.wholeBook {
		return engine.LoadBook(b.Book(canonical), t.chapter)
	}
	if t.restart {
		_ = c.Settings.SaveProgress(reader.ChapterProgressKey(canonical, t.chapter), 0)
	}
	if err := engine.LoadChapter(b.Book(canonical), t.chapter); err != nil {
		return fmt.Errorf("failed to load chapter: %w", err)
	}
	return nil
}

func runBooks() {
	fs := flag.NewFlagSet("books", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(os.Args[2:])

	_, logger, components := setup(*configPath, false)
	defer logger.Sync()
	defer components.Close()

	type bookLine struct {
		Name        string `json:"name"`
		DisplayName string `json:"display_name"`
		Chapters    int    `json:"chapters"`
		Verses      int    `json:"verses"`
	}
	catalog := components.Library.Catalog()
	var lines []bookLine
	for _, book := range components.Library.Bible().Books {
		lines = append(lines, bookLine{
			Name:        book.Name,
			DisplayName: catalog.DisplayName(book.Name),
			Chapters:    len(book.Chapters),
			Verses:      book.VerseCount(),
		})
	}
	if *outputFormat == "json" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(lines)
		return
	}
	for _, l := range lines {
		fmt.Printf("%-28s %3d chapters  %5d verses\n", l.DisplayName, l.Chapters, l.Verses)
	}
}

func runBookmarks() {
	if len(os.Args) < 3 {
		fmt.Println("Usage: vulgata bookmarks <list|add|remove> [args]")
		fmt.Println("  vulgata bookmarks list                           List bookmarks")
		fmt.Println("  vulgata bookmarks add <book> <chapter>:<verse>   Bookmark a verse")
		fmt.Println("  vulgata bookmarks add -prayer <id>               Bookmark a prayer")
		fmt.Println("  vulgata bookmarks remove <id>                    Remove a bookmark")
		os.Exit(1)
	}
	sub := os.Args[2]
	fs := flag.NewFlagSet("bookmarks", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	note := fs.String("note", "", "note to attach")
	prayerID := fs.String("prayer", "", "prayer id to bookmark")
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(searchArgsReorder(os.Args[3:]))

	_, logger, components := setup(*configPath, false)
	defer logger.Sync()
	defer components.Close()
	ctx := context.Background()
	store := components.Bookmarks

	switch sub {
	case "list":
		format := cli.OutputText
		if *outputFormat == "json" {
			format = cli.OutputJSON
		}
		_ = cli.WriteBookmarks(os.Stdout, store.List(), format)
	case "add":
		var bm *bookmarks.Bookmark
		if *prayerID != "" {
			p, err := components.Prayers.Get(*prayerID)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Prayer not found: %s\n", *prayerID)
				os.Exit(1)
			}
			bm = bookmarks.NewPrayerBookmark(p, *note)
		} else {
			ref, ok := search.ParseReference(strings.Join(fs.Args(), " "))
			if !ok {
				fmt.Println("Usage: vulgata bookmarks add <book> <chapter>:<verse>")
				os.Exit(1)
			}
			b := components.Library.Bible()
			canonical, found := search.ResolveBook(components.Library.Catalog(), b, ref.BookPrefix)
			if !found {
				fmt.Fprintf(os.Stderr, "Book not found: %s\n", ref.BookPrefix)
				os.Exit(1)
			}
			_, _, v, found := b.Lookup(canonical, ref.Chapter, ref.Verse)
			if !found {
				fmt.Fprintf(os.Stderr, "Verse not found: %s %d:%d\n", canonical, ref.Chapter, ref.Verse)
				os.Exit(1)
			}
			bm = bookmarks.NewVerseBookmark(canonical, ref.Chapter, ref.Verse, v.English, v.Latin, *note)
		}
		saved, err := store.Add(ctx, bm)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Add failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Bookmark added: %s\n", saved.ID)
	case "remove":
		if fs.NArg() < 1 {
			fmt.Println("Usage: vulgata bookmarks remove <id>")
			os.Exit(1)
		}
		if err := store.Remove(ctx, fs.Arg(0)); err != nil {
			fmt.Fprintf(os.Stderr, "Remove failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Bookmark removed: %s\n", fs.Arg(0))
	default:
		fmt.Printf("Unknown bookmarks subcommand: %s\n", sub)
		os.Exit(1)
	}
}

func runDefine() {
	fs := flag.NewFlagSet("define", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	_ = fs.Parse(searchArgsReorder(os.Args[2:]))
	if fs.NArg() < 1 {
		fmt.Println("Usage: vulgata define <latin-word>")
		os.Exit(1)
	}
	word := fs.Arg(0)

	_, logger, components := setup(*configPath, false)
	defer logger.Sync()
	defer components.Close()
	if components.Dictionary == nil {
		fmt.Fprintln(os.Stderr, "No dictionary configured (content.dictionary_dir).")
		os.Exit(1)
	}
	entries, err := components.Dictionary.Lookup(word)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		if suggestions, _ := components.Dictionary.Suggest(word, 5); len(suggestions) > 0 {
			fmt.Fprintf(os.Stderr, "Did you mean: %s?\n", strings.Join(suggestions, ", "))
		}
		os.Exit(1)
	}
	cli.WriteDefinitions(os.Stdout, word, entries)
}

func runInit() {
	fs := flag.NewFlagSet("init", flag.ExitOnError)
	path := fs.String("config", "config.yaml", "config file to write")
	contentDir := fs.String("content", "", "directory holding latin.json, english.json and spanish.json")
	force := fs.Bool("force", false, "overwrite an existing config file")
	_ = fs.Parse(os.Args[2:])

	if err := writeDefaultConfig(*path, *contentDir, *force); err != nil {
		fmt.Fprintf(os.Stderr, "Init failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Wrote %s\n", *path)
}

// writeDefaultConfig writes a config with every default filled in. An existing file is
// kept unless force is set.
func writeDefaultConfig(path, contentDir string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%s already exists; use -force to overwrite", path)
	}
	cfg := &config.Config{Content: config.ContentConfig{Directory: contentDir}}
	config.ApplyDefaults(cfg)
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}
	return config.Save(path, cfg)
}

// statusResponse is the subset of GET /api/v1/status printed by the CLI.
type statusResponse struct {
	Books          int       `json:"books"`
	Verses         int       `json:"verses"`
	SpanishVerses  int       `json:"spanish_verses"`
	MergeWarnings  int       `json:"merge_warnings"`
	IndexedVerses  uint64    `json:"indexed_verses"`
	Bookmarks      int       `json:"bookmarks"`
	Prayers        int       `json:"prayers"`
	Positions      int       `json:"reading_positions"`
	LoadedAt       time.Time `json:"loaded_at"`
	DiskUsageBytes *int64    `json:"disk_usage_bytes,omitempty"`
}

func runStatus() {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	serverURL := fs.String("server", "", "server URL (empty = load content directly)")
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(os.Args[2:])

	var status statusResponse
	if *serverURL != "" {
		res, err := statusViaHTTP(*serverURL)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Status failed: %v\n", err)
			os.Exit(1)
		}
		status = *res
	} else {
		cfg, logger, components := setup(*configPath, false)
		defer logger.Sync()
		defer components.Close()
		b := components.Library.Bible()
		status = statusResponse{
			Books:     len(b.Books),
			Verses:    b.VerseCount(),
			Bookmarks: len(components.Bookmarks.List()),
			Prayers:   components.Prayers.Len(),
			LoadedAt:  components.Library.LoadedAt(),
		}
		if report := components.Library.Report(); report != nil {
			status.SpanishVerses = report.SpanishVerses
			status.MergeWarnings = len(report.Warnings)
		}
		if n, err := components.KeywordIndex.DocCount(); err == nil {
			status.IndexedVerses = n
		}
		if keys, err := components.Settings.ProgressKeys(context.Background()); err == nil {
			status.Positions = len(keys)
		}
		if diskBytes, err := storage.UsageBytes(cfg.Storage.DatabasePath, cfg.Storage.BleveIndexPath); err == nil {
			status.DiskUsageBytes = &diskBytes
		}
	}

	switch *outputFormat {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(status); err != nil {
			fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
			os.Exit(1)
		}
	case "text":
		fmt.Printf("books:              %d\n", status.Books)
		fmt.Printf("verses:             %d\n", status.Verses)
		fmt.Printf("spanish_verses:     %d   # verses with Spanish text\n", status.SpanishVerses)
		fmt.Printf("merge_warnings:     %d\n", status.MergeWarnings)
		fmt.Printf("indexed_verses:     %d   # full-text index documents\n", status.IndexedVerses)
		fmt.Printf("bookmarks:          %d\n", status.Bookmarks)
		fmt.Printf("prayers:            %d\n", status.Prayers)
		fmt.Printf("reading_positions:  %d   # chapters and prayers with saved progress\n", status.Positions)
		if !status.LoadedAt.IsZero() {
			fmt.Printf("loaded_at:          %s\n", status.LoadedAt.Format(time.RFC3339))
		}
		if status.DiskUsageBytes != nil {
			fmt.Printf("disk_usage_bytes:   %d   # database + index on disk\n", *status.DiskUsageBytes)
		}
	default:
		fmt.Fprintf(os.Stderr, "Unknown output format %q; use text or json\n", *outputFormat)
		os.Exit(1)
	}
}

func statusViaHTTP(serverURL string) (*statusResponse, error) {
	resp, err := http.Get(serverURL + "/api/v1/status")
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, string(b))
	}
	var s statusResponse
	if err := json.NewDecoder(resp.Body).Decode(&s); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &s, nil
}

func printUsage() {
	fmt.Println(`vulgata - Latin / English / Spanish Bible reader

Usage:
  vulgata server [flags]                  Start the HTTP API
  vulgata search [flags] <query>          Search book names, verses, or a reference
  vulgata read [flags] <book> <chapter>   Speed-read a chapter in the terminal
  vulgata books [flags]                   List books
  vulgata bookmarks <list|add|remove>     Manage bookmarks
  vulgata define <word>                   Look up a Latin word
  vulgata status [flags]                  Show content/index/storage status
  vulgata init [flags]                    Write a config file with defaults
  vulgata version                         Show version
  vulgata help                            Show this help

Common Flags:
  --config string    Config file path (default: /usr/local/etc/vulgata/config.yaml;
                     ./config.yaml is preferred when present)

Search Flags:
  --server string    Server URL; empty loads content directly (default: "")
  --limit int        Maximum results (default from config)
  --lang string      latin, english, or spanish (default: english)
  --all              Also match Latin and Spanish verse text
  --fulltext         Use the full-text index
  --fuzzy            Typo-tolerant full-text matching
  -i                 Interactive search; the newest query wins
  --output string    text, compact, or json (default: text)

Read Flags:
  --wpm int          Words per minute, 10-999 (default: saved setting)
  --preset string    slow, normal, fast, or turbo
  --lang string      Reading language (default: saved setting)
  --restart          Ignore the saved position
  --book             Continue through the rest of the book
  --prayer string    Read a prayer by id instead of a chapter
  --category string  Read every prayer in a category
  --text string      Read the given text

Examples:
  vulgata server
  vulgata search Gen 1:1
  vulgata search --all --output compact misericordia
  vulgata read --preset fast Genesis 1
  vulgata read --prayer pater_noster --lang latin
  vulgata bookmarks add Ioannes 3:16 --note "sic enim"
  vulgata define lux
  vulgata status --output json`)
}
