package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/hyperjump/vulgata/internal/bible"
	"github.com/hyperjump/vulgata/internal/bookmarks"
	"github.com/hyperjump/vulgata/internal/dictionary"
	"github.com/hyperjump/vulgata/internal/models"
	"github.com/hyperjump/vulgata/internal/prayers"
	"github.com/hyperjump/vulgata/internal/reader"
	"github.com/hyperjump/vulgata/internal/search"
	"github.com/hyperjump/vulgata/internal/settings"
	"github.com/hyperjump/vulgata/internal/storage"
	"go.uber.org/zap"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	lib := s.deps.Library
	resp := map[string]interface{}{
		"loaded":    lib.Bible() != nil,
		"books":     0,
		"verses":    0,
		"bookmarks": 0,
		"prayers":   s.deps.Prayers.Len(),
	}
	if b := lib.Bible(); b != nil {
		resp["books"] = len(b.Books)
		resp["verses"] = b.VerseCount()
		resp["loaded_at"] = lib.LoadedAt()
	}
	if report := lib.Report(); report != nil {
		resp["spanish_verses"] = report.SpanishVerses
		resp["merge_warnings"] = len(report.Warnings)
	}
	if s.deps.Bookmarks != nil {
		resp["bookmarks"] = len(s.deps.Bookmarks.List())
	}
	if s.deps.Index != nil {
		if n, err := s.deps.Index.DocCount(); err == nil {
			resp["indexed_verses"] = n
		} else {
			s.logger.Warn("status: index doc count failed", zap.Error(err))
		}
	}
	if s.deps.Settings != nil {
		if keys, err := s.deps.Settings.ProgressKeys(r.Context()); err == nil {
			resp["reading_positions"] = len(keys)
		}
	}
	if s.deps.Dictionary != nil {
		resp["dictionary_letters_cached"] = s.deps.Dictionary.CachedLetters()
	}
	if s.deps.Watch != nil {
		resp["watched_directories"] = s.deps.Watch.Directories()
	}

	if cfg := s.deps.Config; cfg != nil {
		resp["config"] = map[string]interface{}{
			"content_directory": cfg.Content.Directory,
			"database_path":     cfg.Storage.DatabasePath,
			"bleve_index_path":  cfg.Storage.BleveIndexPath,
			"default_limit":     cfg.Search.DefaultLimit,
			"max_limit":         cfg.Search.MaxLimit,
			"all_languages":     cfg.Search.AllLanguages,
		}
		diskBytes, err := storage.UsageBytes(cfg.Storage.DatabasePath, cfg.Storage.BleveIndexPath)
		if err == nil {
			resp["disk_usage_bytes"] = diskBytes
		}
	}
	s.respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	s.logger.Debug("content reload request")
	if err := s.deps.Library.Reload(r.Context()); err != nil {
		s.logger.Error("content reload failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "reloaded",
		"loaded_at": s.deps.Library.LoadedAt(),
	})
}

type bookSummary struct {
	Name         string                     `json:"name"`
	DisplayName  string                     `json:"display_name"`
	Abbreviation string                     `json:"abbreviation,omitempty"`
	Testament    bible.Testament            `json:"testament,omitempty"`
	Names        map[models.Language]string `json:"names,omitempty"`
	Chapters     int                        `json:"chapters"`
	Verses       int                        `json:"verses"`
}

type chapterSummary struct {
	Number int `json:"number"`
	Verses int `json:"verses"`
}

type bookDetail struct {
	bookSummary
	ChapterList []chapterSummary `json:"chapter_list"`
}

func (s *Server) summarize(book *models.Book) bookSummary {
	catalog := s.deps.Library.Catalog()
	sum := bookSummary{
		Name:        book.Name,
		DisplayName: catalog.DisplayName(book.Name),
		Chapters:    len(book.Chapters),
		Verses:      book.VerseCount(),
	}
	if info, ok := catalog.Info(book.Name); ok {
		sum.Abbreviation = info.Abbr
		sum.Testament = info.Testament
		sum.Names = make(map[models.Language]string, len(models.Languages))
		for _, lang := range models.Languages {
			sum.Names[lang] = info.Name(lang)
		}
	}
	return sum
}

// bibleOrUnavailable returns the loaded Bible or writes 503.
func (s *Server) bibleOrUnavailable(w http.ResponseWriter) *bible.Bible {
	b := s.deps.Library.Bible()
	if b == nil {
		s.respondError(w, http.StatusServiceUnavailable, "content not loaded")
	}
	return b
}

// resolveBook finds a book by exact canonical name, then by prefix.
func (s *Server) resolveBook(b *bible.Bible, raw string) *models.Book {
	name, err := url.PathUnescape(raw)
	if err != nil {
		name = raw
	}
	if book := b.Book(name); book != nil {
		return book
	}
	if canonical, ok := search.ResolveBook(s.deps.Library.Catalog(), b, name); ok {
		return b.Book(canonical)
	}
	return nil
}

func (s *Server) handleListBooks(w http.ResponseWriter, r *http.Request) {
	b := s.bibleOrUnavailable(w)
	if b == nil {
		return
	}
	testament := bible.Testament(r.URL.Query().Get("testament"))
	catalog := s.deps.Library.Catalog()
	books := make([]bookSummary, 0, len(b.Books))
	for _, book := range b.Books {
		if testament != "" && catalog.Testament(book.Name) != testament {
			continue
		}
		books = append(books, s.summarize(book))
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{"books": books, "total": len(books)})
}

func (s *Server) handleGetBook(w http.ResponseWriter, r *http.Request) {
	b := s.bibleOrUnavailable(w)
	if b == nil {
		return
	}
	book := s.resolveBook(b, chi.URLParam(r, "book"))
	if book == nil {
		s.respondError(w, http.StatusNotFound, "book not found")
		return
	}
	detail := bookDetail{bookSummary: s.summarize(book)}
	for _, ch := range book.Chapters {
		detail.ChapterList = append(detail.ChapterList, chapterSummary{Number: ch.Number, Verses: len(ch.Verses)})
	}
	s.respondJSON(w, http.StatusOK, detail)
}

type verseView struct {
	*models.Verse
	Bookmarked bool `json:"bookmarked"`
}

type chapterResponse struct {
	Book        string             `json:"book"`
	DisplayName string             `json:"display_name"`
	Chapter     int                `json:"chapter"`
	DisplayMode models.DisplayMode `json:"display_mode,omitempty"`
	Verses      []verseView        `json:"verses"`
}

func (s *Server) handleGetChapter(w http.ResponseWriter, r *http.Request) {
	b := s.bibleOrUnavailable(w)
	if b == nil {
		return
	}
	book, ch, ok := s.chapterFromRequest(w, r, b)
	if !ok {
		return
	}
	resp := chapterResponse{
		Book:        book.Name,
		DisplayName: s.deps.Library.Catalog().DisplayName(book.Name),
		Chapter:     ch.Number,
		Verses:      make([]verseView, 0, len(ch.Verses)),
	}
	if s.deps.Settings != nil {
		if mode, err := s.deps.Settings.DisplayMode(r.Context()); err == nil {
			resp.DisplayMode = mode
		}
	}
	for _, v := range ch.Verses {
		view := verseView{Verse: v}
		if s.deps.Bookmarks != nil {
			view.Bookmarked = s.deps.Bookmarks.IsVerseBookmarked(book.Name, ch.Number, v.Number)
		}
		resp.Verses = append(resp.Verses, view)
	}
	s.respondJSON(w, http.StatusOK, resp)
}

func (s *Server) chapterFromRequest(w http.ResponseWriter, r *http.Request, b *bible.Bible) (*models.Book, *models.Chapter, bool) {
	book := s.resolveBook(b, chi.URLParam(r, "book"))
	if book == nil {
		s.respondError(w, http.StatusNotFound, "book not found")
		return nil, nil, false
	}
	number, err := strconv.Atoi(chi.URLParam(r, "chapter"))
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid chapter number")
		return nil, nil, false
	}
	ch := book.Chapter(number)
	if ch == nil {
		s.respondError(w, http.StatusNotFound, "chapter not found")
		return nil, nil, false
	}
	return book, ch, true
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var query models.SearchQuery
	if err := json.NewDecoder(r.Body).Decode(&query); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	s.logger.Debug("search request", zap.String("query", query.Query), zap.Int("limit", query.Limit))
	response, err := s.deps.Engine.Search(r.Context(), &query)
	if err != nil {
		s.logger.Error("search failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, response)
}

func (s *Server) handleFullText(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := models.SearchQuery{Query: strings.TrimSpace(q.Get("q"))}
	if query.Query == "" {
		s.respondError(w, http.StatusBadRequest, "q is required")
		return
	}
	if v := q.Get("fuzzy"); v != "" {
		fuzzy, err := strconv.ParseBool(v)
		if err != nil {
			s.respondError(w, http.StatusBadRequest, "invalid fuzzy flag")
			return
		}
		query.Fuzzy = fuzzy
	}
	if v := q.Get("all"); v != "" {
		all, err := strconv.ParseBool(v)
		if err != nil {
			s.respondError(w, http.StatusBadRequest, "invalid all flag")
			return
		}
		query.AllLanguages = all
	}
	if v := q.Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil {
			s.respondError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		query.Limit = limit
	}
	if v := q.Get("lang"); v != "" {
		lang, err := models.ParseLanguage(v)
		if err != nil {
			s.respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		query.Language = lang
	}
	s.logger.Debug("full-text request", zap.String("query", query.Query), zap.Bool("fuzzy", query.Fuzzy))
	response, err := s.deps.Engine.FullText(r.Context(), &query)
	if errors.Is(err, search.ErrFullTextDisabled) {
		s.respondError(w, http.StatusNotImplemented, err.Error())
		return
	}
	if err != nil {
		s.logger.Error("full-text search failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, response)
}

func (s *Server) bookmarksOrUnavailable(w http.ResponseWriter) *bookmarks.Store {
	if s.deps.Bookmarks == nil {
		s.respondError(w, http.StatusNotImplemented, "bookmarks not enabled")
	}
	return s.deps.Bookmarks
}

func (s *Server) handleListBookmarks(w http.ResponseWriter, r *http.Request) {
	store := s.bookmarksOrUnavailable(w)
	if store == nil {
		return
	}
	list := store.List()
	if kind := bookmarks.Kind(r.URL.Query().Get("kind")); kind != "" {
		filtered := list[:0]
		for _, b := range list {
			if b.Kind == kind {
				filtered = append(filtered, b)
			}
		}
		list = filtered
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{"bookmarks": list, "total": len(list)})
}

func (s *Server) handleAddBookmark(w http.ResponseWriter, r *http.Request) {
	store := s.bookmarksOrUnavailable(w)
	if store == nil {
		return
	}
	var bm bookmarks.Bookmark
	if err := json.NewDecoder(r.Body).Decode(&bm); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if status, msg := s.completeBookmark(&bm); status != 0 {
		s.respondError(w, status, msg)
		return
	}
	s.logger.Debug("add bookmark request", zap.String("kind", string(bm.Kind)))
	saved, err := store.Add(r.Context(), &bm)
	if errors.Is(err, bookmarks.ErrInvalidKind) {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		s.logger.Error("add bookmark failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusCreated, saved)
}

// completeBookmark checks that the bookmarked verse or prayer exists and fills in its
// text. It returns a non-zero status when the request must be rejected.
func (s *Server) completeBookmark(bm *bookmarks.Bookmark) (int, string) {
	switch bm.Kind {
	case bookmarks.KindVerse:
		b := s.deps.Library.Bible()
		if b == nil {
			return http.StatusServiceUnavailable, "content not loaded"
		}
		book := s.resolveBook(b, bm.Book)
		if book == nil {
			return http.StatusNotFound, "book not found"
		}
		_, _, v, ok := b.Lookup(book.Name, bm.Chapter, bm.Verse)
		if !ok {
			return http.StatusNotFound, "verse not found"
		}
		bm.Book = book.Name
		if bm.VerseText == "" {
			bm.VerseText = v.English
		}
		if bm.LatinText == "" {
			bm.LatinText = v.Latin
		}
	case bookmarks.KindPrayer:
		if s.deps.Prayers == nil {
			return 0, ""
		}
		p, err := s.deps.Prayers.Get(bm.PrayerID)
		if err != nil {
			return http.StatusNotFound, "prayer not found"
		}
		if bm.PrayerName == "" {
			bm.PrayerName = p.Title
		}
		if bm.Category == "" {
			bm.Category = p.Category
		}
	}
	return 0, ""
}

func (s *Server) handleUpdateBookmark(w http.ResponseWriter, r *http.Request) {
	store := s.bookmarksOrUnavailable(w)
	if store == nil {
		return
	}
	var bm bookmarks.Bookmark
	if err := json.NewDecoder(r.Body).Decode(&bm); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	bm.ID = chi.URLParam(r, "id")
	err := store.Update(r.Context(), &bm)
	switch {
	case errors.Is(err, bookmarks.ErrNotFound):
		s.respondError(w, http.StatusNotFound, "bookmark not found")
	case errors.Is(err, bookmarks.ErrInvalidKind):
		s.respondError(w, http.StatusBadRequest, err.Error())
	case err != nil:
		s.logger.Error("update bookmark failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
	default:
		s.respondJSON(w, http.StatusOK, &bm)
	}
}

func (s *Server) handleDeleteBookmark(w http.ResponseWriter, r *http.Request) {
	store := s.bookmarksOrUnavailable(w)
	if store == nil {
		return
	}
	id := chi.URLParam(r, "id")
	s.logger.Debug("delete bookmark request", zap.String("id", id))
	err := store.Remove(r.Context(), id)
	if errors.Is(err, bookmarks.ErrNotFound) {
		s.respondError(w, http.StatusNotFound, "bookmark not found")
		return
	}
	if err != nil {
		s.logger.Error("delete bookmark failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (s *Server) handleDefine(w http.ResponseWriter, r *http.Request) {
	if s.deps.Dictionary == nil {
		s.respondError(w, http.StatusNotImplemented, "dictionary not enabled")
		return
	}
	word := chi.URLParam(r, "word")
	entries, err := s.deps.Dictionary.Lookup(word)
	if errors.Is(err, dictionary.ErrNoEntries) {
		suggestions, _ := s.deps.Dictionary.Suggest(word, 5)
		s.respondJSON(w, http.StatusNotFound, map[string]interface{}{
			"error":       "no entries",
			"suggestions": suggestions,
		})
		return
	}
	if err != nil {
		s.logger.Error("dictionary lookup failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{"word": word, "entries": entries})
}

type prayerView struct {
	ID string `json:"id"`
	*prayers.Prayer
}

func (s *Server) handleListPrayers(w http.ResponseWriter, r *http.Request) {
	list := s.deps.Prayers.All()
	if cat := r.URL.Query().Get("category"); cat != "" {
		list = s.deps.Prayers.Category(cat)
	}
	views := make([]prayerView, 0, len(list))
	for _, p := range list {
		views = append(views, prayerView{ID: p.ID(), Prayer: p})
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{"prayers": views, "total": len(views)})
}

func (s *Server) handleGetPrayer(w http.ResponseWriter, r *http.Request) {
	p, err := s.deps.Prayers.Get(chi.URLParam(r, "id"))
	if err != nil {
		s.respondError(w, http.StatusNotFound, "prayer not found")
		return
	}
	s.respondJSON(w, http.StatusOK, prayerView{ID: p.ID(), Prayer: p})
}

type readerWord struct {
	reader.Item
	Before  string `json:"before"`
	Letter  string `json:"letter"`
	After   string `json:"after"`
	DelayMS int64  `json:"delay_ms"`
}

type readerResponse struct {
	Title            string               `json:"title"`
	Book             string               `json:"book"`
	Chapter          int                  `json:"chapter"`
	Language         models.Language      `json:"language"`
	WPM              int                  `json:"wpm"`
	PunctuationPause bool                 `json:"punctuation_pause"`
	Start            int                  `json:"start"`
	Empty            bool                 `json:"empty"`
	Words            []readerWord         `json:"words"`
	Verses           []reader.VerseMarker `json:"verses"`
	EstimatedMS      int64                `json:"estimated_ms"`
}

func (s *Server) handleReader(w http.ResponseWriter, r *http.Request) {
	b := s.bibleOrUnavailable(w)
	if b == nil {
		return
	}
	book, ch, ok := s.chapterFromRequest(w, r, b)
	if !ok {
		return
	}
	prefs := s.readerSettings(r.Context())
	if v := r.URL.Query().Get("lang"); v != "" {
		lang, err := models.ParseLanguage(v)
		if err != nil {
			s.respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		prefs.Language = lang
	}
	if v := r.URL.Query().Get("wpm"); v != "" {
		wpm, err := strconv.Atoi(v)
		if err != nil {
			s.respondError(w, http.StatusBadRequest, "invalid wpm")
			return
		}
		prefs.WPM = reader.ClampWPM(wpm)
	}

	items, verses := reader.ChapterItems(ch, prefs.Language, 0)
	resp := readerResponse{
		Title:            s.deps.Library.Catalog().DisplayName(book.Name) + " " + strconv.Itoa(ch.Number),
		Book:             book.Name,
		Chapter:          ch.Number,
		Language:         prefs.Language,
		WPM:              prefs.WPM,
		PunctuationPause: prefs.PunctuationPause,
		Empty:            len(items) == 0,
		Words:            make([]readerWord, 0, len(items)),
		Verses:           verses,
	}
	for _, it := range items {
		delay := reader.WordDelay(it.Text, prefs.WPM, prefs.PunctuationPause)
		resp.Words = append(resp.Words, readerWord{
			Item:    it,
			Before:  it.Before(),
			Letter:  it.Letter(),
			After:   it.After(),
			DelayMS: delay.Milliseconds(),
		})
		resp.EstimatedMS += delay.Milliseconds()
	}
	if s.deps.Settings != nil {
		if i, err := s.deps.Settings.LoadProgress(reader.ChapterProgressKey(book.Name, ch.Number)); err == nil && i > 0 && i < len(items) {
			resp.Start = i
		}
	}
	s.respondJSON(w, http.StatusOK, resp)
}

// readerSettings returns the saved preferences, or the defaults without a settings store.
func (s *Server) readerSettings(ctx context.Context) settings.Settings {
	if s.deps.Settings == nil {
		return settings.Defaults(nil)
	}
	prefs, err := s.deps.Settings.Get(ctx)
	if err != nil {
		s.logger.Warn("failed to read settings; using defaults", zap.Error(err))
		return settings.Defaults(nil)
	}
	return prefs
}

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	if s.deps.Settings == nil {
		s.respondError(w, http.StatusNotImplemented, "settings not enabled")
		return
	}
	prefs, err := s.deps.Settings.Get(r.Context())
	if err != nil {
		s.logger.Error("read settings failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, prefs)
}

func (s *Server) handlePutSettings(w http.ResponseWriter, r *http.Request) {
	if s.deps.Settings == nil {
		s.respondError(w, http.StatusNotImplemented, "settings not enabled")
		return
	}
	prefs, err := s.deps.Settings.Get(r.Context())
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	// Fields absent from the body keep their current values.
	if err := json.NewDecoder(r.Body).Decode(&prefs); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	saved, err := s.deps.Settings.Update(r.Context(), prefs)
	if err != nil {
		if errors.Is(err, settings.ErrInvalidDisplayMode) || errors.Is(err, models.ErrUnknownLanguage) {
			s.respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.logger.Error("save settings failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, saved)
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}
