package app

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sort"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	dateparser "github.com/markusmobius/go-dateparser"
	"github.com/maruel/natural"
	"github.com/pterm/pterm"
	"github.com/urfave/cli/v2"

	"lectern/config"
	"lectern/internal/models"
	"lectern/internal/timeutil"
	"lectern/internal/ui"
	"lectern/library"
	"lectern/notify"
	"lectern/reader"
	"lectern/stats"
	"lectern/store"
)

const (
	envNoColor        = "NO_COLOR"
	envLecternNoColor = "LECTERN_NO_COLOR"
)

var (
	errDocumentRequired = errors.New(
		"a document id or name is required",
	)

	errFolderRequired = errors.New(
		"a folder id or name is required",
	)

	errDocumentNotFound = errors.New(
		"no document matches the given id or name",
	)

	errFolderNotFound = errors.New(
		"no folder matches the given id or name",
	)

	errNotPDF = errors.New(
		"only PDF files can be added to the library",
	)

	errUnknownTheme = errors.New(
		"unknown theme: expected one of day, night, sepia, console, grey",
	)

	errInvalidRange = errors.New(
		"the end of the reporting period precedes its start",
	)
)

// firstNonEmptyString returns its first non-empty argument, or "" if all
// arguments are empty.
func firstNonEmptyString(ss ...string) string {
	for _, s := range ss {
		if s != "" {
			return s
		}
	}

	return ""
}

// initStore loads the configuration and opens the database. The caller
// owns closing the returned client.
func initStore(ctx *cli.Context) (*config.Settings, *store.Client, error) {
	cfg := config.Get(ctx)

	ui.DarkTheme = cfg.DarkTheme

	db, err := store.NewClient(cfg.PathToDB)
	if err != nil {
		return nil, nil, err
	}

	return cfg, db, nil
}

func newTracker(db store.DB, cfg *config.Settings) *stats.Tracker {
	return stats.NewTracker(db, notify.NewDesktop(cfg.Notify), cfg)
}

// currentTheme prefers the persisted reading theme over the configured
// one, falling back when nothing valid has been saved yet.
func currentTheme(db store.DB, cfg *config.Settings) ui.Theme {
	saved, err := db.LoadTheme()
	if err == nil && ui.ValidTheme(saved) {
		return ui.Theme(saved)
	}

	return ui.Theme(cfg.Theme)
}

func findFolder(lib *library.Library, query string) (models.Folder, bool) {
	for _, f := range lib.Folders() {
		if f.ID == query || strings.EqualFold(f.Name, query) {
			return f, true
		}
	}

	return models.Folder{}, false
}

// ensureFolder resolves a folder by name, creating it on first use.
func ensureFolder(lib *library.Library, name string) string {
	if f, ok := findFolder(lib, name); ok {
		return f.ID
	}

	return lib.CreateFolder(name)
}

func formatMinutes(mins float64) string {
	hrs, m := timeutil.MinsToHoursAndMins(timeutil.Round(mins))
	if hrs == 0 {
		return fmt.Sprintf("%d mins", m)
	}

	return fmt.Sprintf("%d hrs %d mins", hrs, m)
}

// readAction opens the terminal reader for a document and times the
// reading session until the reader exits.
func readAction(ctx *cli.Context) error {
	query := ctx.Args().First()
	if query == "" {
		return errDocumentRequired
	}

	cfg, db, err := initStore(ctx)
	if err != nil {
		return err
	}

	defer db.Close()

	lib := library.New(db)

	doc, ok := lib.FindDocument(query)
	if !ok {
		return errDocumentNotFound
	}

	tracker := newTracker(db, cfg)

	m, err := reader.New(lib, tracker, db, doc.ID, currentTheme(db, cfg))
	if err != nil {
		return err
	}

	p := tea.NewProgram(m, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return err
	}

	lib.Flush()

	return nil
}

// addAction adds a single PDF file to the library.
func addAction(ctx *cli.Context) error {
	path := ctx.Args().First()
	if path == "" {
		return errors.New("a file path is required")
	}

	if !strings.EqualFold(filepath.Ext(path), ".pdf") {
		return errNotPDF
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	if _, err := os.Stat(abs); err != nil {
		return err
	}

	_, db, err := initStore(ctx)
	if err != nil {
		return err
	}

	defer db.Close()

	lib := library.New(db)

	var folderID string
	if name := ctx.String("folder"); name != "" {
		folderID = ensureFolder(lib, name)
	}

	id := lib.AddDocument(abs, folderID)

	lib.Flush()

	pterm.Success.Printfln(
		"Added %s to the library (id: %s)",
		ui.Green(filepath.Base(abs)),
		id,
	)

	return nil
}

// importAction imports every PDF file in a directory into a new folder.
func importAction(ctx *cli.Context) error {
	dir := ctx.Args().First()
	if dir == "" {
		return errors.New("a directory path is required")
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return err
	}

	entries, err := os.ReadDir(abs)
	if err != nil {
		return err
	}

	var paths []string

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		paths = append(paths, filepath.Join(abs, entry.Name()))
	}

	_, db, err := initStore(ctx)
	if err != nil {
		return err
	}

	defer db.Close()

	lib := library.New(db)

	name := firstNonEmptyString(ctx.String("folder"), filepath.Base(abs))

	folderID := lib.ImportFolder(paths, name)

	lib.Flush()

	var imported int

	for _, doc := range lib.Documents() {
		if doc.FolderID == folderID {
			imported++
		}
	}

	pterm.Success.Printfln(
		"Imported %d documents into %s",
		imported,
		ui.Green(name),
	)

	return nil
}

// listAction prints the library contents: the folders with their
// expansion state, then a table of documents in natural name order.
func listAction(ctx *cli.Context) error {
	_, db, err := initStore(ctx)
	if err != nil {
		return err
	}

	defer db.Close()

	lib := library.New(db)

	docs := lib.Documents()
	folders := lib.Folders()

	if query := ctx.String("folder"); query != "" {
		f, ok := findFolder(lib, query)
		if !ok {
			return errFolderNotFound
		}

		filtered := docs[:0]

		for _, doc := range docs {
			if doc.FolderID == f.ID {
				filtered = append(filtered, doc)
			}
		}

		docs = filtered
		folders = []models.Folder{f}
	}

	sort.SliceStable(docs, func(i, j int) bool {
		return natural.Less(docs[i].Name, docs[j].Name)
	})

	if ctx.Bool("json") {
		b, err := json.Marshal(docs)
		if err != nil {
			return err
		}

		pterm.Println(string(b))

		return nil
	}

	folderNames := make(map[string]string, len(folders))

	for _, f := range lib.Folders() {
		folderNames[f.ID] = f.Name
	}

	for _, f := range folders {
		marker := "▸"
		if f.IsExpanded {
			marker = "▾"
		}

		var count int

		for _, doc := range lib.Documents() {
			if doc.FolderID == f.ID {
				count++
			}
		}

		pterm.Printfln("%s %s (%d documents)", marker, ui.Cyan(f.Name), count)
	}

	if len(folders) > 0 {
		pterm.Println()
	}

	if len(docs) == 0 {
		pterm.Info.Println("No documents in the library")
		return nil
	}

	data := [][]string{
		{"#", "NAME", "FOLDER", "PAGE", "PROGRESS", "TIME SPENT"},
	}

	for i, doc := range docs {
		data = append(data, []string{
			fmt.Sprintf("%d", i+1),
			doc.Name,
			folderNames[doc.FolderID],
			fmt.Sprintf("%d/%d", doc.CurrentPage, doc.PageCount),
			fmt.Sprintf("%d%%", timeutil.Round(doc.Progress)),
			formatMinutes(doc.TotalTime),
		})
	}

	ui.PrintTable(data, os.Stdout)

	return nil
}

// createFolderAction handles the folder create subcommand.
func createFolderAction(ctx *cli.Context) error {
	name := ctx.Args().First()
	if name == "" {
		return errors.New("a folder name is required")
	}

	_, db, err := initStore(ctx)
	if err != nil {
		return err
	}

	defer db.Close()

	lib := library.New(db)

	id := lib.CreateFolder(name)

	lib.Flush()

	pterm.Success.Printfln("Created folder %s (id: %s)", ui.Green(name), id)

	return nil
}

// renameFolderAction handles the folder rename subcommand.
func renameFolderAction(ctx *cli.Context) error {
	query := ctx.Args().Get(0)
	newName := ctx.Args().Get(1)

	if query == "" || newName == "" {
		return errors.New("a folder and its new name are required")
	}

	_, db, err := initStore(ctx)
	if err != nil {
		return err
	}

	defer db.Close()

	lib := library.New(db)

	f, ok := findFolder(lib, query)
	if !ok {
		return errFolderNotFound
	}

	lib.UpdateFolder(f.ID, library.FolderUpdate{Name: &newName})

	lib.Flush()

	pterm.Success.Printfln(
		"Renamed folder %s to %s",
		ui.Green(f.Name),
		ui.Green(newName),
	)

	return nil
}

// deleteFolderAction handles the folder delete subcommand. The folder's
// documents are kept and left unorganized.
func deleteFolderAction(ctx *cli.Context) error {
	query := ctx.Args().First()
	if query == "" {
		return errFolderRequired
	}

	_, db, err := initStore(ctx)
	if err != nil {
		return err
	}

	defer db.Close()

	lib := library.New(db)

	f, ok := findFolder(lib, query)
	if !ok {
		return errFolderNotFound
	}

	var confirmed bool

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Delete the folder '%s'?", f.Name)).
				Description("Its documents will be kept and left unorganized").
				Affirmative("Delete").
				Negative("Cancel").
				Value(&confirmed),
		),
	)

	if err := form.Run(); err != nil {
		return err
	}

	if !confirmed {
		return nil
	}

	lib.DeleteFolder(f.ID)

	lib.Flush()

	pterm.Success.Printfln("Deleted folder %s", ui.Green(f.Name))

	return nil
}

// reportRange resolves the reporting period from the --start and --end
// flags, defaulting to the last 7 days.
func reportRange(ctx *cli.Context, now time.Time) (start, end time.Time, err error) {
	start = timeutil.RoundToStart(now.AddDate(0, 0, -6))
	end = timeutil.RoundToEnd(now)

	dpCfg := &dateparser.Configuration{CurrentTime: now}

	if s := ctx.String("start"); s != "" {
		parsed, perr := dateparser.Parse(dpCfg, s)
		if perr != nil {
			return start, end, fmt.Errorf("unable to parse start date: %w", perr)
		}

		start = timeutil.RoundToStart(parsed.Time)
	}

	if e := ctx.String("end"); e != "" {
		parsed, perr := dateparser.Parse(dpCfg, e)
		if perr != nil {
			return start, end, fmt.Errorf("unable to parse end date: %w", perr)
		}

		end = timeutil.RoundToEnd(parsed.Time)
	}

	if end.Before(start) {
		return start, end, errInvalidRange
	}

	return start, end, nil
}

// statsAction renders the reading statistics for the specified time
// period.
func statsAction(ctx *cli.Context) error {
	cfg, db, err := initStore(ctx)
	if err != nil {
		return err
	}

	defer db.Close()

	start, end, err := reportRange(ctx, time.Now())
	if err != nil {
		return err
	}

	r := &stats.Report{
		Tracker:   newTracker(db, cfg),
		Documents: library.New(db).Documents(),
		StartTime: start,
		EndTime:   end,
	}

	if ctx.Bool("json") {
		b, err := r.ToJSON()
		if err != nil {
			return err
		}

		fmt.Println(string(b))

		return nil
	}

	r.Render(os.Stdout)

	return nil
}

// goalAction sets the daily reading goal in minutes.
func goalAction(ctx *cli.Context) error {
	arg := ctx.Args().First()
	if arg == "" {
		return errors.New("a goal in minutes is required")
	}

	minutes, err := strconv.Atoi(arg)
	if err != nil {
		return fmt.Errorf("invalid goal %q: expected a number of minutes", arg)
	}

	clamped := config.ClampGoal(minutes)
	if clamped != minutes {
		pterm.Warning.Printfln(
			"Goal adjusted to %d minutes (supported range: %d-%d)",
			clamped,
			config.MinDailyGoal,
			config.MaxDailyGoal,
		)
	}

	cfg, db, err := initStore(ctx)
	if err != nil {
		return err
	}

	defer db.Close()

	newTracker(db, cfg).UpdateDailyGoal(clamped)

	pterm.Success.Printfln("Daily reading goal set to %d minutes", clamped)

	return nil
}

// themeAction sets the reading theme, or cycles to the next one when no
// theme is named.
func themeAction(ctx *cli.Context) error {
	cfg, db, err := initStore(ctx)
	if err != nil {
		return err
	}

	defer db.Close()

	theme := ctx.Args().First()

	if theme != "" && !ui.ValidTheme(theme) {
		return errUnknownTheme
	}

	if theme == "" {
		theme = string(ui.NextTheme(currentTheme(db, cfg)))
	}

	if err := db.SaveTheme(theme); err != nil {
		return err
	}

	pterm.Success.Printfln("Reading theme is now %s", ui.Green(theme))

	return nil
}

func lookupDocument(ctx *cli.Context) (models.Document, *store.Client, error) {
	query := ctx.Args().First()
	if query == "" {
		return models.Document{}, nil, errDocumentRequired
	}

	_, db, err := initStore(ctx)
	if err != nil {
		return models.Document{}, nil, err
	}

	doc, ok := library.New(db).FindDocument(query)
	if !ok {
		db.Close()
		return models.Document{}, nil, errDocumentNotFound
	}

	return doc, db, nil
}

// bookmarksAction lists a document's bookmarks.
func bookmarksAction(ctx *cli.Context) error {
	doc, db, err := lookupDocument(ctx)
	if err != nil {
		return err
	}

	defer db.Close()

	if len(doc.Bookmarks) == 0 {
		pterm.Info.Printfln("No bookmarks in %s", doc.Name)
		return nil
	}

	data := [][]string{
		{"#", "PAGE", "TITLE", "CREATED"},
	}

	for i, b := range doc.Bookmarks {
		data = append(data, []string{
			fmt.Sprintf("%d", i+1),
			fmt.Sprintf("%d", b.PageNumber),
			b.Title,
			b.CreatedAt.Format("Jan 02, 2006 03:04 PM"),
		})
	}

	ui.PrintTable(data, os.Stdout)

	return nil
}

// notesAction lists a document's notes.
func notesAction(ctx *cli.Context) error {
	doc, db, err := lookupDocument(ctx)
	if err != nil {
		return err
	}

	defer db.Close()

	if len(doc.Notes) == 0 {
		pterm.Info.Printfln("No notes in %s", doc.Name)
		return nil
	}

	data := [][]string{
		{"#", "PAGE", "NOTE", "TAG", "CREATED"},
	}

	for i, n := range doc.Notes {
		data = append(data, []string{
			fmt.Sprintf("%d", i+1),
			fmt.Sprintf("%d", n.PageNumber),
			n.Text,
			n.Tag,
			n.CreatedAt.Format("Jan 02, 2006 03:04 PM"),
		})
	}

	ui.PrintTable(data, os.Stdout)

	return nil
}

// highlightsAction lists a document's highlights.
func highlightsAction(ctx *cli.Context) error {
	doc, db, err := lookupDocument(ctx)
	if err != nil {
		return err
	}

	defer db.Close()

	if len(doc.Highlights) == 0 {
		pterm.Info.Printfln("No highlights in %s", doc.Name)
		return nil
	}

	data := [][]string{
		{"#", "PAGE", "TEXT", "COLOR", "CREATED"},
	}

	for i, h := range doc.Highlights {
		data = append(data, []string{
			fmt.Sprintf("%d", i+1),
			fmt.Sprintf("%d", h.PageNumber),
			h.Text,
			h.Color,
			h.CreatedAt.Format("Jan 02, 2006 03:04 PM"),
		})
	}

	ui.PrintTable(data, os.Stdout)

	return nil
}

// editConfigAction handles the edit-config command which opens the
// lectern config file in the user's default text editor.
func editConfigAction(ctx *cli.Context) error {
	defaultEditor := "nano"

	if runtime.GOOS == "windows" {
		defaultEditor = "C:\\Windows\\system32\\notepad.exe"
	}

	editor := firstNonEmptyString(
		os.Getenv("VISUAL"),
		os.Getenv("EDITOR"),
		defaultEditor,
	)

	cfg := config.Get(ctx)

	cmd := exec.Command(editor, cfg.PathToConfig)

	cmd.Stderr = os.Stderr
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout

	return cmd.Run()
}

// defaultAction opens the reader when a document is named, and prints
// the help text otherwise.
func defaultAction(ctx *cli.Context) error {
	if ctx.Args().First() == "" {
		return cli.ShowAppHelp(ctx)
	}

	return readAction(ctx)
}

func beforeAction(ctx *cli.Context) error {
	// Override the default help template
	cli.AppHelpTemplate = helpText()

	pterm.Error.MessageStyle = pterm.NewStyle(pterm.FgRed)
	pterm.Error.Prefix = pterm.Prefix{
		Text:  "ERROR",
		Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack),
	}

	// Disable colour output if NO_COLOR is set
	if _, exists := os.LookupEnv(envNoColor); exists {
		disableStyling()
	}

	// Disable colour output if LECTERN_NO_COLOR is set
	if _, exists := os.LookupEnv(envLecternNoColor); exists {
		disableStyling()
	}

	if ctx.Bool("no-color") {
		disableStyling()
	}

	return nil
}
