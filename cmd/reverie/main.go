// Réverie — a poetic word-combination toy for the terminal.
//
// Usage:
//
//	reverie [-verbose] [-quiet] [-no-audio]
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	stdlog "log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/elodiecarel/reverie/internal/audio"
	"github.com/elodiecarel/reverie/internal/command"
	"github.com/elodiecarel/reverie/internal/config"
	"github.com/elodiecarel/reverie/internal/display"
	"github.com/elodiecarel/reverie/internal/domain"
	"github.com/elodiecarel/reverie/internal/engine"
	"github.com/elodiecarel/reverie/internal/export"
	"github.com/elodiecarel/reverie/internal/history"
	"github.com/elodiecarel/reverie/internal/logger"
	"github.com/elodiecarel/reverie/internal/notify"
	"github.com/elodiecarel/reverie/internal/rating"
	"github.com/elodiecarel/reverie/internal/share"
	"github.com/elodiecarel/reverie/internal/storage"
	"github.com/elodiecarel/reverie/internal/words"
)

func main() {
	_ = godotenv.Load()

	verbose := flag.Bool("verbose", false, "enable verbose/debug logging")
	quiet := flag.Bool("quiet", false, "disable all logging")
	logFile := flag.String("log-file", ".reverie/reverie.log", "file to write logs to (use \"stderr\" to log to console)")
	cfgPath := flag.String("config", "reverie.yml", "path to the YAML config file")
	noAudio := flag.Bool("no-audio", false, "disable the keystroke tick sound")
	dataDir := flag.String("data-dir", "", "override the data directory from the config")
	flag.Parse()

	// Configure logger.
	logLevel := logger.LevelNormal
	if *verbose {
		logLevel = logger.LevelVerbose
	}
	if *quiet {
		logLevel = logger.LevelOff
	}

	// Direct logs to a file by default so the REPL stays clean.
	var logOut io.Writer = os.Stderr
	if *logFile != "" && *logFile != "stderr" {
		dir := filepath.Dir(*logFile)
		if dir != "" && dir != "." {
			os.MkdirAll(dir, 0o755)
		}
		f, err := os.OpenFile(*logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not open log file %s: %v (falling back to stderr)\n", *logFile, err)
		} else {
			logOut = f
			defer f.Close()
		}
	}

	// Redirect Go's default log package to the same output so
	// third-party libs don't spam the terminal.
	stdlog.SetOutput(logOut)
	stdlog.SetFlags(stdlog.Ltime)

	log := logger.New(logLevel, logOut)

	cfg := config.Load(*cfgPath, log)
	if *dataDir != "" {
		cfg.DataDir = *dataDir
	}
	log.Info("config: %s", cfg)

	// Set up context — cancelled when the UI quits.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Persistence. Failure to create the data directory is the only
	// fatal startup error.
	store, err := storage.NewFileStore(cfg.DataDir, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: cannot initialize data directory %s: %v\n", cfg.DataDir, err)
		os.Exit(1)
	}

	hist := history.New(store, log, history.WithCapacity(cfg.HistoryCapacity))
	hist.Load(ctx)

	set := words.NewSet(words.Vocabulary, log)
	ui := display.NewUI()

	// Notification center: one explicit instance owned here, passed by
	// reference to whoever needs it.
	notices := notify.New(log,
		notify.WithDismissAfter(cfg.NoticeDismiss()),
		notify.WithOnChange(func(n *notify.Notice) {
			if n == nil {
				ui.ClearNotice()
				return
			}
			ui.ShowNotice(n.Message, n.Kind)
		}),
	)
	notices.Start(ctx)
	defer notices.Stop()

	// Audio: fall back to the silent player when the device is
	// unavailable or audio is disabled.
	var tick domain.TickPlayer = audio.NewNoop(log)
	if !*noAudio {
		player, err := audio.NewPlayer(log)
		if err != nil {
			log.Warn("audio device unavailable, ticks disabled: %v", err)
		} else {
			tick = player
		}
	}

	// Engine and rating gate. The gate queries the engine through
	// read-only funcs; the engine pushes open/close through callbacks
	// registered at construction.
	var (
		gate *rating.Gate
		app  *cliApp
	)
	eng := engine.New(set, log,
		engine.WithRevealInterval(cfg.RevealInterval()),
		engine.WithRetryAttempts(cfg.RetryAttempts),
		engine.WithRecentWindow(cfg.RecentWindow),
		engine.WithTickPlayer(tick),
		engine.WithTickVolume(cfg.TickVolume),
		engine.WithOnReveal(ui.ShowReveal),
		engine.WithOnGenerate(func() {
			gate.Close()
		}),
		engine.WithOnReady(func() {
			gate.Open()
			notices.Show("Notez cette combinaison de 1 à 10, puis tapez 'submit'.", domain.NoticeInfo)
			app.refreshStatus()
		}),
	)
	gate = rating.New(eng.Ready, eng.Current, hist, log)

	parser := command.NewParser(log)

	app = &cliApp{
		engine:  eng,
		gate:    gate,
		words:   set,
		history: hist,
		parser:  parser,
		notices: notices,
		ui:      ui,
		log:     log,
		dataDir: cfg.DataDir,
	}

	hist.Subscribe(app.refreshStatus)

	fmt.Println(display.RenderBanner())
	fmt.Println(display.BannerStyle.Render("  Tapez 'generate' pour une combinaison, 'help' pour les commandes."))
	fmt.Println()

	// Run app logic in a background goroutine.
	go func() {
		ui.WaitReady()
		app.run(ctx)
		ui.Quit()
	}()

	// Bubble Tea owns the terminal — blocks until quit.
	if err := ui.Run(); err != nil {
		log.Error("display: %v", err)
	}
	cancel()
	eng.Reset()
}

type cliApp struct {
	engine  *engine.Engine
	gate    *rating.Gate
	words   *words.Set
	history *history.Store
	parser  *command.Parser
	notices *notify.Center
	ui      *display.UI
	log     *logger.Logger
	dataDir string

	pendingClear bool
}

func (a *cliApp) run(ctx context.Context) {
	a.refreshStatus()

	for {
		var input string
		var ok bool

		select {
		case <-ctx.Done():
			return
		case input, ok = <-a.ui.InputChan():
			if !ok {
				return
			}
		}

		cmd := a.parser.Parse(input)

		// A pending history reset is aborted by anything except the
		// confirmation itself.
		if a.pendingClear && cmd.Type != command.Confirm {
			a.pendingClear = false
			a.ui.PrintHint("Effacement annulé.")
		}

		if done := a.handle(ctx, cmd); done {
			return
		}
		a.refreshStatus()
	}
}

// handle dispatches one parsed command. Returns true on quit.
func (a *cliApp) handle(ctx context.Context, cmd command.Command) bool {
	switch cmd.Type {
	case command.Help:
		a.showHelp()
	case command.Quit:
		return true
	case command.Generate:
		a.generate(ctx, cmd.Payload != "")
	case command.ListWords:
		a.showWords(cmd.Payload)
	case command.Toggle:
		a.toggle(cmd.Payload)
	case command.SelectAll:
		a.words.SelectAll()
		a.notices.Show("Tous les mots sont sélectionnés.", domain.NoticeInfo)
	case command.ResetWords:
		a.words.Reset()
		a.engine.Reset()
		a.gate.Close()
		a.ui.ShowReveal("")
		a.notices.Show("Sélection réinitialisée.", domain.NoticeInfo)
	case command.Count:
		a.setCount(cmd.Payload)
	case command.Rate:
		a.rate(cmd.Payload)
	case command.Submit:
		a.submit(ctx)
	case command.History:
		a.showHistory()
	case command.Stats:
		a.showStats()
	case command.Sort:
		a.history.SortByScore(ctx, cmd.Payload == "asc")
		a.ui.PrintHint("Historique trié (" + cmd.Payload + ").")
	case command.Mix:
		a.history.Shuffle(ctx)
		a.ui.PrintHint("Historique mélangé.")
	case command.Clear:
		a.pendingClear = true
		a.notices.Show("Effacer tout l'historique ? Tapez 'yes' pour confirmer.", domain.NoticeWarning)
	case command.Confirm:
		a.confirmClear(ctx)
	case command.Export:
		a.export(cmd.Payload)
	case command.Share:
		a.share(cmd.Payload)
	case command.Copy:
		a.copyMessage()
	default:
		a.notices.Show("Commande inconnue. Tapez 'help' pour la liste.", domain.NoticeWarning)
	}
	return false
}

// ── Generation and rating ────────────────────────────────────────

func (a *cliApp) generate(ctx context.Context, onlySelected bool) {
	err := a.engine.Generate(ctx, onlySelected)
	switch {
	case errors.Is(err, domain.ErrBusy):
		a.notices.Show("Une combinaison est déjà en train de s'écrire.", domain.NoticeWarning)
	case errors.Is(err, domain.ErrNoCandidates):
		a.notices.Show("Aucun mot disponible. Sélectionnez-en au moins un.", domain.NoticeWarning)
	case err != nil:
		a.log.Error("generate: %v", err)
		a.notices.Show("La génération a échoué.", domain.NoticeError)
	}
}

func (a *cliApp) rate(payload string) {
	score, err := strconv.Atoi(payload)
	if err != nil {
		a.notices.Show("Note invalide.", domain.NoticeWarning)
		return
	}
	switch err := a.gate.Select(score); {
	case errors.Is(err, domain.ErrGateClosed):
		a.notices.Show("Attendez la fin de l'écriture avant de noter.", domain.NoticeWarning)
	case errors.Is(err, domain.ErrScoreRange):
		a.notices.Show(fmt.Sprintf("La note doit être entre %d et %d.", domain.ScoreMin, domain.ScoreMax), domain.NoticeWarning)
	case err == nil:
		a.ui.PrintHint(fmt.Sprintf("Note %d/10 sélectionnée — tapez 'submit' pour valider.", score))
	}
}

func (a *cliApp) submit(ctx context.Context) {
	entry, err := a.gate.Submit(ctx)
	switch {
	case errors.Is(err, domain.ErrNotReady):
		a.notices.Show("Générez d'abord une combinaison complète.", domain.NoticeWarning)
	case errors.Is(err, domain.ErrGateClosed):
		a.notices.Show("Cette combinaison a déjà été notée.", domain.NoticeWarning)
	case errors.Is(err, domain.ErrNoScore):
		a.notices.Show("Choisissez une note avant de valider (ex: 'rate 8').", domain.NoticeWarning)
	case err != nil:
		a.log.Error("submit: %v", err)
		a.notices.Show("La note n'a pas pu être enregistrée.", domain.NoticeError)
	default:
		a.ui.PrintPoem(entry.Text)
		a.ui.PrintHint(fmt.Sprintf("enregistrée avec la note %d/10", entry.Score))
		a.notices.Show(rating.Feedback(entry.Score), domain.NoticeSuccess)
	}
}

// ── Word selection ───────────────────────────────────────────────

func (a *cliApp) toggle(word string) {
	switch err := a.words.Toggle(word); {
	case errors.Is(err, domain.ErrUnknownWord):
		a.notices.Show(fmt.Sprintf("Mot inconnu : %q.", word), domain.NoticeWarning)
	case errors.Is(err, domain.ErrLastWord):
		a.notices.Show("Impossible : il faut garder au moins un mot.", domain.NoticeWarning)
	case err == nil:
		state := "retiré"
		if a.words.IsSelected(word) {
			state = "ajouté"
		}
		a.ui.PrintHint(fmt.Sprintf("%q %s.", word, state))
	}
}

func (a *cliApp) showWords(ordName string) {
	ords := words.Ordinations()
	ord := ords[0]
	if ordName != "" {
		found := false
		for _, o := range ords {
			if strings.EqualFold(o.Name, ordName) {
				ord = o
				found = true
				break
			}
		}
		if !found {
			names := make([]string, len(ords))
			for i, o := range ords {
				names[i] = o.Name
			}
			a.notices.Show("Ordination inconnue. Disponibles : "+strings.Join(names, ", ")+".", domain.NoticeWarning)
			return
		}
	}

	a.ui.PrintHeader(fmt.Sprintf("Mots (%d/%d sélectionnés, ordre %s)", a.words.SelectedCount(), a.words.Size(), ord.Name))
	for _, group := range ord.Groups {
		var parts []string
		for _, w := range group {
			if a.words.IsSelected(w) {
				parts = append(parts, "[x] "+w)
			} else {
				parts = append(parts, "[ ] "+w)
			}
		}
		a.ui.PrintLine(strings.Join(parts, "  "))
	}
	a.ui.PrintHint("toggle <mot> pour changer la sélection, 'generate selected' pour n'utiliser que ces mots")
}

func (a *cliApp) setCount(payload string) {
	var rule domain.CountRule
	switch payload {
	case "max":
		rule = domain.CountRule{Mode: domain.CountMax}
	case "surprise":
		rule = domain.CountRule{Mode: domain.CountSurprise}
	default:
		n, err := strconv.Atoi(payload)
		if err != nil || n < 1 {
			a.notices.Show("Usage : count <n> | max | surprise.", domain.NoticeWarning)
			return
		}
		rule = domain.CountRule{Mode: domain.CountFixed, Fixed: n}
	}
	if err := a.engine.SetCountRule(rule); err != nil {
		a.notices.Show("Usage : count <n> | max | surprise.", domain.NoticeWarning)
		return
	}
	a.ui.PrintHint("Mode de longueur : " + countLabel(rule) + ".")
}

// ── History ──────────────────────────────────────────────────────

func (a *cliApp) showHistory() {
	entries := a.history.Entries()
	if len(entries) == 0 {
		a.notices.Show("L'historique est vide.", domain.NoticeInfo)
		return
	}
	a.ui.PrintHeader(fmt.Sprintf("Historique (%d)", len(entries)))
	for i, e := range entries {
		a.ui.PrintLine(fmt.Sprintf("%3d. %s — %d/10 (%s)", i+1, e.Text, e.Score, e.CreatedAt.Format("02/01 15:04")))
	}
}

func (a *cliApp) showStats() {
	stats := a.history.Statistics()
	if stats.Empty() {
		a.notices.Show("Aucune combinaison notée pour l'instant.", domain.NoticeInfo)
		return
	}
	a.ui.PrintHeader("Statistiques")
	a.ui.PrintLine(fmt.Sprintf("Combinaisons notées : %d", stats.Count))
	a.ui.PrintLine(fmt.Sprintf("Note moyenne        : %s", stats.AverageLabel()))
	a.ui.PrintLine(fmt.Sprintf("Note maximale       : %d", stats.Max))
	a.ui.PrintLine(fmt.Sprintf("Note minimale       : %d", stats.Min))
}

func (a *cliApp) confirmClear(ctx context.Context) {
	if !a.pendingClear {
		a.notices.Show("Rien à confirmer.", domain.NoticeInfo)
		return
	}
	a.pendingClear = false
	a.history.Clear(ctx)
	a.notices.Show("Historique effacé.", domain.NoticeSuccess)
}

// ── Export and share ─────────────────────────────────────────────

func (a *cliApp) export(format string) {
	entries := a.history.Entries()
	stats := a.history.Statistics()

	var (
		data []byte
		ext  string
		err  error
	)
	switch format {
	case "text", "txt":
		data = []byte(export.Text(entries, stats))
		ext = "txt"
	case "pdf":
		data, err = export.PDF(entries, stats)
		ext = "pdf"
	case "image", "png":
		text, score, ok := a.shareable()
		if !ok {
			a.notices.Show("Rien à mettre en image : générez ou notez d'abord.", domain.NoticeWarning)
			return
		}
		data, err = export.Card(text, score)
		ext = "png"
	}
	if err != nil {
		a.log.Error("export %s: %v", format, err)
		a.notices.Show("L'export a échoué.", domain.NoticeError)
		return
	}

	dir := filepath.Join(a.dataDir, "exports")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		a.log.Error("export dir: %v", err)
		a.notices.Show("L'export a échoué.", domain.NoticeError)
		return
	}
	path := filepath.Join(dir, fmt.Sprintf("reverie-%s.%s", time.Now().Format("20060102-150405"), ext))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		a.log.Error("export write: %v", err)
		a.notices.Show("L'export a échoué.", domain.NoticeError)
		return
	}

	a.ui.PrintHint("Export écrit : " + path)
	a.notices.Show("Export terminé.", domain.NoticeSuccess)
}

func (a *cliApp) share(platformName string) {
	platform, ok := share.ParsePlatform(platformName)
	if !ok {
		a.notices.Show("Plateforme inconnue : twitter, whatsapp, facebook ou email.", domain.NoticeWarning)
		return
	}

	text, score, found := a.shareable()
	if !found {
		a.notices.Show("Rien à partager : générez d'abord une combinaison.", domain.NoticeWarning)
		return
	}

	link := share.URL(platform, text, score)
	a.ui.PrintHeader("Partage " + platform.String())
	a.ui.PrintLine(link)

	// Clipboard is best-effort: without one, the printed link is the
	// fallback path.
	if err := share.Copy(link); err != nil {
		a.log.Warn("clipboard: %v", err)
		a.ui.PrintHint("(copie impossible — copiez le lien ci-dessus à la main)")
		return
	}
	a.notices.Show("Lien copié dans le presse-papiers.", domain.NoticeSuccess)
}

func (a *cliApp) copyMessage() {
	text, score, found := a.shareable()
	if !found {
		a.notices.Show("Rien à copier : générez d'abord une combinaison.", domain.NoticeWarning)
		return
	}
	msg := share.Message(text, score)
	if err := share.Copy(msg); err != nil {
		a.log.Warn("clipboard: %v", err)
		a.ui.PrintLine(msg)
		a.ui.PrintHint("(copie impossible — copiez le texte ci-dessus à la main)")
		return
	}
	a.notices.Show("Texte copié dans le presse-papiers.", domain.NoticeSuccess)
}

// shareable picks what to share: the current finished combination
// first, else the most recent history entry. Score 0 means unrated.
func (a *cliApp) shareable() (text string, score int, ok bool) {
	if a.engine.Ready() {
		return a.engine.Current(), a.gate.Selected(), true
	}
	entries := a.history.Entries()
	if len(entries) > 0 {
		last := entries[len(entries)-1]
		return last.Text, last.Score, true
	}
	return "", 0, false
}

// ── Misc ─────────────────────────────────────────────────────────

func (a *cliApp) refreshStatus() {
	a.ui.SetStatus(display.Status{
		SelectedWords: a.words.SelectedCount(),
		TotalWords:    a.words.Size(),
		CountLabel:    countLabel(a.engine.CountRule()),
		Phase:         phaseLabel(a.engine.Phase()),
		Stats:         a.history.Statistics(),
	})
}

func countLabel(rule domain.CountRule) string {
	switch rule.Mode {
	case domain.CountFixed:
		return fmt.Sprintf("%d mots", rule.Fixed)
	case domain.CountMax:
		return "maximum"
	default:
		return "surprise"
	}
}

func phaseLabel(p domain.Phase) string {
	switch p {
	case domain.PhaseGenerating, domain.PhaseRevealing:
		return "écriture…"
	case domain.PhaseReady:
		return "prête"
	default:
		return "en attente"
	}
}

func (a *cliApp) showHelp() {
	a.ui.PrintHeader("Commandes")
	for _, line := range []string{
		"generate [selected]   nouvelle combinaison (selected = mots cochés uniquement)",
		"count <n>|max|surprise  longueur des combinaisons",
		"words [ordination]    afficher le vocabulaire (canonique, alphabétique, grammaticale)",
		"toggle <mot>          cocher/décocher un mot",
		"all / reset           tout sélectionner / réinitialiser",
		"rate <1-10>, submit   noter la combinaison puis valider",
		"history, stats        consulter l'historique et les statistiques",
		"sort asc|desc, mix    réordonner l'historique",
		"clear                 effacer l'historique (confirmation demandée)",
		"export text|pdf|image exporter l'historique ou la combinaison",
		"share <plateforme>    lien de partage (twitter, whatsapp, facebook, email)",
		"copy                  copier le texte de partage",
		"quit                  quitter",
	} {
		a.ui.PrintLine(line)
	}
}
