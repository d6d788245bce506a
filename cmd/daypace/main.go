package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/lachiem1/daypace/internal/config"
	"github.com/lachiem1/daypace/internal/dayprogress"
	"github.com/lachiem1/daypace/internal/keystore"
	"github.com/lachiem1/daypace/internal/locale"
	"github.com/lachiem1/daypace/internal/storage"
	"github.com/lachiem1/daypace/internal/tui"
	"golang.org/x/term"
)

const usage = `usage:
  daypace                      run the dashboard
  daypace now [--lang ru|en]   print the day snapshot
  daypace db wipe              delete the local database
  daypace db key set           store a new database key (sqlcipher builds)
  daypace config init [--force] write a settings file with defaults`

func main() {
	args := os.Args[1:]
	if len(args) == 0 {
		if err := runDashboard(); err != nil {
			exitf("daypace error: %v", err)
		}
		return
	}

	switch {
	case args[0] == "now":
		if err := runNow(args[1:], os.Stdout); err != nil {
			exitf("now error: %v", err)
		}
	case len(args) == 2 && args[0] == "db" && args[1] == "wipe":
		if err := runDBWipe(os.Stdout); err != nil {
			exitf("db wipe error: %v", err)
		}
	case len(args) == 3 && args[0] == "db" && args[1] == "key" && args[2] == "set":
		if err := runDBKeySet(os.Stdout); err != nil {
			exitf("db key set error: %v", err)
		}
	case len(args) >= 2 && args[0] == "config" && args[1] == "init":
		if err := runConfigInit(args[2:], os.Stdout); err != nil {
			exitf("config init error: %v", err)
		}
	case args[0] == "help" || args[0] == "-h" || args[0] == "--help":
		fmt.Println(usage)
	default:
		exitf("unknown command %q\n%s", strings.Join(args, " "), usage)
	}
}

func exitf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}

func loadSettings() (config.Settings, config.Env, error) {
	env, err := config.ParseEnv()
	if err != nil {
		return config.Default(), config.Env{}, err
	}
	path, err := env.SettingsPath()
	if err != nil {
		return config.Default(), env, err
	}
	settings, err := config.Load(path)
	if err != nil {
		return config.Default(), env, err
	}
	return env.Apply(settings), env, nil
}

func runDashboard() error {
	settings, env, err := loadSettings()
	if err != nil {
		return err
	}

	if env.LogPath != "" {
		f, err := tea.LogToFile(env.LogPath, "daypace")
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
	} else {
		log.SetOutput(io.Discard)
	}

	ctx := context.Background()
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		lang := storedLanguage(ctx, settings.DefaultLanguage)
		printSnapshot(os.Stdout, time.Now(), locale.For(lang))
		return nil
	}

	db, cfg, err := storage.Open(ctx)
	if err != nil {
		log.Printf("open storage: %v; language will not persist", err)
		db = nil
	} else {
		log.Printf("storage: %s mode at %s", cfg.Mode, cfg.Path)
		defer db.Close()
	}

	p := tea.NewProgram(tui.New(db, settings), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run program: %w", err)
	}
	return nil
}

func runNow(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("now", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	langFlag := fs.String("lang", "", "display language (ru|en)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	settings, _, err := loadSettings()
	if err != nil {
		return err
	}

	var lang locale.Language
	if raw := strings.TrimSpace(*langFlag); raw != "" {
		parsed, ok := locale.ParseLanguage(raw)
		if !ok {
			return fmt.Errorf("unsupported language %q", raw)
		}
		lang = parsed
	} else {
		lang = storedLanguage(context.Background(), settings.DefaultLanguage)
	}

	printSnapshot(out, time.Now(), locale.For(lang))
	return nil
}

// storedLanguage returns the persisted preference, or fallback when storage
// is unavailable or empty.
func storedLanguage(ctx context.Context, fallback locale.Language) locale.Language {
	db, _, err := storage.Open(ctx)
	if err != nil {
		log.Printf("open storage: %v", err)
		return fallback
	}
	defer db.Close()

	lang, ok, err := storage.NewPreferencesRepo(db).LoadLanguage(ctx)
	if err != nil {
		log.Printf("load language preference: %v", err)
		return fallback
	}
	if !ok {
		return fallback
	}
	return lang
}

func printSnapshot(out io.Writer, now time.Time, loc *locale.Locale) {
	snap := dayprogress.Compute(now)
	fmt.Fprintf(out, "%s  %s\n", now.Format("15:04"), loc.FormatDateShort(now))
	fmt.Fprintf(out, "%d%% %s\n", snap.Percent, loc.T("day.passed"))
	fmt.Fprintf(out, "%s: %s\n", loc.T("day.phase"), loc.T("phase."+snap.Phase.String()))
	fmt.Fprintf(out, "%s: %s\n", loc.T("day.left"), loc.FormatDuration(snap.HoursLeft, snap.MinutesOnly))
}

func runDBWipe(out io.Writer) error {
	cfg, existed, err := storage.Wipe()
	if err != nil {
		return err
	}
	if cfg.Mode == storage.ModeSecure {
		if err := keystore.DeleteDBKey(); err != nil {
			return err
		}
	}
	if !existed {
		fmt.Fprintf(out, "no local database at %s\n", cfg.Path)
		return nil
	}
	fmt.Fprintf(out, "local database wiped: %s\n", cfg.Path)
	return nil
}

func runDBKeySet(out io.Writer) error {
	if !storage.SecureModeSupported() {
		return errors.New("database keys need a build with '-tags sqlcipher'")
	}

	fmt.Fprint(out, "Enter database key: ")
	key, err := readSecret()
	if err != nil {
		return err
	}
	fmt.Fprintln(out)

	if strings.TrimSpace(key) == "" {
		return errors.New("empty key")
	}
	if err := keystore.SaveDBKey(key); err != nil {
		return err
	}

	// The old file was encrypted with the previous key.
	cfg, existed, err := storage.Wipe()
	if err != nil {
		return err
	}
	if existed {
		fmt.Fprintf(out, "key saved; previous database removed: %s\n", cfg.Path)
		return nil
	}
	fmt.Fprintln(out, "key saved to your system credential store.")
	return nil
}

func runConfigInit(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("config init", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	force := fs.Bool("force", false, "overwrite an existing settings file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	env, err := config.ParseEnv()
	if err != nil {
		return err
	}
	path, err := env.SettingsPath()
	if err != nil {
		return err
	}
	if _, err := os.Stat(path); err == nil && !*force {
		return fmt.Errorf("settings file already exists: %s (use --force)", path)
	}

	if err := config.Save(path, config.Default()); err != nil {
		return err
	}
	fmt.Fprintf(out, "settings written: %s\n", path)
	return nil
}

func readSecret() (string, error) {
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		value, err := term.ReadPassword(fd)
		if err != nil {
			return "", err
		}
		return string(value), nil
	}

	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		if len(line) == 0 {
			return "", err
		}
	}
	return strings.TrimSpace(line), nil
}
