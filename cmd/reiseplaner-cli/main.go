// Демонстрационный CLI-клиент Reiseplaner: локальное хранилище на SQLite,
// менеджеры сессии и согласия на cookie поверх него.
//
// Примеры:
//
//	reiseplaner-cli -store ./reiseplaner.db signup user@example.com secret123
//	reiseplaner-cli -store ./reiseplaner.db whoami
//	reiseplaner-cli -store ./reiseplaner.db consent accept
//	reiseplaner-cli -store ./reiseplaner.db consent set analytics=on marketing=off
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/reiseplaner/reiseplaner-sub001/internal/consent"
	"github.com/reiseplaner/reiseplaner-sub001/internal/events"
	"github.com/reiseplaner/reiseplaner-sub001/internal/kvstore"
	"github.com/reiseplaner/reiseplaner-sub001/internal/models"
	"github.com/reiseplaner/reiseplaner-sub001/internal/session"
)

func main() {
	serverURL := flag.String("server", "http://localhost:8080", "адрес сервера Reiseplaner")
	storePath := flag.String("store", "reiseplaner.db", "путь к файлу локального хранилища")
	amqpConn := flag.String("amqp", os.Getenv("AMQP_CONNECTION"), "адрес AMQP для событий аналитики (опционально)")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	if flag.NArg() == 0 {
		usage()
		os.Exit(2)
	}

	store, err := kvstore.OpenSQLite(*storePath)
	if err != nil {
		fatal("failed to open local store: %v", err)
	}
	defer store.Close()

	hooks := analyticsHooks(*amqpConn, logger)

	sessions := session.NewManager(store, *serverURL, logger)
	consents := consent.NewManager(store, logger, hooks...)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := run(ctx, flag.Args(), sessions, consents); err != nil {
		fatal("%v", err)
	}
}

func run(ctx context.Context, args []string, sessions *session.Manager, consents *consent.Manager) error {
	switch args[0] {
	case "signup":
		if len(args) != 3 {
			return fmt.Errorf("usage: signup <email> <password>")
		}
		user, _, err := sessions.SignUpWithEmail(ctx, args[1], args[2])
		if err != nil {
			return err
		}
		fmt.Printf("signed up as %s (%s plan)\n", user.Email, user.SubscriptionStatus)
	case "signin":
		if len(args) != 3 {
			return fmt.Errorf("usage: signin <email> <password>")
		}
		user, _, err := sessions.SignInWithEmail(ctx, args[1], args[2])
		if err != nil {
			return err
		}
		fmt.Printf("signed in as %s (%s plan)\n", user.Email, user.SubscriptionStatus)
	case "demo":
		user, _, err := sessions.SignInWithDemo(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("signed in as demo user %s\n", user.Email)
	case "whoami":
		user, err := sessions.CurrentUser(ctx)
		if err != nil {
			return err
		}
		if user == nil {
			fmt.Println("not signed in")
			return nil
		}
		fmt.Printf("%s (%s plan)\n", user.Email, user.SubscriptionStatus)
	case "signout":
		if err := sessions.SignOut(); err != nil {
			return err
		}
		fmt.Println("signed out")
	case "consent":
		return runConsent(args[1:], consents)
	default:
		usage()
		return fmt.Errorf("unknown command: %s", args[0])
	}
	return nil
}

func runConsent(args []string, consents *consent.Manager) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: consent <accept|reject|show|set>")
	}
	switch args[0] {
	case "accept":
		if err := consents.AcceptAll(); err != nil {
			return err
		}
	case "reject":
		if err := consents.RejectAll(); err != nil {
			return err
		}
	case "set":
		var update consent.Update
		for _, arg := range args[1:] {
			key, value, ok := strings.Cut(arg, "=")
			if !ok {
				return fmt.Errorf("expected category=on|off, got %q", arg)
			}
			enabled := value == "on"
			switch key {
			case "analytics":
				update.Analytics = &enabled
			case "marketing":
				update.Marketing = &enabled
			default:
				return fmt.Errorf("unknown category: %s", key)
			}
		}
		if err := consents.UpdatePreferences(update); err != nil {
			return err
		}
	case "show":
	default:
		return fmt.Errorf("unknown consent command: %s", args[0])
	}

	prefs := consents.Preferences()
	fmt.Printf("necessary: on\nanalytics: %s\nmarketing: %s\nconsented: %v\nbanner visible: %v\n",
		onOff(prefs.Analytics), onOff(prefs.Marketing),
		consents.HasConsented(), consents.BannerVisible())
	return nil
}

// analyticsHooks подключает публикацию событий аналитики в AMQP,
// если адрес задан. Ошибка подключения не мешает работе CLI.
func analyticsHooks(amqpConn string, logger *slog.Logger) []consent.Hook {
	if amqpConn == "" {
		return nil
	}
	conn, err := events.Connect(amqpConn, 3, time.Second)
	if err != nil {
		logger.Warn("amqp unavailable, analytics events disabled", slog.Any("err", err))
		return nil
	}
	ch, err := events.SetupChannel(conn)
	if err != nil {
		logger.Warn("amqp channel setup failed, analytics events disabled", slog.Any("err", err))
		return nil
	}
	publisher := events.NewPublisher(ch)
	return []consent.Hook{
		func(prefs models.ConsentPreferences) error {
			return publisher.PublishConsentChanged(events.ConsentEvent{
				Analytics:   prefs.Analytics,
				Marketing:   prefs.Marketing,
				ConsentedAt: time.Now().UTC(),
			})
		},
	}
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}

func usage() {
	fmt.Fprintln(os.Stderr, `commands:
  signup <email> <password>
  signin <email> <password>
  demo
  whoami
  signout
  consent accept|reject|show
  consent set analytics=on|off marketing=on|off`)
}

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
